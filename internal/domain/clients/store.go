package clients

import (
	"context"

	"amicus-backend/internal/domain/herds"
	"amicus-backend/internal/domain/memberships"
	"amicus-backend/internal/domain/organizations"
	"amicus-backend/internal/domain/users"
)

// Tx expone los repositorios ligados a una misma transacción.
type Tx interface {
	Users() users.Repository
	Organizations() organizations.Repository
	Memberships() memberships.Repository
	Herds() herds.Repository
}

// Store abre una transacción, ejecuta fn y hace commit si fn devuelve nil.
// Cualquier error (o panic) dentro de fn termina en rollback: ninguna fila
// escrita dentro de fn sobrevive a un fallo.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}
