package herds

import (
	"time"

	"amicus-backend/internal/domain/tenancy"
)

// Herd es un rebaño identificado por HerdID (clave de negocio, única global).
// Se borra físicamente; no tiene soft-delete.
type Herd struct {
	ID     string
	HerdID string
	Owner  tenancy.Owner

	CreatedAt time.Time
	UpdatedAt time.Time
}
