package users

import (
	"context"

	"amicus-backend/internal/domain/tenancy"
)

type Repository interface {
	// Create devuelve tenancy.ErrConflict si el email ya está registrado.
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, u User) error
	SetStatus(ctx context.Context, id string, status tenancy.Status) error
	// SearchInOrganizations busca usuarios distintos con membresía en orgIDs
	// cuyo nombre, apellido o ciudad contenga term (case-insensitive).
	SearchInOrganizations(ctx context.Context, orgIDs []string, term string, limit int) ([]User, error)
}
