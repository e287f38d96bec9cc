package organizations

import (
	"context"

	"amicus-backend/internal/domain/memberships"
	"amicus-backend/internal/domain/tenancy"
)

type Repository interface {
	// CreateWithOwner inserta la organización y la membresía OWNER del creador
	// en una sola transacción.
	CreateWithOwner(ctx context.Context, o Organization, owner memberships.Membership) error
	Create(ctx context.Context, o Organization) error
	GetByID(ctx context.Context, id string) (Organization, error)
	ListByIDs(ctx context.Context, ids []string) ([]Organization, error)
	Update(ctx context.Context, o Organization) error
	SetStatus(ctx context.Context, id string, status tenancy.Status) error
}
