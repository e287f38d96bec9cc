package memberships

import (
	"context"

	"amicus-backend/internal/domain/tenancy"
)

type Repository interface {
	Create(ctx context.Context, m Membership) error
	GetByID(ctx context.Context, id string) (Membership, error)
	ListByUser(ctx context.Context, userID string) ([]Membership, error)
	ListByOrganizations(ctx context.Context, orgIDs []string) ([]Membership, error)
	UpdateRole(ctx context.Context, id string, role tenancy.Role) (Membership, error)
	Delete(ctx context.Context, id string) error
}
