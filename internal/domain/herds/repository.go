package herds

import (
	"context"

	"amicus-backend/internal/domain/tenancy"
)

type Repository interface {
	// Create devuelve tenancy.ErrConflict si HerdID ya existe (constraint de storage).
	Create(ctx context.Context, h Herd) error
	GetByID(ctx context.Context, id string) (Herd, error)
	ExistsByHerdID(ctx context.Context, herdID string) (bool, error)
	ListByOwners(ctx context.Context, owners []tenancy.Owner) ([]Herd, error)
	Update(ctx context.Context, h Herd) error
	Delete(ctx context.Context, id string) error
}
