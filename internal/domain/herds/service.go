package herds

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"amicus-backend/internal/domain/tenancy"

	"github.com/google/uuid"
)

// Authorizer lo implementa access.Resolver.
type Authorizer interface {
	VisibleHerdOwners(ctx context.Context, userID string) ([]tenancy.Owner, error)
	CanAccessHerd(ctx context.Context, userID string, owner tenancy.Owner) error
	CanCreateHerd(ctx context.Context, userID string, owner tenancy.Owner) error
}

type Service struct {
	repo  Repository
	authz Authorizer
	now   func() time.Time
}

func NewService(repo Repository, authz Authorizer) *Service {
	return &Service{repo: repo, authz: authz, now: time.Now}
}

type CreateInput struct {
	HerdID    string
	OwnerType string
	OwnerID   string
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Herd, error) {
	if strings.TrimSpace(userID) == "" {
		return Herd{}, tenancy.ErrUnauthenticated
	}
	herdID := strings.TrimSpace(in.HerdID)
	if herdID == "" {
		return Herd{}, fmt.Errorf("%w: herd_id required", tenancy.ErrInvalidInput)
	}
	owner, err := tenancy.ParseOwner(in.OwnerType, in.OwnerID)
	if err != nil {
		return Herd{}, err
	}
	if err := s.authz.CanCreateHerd(ctx, userID, owner); err != nil {
		return Herd{}, err
	}
	if err := s.ensureHerdIDFree(ctx, herdID); err != nil {
		return Herd{}, err
	}

	now := s.now()
	h := Herd{
		ID:        uuid.NewString(),
		HerdID:    herdID,
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return Herd{}, err
	}
	return h, nil
}

// List devuelve los rebaños del usuario y de sus organizaciones.
func (s *Service) List(ctx context.Context, userID string) ([]Herd, error) {
	owners, err := s.authz.VisibleHerdOwners(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByOwners(ctx, owners)
}

func (s *Service) Get(ctx context.Context, userID, id string) (Herd, error) {
	return s.loadAccessible(ctx, userID, id)
}

// UpdateInput: nil = no tocar. OwnerType/OwnerID van juntos.
type UpdateInput struct {
	HerdID    *string
	OwnerType *string
	OwnerID   *string
}

// Update permite cambiar herd_id y dueño. Un dueño nuevo se autoriza con el
// mismo predicado que la creación.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Herd, error) {
	h, err := s.loadAccessible(ctx, userID, id)
	if err != nil {
		return Herd{}, err
	}

	if in.HerdID != nil {
		herdID := strings.TrimSpace(*in.HerdID)
		if herdID == "" {
			return Herd{}, fmt.Errorf("%w: herd_id cannot be empty", tenancy.ErrInvalidInput)
		}
		if herdID != h.HerdID {
			if err := s.ensureHerdIDFree(ctx, herdID); err != nil {
				return Herd{}, err
			}
			h.HerdID = herdID
		}
	}

	if in.OwnerType != nil || in.OwnerID != nil {
		if in.OwnerType == nil || in.OwnerID == nil {
			return Herd{}, fmt.Errorf("%w: owner_type and owner_id must be sent together", tenancy.ErrInvalidInput)
		}
		owner, err := tenancy.ParseOwner(*in.OwnerType, *in.OwnerID)
		if err != nil {
			return Herd{}, err
		}
		if owner != h.Owner {
			if err := s.authz.CanCreateHerd(ctx, userID, owner); err != nil {
				return Herd{}, err
			}
			h.Owner = owner
		}
	}

	h.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, h); err != nil {
		return Herd{}, err
	}
	return h, nil
}

// Delete es físico.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	h, err := s.loadAccessible(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, h.ID)
}

func (s *Service) loadAccessible(ctx context.Context, userID, id string) (Herd, error) {
	if strings.TrimSpace(userID) == "" {
		return Herd{}, tenancy.ErrUnauthenticated
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Herd{}, fmt.Errorf("%w: herd id required", tenancy.ErrInvalidInput)
	}
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, tenancy.ErrNotFound) {
			return Herd{}, fmt.Errorf("herd %s: %w", id, tenancy.ErrNotFound)
		}
		return Herd{}, err
	}
	if err := s.authz.CanAccessHerd(ctx, userID, h.Owner); err != nil {
		return Herd{}, err
	}
	return h, nil
}

// ensureHerdIDFree da el mensaje de conflicto limpio; la garantía real es
// el índice único del storage (Create/Update devuelven ErrConflict igual).
func (s *Service) ensureHerdIDFree(ctx context.Context, herdID string) error {
	exists, err := s.repo.ExistsByHerdID(ctx, herdID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: herd_id %q already exists", tenancy.ErrConflict, herdID)
	}
	return nil
}
