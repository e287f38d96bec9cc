package memberships

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"amicus-backend/internal/domain/tenancy"

	"github.com/google/uuid"
)

// Guard lo implementa access.Resolver. Se define acá para no importar access
// (access depende de este paquete).
type Guard interface {
	RequireOrganizationOwner(ctx context.Context, userID, orgID string) error
	RequireOrganizationMember(ctx context.Context, userID, orgID string) error
}

// UserExistsFunc confirma que el usuario a agregar existe.
type UserExistsFunc func(ctx context.Context, userID string) (bool, error)

type Service struct {
	repo       Repository
	dir        *Directory
	guard      Guard
	userExists UserExistsFunc
	now        func() time.Time
}

func NewService(repo Repository, dir *Directory, guard Guard, userExists UserExistsFunc) *Service {
	return &Service{
		repo:       repo,
		dir:        dir,
		guard:      guard,
		userExists: userExists,
		now:        time.Now,
	}
}

type CreateInput struct {
	OrganizationID string
	UserID         string
	Role           string
}

// Create agrega un miembro. Solo un OWNER de la organización puede hacerlo.
func (s *Service) Create(ctx context.Context, requesterID string, in CreateInput) (Membership, error) {
	orgID := strings.TrimSpace(in.OrganizationID)
	userID := strings.TrimSpace(in.UserID)
	if orgID == "" || userID == "" {
		return Membership{}, fmt.Errorf("%w: organization_id and user_id required", tenancy.ErrInvalidInput)
	}
	role, err := tenancy.ParseMembershipRole(in.Role)
	if err != nil {
		return Membership{}, err
	}

	if err := s.guard.RequireOrganizationOwner(ctx, requesterID, orgID); err != nil {
		return Membership{}, err
	}

	if s.userExists != nil {
		ok, err := s.userExists(ctx, userID)
		if err != nil {
			return Membership{}, err
		}
		if !ok {
			return Membership{}, fmt.Errorf("%w: user %s", tenancy.ErrNotFound, userID)
		}
	}

	now := s.now()
	m := Membership{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Membership{}, err
	}
	return m, nil
}

// List devuelve todas las relaciones de las organizaciones a las que pertenece requesterID.
func (s *Service) List(ctx context.Context, requesterID string) ([]Membership, error) {
	mine, err := s.dir.MembershipsOf(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	orgIDs := OrganizationIDs(mine)
	if len(orgIDs) == 0 {
		return []Membership{}, nil
	}
	return s.repo.ListByOrganizations(ctx, orgIDs)
}

func (s *Service) Get(ctx context.Context, requesterID, id string) (Membership, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return Membership{}, err
	}
	if err := s.guard.RequireOrganizationMember(ctx, requesterID, m.OrganizationID); err != nil {
		return Membership{}, err
	}
	return m, nil
}

// UpdateRole cambia el rol de una relación. Solo OWNER de la misma organización.
func (s *Service) UpdateRole(ctx context.Context, requesterID, id, rawRole string) (Membership, error) {
	role, err := tenancy.ParseMembershipRole(rawRole)
	if err != nil {
		return Membership{}, err
	}
	m, err := s.load(ctx, id)
	if err != nil {
		return Membership{}, err
	}
	if err := s.guard.RequireOrganizationOwner(ctx, requesterID, m.OrganizationID); err != nil {
		return Membership{}, err
	}
	return s.repo.UpdateRole(ctx, m.ID, role)
}

// Delete elimina la relación (p.ej. despedir a un empleado). Solo OWNER.
func (s *Service) Delete(ctx context.Context, requesterID, id string) error {
	m, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.RequireOrganizationOwner(ctx, requesterID, m.OrganizationID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, m.ID)
}

func (s *Service) load(ctx context.Context, id string) (Membership, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Membership{}, fmt.Errorf("%w: membership id required", tenancy.ErrInvalidInput)
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, tenancy.ErrNotFound) {
			return Membership{}, fmt.Errorf("membership %s: %w", id, tenancy.ErrNotFound)
		}
		return Membership{}, err
	}
	return m, nil
}
