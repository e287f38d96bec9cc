package organizations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"amicus-backend/internal/domain/access"
	"amicus-backend/internal/domain/memberships"
	"amicus-backend/internal/domain/tenancy"

	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	resolver *access.Resolver
	now      func() time.Time
}

func NewService(repo Repository, resolver *access.Resolver) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		now:      time.Now,
	}
}

type CreateInput struct {
	Name        string
	Street      string
	HouseNumber string
	City        string
	PostalCode  string
	TaxID       string
}

// Create da de alta la organización y deja al creador como OWNER (atómico).
func (s *Service) Create(ctx context.Context, creatorID string, in CreateInput) (Organization, error) {
	creatorID = strings.TrimSpace(creatorID)
	if creatorID == "" {
		return Organization{}, tenancy.ErrUnauthenticated
	}
	if strings.TrimSpace(in.Name) == "" {
		return Organization{}, fmt.Errorf("%w: name required", tenancy.ErrInvalidInput)
	}

	now := s.now()
	o := Organization{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Street:      strings.TrimSpace(in.Street),
		HouseNumber: strings.TrimSpace(in.HouseNumber),
		City:        strings.TrimSpace(in.City),
		PostalCode:  strings.TrimSpace(in.PostalCode),
		TaxID:       strings.TrimSpace(in.TaxID),
		Status:      tenancy.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	owner := memberships.Membership{
		ID:             uuid.NewString(),
		OrganizationID: o.ID,
		UserID:         creatorID,
		Role:           tenancy.RoleOwner,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateWithOwner(ctx, o, owner); err != nil {
		return Organization{}, err
	}
	return o, nil
}

// List devuelve solo organizaciones activas donde userID es miembro.
func (s *Service) List(ctx context.Context, userID string) ([]Organization, error) {
	ids, err := s.resolver.VisibleOrganizationIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Organization{}, nil
	}
	return s.repo.ListByIDs(ctx, ids)
}

func (s *Service) Get(ctx context.Context, userID, id string) (Organization, error) {
	if err := s.resolver.CanActOnOrganization(ctx, userID, id); err != nil {
		return Organization{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	Name        *string
	Street      *string
	HouseNumber *string
	City        *string
	PostalCode  *string
	TaxID       *string
}

// Update: cualquier miembro de la organización puede editar sus datos.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Organization, error) {
	if err := s.resolver.CanActOnOrganization(ctx, userID, id); err != nil {
		return Organization{}, err
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Organization{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Organization{}, fmt.Errorf("%w: name cannot be empty", tenancy.ErrInvalidInput)
		}
		o.Name = name
	}
	setTrimmed(&o.Street, in.Street)
	setTrimmed(&o.HouseNumber, in.HouseNumber)
	setTrimmed(&o.City, in.City)
	setTrimmed(&o.PostalCode, in.PostalCode)
	setTrimmed(&o.TaxID, in.TaxID)
	o.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, o); err != nil {
		return Organization{}, err
	}
	return o, nil
}

// Delete es soft delete: Status=Inactive.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.resolver.CanActOnOrganization(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.SetStatus(ctx, id, tenancy.StatusInactive)
}

// StatusOf alimenta access.OrganizationStatusFunc.
func StatusOf(repo Repository) access.OrganizationStatusFunc {
	return func(ctx context.Context, orgID string) (tenancy.Status, error) {
		o, err := repo.GetByID(ctx, orgID)
		if err != nil {
			if errors.Is(err, tenancy.ErrNotFound) {
				return "", fmt.Errorf("organization %s: %w", orgID, tenancy.ErrNotFound)
			}
			return "", err
		}
		return o.Status, nil
	}
}

func setTrimmed(dst *string, v *string) {
	if v == nil {
		return
	}
	*dst = strings.TrimSpace(*v)
}
