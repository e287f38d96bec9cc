package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"amicus-backend/internal/domain/access"
	"amicus-backend/internal/domain/memberships"
	"amicus-backend/internal/domain/tenancy"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100
)

type Service struct {
	repo      Repository
	dir       access.Directory
	resolver  *access.Resolver
	evaluator *access.Evaluator
	now       func() time.Time
}

func NewService(repo Repository, dir access.Directory, resolver *access.Resolver, evaluator *access.Evaluator) *Service {
	return &Service{
		repo:      repo,
		dir:       dir,
		resolver:  resolver,
		evaluator: evaluator,
		now:       time.Now,
	}
}

// Get: 404 si el usuario no existe, 403 si existe pero no es visible.
func (s *Service) Get(ctx context.Context, requesterID, id string) (User, error) {
	u, err := s.load(ctx, requesterID, id)
	if err != nil {
		return User{}, err
	}
	if err := s.resolver.CanViewUser(ctx, requesterID, u.ID); err != nil {
		return User{}, err
	}
	return u, nil
}

// Search busca por nombre, apellido o ciudad entre los usuarios que comparten
// alguna organización con requesterID. Sin membresías solo puede encontrarse
// a sí mismo.
func (s *Service) Search(ctx context.Context, requesterID, term string, limit int) ([]User, error) {
	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return nil, tenancy.ErrUnauthenticated
	}
	term = strings.TrimSpace(term)
	limit = clampLimit(limit)

	mine, err := s.dir.MembershipsOf(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	orgIDs := memberships.OrganizationIDs(mine)
	if len(orgIDs) == 0 {
		self, err := s.repo.GetByID(ctx, requesterID)
		if err != nil {
			if errors.Is(err, tenancy.ErrNotFound) {
				return []User{}, nil
			}
			return nil, err
		}
		if Matches(self, term) {
			return []User{self}, nil
		}
		return []User{}, nil
	}
	return s.repo.SearchInOrganizations(ctx, orgIDs, term, limit)
}

// UpdateInput: nil = no tocar. Role solo se aplica con access.EditFull;
// si el requester no puede cambiarlo se ignora.
type UpdateInput struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	Street      *string
	HouseNumber *string
	City        *string
	PostalCode  *string
	FarmNumber  *string
	Role        *string
}

func (s *Service) Update(ctx context.Context, requesterID, id string, in UpdateInput) (User, error) {
	u, err := s.load(ctx, requesterID, id)
	if err != nil {
		return User{}, err
	}
	scope, err := s.evaluator.EvaluateEdit(ctx, requesterID, u.ID, u.Role)
	if err != nil {
		return User{}, err
	}

	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		if v == "" {
			return User{}, fmt.Errorf("%w: first_name cannot be empty", tenancy.ErrInvalidInput)
		}
		u.FirstName = v
	}
	if in.LastName != nil {
		v := strings.TrimSpace(*in.LastName)
		if v == "" {
			return User{}, fmt.Errorf("%w: last_name cannot be empty", tenancy.ErrInvalidInput)
		}
		u.LastName = v
	}
	setTrimmed(&u.Phone, in.Phone)
	setTrimmed(&u.Street, in.Street)
	setTrimmed(&u.HouseNumber, in.HouseNumber)
	setTrimmed(&u.City, in.City)
	setTrimmed(&u.PostalCode, in.PostalCode)
	setTrimmed(&u.FarmNumber, in.FarmNumber)

	if in.Role != nil && scope.CanChangeRole() {
		role, err := tenancy.ParseRole(*in.Role)
		if err != nil {
			return User{}, err
		}
		u.Role = role
	}

	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Delete es soft delete (Status=Inactive). Uno mismo u OWNER de una
// organización compartida.
func (s *Service) Delete(ctx context.Context, requesterID, id string) error {
	u, err := s.load(ctx, requesterID, id)
	if err != nil {
		return err
	}
	if err := s.evaluator.EvaluateDelete(ctx, requesterID, u.ID); err != nil {
		return err
	}
	return s.repo.SetStatus(ctx, u.ID, tenancy.StatusInactive)
}

// Exists alimenta memberships.UserExistsFunc.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, tenancy.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Service) load(ctx context.Context, requesterID, id string) (User, error) {
	if strings.TrimSpace(requesterID) == "" {
		return User{}, tenancy.ErrUnauthenticated
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, fmt.Errorf("%w: user id required", tenancy.ErrInvalidInput)
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, tenancy.ErrNotFound) {
			return User{}, fmt.Errorf("user %s: %w", id, tenancy.ErrNotFound)
		}
		return User{}, err
	}
	return u, nil
}

// Matches replica el filtro de búsqueda (contains, case-insensitive) sobre
// nombre, apellido y ciudad. Un término vacío matchea todo.
func Matches(u User, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range []string{u.FirstName, u.LastName, u.City} {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultSearchLimit
	case limit > MaxSearchLimit:
		return MaxSearchLimit
	default:
		return limit
	}
}

func setTrimmed(dst *string, v *string) {
	if v == nil {
		return
	}
	*dst = strings.TrimSpace(*v)
}
