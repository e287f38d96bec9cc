// Package accounts cubre el registro y el login con email y contraseña.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"amicus-backend/internal/domain/tenancy"
	"amicus-backend/internal/domain/users"
	"amicus-backend/internal/ports/auth"

	"github.com/google/uuid"
)

const MinPasswordLength = 8

// MaxPasswordLength es el límite de bcrypt, en bytes.
const MaxPasswordLength = 72

type PasswordHasher interface {
	Hash(plain []byte) (string, error)
	Compare(hash string, plain []byte) error
}

type Service struct {
	repo   users.Repository
	hasher PasswordHasher
	issuer auth.TokenIssuer // nil => login sin token (modo dev)
	now    func() time.Time
}

func NewService(repo users.Repository, hasher PasswordHasher, issuer auth.TokenIssuer) *Service {
	return &Service{repo: repo, hasher: hasher, issuer: issuer, now: time.Now}
}

type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Role        string
	Phone       string
	Street      string
	HouseNumber string
	City        string
	PostalCode  string
	TaxID       string
	FarmNumber  string
	VetID       string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (users.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" || last == "" || email == "" {
		return users.User{}, fmt.Errorf("%w: first_name, last_name and email required", tenancy.ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return users.User{}, fmt.Errorf("%w: invalid email", tenancy.ErrInvalidInput)
	}
	if len(in.Password) < MinPasswordLength {
		return users.User{}, fmt.Errorf("%w: password must have at least %d characters", tenancy.ErrInvalidInput, MinPasswordLength)
	}
	if len(in.Password) > MaxPasswordLength {
		return users.User{}, fmt.Errorf("%w: password must have at most %d bytes", tenancy.ErrInvalidInput, MaxPasswordLength)
	}

	role := tenancy.RoleFarmer
	if strings.TrimSpace(in.Role) != "" {
		r, err := tenancy.ParseRole(in.Role)
		if err != nil {
			return users.User{}, err
		}
		role = r
	}

	hash, err := s.hasher.Hash([]byte(in.Password))
	if err != nil {
		return users.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := users.User{
		ID:           uuid.NewString(),
		FirstName:    first,
		LastName:     last,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
		Status:       tenancy.StatusActive,
		PasswordHash: hash,
		Street:       strings.TrimSpace(in.Street),
		HouseNumber:  strings.TrimSpace(in.HouseNumber),
		City:         strings.TrimSpace(in.City),
		PostalCode:   strings.TrimSpace(in.PostalCode),
		TaxID:        strings.TrimSpace(in.TaxID),
		FarmNumber:   strings.TrimSpace(in.FarmNumber),
		VetID:        strings.TrimSpace(in.VetID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return users.User{}, err
	}
	return u, nil
}

// Login: email desconocido => ErrNotFound; contraseña incorrecta o cuenta
// inactiva => ErrUnauthenticated.
func (s *Service) Login(ctx context.Context, email, password string) (string, users.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", users.User{}, fmt.Errorf("%w: email and password required", tenancy.ErrInvalidInput)
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, tenancy.ErrNotFound) {
			return "", users.User{}, fmt.Errorf("user %s: %w", email, tenancy.ErrNotFound)
		}
		return "", users.User{}, err
	}
	if err := s.hasher.Compare(u.PasswordHash, []byte(password)); err != nil {
		return "", users.User{}, fmt.Errorf("%w: invalid credentials", tenancy.ErrUnauthenticated)
	}
	if u.Status == tenancy.StatusInactive {
		return "", users.User{}, fmt.Errorf("%w: account inactive", tenancy.ErrUnauthenticated)
	}

	if s.issuer == nil {
		return "", u, nil
	}
	token, err := s.issuer.Issue(ctx, auth.Claims{UserID: u.ID, Email: u.Email, Role: string(u.Role)})
	if err != nil {
		return "", users.User{}, err
	}
	return token, u, nil
}
