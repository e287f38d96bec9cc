package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"amicus-backend/internal/domain/herds"
	"amicus-backend/internal/domain/memberships"
	"amicus-backend/internal/domain/organizations"
	"amicus-backend/internal/domain/tenancy"
	"amicus-backend/internal/domain/users"
	"amicus-backend/internal/platform/logger"
	"amicus-backend/internal/platform/security"

	"github.com/google/uuid"
)

// Outcomes para métricas.
const (
	OutcomeCreated  = "created"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

type PasswordHasher interface {
	Hash(plain []byte) (string, error)
}

type Observer interface {
	ObserveProvisioning(outcome string)
}

type Options struct {
	CredentialLength int
	Logger           logger.Logger
	Observer         Observer
}

// Coordinator es el Provisioning Coordinator.
type Coordinator struct {
	store    Store
	hasher   PasswordHasher
	generate func(length int) (string, error)
	length   int
	log      logger.Logger
	observer Observer
	now      func() time.Time
}

func NewCoordinator(store Store, hasher PasswordHasher, opts Options) *Coordinator {
	length := opts.CredentialLength
	if length <= 0 {
		length = security.DefaultCredentialLength
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{
		store:    store,
		hasher:   hasher,
		generate: security.GenerateCredential,
		length:   length,
		log:      log,
		observer: opts.Observer,
		now:      time.Now,
	}
}

// Provision crea usuario, organización + membresía OWNER (si HasCompany) y
// rebaño (si HerdID no está vacío) en una sola transacción.
func (c *Coordinator) Provision(ctx context.Context, requesterID string, in ProvisionInput) (Result, error) {
	res, err := c.provision(ctx, requesterID, in)
	c.observe(err)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (c *Coordinator) provision(ctx context.Context, requesterID string, in ProvisionInput) (Result, error) {
	if strings.TrimSpace(requesterID) == "" {
		return Result{}, tenancy.ErrUnauthenticated
	}
	in = normalize(in)
	if err := validate(in); err != nil {
		return Result{}, err
	}

	raw, err := c.generate(c.length)
	if err != nil {
		return Result{}, err
	}
	hash, err := c.hasher.Hash([]byte(raw))
	if err != nil {
		return Result{}, fmt.Errorf("hash credential: %w", err)
	}

	now := c.now()
	user := users.User{
		ID:           uuid.NewString(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         tenancy.RoleFarmer,
		Status:       tenancy.StatusActive,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	res := Result{UserID: user.ID, RawPassword: raw}

	err = c.store.WithinTx(ctx, func(tx Tx) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}

		owner := tenancy.OwnedByUser(user.ID)
		if in.HasCompany {
			org := organizations.Organization{
				ID:         uuid.NewString(),
				Name:       in.OrgName,
				Street:     in.OrgStreet,
				City:       in.OrgCity,
				PostalCode: in.OrgPostalCode,
				TaxID:      in.OrgTaxID,
				Status:     tenancy.StatusActive,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := tx.Organizations().Create(ctx, org); err != nil {
				return err
			}
			if err := tx.Memberships().Create(ctx, memberships.Membership{
				ID:             uuid.NewString(),
				OrganizationID: org.ID,
				UserID:         user.ID,
				Role:           tenancy.RoleOwner,
				CreatedAt:      now,
				UpdatedAt:      now,
			}); err != nil {
				return err
			}
			res.OrganizationID = &org.ID
			owner = tenancy.OwnedByOrganization(org.ID)
		}

		if in.HerdID == "" {
			return nil
		}
		// El chequeo previo da el mensaje; el índice único cubre la carrera.
		exists, err := tx.Herds().ExistsByHerdID(ctx, in.HerdID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: herd_id %q already exists", tenancy.ErrConflict, in.HerdID)
		}
		h := herds.Herd{
			ID:        uuid.NewString(),
			HerdID:    in.HerdID,
			Owner:     owner,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Herds().Create(ctx, h); err != nil {
			return err
		}
		res.HerdID = &h.HerdID
		return nil
	})
	if err != nil {
		c.log.Warn("client provisioning rolled back", map[string]any{
			"provisioned_by": requesterID,
			"has_company":    in.HasCompany,
			"herd_id":        in.HerdID,
			"error":          err.Error(),
		})
		return Result{}, err
	}

	fields := map[string]any{
		"provisioned_by": requesterID,
		"user_id":        res.UserID,
	}
	if res.OrganizationID != nil {
		fields["organization_id"] = *res.OrganizationID
	}
	c.log.Info("client provisioned", fields)
	return res, nil
}

func (c *Coordinator) observe(err error) {
	if c.observer == nil {
		return
	}
	switch {
	case err == nil:
		c.observer.ObserveProvisioning(OutcomeCreated)
	case errors.Is(err, tenancy.ErrInvalidInput):
		c.observer.ObserveProvisioning(OutcomeInvalid)
	case errors.Is(err, tenancy.ErrConflict):
		c.observer.ObserveProvisioning(OutcomeConflict)
	default:
		c.observer.ObserveProvisioning(OutcomeError)
	}
}

func normalize(in ProvisionInput) ProvisionInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.OrgName = strings.TrimSpace(in.OrgName)
	in.OrgStreet = strings.TrimSpace(in.OrgStreet)
	in.OrgCity = strings.TrimSpace(in.OrgCity)
	in.OrgPostalCode = strings.TrimSpace(in.OrgPostalCode)
	in.OrgTaxID = strings.TrimSpace(in.OrgTaxID)
	in.HerdID = strings.TrimSpace(in.HerdID)
	return in
}

// validate corre antes de abrir la transacción: un 400 nunca llega a escribir.
func validate(in ProvisionInput) error {
	if in.FirstName == "" || in.LastName == "" {
		return fmt.Errorf("%w: first_name and last_name required", tenancy.ErrInvalidInput)
	}
	if in.HasCompany && in.OrgName == "" {
		return fmt.Errorf("%w: orgName required when hasCompany is true", tenancy.ErrInvalidInput)
	}
	return nil
}
