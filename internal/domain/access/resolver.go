// Package access decide quién puede ver o actuar sobre organizaciones,
// rebaños y usuarios. Todos los endpoints consultan estos predicados en vez
// de re-implementar joins de autorización por controlador.
package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"amicus-backend/internal/domain/memberships"
	"amicus-backend/internal/domain/tenancy"
)

// Directory es el contrato del Membership Directory (memberships.Directory).
type Directory interface {
	MembershipsOf(ctx context.Context, userID string) ([]memberships.Membership, error)
}

// OrganizationStatusFunc devuelve el status de una organización o
// tenancy.ErrNotFound si no existe.
type OrganizationStatusFunc func(ctx context.Context, orgID string) (tenancy.Status, error)

// Resolver es el Ownership Resolver.
// Los errores distinguen tenancy.ErrNotFound (la entidad no existe) de
// tenancy.ErrForbidden (existe pero el usuario no tiene acceso), aunque el
// handler luego los colapse en un único 404.
type Resolver struct {
	dir       Directory
	orgStatus OrganizationStatusFunc
}

func NewResolver(dir Directory, orgStatus OrganizationStatusFunc) *Resolver {
	return &Resolver{dir: dir, orgStatus: orgStatus}
}

// ---- Organizaciones ----

// VisibleOrganizationIDs devuelve las organizaciones activas donde userID tiene
// alguna membresía. Sin membresías => slice vacío, no es error.
func (r *Resolver) VisibleOrganizationIDs(ctx context.Context, userID string) ([]string, error) {
	mine, err := r.dir.MembershipsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(mine))
	for _, orgID := range memberships.OrganizationIDs(mine) {
		st, err := r.orgStatus(ctx, orgID)
		if err != nil {
			if errors.Is(err, tenancy.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if st == tenancy.StatusActive {
			out = append(out, orgID)
		}
	}
	return out, nil
}

// CanActOnOrganization: existe membresía (cualquier rol) y la organización está activa.
func (r *Resolver) CanActOnOrganization(ctx context.Context, userID, orgID string) error {
	_, err := r.roleInActiveOrganization(ctx, userID, orgID)
	return err
}

// RequireOrganizationMember implementa memberships.Guard.
func (r *Resolver) RequireOrganizationMember(ctx context.Context, userID, orgID string) error {
	return r.CanActOnOrganization(ctx, userID, orgID)
}

// RequireOrganizationOwner implementa memberships.Guard: además de ser miembro,
// el rol tiene que ser OWNER.
func (r *Resolver) RequireOrganizationOwner(ctx context.Context, userID, orgID string) error {
	role, err := r.roleInActiveOrganization(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if role != tenancy.RoleOwner {
		return fmt.Errorf("%w: only OWNER can manage members of organization %s", tenancy.ErrForbidden, orgID)
	}
	return nil
}

func (r *Resolver) roleInActiveOrganization(ctx context.Context, userID, orgID string) (tenancy.Role, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return "", fmt.Errorf("%w: organization id required", tenancy.ErrInvalidInput)
	}

	st, err := r.orgStatus(ctx, orgID)
	if err != nil {
		return "", err
	}
	// Una organización dada de baja se comporta como inexistente.
	if st != tenancy.StatusActive {
		return "", fmt.Errorf("organization %s is %s: %w", orgID, st, tenancy.ErrNotFound)
	}

	mine, err := r.dir.MembershipsOf(ctx, userID)
	if err != nil {
		return "", err
	}
	role, ok := memberships.RoleIn(mine, orgID)
	if !ok {
		return "", fmt.Errorf("%w: user is not a member of organization %s", tenancy.ErrForbidden, orgID)
	}
	return role, nil
}

// ---- Rebaños ----

// VisibleHerdOwners devuelve los dueños cuyos rebaños userID puede ver:
// él mismo + cada organización donde tiene membresía.
func (r *Resolver) VisibleHerdOwners(ctx context.Context, userID string) ([]tenancy.Owner, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, tenancy.ErrUnauthenticated
	}
	mine, err := r.dir.MembershipsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	orgIDs := memberships.OrganizationIDs(mine)
	out := make([]tenancy.Owner, 0, len(orgIDs)+1)
	out = append(out, tenancy.OwnedByUser(userID))
	for _, id := range orgIDs {
		out = append(out, tenancy.OwnedByOrganization(id))
	}
	return out, nil
}

// CanAccessHerd: el rebaño es del usuario, o de una organización donde tiene
// cualquier membresía. No hay distinción de rol para lectura/escritura.
func (r *Resolver) CanAccessHerd(ctx context.Context, userID string, owner tenancy.Owner) error {
	return owner.Match(
		func(ownerUserID string) error {
			if ownerUserID != userID {
				return fmt.Errorf("%w: herd belongs to another user", tenancy.ErrForbidden)
			}
			return nil
		},
		func(orgID string) error {
			return r.requireAnyMembership(ctx, userID, orgID)
		},
	)
}

// CanCreateHerd: owner USER solo para uno mismo; owner ORGANIZATION requiere
// cualquier membresía en esa organización.
func (r *Resolver) CanCreateHerd(ctx context.Context, userID string, owner tenancy.Owner) error {
	return owner.Match(
		func(ownerUserID string) error {
			if ownerUserID != userID {
				return fmt.Errorf("%w: cannot create herd for another user", tenancy.ErrForbidden)
			}
			return nil
		},
		func(orgID string) error {
			return r.requireAnyMembership(ctx, userID, orgID)
		},
	)
}

func (r *Resolver) requireAnyMembership(ctx context.Context, userID, orgID string) error {
	mine, err := r.dir.MembershipsOf(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := memberships.RoleIn(mine, orgID); !ok {
		return fmt.Errorf("%w: not a member of organization %s", tenancy.ErrForbidden, orgID)
	}
	return nil
}

// ---- Usuarios ----

// CanViewUser: uno mismo, o compartir al menos una organización (cualquier rol).
func (r *Resolver) CanViewUser(ctx context.Context, requesterID, targetID string) error {
	if requesterID == targetID {
		return nil
	}
	shared, err := r.SharedOrganizationIDs(ctx, requesterID, targetID)
	if err != nil {
		return err
	}
	if len(shared) == 0 {
		return fmt.Errorf("%w: no shared organization", tenancy.ErrForbidden)
	}
	return nil
}

// SharedOrganizationIDs devuelve la intersección de organizaciones de a y b.
func (r *Resolver) SharedOrganizationIDs(ctx context.Context, a, b string) ([]string, error) {
	ma, err := r.dir.MembershipsOf(ctx, a)
	if err != nil {
		return nil, err
	}
	mb, err := r.dir.MembershipsOf(ctx, b)
	if err != nil {
		return nil, err
	}
	return intersect(memberships.OrganizationIDs(ma), memberships.OrganizationIDs(mb)), nil
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}
	out := make([]string, 0)
	for _, id := range a {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
