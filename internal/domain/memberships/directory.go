package memberships

import (
	"context"
	"fmt"
	"strings"

	"amicus-backend/internal/domain/tenancy"
)

// Directory responde "¿en qué organizaciones está este usuario y con qué rol?".
// Es la única fuente de verdad para autorización. Sin cache: los roles pueden
// cambiar entre requests, así que siempre consulta el repositorio.
type Directory struct {
	repo Repository
}

func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

func (d *Directory) MembershipsOf(ctx context.Context, userID string) ([]Membership, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}
	items, err := d.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("memberships of %s: %w", userID, err)
	}
	return items, nil
}

// OrganizationIDs devuelve las organizaciones (sin repetir) de items.
func OrganizationIDs(items []Membership) []string {
	return organizationIDs(items, func(Membership) bool { return true })
}

// OrganizationIDsWithRole filtra por rol de membresía.
func OrganizationIDsWithRole(items []Membership, role tenancy.Role) []string {
	return organizationIDs(items, func(m Membership) bool { return m.Role == role })
}

// RoleIn devuelve el rol del usuario en orgID, si existe membresía.
func RoleIn(items []Membership, orgID string) (tenancy.Role, bool) {
	for _, m := range items {
		if m.OrganizationID == orgID {
			return m.Role, true
		}
	}
	return "", false
}

func organizationIDs(items []Membership, keep func(Membership) bool) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(items))
	for _, m := range items {
		if !keep(m) {
			continue
		}
		if _, ok := seen[m.OrganizationID]; ok {
			continue
		}
		seen[m.OrganizationID] = struct{}{}
		out = append(out, m.OrganizationID)
	}
	return out
}
