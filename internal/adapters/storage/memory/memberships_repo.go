package memory

import (
	"context"
	"fmt"
	"sort"

	"amicus-backend/internal/domain/memberships"
	"amicus-backend/internal/domain/tenancy"
)

type MembershipRepo struct {
	a accessor
}

func (r *MembershipRepo) Create(_ context.Context, m memberships.Membership) error {
	return r.a.write(func(st *state) error {
		if err := membershipFree(st, m); err != nil {
			return err
		}
		st.memberships[m.ID] = m
		return nil
	})
}

func (r *MembershipRepo) GetByID(_ context.Context, id string) (memberships.Membership, error) {
	var out memberships.Membership
	err := r.a.read(func(st *state) error {
		m, ok := st.memberships[id]
		if !ok {
			return tenancy.ErrNotFound
		}
		out = m
		return nil
	})
	return out, err
}

func (r *MembershipRepo) ListByUser(_ context.Context, userID string) ([]memberships.Membership, error) {
	return r.filter(func(m memberships.Membership) bool { return m.UserID == userID })
}

func (r *MembershipRepo) ListByOrganizations(_ context.Context, orgIDs []string) ([]memberships.Membership, error) {
	set := make(map[string]struct{}, len(orgIDs))
	for _, id := range orgIDs {
		set[id] = struct{}{}
	}
	return r.filter(func(m memberships.Membership) bool {
		_, ok := set[m.OrganizationID]
		return ok
	})
}

func (r *MembershipRepo) UpdateRole(_ context.Context, id string, role tenancy.Role) (memberships.Membership, error) {
	var out memberships.Membership
	err := r.a.write(func(st *state) error {
		m, ok := st.memberships[id]
		if !ok {
			return tenancy.ErrNotFound
		}
		m.Role = role
		st.memberships[id] = m
		out = m
		return nil
	})
	return out, err
}

func (r *MembershipRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.memberships[id]; !ok {
			return tenancy.ErrNotFound
		}
		delete(st.memberships, id)
		return nil
	})
}

func (r *MembershipRepo) filter(keep func(memberships.Membership) bool) ([]memberships.Membership, error) {
	out := make([]memberships.Membership, 0)
	err := r.a.read(func(st *state) error {
		for _, m := range st.memberships {
			if keep(m) {
				out = append(out, m)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

// membershipFree replica UNIQUE(organization_id, user_id).
func membershipFree(st *state, m memberships.Membership) error {
	if _, exists := st.memberships[m.ID]; exists {
		return fmt.Errorf("%w: membership %s already exists", tenancy.ErrConflict, m.ID)
	}
	for _, cur := range st.memberships {
		if cur.OrganizationID == m.OrganizationID && cur.UserID == m.UserID {
			return fmt.Errorf("%w: user already belongs to organization", tenancy.ErrConflict)
		}
	}
	return nil
}
