package memory

import (
	"context"
	"fmt"
	"sort"

	"amicus-backend/internal/domain/memberships"
	"amicus-backend/internal/domain/organizations"
	"amicus-backend/internal/domain/tenancy"
)

type OrganizationRepo struct {
	a accessor
}

func (r *OrganizationRepo) CreateWithOwner(_ context.Context, o organizations.Organization, owner memberships.Membership) error {
	return r.a.write(func(st *state) error {
		if _, exists := st.orgs[o.ID]; exists {
			return fmt.Errorf("%w: organization %s already exists", tenancy.ErrConflict, o.ID)
		}
		if err := membershipFree(st, owner); err != nil {
			return err
		}
		st.orgs[o.ID] = o
		st.memberships[owner.ID] = owner
		return nil
	})
}

func (r *OrganizationRepo) Create(_ context.Context, o organizations.Organization) error {
	return r.a.write(func(st *state) error {
		if _, exists := st.orgs[o.ID]; exists {
			return fmt.Errorf("%w: organization %s already exists", tenancy.ErrConflict, o.ID)
		}
		st.orgs[o.ID] = o
		return nil
	})
}

func (r *OrganizationRepo) GetByID(_ context.Context, id string) (organizations.Organization, error) {
	var out organizations.Organization
	err := r.a.read(func(st *state) error {
		o, ok := st.orgs[id]
		if !ok {
			return tenancy.ErrNotFound
		}
		out = o
		return nil
	})
	return out, err
}

func (r *OrganizationRepo) ListByIDs(_ context.Context, ids []string) ([]organizations.Organization, error) {
	out := make([]organizations.Organization, 0, len(ids))
	err := r.a.read(func(st *state) error {
		for _, id := range ids {
			if o, ok := st.orgs[id]; ok {
				out = append(out, o)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, err
}

func (r *OrganizationRepo) Update(_ context.Context, o organizations.Organization) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.orgs[o.ID]; !ok {
			return tenancy.ErrNotFound
		}
		st.orgs[o.ID] = o
		return nil
	})
}

func (r *OrganizationRepo) SetStatus(_ context.Context, id string, status tenancy.Status) error {
	return r.a.write(func(st *state) error {
		o, ok := st.orgs[id]
		if !ok {
			return tenancy.ErrNotFound
		}
		o.Status = status
		st.orgs[id] = o
		return nil
	})
}
