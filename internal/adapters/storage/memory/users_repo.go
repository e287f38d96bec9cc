package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"amicus-backend/internal/domain/tenancy"
	"amicus-backend/internal/domain/users"
)

type UserRepo struct {
	a accessor
}

func (r *UserRepo) Create(_ context.Context, u users.User) error {
	return r.a.write(func(st *state) error {
		if strings.TrimSpace(u.ID) == "" {
			return fmt.Errorf("%w: user id required", tenancy.ErrInvalidInput)
		}
		if _, exists := st.users[u.ID]; exists {
			return fmt.Errorf("%w: user %s already exists", tenancy.ErrConflict, u.ID)
		}
		if err := emailFree(st, u.Email, u.ID); err != nil {
			return err
		}
		st.users[u.ID] = u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (users.User, error) {
	var out users.User
	err := r.a.read(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return tenancy.ErrNotFound
		}
		out = u
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (users.User, error) {
	email = normalizeEmail(email)
	var out users.User
	err := r.a.read(func(st *state) error {
		if email == "" {
			return tenancy.ErrNotFound
		}
		for _, u := range st.users {
			if normalizeEmail(u.Email) == email {
				out = u
				return nil
			}
		}
		return tenancy.ErrNotFound
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, u users.User) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return tenancy.ErrNotFound
		}
		if err := emailFree(st, u.Email, u.ID); err != nil {
			return err
		}
		st.users[u.ID] = u
		return nil
	})
}

func (r *UserRepo) SetStatus(_ context.Context, id string, status tenancy.Status) error {
	return r.a.write(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return tenancy.ErrNotFound
		}
		u.Status = status
		st.users[id] = u
		return nil
	})
}

func (r *UserRepo) SearchInOrganizations(_ context.Context, orgIDs []string, term string, limit int) ([]users.User, error) {
	out := make([]users.User, 0)
	err := r.a.read(func(st *state) error {
		inOrgs := make(map[string]struct{}, len(orgIDs))
		for _, id := range orgIDs {
			inOrgs[id] = struct{}{}
		}
		seen := map[string]struct{}{}
		for _, m := range st.memberships {
			if _, ok := inOrgs[m.OrganizationID]; !ok {
				continue
			}
			if _, ok := seen[m.UserID]; ok {
				continue
			}
			u, ok := st.users[m.UserID]
			if !ok || !users.Matches(u, term) {
				continue
			}
			seen[m.UserID] = struct{}{}
			out = append(out, u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// emailFree replica el índice único sobre lower(email). Emails vacíos no cuentan.
func emailFree(st *state, email, selfID string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}
	for id, u := range st.users {
		if id != selfID && normalizeEmail(u.Email) == email {
			return fmt.Errorf("%w: email already registered", tenancy.ErrConflict)
		}
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
