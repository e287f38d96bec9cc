package memory

import (
	"context"
	"fmt"
	"sort"

	"amicus-backend/internal/domain/herds"
	"amicus-backend/internal/domain/tenancy"
)

type HerdRepo struct {
	a accessor
}

func (r *HerdRepo) Create(_ context.Context, h herds.Herd) error {
	return r.a.write(func(st *state) error {
		if _, exists := st.herds[h.ID]; exists {
			return fmt.Errorf("%w: herd %s already exists", tenancy.ErrConflict, h.ID)
		}
		if err := herdIDFree(st, h.HerdID, h.ID); err != nil {
			return err
		}
		st.herds[h.ID] = h
		return nil
	})
}

func (r *HerdRepo) GetByID(_ context.Context, id string) (herds.Herd, error) {
	var out herds.Herd
	err := r.a.read(func(st *state) error {
		h, ok := st.herds[id]
		if !ok {
			return tenancy.ErrNotFound
		}
		out = h
		return nil
	})
	return out, err
}

func (r *HerdRepo) ExistsByHerdID(_ context.Context, herdID string) (bool, error) {
	exists := false
	err := r.a.read(func(st *state) error {
		exists = herdIDFree(st, herdID, "") != nil
		return nil
	})
	return exists, err
}

func (r *HerdRepo) ListByOwners(_ context.Context, owners []tenancy.Owner) ([]herds.Herd, error) {
	set := make(map[tenancy.Owner]struct{}, len(owners))
	for _, o := range owners {
		set[o] = struct{}{}
	}
	out := make([]herds.Herd, 0)
	err := r.a.read(func(st *state) error {
		for _, h := range st.herds {
			if _, ok := set[h.Owner]; ok {
				out = append(out, h)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].HerdID < out[j].HerdID })
	return out, err
}

func (r *HerdRepo) Update(_ context.Context, h herds.Herd) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.herds[h.ID]; !ok {
			return tenancy.ErrNotFound
		}
		if err := herdIDFree(st, h.HerdID, h.ID); err != nil {
			return err
		}
		st.herds[h.ID] = h
		return nil
	})
}

func (r *HerdRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.herds[id]; !ok {
			return tenancy.ErrNotFound
		}
		delete(st.herds, id)
		return nil
	})
}

// herdIDFree replica el UNIQUE(herd_id) de la tabla herds.
func herdIDFree(st *state, herdID, selfID string) error {
	for id, h := range st.herds {
		if id != selfID && h.HerdID == herdID {
			return fmt.Errorf("%w: herd_id %q already exists", tenancy.ErrConflict, herdID)
		}
	}
	return nil
}
