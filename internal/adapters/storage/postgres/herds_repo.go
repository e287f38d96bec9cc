package postgres

import (
	"context"
	"fmt"

	"amicus-backend/internal/domain/herds"
	"amicus-backend/internal/domain/tenancy"
)

const herdColumns = `id, herd_id, owner_type, owner_id, created_at, updated_at`

type HerdsRepo struct {
	db DBTX
}

func NewHerdsRepo(db DBTX) *HerdsRepo {
	return &HerdsRepo{db: db}
}

// Create: el UNIQUE(herd_id) es la garantía ante inserts concurrentes;
// su violación sale como tenancy.ErrConflict.
func (r *HerdsRepo) Create(ctx context.Context, h herds.Herd) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO herds (`+herdColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, h.ID, h.HerdID, string(h.Owner.Kind()), h.Owner.ID(), h.CreatedAt, h.UpdatedAt)
	return mapErr(err, "herd_id "+h.HerdID)
}

func (r *HerdsRepo) GetByID(ctx context.Context, id string) (herds.Herd, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+herdColumns+` FROM herds WHERE id = $1`, id)
	return scanHerd(row)
}

func (r *HerdsRepo) ExistsByHerdID(ctx context.Context, herdID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM herds WHERE herd_id = $1)`, herdID).Scan(&exists)
	return exists, err
}

func (r *HerdsRepo) ListByOwners(ctx context.Context, owners []tenancy.Owner) ([]herds.Herd, error) {
	var userIDs, orgIDs []string
	for _, o := range owners {
		_ = o.Match(
			func(id string) error { userIDs = append(userIDs, id); return nil },
			func(id string) error { orgIDs = append(orgIDs, id); return nil },
		)
	}
	if len(userIDs) == 0 && len(orgIDs) == 0 {
		return []herds.Herd{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+herdColumns+`
		FROM herds
		WHERE (owner_type = 'USER' AND owner_id = ANY($1))
		   OR (owner_type = 'ORGANIZATION' AND owner_id = ANY($2))
		ORDER BY herd_id ASC
	`, userIDs, orgIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]herds.Herd, 0)
	for rows.Next() {
		h, err := scanHerd(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *HerdsRepo) Update(ctx context.Context, h herds.Herd) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE herds
		SET herd_id = $2, owner_type = $3, owner_id = $4, updated_at = $5
		WHERE id = $1
	`, h.ID, h.HerdID, string(h.Owner.Kind()), h.Owner.ID(), h.UpdatedAt)
	if err != nil {
		return mapErr(err, "herd_id "+h.HerdID)
	}
	return requireAffected(res, "herd")
}

func (r *HerdsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM herds WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "herd")
}

func scanHerd(s scanner) (herds.Herd, error) {
	var (
		h                  herds.Herd
		ownerType, ownerID string
	)
	if err := s.Scan(&h.ID, &h.HerdID, &ownerType, &ownerID, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return herds.Herd{}, mapErr(err, "herd")
	}
	owner, err := tenancy.ParseOwner(ownerType, ownerID)
	if err != nil {
		return herds.Herd{}, fmt.Errorf("herd %s: corrupt owner: %w", h.ID, err)
	}
	h.Owner = owner
	return h, nil
}
