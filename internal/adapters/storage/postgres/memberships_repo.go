package postgres

import (
	"context"

	"amicus-backend/internal/domain/memberships"
	"amicus-backend/internal/domain/tenancy"
)

const membershipColumns = `id, organization_id, user_id, role, created_at, updated_at`

type MembershipsRepo struct {
	db DBTX
}

func NewMembershipsRepo(db DBTX) *MembershipsRepo {
	return &MembershipsRepo{db: db}
}

func (r *MembershipsRepo) Create(ctx context.Context, m memberships.Membership) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO organization_user (`+membershipColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, m.ID, m.OrganizationID, m.UserID, string(m.Role), m.CreatedAt, m.UpdatedAt)
	return mapErr(err, "membership")
}

func (r *MembershipsRepo) GetByID(ctx context.Context, id string) (memberships.Membership, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+membershipColumns+` FROM organization_user WHERE id = $1`, id)
	return scanMembership(row)
}

func (r *MembershipsRepo) ListByUser(ctx context.Context, userID string) ([]memberships.Membership, error) {
	return r.list(ctx, `
		SELECT `+membershipColumns+`
		FROM organization_user
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, userID)
}

func (r *MembershipsRepo) ListByOrganizations(ctx context.Context, orgIDs []string) ([]memberships.Membership, error) {
	return r.list(ctx, `
		SELECT `+membershipColumns+`
		FROM organization_user
		WHERE organization_id = ANY($1)
		ORDER BY created_at ASC, id ASC
	`, orgIDs)
}

func (r *MembershipsRepo) UpdateRole(ctx context.Context, id string, role tenancy.Role) (memberships.Membership, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE organization_user
		SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+membershipColumns, id, string(role))
	return scanMembership(row)
}

func (r *MembershipsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM organization_user WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "membership")
}

func (r *MembershipsRepo) list(ctx context.Context, query string, arg any) ([]memberships.Membership, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]memberships.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMembership(s scanner) (memberships.Membership, error) {
	var (
		m    memberships.Membership
		role string
	)
	if err := s.Scan(&m.ID, &m.OrganizationID, &m.UserID, &role, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return memberships.Membership{}, mapErr(err, "membership")
	}
	m.Role = tenancy.Role(role)
	return m, nil
}
