package postgres

import (
	"context"
	"database/sql"

	"amicus-backend/internal/domain/memberships"
	"amicus-backend/internal/domain/organizations"
	"amicus-backend/internal/domain/tenancy"
)

const organizationColumns = `
	id, name, street, house_number, city, postal_code, tax_id, status, created_at, updated_at`

type OrganizationsRepo struct {
	db DBTX
	// pool es nil cuando el repo ya corre dentro de una transacción.
	pool *sql.DB
}

func NewOrganizationsRepo(db *sql.DB) *OrganizationsRepo {
	return &OrganizationsRepo{db: db, pool: db}
}

func (r *OrganizationsRepo) CreateWithOwner(ctx context.Context, o organizations.Organization, owner memberships.Membership) error {
	if r.pool == nil {
		return createWithOwner(ctx, r.db, o, owner)
	}
	return withinTx(ctx, r.pool, func(tx *sql.Tx) error {
		return createWithOwner(ctx, tx, o, owner)
	})
}

func createWithOwner(ctx context.Context, db DBTX, o organizations.Organization, owner memberships.Membership) error {
	if err := insertOrganization(ctx, db, o); err != nil {
		return err
	}
	return NewMembershipsRepo(db).Create(ctx, owner)
}

func (r *OrganizationsRepo) Create(ctx context.Context, o organizations.Organization) error {
	return insertOrganization(ctx, r.db, o)
}

func insertOrganization(ctx context.Context, db DBTX, o organizations.Organization) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO organizations (`+organizationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		o.ID, o.Name, o.Street, o.HouseNumber, o.City, o.PostalCode, o.TaxID,
		string(o.Status), o.CreatedAt, o.UpdatedAt,
	)
	return mapErr(err, "organization")
}

func (r *OrganizationsRepo) GetByID(ctx context.Context, id string) (organizations.Organization, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id)
	return scanOrganization(row)
}

func (r *OrganizationsRepo) ListByIDs(ctx context.Context, ids []string) ([]organizations.Organization, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+organizationColumns+`
		FROM organizations
		WHERE id = ANY($1)
		ORDER BY created_at ASC
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]organizations.Organization, 0, len(ids))
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrganizationsRepo) Update(ctx context.Context, o organizations.Organization) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE organizations
		SET
			name = $2,
			street = $3,
			house_number = $4,
			city = $5,
			postal_code = $6,
			tax_id = $7,
			updated_at = $8
		WHERE id = $1
	`,
		o.ID, o.Name, o.Street, o.HouseNumber, o.City, o.PostalCode, o.TaxID, o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, "organization")
}

func (r *OrganizationsRepo) SetStatus(ctx context.Context, id string, status tenancy.Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE organizations SET status = $2, updated_at = now() WHERE id = $1
	`, id, string(status))
	if err != nil {
		return err
	}
	return requireAffected(res, "organization")
}

func scanOrganization(s scanner) (organizations.Organization, error) {
	var (
		o      organizations.Organization
		status string
	)
	if err := s.Scan(
		&o.ID, &o.Name, &o.Street, &o.HouseNumber, &o.City, &o.PostalCode, &o.TaxID,
		&status, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return organizations.Organization{}, mapErr(err, "organization")
	}
	o.Status = tenancy.Status(status)
	return o, nil
}
