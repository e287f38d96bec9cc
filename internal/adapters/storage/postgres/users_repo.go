package postgres

import (
	"context"
	"database/sql"
	"strings"

	"amicus-backend/internal/domain/tenancy"
	"amicus-backend/internal/domain/users"
)

const userColumns = `
	id, first_name, last_name, email, phone,
	role, status, password_hash,
	street, house_number, city, postal_code, tax_id, farm_number, vet_id,
	created_at, updated_at`

type UsersRepo struct {
	db DBTX
}

func NewUsersRepo(db DBTX) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`,
		u.ID, u.FirstName, u.LastName, nullIfEmpty(u.Email), u.Phone,
		string(u.Role), string(u.Status), u.PasswordHash,
		u.Street, u.HouseNumber, u.City, u.PostalCode, u.TaxID, u.FarmNumber, u.VetID,
		u.CreatedAt, u.UpdatedAt,
	)
	return mapErr(err, "user")
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return users.User{}, tenancy.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = $1`, email)
	return scanUser(row)
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET
			first_name = $2,
			last_name = $3,
			email = $4,
			phone = $5,
			role = $6,
			street = $7,
			house_number = $8,
			city = $9,
			postal_code = $10,
			tax_id = $11,
			farm_number = $12,
			vet_id = $13,
			updated_at = $14
		WHERE id = $1
	`,
		u.ID, u.FirstName, u.LastName, nullIfEmpty(u.Email), u.Phone, string(u.Role),
		u.Street, u.HouseNumber, u.City, u.PostalCode, u.TaxID, u.FarmNumber, u.VetID,
		u.UpdatedAt,
	)
	if err != nil {
		return mapErr(err, "user")
	}
	return requireAffected(res, "user")
}

func (r *UsersRepo) SetStatus(ctx context.Context, id string, status tenancy.Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET status = $2, updated_at = now() WHERE id = $1
	`, id, string(status))
	if err != nil {
		return err
	}
	return requireAffected(res, "user")
}

func (r *UsersRepo) SearchInOrganizations(ctx context.Context, orgIDs []string, term string, limit int) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users u
		WHERE EXISTS (
			SELECT 1 FROM organization_user ou
			WHERE ou.user_id = u.id AND ou.organization_id = ANY($1)
		)
		AND (u.first_name ILIKE $2 OR u.last_name ILIKE $2 OR u.city ILIKE $2)
		ORDER BY u.last_name, u.id
		LIMIT $3
	`, orgIDs, likePattern(term), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (users.User, error) {
	var (
		u      users.User
		email  sql.NullString
		role   string
		status string
	)
	if err := s.Scan(
		&u.ID, &u.FirstName, &u.LastName, &email, &u.Phone,
		&role, &status, &u.PasswordHash,
		&u.Street, &u.HouseNumber, &u.City, &u.PostalCode, &u.TaxID, &u.FarmNumber, &u.VetID,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return users.User{}, mapErr(err, "user")
	}
	u.Email = email.String
	u.Role = tenancy.Role(role)
	u.Status = tenancy.Status(status)
	return u, nil
}

func nullIfEmpty(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

// likePattern escapa los comodines de ILIKE y envuelve en %...%.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(term)) + "%"
}
