package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"amicus-backend/internal/domain/clients"
	"amicus-backend/internal/domain/herds"
	"amicus-backend/internal/domain/memberships"
	"amicus-backend/internal/domain/organizations"
	"amicus-backend/internal/domain/tenancy"
	"amicus-backend/internal/domain/users"
	"amicus-backend/internal/platform/logger"
	"amicus-backend/internal/platform/security"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceConverter deja pasar []string como hace pgx con ANY($n).
type sliceConverter struct{}

func (sliceConverter) ConvertValue(v any) (driver.Value, error) {
	if s, ok := v.([]string); ok {
		return s, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(sliceConverter{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func uniqueViolationErr(constraint string) error {
	return &pgconn.PgError{Code: uniqueViolation, ConstraintName: constraint}
}

func sampleUser() users.User {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return users.User{
		ID:        "u-1",
		FirstName: "Ana",
		LastName:  "García",
		Email:     "ana@example.com",
		Role:      tenancy.RoleFarmer,
		Status:    tenancy.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil, "x"))
	assert.ErrorIs(t, mapErr(sql.ErrNoRows, "herd"), tenancy.ErrNotFound)
	assert.ErrorIs(t, mapErr(uniqueViolationErr("herds_herd_id_key"), "herd"), tenancy.ErrConflict)

	other := errors.New("boom")
	assert.Equal(t, other, mapErr(other, "x"))

	fk := &pgconn.PgError{Code: "23503"}
	assert.NotErrorIs(t, mapErr(fk, "x"), tenancy.ErrConflict)
}

func TestStore_WithinTx_Commits(t *testing.T) {
	db, mock := newMock(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.WithinTx(context.Background(), func(tx clients.Tx) error {
		return tx.Users().Create(context.Background(), sampleUser())
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_WithinTx_RollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO herds").WillReturnError(uniqueViolationErr("herds_herd_id_key"))
	mock.ExpectRollback()

	err := store.WithinTx(context.Background(), func(tx clients.Tx) error {
		ctx := context.Background()
		if err := tx.Users().Create(ctx, sampleUser()); err != nil {
			return err
		}
		return tx.Herds().Create(ctx, herds.Herd{
			ID:     "h-1",
			HerdID: "H-100",
			Owner:  tenancy.OwnedByUser("u-1"),
		})
	})
	require.ErrorIs(t, err, tenancy.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_WithinTx_RollsBackOnPanic(t *testing.T) {
	db, mock := newMock(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = store.WithinTx(context.Background(), func(clients.Tx) error {
			panic("kaboom")
		})
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_WithinTx_BeginFails(t *testing.T) {
	db, mock := newMock(t)
	store := NewStore(db)

	mock.ExpectBegin().WillReturnError(errors.New("conn refused"))

	called := false
	err := store.WithinTx(context.Background(), func(clients.Tx) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepo(db)

	mock.ExpectExec("INSERT INTO users").WillReturnError(uniqueViolationErr("users_email_lower_key"))

	err := repo.Create(context.Background(), sampleUser())
	require.ErrorIs(t, err, tenancy.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersRepo_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepo(db)

	mock.ExpectQuery("FROM users WHERE lower\\(email\\) = \\$1").
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByEmail(context.Background(), "  Ana@Example.com ")
	require.ErrorIs(t, err, tenancy.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersRepo_SetStatus_Missing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepo(db)

	mock.ExpectExec("UPDATE users SET status").
		WithArgs("ghost", string(tenancy.StatusInactive)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetStatus(context.Background(), "ghost", tenancy.StatusInactive)
	require.ErrorIs(t, err, tenancy.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHerdsRepo_ListByOwners(t *testing.T) {
	db, mock := newMock(t)
	repo := NewHerdsRepo(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "herd_id", "owner_type", "owner_id", "created_at", "updated_at"}).
		AddRow("h-1", "H-1", "ORGANIZATION", "org-1", now, now).
		AddRow("h-2", "H-2", "USER", "u-1", now, now)
	mock.ExpectQuery("FROM herds").
		WithArgs([]string{"u-1"}, []string{"org-1"}).
		WillReturnRows(rows)

	items, err := repo.ListByOwners(context.Background(), []tenancy.Owner{
		tenancy.OwnedByUser("u-1"),
		tenancy.OwnedByOrganization("org-1"),
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, tenancy.OwnedByOrganization("org-1"), items[0].Owner)
	assert.Equal(t, tenancy.OwnedByUser("u-1"), items[1].Owner)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHerdsRepo_ListByOwners_NoOwners(t *testing.T) {
	db, mock := newMock(t)
	repo := NewHerdsRepo(db)

	items, err := repo.ListByOwners(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHerdsRepo_GetByID_CorruptOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewHerdsRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM herds WHERE id = \\$1").
		WithArgs("h-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "herd_id", "owner_type", "owner_id", "created_at", "updated_at"}).
			AddRow("h-1", "H-1", "PET", "x", now, now))

	_, err := repo.GetByID(context.Background(), "h-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, tenancy.ErrNotFound)
}

func TestHerdsRepo_Delete_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewHerdsRepo(db)

	mock.ExpectExec("DELETE FROM herds").WithArgs("h-x").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "h-x")
	require.ErrorIs(t, err, tenancy.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationsRepo_CreateWithOwner_RollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrganizationsRepo(db)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO organizations").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO organization_user").WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	err := repo.CreateWithOwner(context.Background(),
		organizations.Organization{ID: "org-1", Name: "Org", Status: tenancy.StatusActive, CreatedAt: now, UpdatedAt: now},
		memberships.Membership{ID: "m-1", OrganizationID: "org-1", UserID: "u-1", Role: tenancy.RoleOwner, CreatedAt: now, UpdatedAt: now},
	)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipsRepo_UpdateRole_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMembershipsRepo(db)

	mock.ExpectQuery("UPDATE organization_user").
		WithArgs("m-x", string(tenancy.RoleEmployee)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.UpdateRole(context.Background(), "m-x", tenancy.RoleEmployee)
	require.ErrorIs(t, err, tenancy.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func newCoordinator(db *sql.DB) *clients.Coordinator {
	return clients.NewCoordinator(NewStore(db), security.NewHasher(security.MinCost), clients.Options{
		Logger: logger.Nop(),
	})
}

func provisionInput() clients.ProvisionInput {
	return clients.ProvisionInput{
		FirstName:  "Juan",
		LastName:   "Pérez",
		Email:      "juan@example.com",
		HasCompany: true,
		OrgName:    "VetCo",
		HerdID:     "H-100",
	}
}

func TestProvision_DuplicateHerdRollsBack(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO organizations").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO organization_user").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("H-100").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := newCoordinator(db).Provision(context.Background(), "staff-1", provisionInput())
	require.ErrorIs(t, err, tenancy.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProvision_ConcurrentHerdInsertRollsBack(t *testing.T) {
	db, mock := newMock(t)

	// el chequeo pasa pero otro request ganó la carrera: el índice único corta
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO organizations").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO organization_user").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("H-100").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO herds").WillReturnError(uniqueViolationErr("herds_herd_id_key"))
	mock.ExpectRollback()

	_, err := newCoordinator(db).Provision(context.Background(), "staff-1", provisionInput())
	require.ErrorIs(t, err, tenancy.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProvision_Commits(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO organizations").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO organization_user").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("H-100").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO herds").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := newCoordinator(db).Provision(context.Background(), "staff-1", provisionInput())
	require.NoError(t, err)
	require.NotNil(t, res.OrganizationID)
	require.NotNil(t, res.HerdID)
	assert.Equal(t, "H-100", *res.HerdID)
	assert.NotEmpty(t, res.RawPassword)
	require.NoError(t, mock.ExpectationsWereMet())
}
