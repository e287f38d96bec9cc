package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"amicus-backend/internal/domain/clients"
	"amicus-backend/internal/domain/herds"
	"amicus-backend/internal/domain/memberships"
	"amicus-backend/internal/domain/organizations"
	"amicus-backend/internal/domain/tenancy"
	"amicus-backend/internal/domain/users"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// DBTX lo cumplen *sql.DB y *sql.Tx: los repos no saben si corren dentro
// de una transacción.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store agrupa los repos sobre un *sql.DB e implementa clients.Store.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() users.Repository                 { return NewUsersRepo(s.db) }
func (s *Store) Memberships() memberships.Repository     { return NewMembershipsRepo(s.db) }
func (s *Store) Herds() herds.Repository                 { return NewHerdsRepo(s.db) }
func (s *Store) Organizations() organizations.Repository { return NewOrganizationsRepo(s.db) }

// WithinTx: BEGIN, fn, COMMIT. Cualquier error o panic hace ROLLBACK.
func (s *Store) WithinTx(ctx context.Context, fn func(tx clients.Tx) error) error {
	return withinTx(ctx, s.db, func(sqlTx *sql.Tx) error {
		return fn(txRepos{tx: sqlTx})
	})
}

func withinTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	sqlTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) && err != nil {
			err = fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
	}()

	if err := fn(sqlTx); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

type txRepos struct {
	tx *sql.Tx
}

func (t txRepos) Users() users.Repository                 { return NewUsersRepo(t.tx) }
func (t txRepos) Memberships() memberships.Repository     { return NewMembershipsRepo(t.tx) }
func (t txRepos) Herds() herds.Repository                 { return NewHerdsRepo(t.tx) }
func (t txRepos) Organizations() organizations.Repository { return &OrganizationsRepo{db: t.tx} }

var _ clients.Store = (*Store)(nil)

const uniqueViolation = "23505"

// mapErr traduce errores del driver a la taxonomía de tenancy.
func mapErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, tenancy.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s already exists (%s)", tenancy.ErrConflict, what, pgErr.ConstraintName)
	}
	return err
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, tenancy.ErrNotFound)
	}
	return nil
}
