package memory

import (
	"context"
	"sync"

	"amicus-backend/internal/domain/clients"
	"amicus-backend/internal/domain/herds"
	"amicus-backend/internal/domain/memberships"
	"amicus-backend/internal/domain/organizations"
	"amicus-backend/internal/domain/users"
)

type state struct {
	users       map[string]users.User
	orgs        map[string]organizations.Organization
	memberships map[string]memberships.Membership
	herds       map[string]herds.Herd
}

func newState() *state {
	return &state{
		users:       make(map[string]users.User),
		orgs:        make(map[string]organizations.Organization),
		memberships: make(map[string]memberships.Membership),
		herds:       make(map[string]herds.Herd),
	}
}

func (s *state) clone() *state {
	out := newState()
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.orgs {
		out.orgs[k] = v
	}
	for k, v := range s.memberships {
		out.memberships[k] = v
	}
	for k, v := range s.herds {
		out.herds[k] = v
	}
	return out
}

// accessor abstrae cómo un repo llega al estado: con lock (Store) o sobre la
// copia de una transacción en curso (txAccessor, el lock ya lo tiene WithinTx).
type accessor interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// Store es el storage in-memory para dev y tests. Todos los repos comparten
// un único estado para que las uniques cruzadas (email, herd_id,
// organización+usuario) y las transacciones se comporten como en Postgres.
type Store struct {
	mu sync.RWMutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func (s *Store) Users() users.Repository                 { return &UserRepo{a: s} }
func (s *Store) Organizations() organizations.Repository { return &OrganizationRepo{a: s} }
func (s *Store) Memberships() memberships.Repository     { return &MembershipRepo{a: s} }
func (s *Store) Herds() herds.Repository                 { return &HerdRepo{a: s} }

// WithinTx trabaja sobre una copia del estado y la publica solo si fn
// devuelve nil. Con error o panic la copia se descarta.
// fn no debe usar los repos del Store (solo los de tx): el lock está tomado.
func (s *Store) WithinTx(ctx context.Context, fn func(tx clients.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&tx{a: &txAccessor{st: work}}); err != nil {
		return err
	}
	s.st = work
	return nil
}

type txAccessor struct {
	st *state
}

func (t *txAccessor) read(fn func(st *state) error) error  { return fn(t.st) }
func (t *txAccessor) write(fn func(st *state) error) error { return fn(t.st) }

type tx struct {
	a accessor
}

func (t *tx) Users() users.Repository                 { return &UserRepo{a: t.a} }
func (t *tx) Organizations() organizations.Repository { return &OrganizationRepo{a: t.a} }
func (t *tx) Memberships() memberships.Repository     { return &MembershipRepo{a: t.a} }
func (t *tx) Herds() herds.Repository                 { return &HerdRepo{a: t.a} }

var _ clients.Store = (*Store)(nil)
