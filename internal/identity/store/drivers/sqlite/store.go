package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// tables names one role/user table set.
type tables struct {
	roles     string
	users     string
	userRoles string
}

var (
	mainTables   = tables{roles: "roles", users: "users", userRoles: "user_roles"}
	sampleTables = tables{roles: "sample_roles", users: "sample_users", userRoles: "sample_user_roles"}
)

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite has a single writer, and every connection to ":memory:" is a
	// separate database.
	db.SetMaxOpenConns(1)

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Roles() store.Roles         { return &rolesRepo{q: s.db, t: mainTables} }
func (s *Store) Users() store.Users         { return &usersRepo{q: s.db, t: mainTables} }
func (s *Store) SampleRoles() store.Roles   { return &rolesRepo{q: s.db, t: sampleTables} }
func (s *Store) SampleUsers() store.Users   { return &usersRepo{q: s.db, t: sampleTables} }
func (s *Store) Changelog() store.Changelog { return &changelogRepo{q: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint translates SQLite constraint failures into store errors.
// fkErr is returned for foreign key violations since its meaning depends on
// the statement (missing parent on insert, live children on delete).
func mapConstraint(err error, fkErr error) error {
	var se *moderncsqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return store.ErrAlreadyExists
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return fkErr
	}
	return err
}

func now() time.Time { return time.Now().UTC() }
