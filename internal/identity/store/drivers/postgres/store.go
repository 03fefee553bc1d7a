// Package postgres implements store.Store on PostgreSQL using a pgx pool.
package postgres

import (
	"context"
	"errors"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
)

// SQLSTATE codes this driver translates.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

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
	pool *pgxpool.Pool
}

// NewStore connects to dsn and verifies the connection.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{pool: pool}, nil
}

// NewStoreFromPool wraps an existing pool. Close closes the pool.
func NewStoreFromPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return newTx(ctx, tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // returns pgx.ErrTxClosed after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Roles() store.Roles         { return &rolesRepo{db: s.pool, t: mainTables} }
func (s *Store) Users() store.Users         { return &usersRepo{db: s.pool, t: mainTables} }
func (s *Store) SampleRoles() store.Roles   { return &rolesRepo{db: s.pool, t: sampleTables} }
func (s *Store) SampleUsers() store.Users   { return &usersRepo{db: s.pool, t: sampleTables} }
func (s *Store) Changelog() store.Changelog { return &changelogRepo{db: s.pool} }

func mapNotFound(err error) error {
	if pgxscan.NotFound(err) || errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint translates constraint violations into store errors. fkErr is
// returned for foreign key violations.
func mapConstraint(err error, fkErr error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return store.ErrAlreadyExists
	case codeForeignKeyViolation:
		return fkErr
	}
	return err
}
