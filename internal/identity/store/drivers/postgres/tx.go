package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
)

var errNestedTx = errors.New("postgres: nested transactions are not supported")

type txStore struct {
	ctx context.Context
	tx  pgx.Tx
}

func newTx(ctx context.Context, tx pgx.Tx) *txStore {
	return &txStore{ctx: ctx, tx: tx}
}

func (t *txStore) Commit() error { return t.tx.Commit(t.ctx) }

// Rollback uses a fresh context so a cancelled request still releases the connection.
func (t *txStore) Rollback() error { return t.tx.Rollback(context.Background()) }

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
func (t *txStore) ApplyMigrations() error         { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, errNestedTx }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return errNestedTx
}

func (t *txStore) Roles() store.Roles         { return &rolesRepo{db: t.tx, t: mainTables} }
func (t *txStore) Users() store.Users         { return &usersRepo{db: t.tx, t: mainTables} }
func (t *txStore) SampleRoles() store.Roles   { return &rolesRepo{db: t.tx, t: sampleTables} }
func (t *txStore) SampleUsers() store.Users   { return &usersRepo{db: t.tx, t: sampleTables} }
func (t *txStore) Changelog() store.Changelog { return &changelogRepo{db: t.tx} }
