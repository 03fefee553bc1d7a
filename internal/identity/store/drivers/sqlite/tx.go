package sqlite

import (
	"context"
	"database/sql"

	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // caller commits or rolls back; the DB stays open

// Ping is a no-op for transactions: the connection is held for the lifetime of the tx.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Roles() store.Roles         { return &rolesRepo{q: t.tx, t: mainTables} }
func (t *txStore) Users() store.Users         { return &usersRepo{q: t.tx, t: mainTables} }
func (t *txStore) SampleRoles() store.Roles   { return &rolesRepo{q: t.tx, t: sampleTables} }
func (t *txStore) SampleUsers() store.Users   { return &usersRepo{q: t.tx, t: sampleTables} }
func (t *txStore) Changelog() store.Changelog { return &changelogRepo{q: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // no-op; migrations run before any tx
