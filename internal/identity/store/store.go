package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrReferenced    = errors.New("store: still referenced")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this and hand out sub-repositories bound to either the database
// or a transaction.
type Store interface {
	Roles() Roles
	Users() Users

	// SampleRoles and SampleUsers operate on the sample_ prefixed tables that
	// hold demo fixtures for non-production environments.
	SampleRoles() Roles
	SampleUsers() Users

	Changelog() Changelog

	// ApplyMigrations brings the schema up to date.
	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction. It commits when fn returns nil and
	// rolls back on error or panic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Roles interface {
	// FindAll returns every role in id order, which is insertion order for ULIDs.
	FindAll(ctx context.Context) ([]RoleRow, error)

	FindByID(ctx context.Context, id string) (RoleRow, error)

	// FindAllByID returns the roles whose id is in ids. Missing ids are skipped.
	FindAllByID(ctx context.Context, ids []string) ([]RoleRow, error)

	// FindByName matches the name exactly (case-sensitive).
	FindByName(ctx context.Context, name string) (RoleRow, error)

	ExistsByName(ctx context.Context, name string) (bool, error)

	// Save inserts the role, generating an id when empty, and returns the
	// stored row with its timestamps. A duplicate name yields ErrAlreadyExists.
	Save(ctx context.Context, r RoleRow) (RoleRow, error)

	// Update changes name and description and bumps updated_at.
	Update(ctx context.Context, r RoleRow) (RoleRow, error)

	// Delete fails with ErrReferenced while users still hold the role.
	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)
}

type Users interface {
	FindAll(ctx context.Context) ([]UserRow, error)

	FindByID(ctx context.Context, id string) (UserRow, error)

	FindByUsername(ctx context.Context, username string) (UserRow, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Save inserts the user, generating an id when empty. A duplicate
	// username yields ErrAlreadyExists.
	Save(ctx context.Context, u UserRow) (UserRow, error)

	// Delete fails with ErrReferenced while the user still holds roles.
	Delete(ctx context.Context, id string) error

	// AssignRole links a user to a role. Assigning twice is a no-op.
	AssignRole(ctx context.Context, userID, roleID string) error

	// RoleIDs returns the user's role ids sorted ascending.
	RoleIDs(ctx context.Context, userID string) ([]string, error)
}

// Changelog is the ledger of applied seed changesets.
type Changelog interface {
	Find(ctx context.Context, id string) (ChangesetRecord, error)

	Record(ctx context.Context, rec ChangesetRecord) error

	// List returns applied changesets in the order they were applied.
	List(ctx context.Context) ([]ChangesetRecord, error)
}
