package store

import "time"

// RoleRow is the persisted shape of a role.
type RoleRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	CreatedBy   string    `db:"created_by"`
	UpdatedBy   string    `db:"updated_by"`
}

// UserRow is the persisted shape of a user, including credential material
// that must not leave the storage layer.
type UserRow struct {
	ID                 string    `db:"id"`
	Username           string    `db:"username"`
	Email              string    `db:"email"`
	FirstName          string    `db:"first_name"`
	LastName           string    `db:"last_name"`
	PasswordHash       string    `db:"password_hash"`
	Enabled            bool      `db:"enabled"`
	AccountLocked      bool      `db:"account_locked"`
	AccountExpired     bool      `db:"account_expired"`
	CredentialsExpired bool      `db:"credentials_expired"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
	CreatedBy          string    `db:"created_by"`
	UpdatedBy          string    `db:"updated_by"`
}

// ChangesetRecord is one row of the seed ledger.
type ChangesetRecord struct {
	ID        string    `db:"id"`
	Author    string    `db:"author"`
	Contexts  string    `db:"contexts"` // comma separated
	Checksum  string    `db:"checksum"`
	AppliedAt time.Time `db:"applied_at"`
}
