package domain

import "time"

// User is the caller-facing view of an account. Credentials never appear here.
type User struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string

	// Independent status dimensions.
	Enabled            bool
	AccountLocked      bool
	AccountExpired     bool
	CredentialsExpired bool

	RoleIDs []string // Role IDs, sorted

	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	UpdatedBy string
}

// Equal compares identity only.
func (u User) Equal(other User) bool {
	return u.ID == other.ID
}

// HasRole reports whether roleID is among the user's roles.
func (u User) HasRole(roleID string) bool {
	for _, id := range u.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}
