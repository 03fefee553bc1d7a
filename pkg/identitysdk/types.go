package identitysdk

import "time"

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// ============================================================================
// Roles
// ============================================================================

type RoleInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedBy   string    `json:"created_by"`
	UpdatedBy   string    `json:"updated_by"`
}

type ListRolesResponse struct {
	Roles []RoleInfo `json:"roles"`
}

type CreateRoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// LookupRoleResponse is returned by GET /v1/roles/lookup.
type LookupRoleResponse struct {
	ID string `json:"id"`
}

type RoleNamesRequest struct {
	IDs []string `json:"ids"`
}

type RoleNamesResponse struct {
	Names []string `json:"names"`
}

// ============================================================================
// Users
// ============================================================================

type UserInfo struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Enabled            bool      `json:"enabled"`
	AccountLocked      bool      `json:"account_locked"`
	AccountExpired     bool      `json:"account_expired"`
	CredentialsExpired bool      `json:"credentials_expired"`
	RoleIDs            []string  `json:"role_ids"`
	RoleNames          []string  `json:"role_names,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ListUsersResponse struct {
	Users []UserInfo `json:"users"`
}

// ============================================================================
// Health
// ============================================================================

type HealthChecks struct {
	Database string `json:"database"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
