package store

import (
	"slices"

	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/domain"
)

func RoleToDomain(row RoleRow) domain.Role {
	return domain.Role{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		CreatedBy:   row.CreatedBy,
		UpdatedBy:   row.UpdatedBy,
	}
}

func RoleFromDomain(r domain.Role) RoleRow {
	return RoleRow{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		CreatedBy:   r.CreatedBy,
		UpdatedBy:   r.UpdatedBy,
	}
}

func RolesToDomain(rows []RoleRow) []domain.Role {
	roles := make([]domain.Role, len(rows))
	for i, row := range rows {
		roles[i] = RoleToDomain(row)
	}
	return roles
}

// UserToDomain drops the password hash. roleIDs is copied and sorted.
func UserToDomain(row UserRow, roleIDs []string) domain.User {
	ids := slices.Clone(roleIDs)
	if ids == nil {
		ids = []string{}
	}
	slices.Sort(ids)

	return domain.User{
		ID:                 row.ID,
		Username:           row.Username,
		Email:              row.Email,
		FirstName:          row.FirstName,
		LastName:           row.LastName,
		Enabled:            row.Enabled,
		AccountLocked:      row.AccountLocked,
		AccountExpired:     row.AccountExpired,
		CredentialsExpired: row.CredentialsExpired,
		RoleIDs:            ids,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
		CreatedBy:          row.CreatedBy,
		UpdatedBy:          row.UpdatedBy,
	}
}

// UserFromDomain builds a row for u. Role links are stored separately, so
// RoleIDs is not part of the row.
func UserFromDomain(u domain.User, passwordHash string) UserRow {
	return UserRow{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		PasswordHash:       passwordHash,
		Enabled:            u.Enabled,
		AccountLocked:      u.AccountLocked,
		AccountExpired:     u.AccountExpired,
		CredentialsExpired: u.CredentialsExpired,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
		CreatedBy:          u.CreatedBy,
		UpdatedBy:          u.UpdatedBy,
	}
}
