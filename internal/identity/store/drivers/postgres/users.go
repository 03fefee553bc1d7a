package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/idx"
)

const userColumns = `id, username, email, first_name, last_name, password_hash, enabled,
	account_locked, account_expired, credentials_expired, created_at, updated_at, created_by, updated_by`

type usersRepo struct {
	db dbtx
	t  tables
}

func (r *usersRepo) FindAll(ctx context.Context) ([]store.UserRow, error) {
	rows := []store.UserRow{}
	err := pgxscan.Select(ctx, r.db, &rows,
		fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, userColumns, r.t.users))
	return rows, err
}

func (r *usersRepo) FindByID(ctx context.Context, id string) (store.UserRow, error) {
	var u store.UserRow
	err := pgxscan.Get(ctx, r.db, &u,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, userColumns, r.t.users), id)
	if err != nil {
		return store.UserRow{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) FindByUsername(ctx context.Context, username string) (store.UserRow, error) {
	var u store.UserRow
	err := pgxscan.Get(ctx, r.db, &u,
		fmt.Sprintf(`SELECT %s FROM %s WHERE username = $1`, userColumns, r.t.users), username)
	if err != nil {
		return store.UserRow{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE username = $1)`, r.t.users), username).Scan(&exists)
	return exists, err
}

func (r *usersRepo) Save(ctx context.Context, u store.UserRow) (store.UserRow, error) {
	if u.ID == "" {
		u.ID = idx.New().String()
	}

	var saved store.UserRow
	err := pgxscan.Get(ctx, r.db, &saved,
		fmt.Sprintf(`INSERT INTO %s (id, username, email, first_name, last_name, password_hash, enabled,
			account_locked, account_expired, credentials_expired, created_by, updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING %s`, r.t.users, userColumns),
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.Enabled,
		u.AccountLocked, u.AccountExpired, u.CredentialsExpired, u.CreatedBy, u.UpdatedBy,
	)
	if err != nil {
		return store.UserRow{}, mapConstraint(err, err)
	}
	return saved, nil
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.t.users), id)
	if err != nil {
		return mapConstraint(err, store.ErrReferenced)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	_, err := r.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (user_id, role_id) VALUES ($1, $2) ON CONFLICT (user_id, role_id) DO NOTHING`, r.t.userRoles),
		userID, roleID)
	if err != nil {
		return mapConstraint(err, store.ErrNotFound)
	}
	return nil
}

func (r *usersRepo) RoleIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := pgxscan.Select(ctx, r.db, &ids,
		fmt.Sprintf(`SELECT role_id FROM %s WHERE user_id = $1 ORDER BY role_id`, r.t.userRoles), userID)
	return ids, err
}
