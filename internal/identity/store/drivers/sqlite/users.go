package sqlite

import (
	"context"
	"fmt"

	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/idx"
)

const userColumns = `id, username, email, first_name, last_name, password_hash, enabled,
	account_locked, account_expired, credentials_expired, created_at, updated_at, created_by, updated_by`

type usersRepo struct {
	q querier
	t tables
}

func scanUser(s rowScanner) (store.UserRow, error) {
	var u store.UserRow
	err := s.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Enabled,
		&u.AccountLocked, &u.AccountExpired, &u.CredentialsExpired,
		&u.CreatedAt, &u.UpdatedAt, &u.CreatedBy, &u.UpdatedBy,
	)
	return u, err
}

func (r *usersRepo) FindAll(ctx context.Context) ([]store.UserRow, error) {
	rows, err := r.q.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, userColumns, r.t.users))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.UserRow{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) FindByID(ctx context.Context, id string) (store.UserRow, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, userColumns, r.t.users), id))
	if err != nil {
		return store.UserRow{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) FindByUsername(ctx context.Context, username string) (store.UserRow, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE username = ?`, userColumns, r.t.users), username))
	if err != nil {
		return store.UserRow{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE username = ?)`, r.t.users), username).Scan(&exists)
	return exists, err
}

func (r *usersRepo) Save(ctx context.Context, u store.UserRow) (store.UserRow, error) {
	if u.ID == "" {
		u.ID = idx.New().String()
	}
	ts := now()
	u.CreatedAt, u.UpdatedAt = ts, ts

	_, err := r.q.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, r.t.users, userColumns),
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.Enabled,
		u.AccountLocked, u.AccountExpired, u.CredentialsExpired,
		u.CreatedAt, u.UpdatedAt, u.CreatedBy, u.UpdatedBy,
	)
	if err != nil {
		return store.UserRow{}, mapConstraint(err, err)
	}
	return u, nil
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.t.users), id)
	if err != nil {
		return mapConstraint(err, store.ErrReferenced)
	}
	return requireAffected(res)
}

func (r *usersRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	_, err := r.q.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (user_id, role_id) VALUES (?, ?) ON CONFLICT (user_id, role_id) DO NOTHING`, r.t.userRoles),
		userID, roleID)
	if err != nil {
		return mapConstraint(err, store.ErrNotFound)
	}
	return nil
}

func (r *usersRepo) RoleIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		fmt.Sprintf(`SELECT role_id FROM %s WHERE user_id = ? ORDER BY role_id`, r.t.userRoles), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
