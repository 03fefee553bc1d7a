package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/idx"
)

const roleColumns = `id, name, description, created_at, updated_at, created_by, updated_by`

// maxIDsPerQuery keeps IN lists well under SQLite's bound variable limit.
const maxIDsPerQuery = 500

type rolesRepo struct {
	q querier
	t tables
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRole(s rowScanner) (store.RoleRow, error) {
	var r store.RoleRow
	err := s.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt, &r.CreatedBy, &r.UpdatedBy)
	return r, err
}

func (r *rolesRepo) queryRoles(ctx context.Context, query string, args ...any) ([]store.RoleRow, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.RoleRow{}
	for rows.Next() {
		row, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *rolesRepo) FindAll(ctx context.Context) ([]store.RoleRow, error) {
	return r.queryRoles(ctx, fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, roleColumns, r.t.roles))
}

func (r *rolesRepo) FindByID(ctx context.Context, id string) (store.RoleRow, error) {
	row, err := scanRole(r.q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, roleColumns, r.t.roles), id))
	if err != nil {
		return store.RoleRow{}, mapNotFound(err)
	}
	return row, nil
}

func (r *rolesRepo) FindAllByID(ctx context.Context, ids []string) ([]store.RoleRow, error) {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	out := []store.RoleRow{}
	for batch := range slices.Chunk(ids, maxIDsPerQuery) {
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")

		rows, err := r.queryRoles(ctx,
			fmt.Sprintf(`SELECT %s FROM %s WHERE id IN (%s) ORDER BY id`, roleColumns, r.t.roles, placeholders),
			args...)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func (r *rolesRepo) FindByName(ctx context.Context, name string) (store.RoleRow, error) {
	row, err := scanRole(r.q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE name = ?`, roleColumns, r.t.roles), name))
	if err != nil {
		return store.RoleRow{}, mapNotFound(err)
	}
	return row, nil
}

func (r *rolesRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE name = ?)`, r.t.roles), name).Scan(&exists)
	return exists, err
}

func (r *rolesRepo) Save(ctx context.Context, role store.RoleRow) (store.RoleRow, error) {
	if role.ID == "" {
		role.ID = idx.New().String()
	}
	ts := now()
	role.CreatedAt, role.UpdatedAt = ts, ts

	_, err := r.q.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?)`, r.t.roles, roleColumns),
		role.ID, role.Name, role.Description, role.CreatedAt, role.UpdatedAt, role.CreatedBy, role.UpdatedBy)
	if err != nil {
		return store.RoleRow{}, mapConstraint(err, err)
	}
	return role, nil
}

func (r *rolesRepo) Update(ctx context.Context, role store.RoleRow) (store.RoleRow, error) {
	res, err := r.q.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET name = ?, description = ?, updated_at = ?, updated_by = ? WHERE id = ?`, r.t.roles),
		role.Name, role.Description, now(), role.UpdatedBy, role.ID)
	if err != nil {
		return store.RoleRow{}, mapConstraint(err, err)
	}
	if err := requireAffected(res); err != nil {
		return store.RoleRow{}, err
	}
	return r.FindByID(ctx, role.ID)
}

func (r *rolesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.t.roles), id)
	if err != nil {
		return mapConstraint(err, store.ErrReferenced)
	}
	return requireAffected(res)
}

func (r *rolesRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.t.roles)).Scan(&n)
	return n, err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
