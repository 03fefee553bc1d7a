package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/idx"
)

const roleColumns = `id, name, description, created_at, updated_at, created_by, updated_by`

type rolesRepo struct {
	db dbtx
	t  tables
}

func (r *rolesRepo) FindAll(ctx context.Context) ([]store.RoleRow, error) {
	rows := []store.RoleRow{}
	err := pgxscan.Select(ctx, r.db, &rows,
		fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, roleColumns, r.t.roles))
	return rows, err
}

func (r *rolesRepo) FindByID(ctx context.Context, id string) (store.RoleRow, error) {
	var row store.RoleRow
	err := pgxscan.Get(ctx, r.db, &row,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, roleColumns, r.t.roles), id)
	if err != nil {
		return store.RoleRow{}, mapNotFound(err)
	}
	return row, nil
}

func (r *rolesRepo) FindAllByID(ctx context.Context, ids []string) ([]store.RoleRow, error) {
	rows := []store.RoleRow{}
	if len(ids) == 0 {
		return rows, nil
	}
	err := pgxscan.Select(ctx, r.db, &rows,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = ANY($1) ORDER BY id`, roleColumns, r.t.roles), ids)
	return rows, err
}

func (r *rolesRepo) FindByName(ctx context.Context, name string) (store.RoleRow, error) {
	var row store.RoleRow
	err := pgxscan.Get(ctx, r.db, &row,
		fmt.Sprintf(`SELECT %s FROM %s WHERE name = $1`, roleColumns, r.t.roles), name)
	if err != nil {
		return store.RoleRow{}, mapNotFound(err)
	}
	return row, nil
}

func (r *rolesRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE name = $1)`, r.t.roles), name).Scan(&exists)
	return exists, err
}

func (r *rolesRepo) Save(ctx context.Context, role store.RoleRow) (store.RoleRow, error) {
	if role.ID == "" {
		role.ID = idx.New().String()
	}

	var saved store.RoleRow
	err := pgxscan.Get(ctx, r.db, &saved,
		fmt.Sprintf(`INSERT INTO %s (id, name, description, created_by, updated_by)
			VALUES ($1, $2, $3, $4, $5) RETURNING %s`, r.t.roles, roleColumns),
		role.ID, role.Name, role.Description, role.CreatedBy, role.UpdatedBy)
	if err != nil {
		return store.RoleRow{}, mapConstraint(err, err)
	}
	return saved, nil
}

func (r *rolesRepo) Update(ctx context.Context, role store.RoleRow) (store.RoleRow, error) {
	var updated store.RoleRow
	err := pgxscan.Get(ctx, r.db, &updated,
		fmt.Sprintf(`UPDATE %s SET name = $1, description = $2, updated_at = now(), updated_by = $3
			WHERE id = $4 RETURNING %s`, r.t.roles, roleColumns),
		role.Name, role.Description, role.UpdatedBy, role.ID)
	if err != nil {
		return store.RoleRow{}, mapConstraint(mapNotFound(err), err)
	}
	return updated, nil
}

func (r *rolesRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.t.roles), id)
	if err != nil {
		return mapConstraint(err, store.ErrReferenced)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *rolesRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.t.roles)).Scan(&n)
	return n, err
}
