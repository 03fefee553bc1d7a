package postgres

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
)

type changelogRepo struct {
	db dbtx
}

func (r *changelogRepo) Find(ctx context.Context, id string) (store.ChangesetRecord, error) {
	var rec store.ChangesetRecord
	err := pgxscan.Get(ctx, r.db, &rec,
		`SELECT id, author, contexts, checksum, applied_at FROM changelog WHERE id = $1`, id)
	if err != nil {
		return store.ChangesetRecord{}, mapNotFound(err)
	}
	return rec, nil
}

func (r *changelogRepo) Record(ctx context.Context, rec store.ChangesetRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO changelog (id, author, contexts, checksum) VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.Author, rec.Contexts, rec.Checksum)
	if err != nil {
		return mapConstraint(err, err)
	}
	return nil
}

func (r *changelogRepo) List(ctx context.Context) ([]store.ChangesetRecord, error) {
	recs := []store.ChangesetRecord{}
	err := pgxscan.Select(ctx, r.db, &recs,
		`SELECT id, author, contexts, checksum, applied_at FROM changelog ORDER BY seq`)
	return recs, err
}
