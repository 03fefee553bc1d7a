package sqlite

import (
	"context"

	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
)

type changelogRepo struct {
	q querier
}

func (r *changelogRepo) Find(ctx context.Context, id string) (store.ChangesetRecord, error) {
	var rec store.ChangesetRecord
	err := r.q.QueryRowContext(ctx,
		`SELECT id, author, contexts, checksum, applied_at FROM changelog WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Author, &rec.Contexts, &rec.Checksum, &rec.AppliedAt)
	if err != nil {
		return store.ChangesetRecord{}, mapNotFound(err)
	}
	return rec, nil
}

func (r *changelogRepo) Record(ctx context.Context, rec store.ChangesetRecord) error {
	if rec.AppliedAt.IsZero() {
		rec.AppliedAt = now()
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO changelog (id, author, contexts, checksum, applied_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Author, rec.Contexts, rec.Checksum, rec.AppliedAt)
	if err != nil {
		return mapConstraint(err, err)
	}
	return nil
}

func (r *changelogRepo) List(ctx context.Context) ([]store.ChangesetRecord, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, author, contexts, checksum, applied_at FROM changelog ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.ChangesetRecord{}
	for rows.Next() {
		var rec store.ChangesetRecord
		if err := rows.Scan(&rec.ID, &rec.Author, &rec.Contexts, &rec.Checksum, &rec.AppliedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
