package changelog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/domain"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/cryptox"
)

// Report summarizes one Apply run.
type Report struct {
	Env     string
	Applied []string
	Skipped []string // already in the ledger
}

// ChangesetStatus describes one changeset relative to the ledger.
type ChangesetStatus struct {
	ID        string
	Author    string
	Target    string
	Applies   bool // contexts match the environment
	Applied   bool
	AppliedAt time.Time
	Drifted   bool // applied with a different checksum
}

// Metrics counts applied changesets.
type Metrics struct {
	applied *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		applied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "changesets_applied_total",
			Help:      "Seed changesets applied, by environment.",
		}, []string{"env"}),
	}
	reg.MustRegister(m.applied)
	return m
}

func (m *Metrics) incApplied(env string) {
	if m == nil {
		return
	}
	m.applied.WithLabelValues(env).Inc()
}

// Runner applies a changelog to a store.
type Runner struct {
	Store     store.Store
	Changelog Changelog
	Hasher    cryptox.PasswordHasher
	Logger    *slog.Logger
	Metrics   *Metrics
}

func NewRunner(st store.Store, cl Changelog, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{Store: st, Changelog: cl, Logger: logger}
}

// Apply runs every changeset that applies to env and is not yet in the ledger.
// Each changeset and its ledger row share one transaction. Processing stops at
// the first failure; earlier changesets stay applied.
func (r *Runner) Apply(ctx context.Context, env string) (Report, error) {
	if !ValidEnv(env) {
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownEnv, env)
	}

	report := Report{Env: env, Applied: []string{}, Skipped: []string{}}
	for _, cs := range r.Changelog.Changesets {
		if !cs.AppliesTo(env) {
			continue
		}

		applied := false
		err := r.Store.WithTx(ctx, func(tx store.Tx) error {
			rec, err := tx.Changelog().Find(ctx, cs.ID)
			switch {
			case err == nil:
				if rec.Checksum != cs.Checksum() {
					return fmt.Errorf("%w: %s", ErrChecksumMismatch, cs.ID)
				}
				return nil
			case !errors.Is(err, store.ErrNotFound):
				return err
			}

			if err := r.applyChangeset(ctx, tx, cs); err != nil {
				return err
			}
			applied = true
			return tx.Changelog().Record(ctx, store.ChangesetRecord{
				ID:       cs.ID,
				Author:   cs.Author,
				Contexts: strings.Join(cs.Contexts, ","),
				Checksum: cs.Checksum(),
			})
		})
		if err != nil {
			r.Logger.ErrorContext(ctx, "changeset failed", "changeset", cs.ID, "env", env, "error", err)
			return report, fmt.Errorf("changeset %s: %w", cs.ID, err)
		}

		if applied {
			report.Applied = append(report.Applied, cs.ID)
			r.Metrics.incApplied(env)
			r.Logger.InfoContext(ctx, "changeset applied", "changeset", cs.ID, "env", env, "target", cs.Target)
		} else {
			report.Skipped = append(report.Skipped, cs.ID)
			r.Logger.DebugContext(ctx, "changeset already applied", "changeset", cs.ID, "env", env)
		}
	}
	return report, nil
}

func (r *Runner) applyChangeset(ctx context.Context, tx store.Tx, cs Changeset) error {
	roles, users := tx.Roles(), tx.Users()
	if cs.Target == TargetSample {
		roles, users = tx.SampleRoles(), tx.SampleUsers()
	}

	for _, role := range cs.Roles {
		exists, err := roles.ExistsByName(ctx, role.Name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := roles.Save(ctx, store.RoleRow{
			Name:        role.Name,
			Description: role.Description,
			CreatedBy:   domain.SystemActor,
			UpdatedBy:   domain.SystemActor,
		}); err != nil {
			return fmt.Errorf("insert role %s: %w", role.Name, err)
		}
	}

	for _, u := range cs.Users {
		row, err := users.FindByUsername(ctx, u.Username)
		switch {
		case errors.Is(err, store.ErrNotFound):
			row, err = r.insertUser(ctx, users, u)
			if err != nil {
				return err
			}
		case err != nil:
			return err
		}

		for _, name := range u.Roles {
			role, err := roles.FindByName(ctx, name)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: %s (user %s)", ErrUnknownRole, name, u.Username)
			}
			if err != nil {
				return err
			}
			if err := users.AssignRole(ctx, row.ID, role.ID); err != nil {
				return fmt.Errorf("assign %s to %s: %w", name, u.Username, err)
			}
		}
	}
	return nil
}

func (r *Runner) insertUser(ctx context.Context, users store.Users, u User) (store.UserRow, error) {
	var hash string
	if u.Password != "" {
		h, err := r.Hasher.Hash(u.Password)
		if err != nil {
			return store.UserRow{}, fmt.Errorf("hash password for %s: %w", u.Username, err)
		}
		hash = h
	}

	row, err := users.Save(ctx, store.UserRow{
		Username:           u.Username,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		PasswordHash:       hash,
		Enabled:            !u.Disabled,
		AccountLocked:      u.AccountLocked,
		AccountExpired:     u.AccountExpired,
		CredentialsExpired: hash == "",
		CreatedBy:          domain.SystemActor,
		UpdatedBy:          domain.SystemActor,
	})
	if err != nil {
		return store.UserRow{}, fmt.Errorf("insert user %s: %w", u.Username, err)
	}
	return row, nil
}

// Status compares the changelog against the ledger for env.
func (r *Runner) Status(ctx context.Context, env string) ([]ChangesetStatus, error) {
	if !ValidEnv(env) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEnv, env)
	}

	records, err := r.Store.Changelog().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list changelog: %w", err)
	}
	byID := make(map[string]store.ChangesetRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	out := make([]ChangesetStatus, 0, len(r.Changelog.Changesets))
	for _, cs := range r.Changelog.Changesets {
		st := ChangesetStatus{
			ID:      cs.ID,
			Author:  cs.Author,
			Target:  cs.Target,
			Applies: cs.AppliesTo(env),
		}
		if rec, ok := byID[cs.ID]; ok {
			st.Applied = true
			st.AppliedAt = rec.AppliedAt
			st.Drifted = rec.Checksum != cs.Checksum()
		}
		out = append(out, st)
	}
	return out, nil
}
