package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/domain"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("identity"),
		tcpostgres.WithUsername("identity"),
		tcpostgres.WithPassword("identity"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestPostgresStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(ctx))

	t.Run("roles", func(t *testing.T) {
		admin, err := s.Roles().Save(ctx, store.RoleRow{Name: "ADMIN", CreatedBy: domain.SystemActor, UpdatedBy: domain.SystemActor})
		require.NoError(t, err)
		require.NotEmpty(t, admin.ID)
		require.False(t, admin.CreatedAt.IsZero())

		_, err = s.Roles().Save(ctx, store.RoleRow{Name: "ADMIN"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		user, err := s.Roles().Save(ctx, store.RoleRow{Name: "USER"})
		require.NoError(t, err)

		all, err := s.Roles().FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, "ADMIN", all[0].Name)

		byID, err := s.Roles().FindAllByID(ctx, []string{user.ID, "missing"})
		require.NoError(t, err)
		require.Len(t, byID, 1)

		exists, err := s.Roles().ExistsByName(ctx, "admin")
		require.NoError(t, err)
		require.False(t, exists)

		_, err = s.Roles().FindByName(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)

		user.Description = "regular users"
		updated, err := s.Roles().Update(ctx, user)
		require.NoError(t, err)
		require.Equal(t, "regular users", updated.Description)
	})

	t.Run("users and links", func(t *testing.T) {
		u, err := s.Users().Save(ctx, store.UserRow{Username: "alice", Enabled: true})
		require.NoError(t, err)

		_, err = s.Users().Save(ctx, store.UserRow{Username: "alice"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		role, err := s.Roles().FindByName(ctx, "ADMIN")
		require.NoError(t, err)

		require.NoError(t, s.Users().AssignRole(ctx, u.ID, role.ID))
		require.NoError(t, s.Users().AssignRole(ctx, u.ID, role.ID))
		require.ErrorIs(t, s.Users().AssignRole(ctx, u.ID, "missing"), store.ErrNotFound)

		ids, err := s.Users().RoleIDs(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, []string{role.ID}, ids)

		require.ErrorIs(t, s.Roles().Delete(ctx, role.ID), store.ErrReferenced)
	})

	t.Run("sample tables", func(t *testing.T) {
		_, err := s.SampleRoles().Save(ctx, store.RoleRow{Name: "ADMIN"})
		require.NoError(t, err)

		n, err := s.SampleRoles().Count(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("changelog", func(t *testing.T) {
		require.NoError(t, s.Changelog().Record(ctx, store.ChangesetRecord{ID: "b", Checksum: "1"}))
		require.NoError(t, s.Changelog().Record(ctx, store.ChangesetRecord{ID: "a", Checksum: "2"}))
		require.ErrorIs(t, s.Changelog().Record(ctx, store.ChangesetRecord{ID: "a", Checksum: "2"}), store.ErrAlreadyExists)

		list, err := s.Changelog().List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "b", list[0].ID)
	})

	t.Run("rollback", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			if _, err := tx.Roles().Save(ctx, store.RoleRow{Name: "TEMP"}); err != nil {
				return err
			}
			_, err := tx.Roles().Save(ctx, store.RoleRow{Name: "ADMIN"})
			return err
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		exists, err := s.Roles().ExistsByName(ctx, "TEMP")
		require.NoError(t, err)
		require.False(t, exists)
	})
}
