package changelog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/changelog"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store/drivers/sqlite"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/slogx"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newRunner(t *testing.T, s store.Store, doc string) *changelog.Runner {
	t.Helper()

	var (
		cl  changelog.Changelog
		err error
	)
	if doc == "" {
		cl, err = changelog.Default()
	} else {
		cl, err = changelog.Load(strings.NewReader(doc))
	}
	require.NoError(t, err)
	return changelog.NewRunner(s, cl, slogx.Discard())
}

func countRolesNamed(t *testing.T, roles store.Roles, name string) int {
	t.Helper()

	all, err := roles.FindAll(context.Background())
	require.NoError(t, err)
	n := 0
	for _, r := range all {
		if r.Name == name {
			n++
		}
	}
	return n
}

func TestApplyTwiceIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	r := newRunner(t, s, "")

	first, err := r.Apply(ctx, changelog.EnvDev)
	require.NoError(t, err)
	require.Equal(t, []string{"0001-core-roles", "0002-dev-users", "0005-sample-roles", "0006-sample-users"}, first.Applied)
	require.Empty(t, first.Skipped)

	second, err := r.Apply(ctx, changelog.EnvDev)
	require.NoError(t, err)
	require.Empty(t, second.Applied)
	require.Equal(t, first.Applied, second.Skipped)

	n, err := s.Roles().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 1, countRolesNamed(t, s.Roles(), "ADMIN"))
	require.Equal(t, 1, countRolesNamed(t, s.Roles(), "USER"))

	users, err := s.Users().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
}

func TestRowGuardsPreventDuplicatesWithoutLedger(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	// Two changesets seeding the same rows behave like a re-run whose ledger
	// entry was lost.
	r := newRunner(t, s, `
changesets:
  - id: roles-v1
    roles: [{name: ADMIN}, {name: USER}]
    users:
      - {username: alice, password: pw, roles: [ADMIN]}
  - id: roles-v2
    roles: [{name: ADMIN}, {name: USER}]
    users:
      - {username: alice, password: pw, roles: [ADMIN, USER]}
`)

	report, err := r.Apply(ctx, changelog.EnvDev)
	require.NoError(t, err)
	require.Len(t, report.Applied, 2)

	require.Equal(t, 1, countRolesNamed(t, s.Roles(), "ADMIN"))
	require.Equal(t, 1, countRolesNamed(t, s.Roles(), "USER"))

	alice, err := s.Users().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	ids, err := s.Users().RoleIDs(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, ids, 2)
}

func TestApplyHonoursContexts(t *testing.T) {
	ctx := context.Background()

	t.Run("prod gets core roles and the operator only", func(t *testing.T) {
		s := newStore(t)
		r := newRunner(t, s, "")

		report, err := r.Apply(ctx, changelog.EnvProd)
		require.NoError(t, err)
		require.Equal(t, []string{"0001-core-roles", "0004-prod-operator"}, report.Applied)

		n, err := s.SampleRoles().Count(ctx)
		require.NoError(t, err)
		require.Zero(t, n)

		op, err := s.Users().FindByUsername(ctx, "operator")
		require.NoError(t, err)
		require.Empty(t, op.PasswordHash)
		require.True(t, op.CredentialsExpired)
		require.True(t, op.Enabled)

		_, err = s.Users().FindByUsername(ctx, "admin")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("uat gets sample fixtures and uat users", func(t *testing.T) {
		s := newStore(t)
		r := newRunner(t, s, "")

		report, err := r.Apply(ctx, changelog.EnvUAT)
		require.NoError(t, err)
		require.Equal(t, []string{"0001-core-roles", "0003-uat-users", "0005-sample-roles", "0006-sample-users"}, report.Applied)

		u, err := s.Users().FindByUsername(ctx, "uat-tester")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(u.PasswordHash, "$argon2id$"))
		require.False(t, u.CredentialsExpired)
	})
}

func TestSampleSeedStaysInSampleTables(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	r := newRunner(t, s, "")

	_, err := r.Apply(ctx, changelog.EnvDev)
	require.NoError(t, err)

	sample, err := s.SampleRoles().FindAll(ctx)
	require.NoError(t, err)
	names := make([]string, len(sample))
	for i, role := range sample {
		names[i] = role.Name
	}
	require.Equal(t, []string{"ROLE_ADMIN", "ROLE_USER", "ROLE_DEVELOPER", "ROLE_MANAGER", "ROLE_TESTER"}, names)

	for _, name := range names {
		exists, err := s.Roles().ExistsByName(ctx, name)
		require.NoError(t, err)
		require.False(t, exists, name)
	}

	disabled, err := s.SampleUsers().FindByUsername(ctx, "sample.disabled")
	require.NoError(t, err)
	require.False(t, disabled.Enabled)
	require.True(t, disabled.AccountExpired)
	require.False(t, disabled.AccountLocked)

	_, err = s.Users().FindByUsername(ctx, "sample.disabled")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestApplyDetectsChecksumDrift(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := newRunner(t, s, `
changesets:
  - id: roles
    roles: [{name: ADMIN}]
`).Apply(ctx, changelog.EnvDev)
	require.NoError(t, err)

	_, err = newRunner(t, s, `
changesets:
  - id: roles
    roles: [{name: ADMIN}, {name: AUDITOR}]
`).Apply(ctx, changelog.EnvDev)
	require.ErrorIs(t, err, changelog.ErrChecksumMismatch)

	exists, err := s.Roles().ExistsByName(ctx, "AUDITOR")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestUnknownRoleRollsBackChangeset(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	r := newRunner(t, s, `
changesets:
  - id: broken
    roles: [{name: ADMIN}]
    users:
      - {username: bob, roles: [GHOST]}
`)

	_, err := r.Apply(ctx, changelog.EnvDev)
	require.ErrorIs(t, err, changelog.ErrUnknownRole)

	n, err := s.Roles().Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = s.Changelog().Find(ctx, "broken")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	r := newRunner(t, s, "")

	before, err := r.Status(ctx, changelog.EnvProd)
	require.NoError(t, err)
	require.Len(t, before, 6)
	for _, st := range before {
		require.False(t, st.Applied, st.ID)
	}

	_, err = r.Apply(ctx, changelog.EnvProd)
	require.NoError(t, err)

	after, err := r.Status(ctx, changelog.EnvProd)
	require.NoError(t, err)
	for _, st := range after {
		require.Equal(t, st.Applies, st.Applied, st.ID)
		require.False(t, st.Drifted, st.ID)
	}

	_, err = r.Status(ctx, "staging")
	require.ErrorIs(t, err, changelog.ErrUnknownEnv)
	_, err = r.Apply(ctx, "staging")
	require.ErrorIs(t, err, changelog.ErrUnknownEnv)
}

func TestAppliedMetric(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	r := newRunner(t, s, "")

	reg := prometheus.NewRegistry()
	r.Metrics = changelog.NewMetrics(reg, "identity")

	_, err := r.Apply(ctx, changelog.EnvProd)
	require.NoError(t, err)
	_, err = r.Apply(ctx, changelog.EnvProd)
	require.NoError(t, err)

	require.Equal(t, 1, testutil.CollectAndCount(reg, "identity_changesets_applied_total"))
	metrics, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	require.Equal(t, float64(2), metrics[0].GetMetric()[0].GetCounter().GetValue())
}
