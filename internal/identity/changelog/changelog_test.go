package changelog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/changelog"
)

func TestDefaultChangelog(t *testing.T) {
	cl, err := changelog.Default()
	require.NoError(t, err)
	require.Len(t, cl.Changesets, 6)

	ids := make([]string, len(cl.Changesets))
	for i, cs := range cl.Changesets {
		ids[i] = cs.ID
		require.Len(t, cs.Checksum(), 64, cs.ID)
	}
	require.Equal(t, []string{
		"0001-core-roles", "0002-dev-users", "0003-uat-users",
		"0004-prod-operator", "0005-sample-roles", "0006-sample-users",
	}, ids)

	require.Equal(t, changelog.TargetMain, cl.Changesets[0].Target)
	require.Equal(t, changelog.TargetSample, cl.Changesets[4].Target)
	require.False(t, cl.Changesets[4].AppliesTo(changelog.EnvProd))
	require.True(t, cl.Changesets[0].AppliesTo(changelog.EnvProd))
}

func TestLoadRejectsInvalidChangelogs(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing id": `
changesets:
  - author: me
`,
		"duplicate id": `
changesets:
  - id: a
  - id: a
`,
		"unknown context": `
changesets:
  - id: a
    contexts: [staging]
`,
		"unknown target": `
changesets:
  - id: a
    target: archive
`,
		"unknown field": `
changesets:
  - id: a
    rolez: []
`,
		"role without name": `
changesets:
  - id: a
    roles:
      - description: nameless
`,
		"user without username": `
changesets:
  - id: a
    users:
      - email: x@example.com
`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := changelog.Load(strings.NewReader(doc))
			require.ErrorIs(t, err, changelog.ErrInvalidChangelog)
		})
	}
}

func TestChecksumTracksContentNotFormatting(t *testing.T) {
	a, err := changelog.Load(strings.NewReader(`
changesets:
  - id: roles
    roles: [{name: ADMIN}]
`))
	require.NoError(t, err)

	b, err := changelog.Load(strings.NewReader(`
# reformatted
changesets:
  - id: roles
    target: main
    roles:
      - name: ADMIN
`))
	require.NoError(t, err)

	c, err := changelog.Load(strings.NewReader(`
changesets:
  - id: roles
    roles: [{name: ADMIN, description: changed}]
`))
	require.NoError(t, err)

	require.Equal(t, a.Changesets[0].Checksum(), b.Changesets[0].Checksum())
	require.NotEqual(t, a.Changesets[0].Checksum(), c.Changesets[0].Checksum())
}

func TestValidEnv(t *testing.T) {
	for _, env := range []string{"dev", "uat", "prod"} {
		require.True(t, changelog.ValidEnv(env))
	}
	require.False(t, changelog.ValidEnv("PROD"))
	require.False(t, changelog.ValidEnv(""))
}
