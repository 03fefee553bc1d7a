package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/identitysdk"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, DriverSQLite, cfg.DBDriver)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.True(t, cfg.SeedOnStart)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")
	t.Setenv("IDENTITY_ENV", "prod")
	t.Setenv("IDENTITY_DB_DRIVER", "postgres")
	t.Setenv("IDENTITY_DB_DSN", "postgres://identity@localhost/identity")
	t.Setenv("PORT", "9090")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "3s")
	t.Setenv("IDENTITY_SEED_ON_START", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, DriverPostgres, cfg.DBDriver)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 3*time.Second, cfg.ShutdownGracePeriod)
	require.False(t, cfg.SeedOnStart)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: uat\nport: 7070\nlog_level: debug\n"), 0o600))
	t.Setenv(ConfigFileEnv, path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "uat", cfg.Env)
	require.Equal(t, 7070, cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestConfigValidation(t *testing.T) {
	valid := Config{Env: "dev", DBDriver: DriverSQLite, DBDSN: ":memory:", Port: 8080}
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *Config){
		"environment": func(c *Config) { c.Env = "staging" },
		"driver":      func(c *Config) { c.DBDriver = "mysql" },
		"dsn":         func(c *Config) { c.DBDSN = "" },
		"port":        func(c *Config) { c.Port = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			require.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	require.Equal(t, ":memory:", sqliteDSN(":memory:"))
	require.Equal(t, "file:x.db?mode=ro", sqliteDSN("file:x.db?mode=ro"))
	require.True(t, strings.HasPrefix(sqliteDSN("identity.db"), "file:identity.db?"))
	require.Contains(t, sqliteDSN("identity.db"), "foreign_keys(1)")
}

func TestNewSeedsAndServes(t *testing.T) {
	cfg := Config{
		Env:                 "dev",
		DBDriver:            DriverSQLite,
		DBDSN:               ":memory:",
		SeedOnStart:         true,
		PepperFile:          filepath.Join(t.TempDir(), "pepper"),
		LogLevel:            "error",
		LogFormat:           "text",
		Port:                8080,
		ShutdownGracePeriod: time.Second,
	}

	application, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })

	_, err = os.Stat(cfg.PepperFile)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/roles", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var roles identitysdk.ListRolesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roles))
	require.Len(t, roles.Roles, 2)

	n, err := application.db.SampleRoles().Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, n)

	rec = httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `identity_changesets_applied_total{env="dev"} 4`)
}
