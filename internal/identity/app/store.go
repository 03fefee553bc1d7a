package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store/drivers/postgres"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store/drivers/sqlite"
)

// OpenStore connects to the configured driver and applies DDL migrations.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.DBDriver {
	case DriverPostgres:
		st, err = postgres.NewStore(ctx, cfg.DBDSN)
	default:
		st, err = sqlite.NewStore(sqliteDSN(cfg.DBDSN))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return st, nil
}

// sqliteDSN turns a bare file name into a URI with foreign keys, a busy
// timeout and WAL. In-memory and URI forms are used as given.
func sqliteDSN(dsn string) string {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dsn)
}
