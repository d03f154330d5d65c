//go:build integration_test

// pkg/db/dbtest/postgres.go
package dbtest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"btc-retire/pkg/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	pgOnce     sync.Once
	pgAdminDSN string
	pgErr      error
)

// adminDSN starts a shared Postgres container once per test binary.
func adminDSN(t testing.TB) string {
	t.Helper()

	pgOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		container, err := postgres.Run(ctx, "postgres:16-alpine",
			postgres.WithDatabase("btcretire"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			postgres.BasicWaitStrategies(),
		)
		if err != nil {
			pgErr = fmt.Errorf("start postgres container: %w", err)
			return
		}
		pgAdminDSN, pgErr = container.ConnectionString(ctx, "sslmode=disable")
	})

	require.NoError(t, pgErr, "postgres container unavailable")
	return pgAdminDSN
}

// NewPostgres creates a fresh, migrated database inside the shared container.
// The database is dropped when the test ends.
func NewPostgres(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := adminDSN(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	admin, err := sqlx.Connect(db.DriverPgx, dsn)
	require.NoError(t, err, "failed to connect to postgres")
	defer func() {
		assert.NoError(t, admin.Close(), "failed to close admin connection")
	}()

	name := "btcretire_" + strings.ToLower(strings.NewReplacer("/", "_", " ", "_", "-", "_").Replace(t.Name()))
	_, err = admin.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %s", name))
	require.NoError(t, err, "failed to create test database")

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	u.Path = "/" + name

	conn, err := sqlx.Connect(db.DriverPgx, u.String())
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, db.Migrate(ctx, conn), "failed to migrate test database")

	t.Cleanup(func() {
		_ = conn.Close()

		cctx, ccancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer ccancel()
		if a, err := sqlx.Connect(db.DriverPgx, dsn); err == nil {
			_, _ = a.ExecContext(cctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s WITH (FORCE)", name))
			_ = a.Close()
		}
	})
	return conn
}
