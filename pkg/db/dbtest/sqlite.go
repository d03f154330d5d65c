// pkg/db/dbtest/sqlite.go
package dbtest

import (
	"context"
	"testing"
	"time"

	"btc-retire/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewSQLite returns a migrated in-memory SQLite database that lives for the
// duration of the test.
func NewSQLite(t testing.TB) *sqlx.DB {
	t.Helper()

	conn, err := db.NewSQLiteDB(":memory:")
	require.NoError(t, err, "failed to open SQLite database")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.Migrate(ctx, conn), "failed to migrate SQLite database")

	t.Cleanup(func() {
		assert.NoError(t, conn.Close(), "failed to close SQLite database")
	})
	return conn
}
