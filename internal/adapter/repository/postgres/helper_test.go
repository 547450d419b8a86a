package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	infrapg "github.com/iho/txnflow/internal/infrastructure/postgres"
)

// newTestPool connects to TXNFLOW_TEST_DATABASE_URL and applies migrations.
// Tests that need a database are skipped when the variable is unset.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TXNFLOW_TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TXNFLOW_TEST_DATABASE_URL not set")
	}

	if err := infrapg.RunMigrations(dbURL, zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := infrapg.NewPool(ctx, dbURL, 2, 0)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

// newRunID returns a fresh run id so tests never see each other's rows.
func newRunID() string {
	return ulid.Make().String()
}
