package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/hplc-lab/trace-viewer/internal/schema"
)

// SetupPool creates a pgxpool.Pool for integration tests against
// TEST_DATABASE_URL and applies the schema. Tests are skipped when the
// variable is unset.
func SetupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	for _, path := range []string{"../../.env", "../../../.env", "../../../../.env"} {
		_ = godotenv.Load(path)
	}

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	if err := schema.Ensure(context.Background(), pool); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return pool
}
