package db

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
)

const TEST_POSTGRESQL_URL = "TEST_POSTGRESQL_URL"

// SkipWithoutTestDB skips database suites when no test database is configured.
func SkipWithoutTestDB(t *testing.T) {
	if os.Getenv(TEST_POSTGRESQL_URL) == "" {
		t.Skipf("%s is not set.", TEST_POSTGRESQL_URL)
	}
}

func applyMigrations(connString string) {
	migrationsPath := os.Getenv("TEST_MIGRATIONS_PATH")
	if migrationsPath == "" {
		panic("TEST_MIGRATIONS_PATH must be set.")
	}
	if err := Migrate("file://"+migrationsPath, connString); err != nil {
		panic(fmt.Sprintf("Could not apply DB migrations %v.", err))
	}
}

func CreateTestPool() *pgxpool.Pool {
	connString := os.Getenv(TEST_POSTGRESQL_URL)
	if connString == "" {
		panic("TEST_POSTGRESQL_URL must be set.")
	}
	applyMigrations(connString)

	ctx := context.Background()
	pool, err := pgxpool.Connect(ctx, connString)
	if err != nil {
		panic("Could not connect to the database.")
	}

	return pool
}

func TruncateTables(pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), "TRUNCATE account RESTART IDENTITY")
	if err != nil {
		panic("Could not truncate DB tables.")
	}
}
