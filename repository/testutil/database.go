package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"credmarket/database"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDatabase wraps a disposable PostgreSQL container with a migrated
// schema for repository integration tests.
type TestDatabase struct {
	DB        *database.DB
	URL       string
	container *postgres.PostgresContainer
}

// SetupTestDatabase starts a PostgreSQL container, runs all migrations
// and returns a connected pool. The container is torn down via t.Cleanup.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("credmarket_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	if err := database.RunMigrationsWithURL(url); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db, err := database.NewConnection(ctx, url)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	testDB := &TestDatabase{DB: db, URL: url, container: container}
	t.Cleanup(func() {
		db.Close()
		terminateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(terminateCtx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	return testDB
}

// Truncate empties the given tables between test cases
func (td *TestDatabase) Truncate(t *testing.T, tables ...string) {
	t.Helper()

	for _, table := range tables {
		if _, err := td.DB.Pool.Exec(context.Background(), fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			t.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
}
