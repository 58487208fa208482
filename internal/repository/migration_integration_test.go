//go:build integration

package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/groupfund/groupfund/internal/testutil"
)

// ============================================================================
// Migration Integration Tests
// ============================================================================

func TestIntegrationMigration_UpCreatesLedgerTables(t *testing.T) {
	ctx, pool, dbURL := newMigrationTestEnv(t)

	if err := MigrateDown(dbURL); err != nil {
		t.Fatalf("MigrateDown failed: %v", err)
	}
	if err := MigrateUp(dbURL); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	// Second run is a no-op.
	if err := MigrateUp(dbURL); err != nil {
		t.Fatalf("MigrateUp (again) failed: %v", err)
	}

	for _, table := range []string{"participants", "categories", "deposits", "expenses"} {
		table := table
		t.Run(table, func(t *testing.T) {
			exists, err := tableExists(ctx, pool, table)
			if err != nil {
				t.Fatalf("tableExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Table %q should exist after migrations", table)
			}
		})
	}
}

func TestIntegrationMigration_LedgerColumns(t *testing.T) {
	ctx, pool, _ := newMigrationTestEnv(t)
	if err := testutil.ResetLedgerSchema(ctx, pool); err != nil {
		t.Fatalf("reset ledger schema: %v", err)
	}

	expected := map[string][]string{
		"participants": {"id", "name", "total_contributed", "created_at", "updated_at"},
		"categories":   {"id", "name", "is_default", "created_at", "updated_at"},
		"deposits":     {"id", "amount", "contributor_id", "date", "created_at", "updated_at"},
		"expenses":     {"id", "amount", "description", "category_id", "date", "created_at", "updated_at"},
	}

	for table, cols := range expected {
		for _, col := range cols {
			exists, err := columnExists(ctx, pool, table, col)
			if err != nil {
				t.Fatalf("columnExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Column %q should exist in %s table", col, table)
			}
		}
	}
}

func TestIntegrationMigration_Constraints(t *testing.T) {
	ctx, pool, _ := newMigrationTestEnv(t)
	if err := testutil.ResetLedgerSchema(ctx, pool); err != nil {
		t.Fatalf("reset ledger schema: %v", err)
	}

	// Deposits must reference an existing participant.
	_, err := pool.Exec(ctx, `
		INSERT INTO deposits (id, amount, contributor_id, date)
		VALUES ('d1', 10, 'missing', NOW())
	`)
	if !isForeignKeyViolation(err) {
		t.Errorf("Expected foreign key violation, got: %v", err)
	}

	if _, err := pool.Exec(ctx, `INSERT INTO participants (id, name) VALUES ('p1', 'Alice')`); err != nil {
		t.Fatalf("insert participant: %v", err)
	}

	// Amounts must be positive.
	_, err = pool.Exec(ctx, `
		INSERT INTO deposits (id, amount, contributor_id, date)
		VALUES ('d1', 0, 'p1', NOW())
	`)
	if err == nil {
		t.Error("Expected check constraint violation for zero amount")
	}

	// Category names are unique.
	if _, err := pool.Exec(ctx, `INSERT INTO categories (id, name) VALUES ('c1', 'Lunch')`); err != nil {
		t.Fatalf("insert category: %v", err)
	}
	_, err = pool.Exec(ctx, `INSERT INTO categories (id, name) VALUES ('c2', 'Lunch')`)
	if !isUniqueViolation(err) {
		t.Errorf("Expected unique violation, got: %v", err)
	}
}

func TestIntegrationMigration_Rollback(t *testing.T) {
	ctx, pool, _ := newMigrationTestEnv(t)

	root, err := testutil.ProjectRoot()
	if err != nil {
		t.Fatalf("ProjectRoot failed: %v", err)
	}
	dir := filepath.Join(root, "migrations", "postgres")

	downSQL, err := os.ReadFile(filepath.Join(dir, "000001_ledger.down.sql"))
	if err != nil {
		t.Fatalf("read down migration: %v", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		t.Fatalf("apply down migration: %v", err)
	}

	exists, err := tableExists(ctx, pool, "deposits")
	if err != nil {
		t.Fatalf("tableExists failed: %v", err)
	}
	if exists {
		t.Error("deposits table should not exist after rollback")
	}

	upSQL, err := os.ReadFile(filepath.Join(dir, "000001_ledger.up.sql"))
	if err != nil {
		t.Fatalf("read up migration: %v", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		t.Fatalf("reapply up migration: %v", err)
	}
	// IF NOT EXISTS makes a second apply harmless.
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		t.Fatalf("second apply should not fail: %v", err)
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

func tableExists(ctx context.Context, pool *pgxpool.Pool, tableName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`, tableName).Scan(&exists)
	return exists, err
}

func columnExists(ctx context.Context, pool *pgxpool.Pool, tableName, columnName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.columns
			WHERE table_schema = 'public'
			AND table_name = $1
			AND column_name = $2
		)
	`, tableName, columnName).Scan(&exists)
	return exists, err
}

// ============================================================================
// Test Environment Setup
// ============================================================================

func newMigrationTestEnv(t *testing.T) (context.Context, *pgxpool.Pool, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	unlock, err := testutil.AcquireDBLock(ctx, pool)
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	return ctx, pool, dbURL
}
