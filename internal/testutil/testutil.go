package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/groupfund/groupfund/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetLedgerSchema drops and recreates the ledger tables for tests.
func ResetLedgerSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	dir := filepath.Join(root, "migrations", "postgres")
	downSQL, err := os.ReadFile(filepath.Join(dir, "000001_ledger.down.sql"))
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(filepath.Join(dir, "000001_ledger.up.sql"))
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// Now returns the current UTC time at storage precision.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Amount parses a decimal literal, panicking on malformed input.
func Amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// NewTestParticipant creates a participant with a fresh ID and zero total.
func NewTestParticipant(t testing.TB, name string) *model.Participant {
	t.Helper()
	now := Now()
	return &model.Participant{
		ID:               ulid.Make().String(),
		Name:             name,
		TotalContributed: decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// NewTestCategory creates a non-default category.
func NewTestCategory(t testing.TB, name string) *model.Category {
	t.Helper()
	now := Now()
	return &model.Category{
		ID:        ulid.Make().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestDeposit creates a deposit for contributorID dated now.
func NewTestDeposit(t testing.TB, contributorID, amount string) *model.Deposit {
	t.Helper()
	now := Now()
	return &model.Deposit{
		ID:            ulid.Make().String(),
		Amount:        Amount(amount),
		ContributorID: contributorID,
		Date:          now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewTestExpense creates an expense in categoryID dated now.
func NewTestExpense(t testing.TB, categoryID, amount string) *model.Expense {
	t.Helper()
	now := Now()
	return &model.Expense{
		ID:          ulid.Make().String(),
		Amount:      Amount(amount),
		Description: "test expense",
		CategoryID:  categoryID,
		Date:        now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UniqueName generates a unique name for tests.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
