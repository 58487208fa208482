package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupfund/groupfund/internal/model"
	"github.com/groupfund/groupfund/internal/testutil"
)

func newTestStore(t *testing.T) (context.Context, *Store) {
	t.Helper()
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return ctx, store
}

func mustParticipant(t *testing.T, ctx context.Context, s *Store, name string) *model.Participant {
	t.Helper()
	p := testutil.NewTestParticipant(t, name)
	require.NoError(t, s.CreateParticipant(ctx, p))
	return p
}

func mustCategory(t *testing.T, ctx context.Context, s *Store, name string) *model.Category {
	t.Helper()
	c := testutil.NewTestCategory(t, name)
	require.NoError(t, s.CreateCategory(ctx, c))
	return c
}

func total(t *testing.T, ctx context.Context, s *Store, id string) string {
	t.Helper()
	p, err := s.GetParticipant(ctx, id)
	require.NoError(t, err)
	return model.FormatAmount(p.TotalContributed)
}

func TestParticipants(t *testing.T) {
	ctx, s := newTestStore(t)

	mustParticipant(t, ctx, s, "Zoe")
	alice := mustParticipant(t, ctx, s, "Alice")

	got, err := s.GetParticipant(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.True(t, got.TotalContributed.IsZero())
	assert.True(t, got.CreatedAt.Equal(alice.CreatedAt))

	list, err := s.ListParticipants(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alice", list[0].Name)
	assert.Equal(t, "Zoe", list[1].Name)

	_, err = s.GetParticipant(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDepositLifecycleKeepsTotals(t *testing.T) {
	ctx, s := newTestStore(t)
	a := mustParticipant(t, ctx, s, "A")
	b := mustParticipant(t, ctx, s, "B")

	d1 := testutil.NewTestDeposit(t, a.ID, "100")
	require.NoError(t, s.CreateDeposit(ctx, d1))
	require.NotNil(t, d1.Contributor)
	assert.Equal(t, "A", d1.Contributor.Name)
	assert.Equal(t, "100.00", model.FormatAmount(d1.Contributor.TotalContributed))

	d2 := testutil.NewTestDeposit(t, b.ID, "50.25")
	require.NoError(t, s.CreateDeposit(ctx, d2))

	assert.Equal(t, "100.00", total(t, ctx, s, a.ID))
	assert.Equal(t, "50.25", total(t, ctx, s, b.ID))

	// {100, A} -> {40, B}
	updated, previous, err := s.UpdateDeposit(ctx, d1.ID, model.DepositChange{
		Amount:        testutil.Amount("40"),
		ContributorID: b.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, a.ID, previous.ContributorID)
	assert.Equal(t, b.ID, updated.ContributorID)
	assert.True(t, updated.Date.Equal(d1.Date), "omitted date keeps the stored one")

	assert.Equal(t, "0.00", total(t, ctx, s, a.ID))
	assert.Equal(t, "90.25", total(t, ctx, s, b.ID))

	removed, err := s.DeleteDeposit(ctx, d2.ID)
	require.NoError(t, err)
	assert.Equal(t, d2.ID, removed.ID)
	assert.Equal(t, "40.00", total(t, ctx, s, b.ID))

	drift, err := s.ContributionDrift(ctx)
	require.NoError(t, err)
	assert.Empty(t, drift)
}

func TestUpdateDepositDateOnly(t *testing.T) {
	ctx, s := newTestStore(t)
	a := mustParticipant(t, ctx, s, "A")

	d := testutil.NewTestDeposit(t, a.ID, "25")
	require.NoError(t, s.CreateDeposit(ctx, d))

	newDate := testutil.Now().Add(-72 * time.Hour)
	updated, _, err := s.UpdateDeposit(ctx, d.ID, model.DepositChange{
		Amount:        testutil.Amount("25.00"),
		ContributorID: a.ID,
		Date:          &newDate,
	})
	require.NoError(t, err)
	assert.True(t, updated.Date.Equal(newDate))
	assert.Equal(t, "25.00", total(t, ctx, s, a.ID))
}

func TestUpdateDepositSameContributorNewAmount(t *testing.T) {
	ctx, s := newTestStore(t)
	a := mustParticipant(t, ctx, s, "A")

	d := testutil.NewTestDeposit(t, a.ID, "100")
	require.NoError(t, s.CreateDeposit(ctx, d))

	_, _, err := s.UpdateDeposit(ctx, d.ID, model.DepositChange{Amount: testutil.Amount("60"), ContributorID: a.ID})
	require.NoError(t, err)
	assert.Equal(t, "60.00", total(t, ctx, s, a.ID))
}

func TestDepositNotFound(t *testing.T) {
	ctx, s := newTestStore(t)
	a := mustParticipant(t, ctx, s, "A")

	err := s.CreateDeposit(ctx, testutil.NewTestDeposit(t, "missing", "10"))
	var nf *model.NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
	assert.Equal(t, model.EntityParticipant, nf.Entity)

	_, _, err = s.UpdateDeposit(ctx, "missing", model.DepositChange{Amount: testutil.Amount("1"), ContributorID: a.ID})
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, model.EntityDeposit, nf.Entity)

	_, err = s.DeleteDeposit(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.GetDeposit(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	deposits, err := s.ListDeposits(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, deposits)
	assert.Equal(t, "0.00", total(t, ctx, s, a.ID))
}

func TestUpdateDepositUnknownContributorRollsBack(t *testing.T) {
	ctx, s := newTestStore(t)
	a := mustParticipant(t, ctx, s, "A")

	d := testutil.NewTestDeposit(t, a.ID, "50")
	require.NoError(t, s.CreateDeposit(ctx, d))

	_, _, err := s.UpdateDeposit(ctx, d.ID, model.DepositChange{Amount: testutil.Amount("10"), ContributorID: "missing"})
	assert.ErrorIs(t, err, model.ErrNotFound)

	stored, err := s.GetDeposit(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, stored.ContributorID)
	assert.Equal(t, "50.00", model.FormatAmount(stored.Amount))
	assert.Equal(t, "50.00", total(t, ctx, s, a.ID))
}

func TestCreateDepositAtomicWhenTotalUpdateFails(t *testing.T) {
	ctx, s := newTestStore(t)
	a := mustParticipant(t, ctx, s, "A")

	_, err := s.DB().ExecContext(ctx, `
		CREATE TRIGGER freeze_totals BEFORE UPDATE ON participants
		BEGIN
			SELECT RAISE(ABORT, 'totals frozen');
		END
	`)
	require.NoError(t, err)

	err = s.CreateDeposit(ctx, testutil.NewTestDeposit(t, a.ID, "10"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransactionFailed)

	deposits, err := s.ListDeposits(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, deposits, "deposit row must not survive a failed total update")
	assert.Equal(t, "0.00", total(t, ctx, s, a.ID))
}

func TestListDepositsNewestFirstWithLimit(t *testing.T) {
	ctx, s := newTestStore(t)
	a := mustParticipant(t, ctx, s, "A")

	base := testutil.Now()
	var ids []string
	for i := 0; i < 4; i++ {
		d := testutil.NewTestDeposit(t, a.ID, "1")
		d.Date = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.CreateDeposit(ctx, d))
		ids = append(ids, d.ID)
	}

	all, err := s.ListDeposits(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, ids[3], all[0].ID)
	assert.Equal(t, ids[0], all[3].ID)
	require.NotNil(t, all[0].Contributor)
	assert.Equal(t, "4.00", model.FormatAmount(all[0].Contributor.TotalContributed))

	limited, err := s.ListDeposits(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestContributionDriftDetectsCorruption(t *testing.T) {
	ctx, s := newTestStore(t)
	a := mustParticipant(t, ctx, s, "A")
	require.NoError(t, s.CreateDeposit(ctx, testutil.NewTestDeposit(t, a.ID, "10")))

	_, err := s.DB().ExecContext(ctx, `UPDATE participants SET total_contributed_minor = 1 WHERE id = ?`, a.ID)
	require.NoError(t, err)

	drift, err := s.ContributionDrift(ctx)
	require.NoError(t, err)
	require.Len(t, drift, 1)
	assert.Equal(t, a.ID, drift[0].ParticipantID)
	assert.Equal(t, "0.01", model.FormatAmount(drift[0].Cached))
	assert.Equal(t, "10.00", model.FormatAmount(drift[0].Actual))
}

func TestCategorySeeding(t *testing.T) {
	ctx, s := newTestStore(t)

	seed := func() int {
		n, err := s.EnsureDefaultCategories(ctx, model.DefaultCategories(testutil.Now(), func() string {
			return testutil.UniqueName("cat")
		}))
		require.NoError(t, err)
		return n
	}

	assert.Equal(t, 10, seed())
	assert.Equal(t, 0, seed())

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 10)
	for i, c := range categories {
		assert.Equal(t, model.DefaultCategoryNames[i], c.Name)
		assert.True(t, c.IsDefault)
	}
}

func TestCategorySeedingSkippedWhenAnyExists(t *testing.T) {
	ctx, s := newTestStore(t)
	mustCategory(t, ctx, s, "Custom")

	n, err := s.EnsureDefaultCategories(ctx, model.DefaultCategories(testutil.Now(), func() string {
		return testutil.UniqueName("cat")
	}))
	require.NoError(t, err)
	assert.Zero(t, n)

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.False(t, categories[0].IsDefault)
}

func TestCategoryDuplicateName(t *testing.T) {
	ctx, s := newTestStore(t)
	mustCategory(t, ctx, s, "Snacks")

	err := s.CreateCategory(ctx, testutil.NewTestCategory(t, "Snacks"))
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestExpenseLifecycle(t *testing.T) {
	ctx, s := newTestStore(t)
	lunch := mustCategory(t, ctx, s, "Lunch")
	dinner := mustCategory(t, ctx, s, "Dinner")

	e := testutil.NewTestExpense(t, lunch.ID, "12.34")
	require.NoError(t, s.CreateExpense(ctx, e))
	require.NotNil(t, e.Category)
	assert.Equal(t, "Lunch", e.Category.Name)

	e.CategoryID = dinner.ID
	e.Description = ""
	require.NoError(t, s.UpdateExpense(ctx, e))
	assert.Equal(t, "Dinner", e.Category.Name)

	got, err := s.GetExpense(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", got.CategoryName())
	assert.Equal(t, "", got.Description)
	assert.Equal(t, "12.34", model.FormatAmount(got.Amount))

	e.CategoryID = "missing"
	assert.ErrorIs(t, s.UpdateExpense(ctx, e), model.ErrNotFound)

	require.NoError(t, s.DeleteExpense(ctx, got.ID))
	assert.ErrorIs(t, s.DeleteExpense(ctx, got.ID), model.ErrNotFound)
	_, err = s.GetExpense(ctx, got.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCreateExpenseUnknownCategory(t *testing.T) {
	ctx, s := newTestStore(t)

	err := s.CreateExpense(ctx, testutil.NewTestExpense(t, "missing", "5"))
	var nf *model.NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
	assert.Equal(t, model.EntityCategory, nf.Entity)
}

func TestMigrateDownAndUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	require.NoError(t, MigrateUp(path))
	require.NoError(t, MigrateUp(path))
	require.NoError(t, MigrateDown(path))
	require.NoError(t, MigrateUp(path))

	store, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Ping(context.Background()))
}
