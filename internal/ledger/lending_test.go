package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agristock/agristock/internal/ledger"
	"github.com/agristock/agristock/internal/store"
)

func TestBorrowAndReturnAsset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asset := f.seedAsset(t, "Tractor")
	require.True(t, asset.Available)

	loan, err := f.lending.Borrow(ctx, asset.ID, f.farmer.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, asset.ID, loan.AssetID)
	assert.Equal(t, f.farmer.ID, loan.FarmerID)
	assert.True(t, loan.Open())
	assert.Equal(t, loan.BorrowedAt.AddDate(0, 0, 7), loan.DueAt)

	got, err := store.GetAsset(ctx, f.db, asset.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)

	// A second borrow while the loan is open must fail.
	_, err = f.lending.Borrow(ctx, asset.ID, f.farmer.ID, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ledger.ErrAssetUnavailable)

	closed, err := f.lending.ReturnAsset(ctx, asset.ID, "minor scratches")
	require.NoError(t, err)
	assert.Equal(t, loan.ID, closed.ID)
	assert.False(t, closed.Open())
	assert.Equal(t, "minor scratches", closed.Remarks)

	got, err = store.GetAsset(ctx, f.db, asset.ID)
	require.NoError(t, err)
	assert.True(t, got.Available)

	// Available again: borrowable by the next farmer.
	_, err = f.lending.Borrow(ctx, asset.ID, f.farmer.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
}

func TestReturnAssetNoOpenLoan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asset := f.seedAsset(t, "Water Pump")

	_, err := f.lending.ReturnAsset(ctx, asset.ID, "")
	assert.ErrorIs(t, err, ledger.ErrNoOpenLoan)

	_, err = f.lending.ReturnAsset(ctx, 9999, "")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestBorrowValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asset := f.seedAsset(t, "Plough")

	_, err := f.lending.Borrow(ctx, 9999, f.farmer.ID, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = f.lending.Borrow(ctx, asset.ID, 9999, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestBorrowExplicitDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asset := f.seedAsset(t, "Sprayer")

	borrowed := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	due := time.Date(2025, 3, 24, 9, 0, 0, 0, time.UTC)

	loan, err := f.lending.Borrow(ctx, asset.ID, f.farmer.ID, borrowed, due)
	require.NoError(t, err)
	assert.True(t, loan.BorrowedAt.Equal(borrowed))
	assert.True(t, loan.DueAt.Equal(due))
}

func TestBorrowRejectsDueBeforeBorrow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asset := f.seedAsset(t, "Seeder")

	borrowed := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	due := borrowed.AddDate(0, 0, -1)

	_, err := f.lending.Borrow(ctx, asset.ID, f.farmer.ID, borrowed, due)
	require.ErrorIs(t, err, ledger.ErrInvalidLoanPeriod)

	// The failed borrow leaves the asset untouched.
	got, err := store.GetAsset(ctx, f.db, asset.ID)
	require.NoError(t, err)
	assert.True(t, got.Available)
	open, err := store.ListLoans(ctx, f.db, asset.ID, 0, true)
	require.NoError(t, err)
	assert.Empty(t, open)
}

// Two concurrent borrows of the same available asset: exactly one may
// win, the other must find it unavailable.
func TestBorrowConcurrentContention(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asset := f.seedAsset(t, "Rotavator")

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.lending.Borrow(ctx, asset.ID, f.farmer.ID, time.Time{}, time.Time{})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, unavailable int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			require.ErrorIs(t, err, ledger.ErrAssetUnavailable)
			unavailable++
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, unavailable)

	open, err := store.ListLoans(ctx, f.db, asset.ID, 0, true)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

// If a prior bug left multiple loans open, returning the asset closes the
// most recently borrowed one.
func TestReturnAssetClosesMostRecentLoan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asset := f.seedAsset(t, "Thresher")

	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	s := store.New(f.db)
	for _, borrowedAt := range []time.Time{early, late} {
		tx, err := s.Begin(ctx)
		require.NoError(t, err)
		_, err = tx.InsertLoan(ctx, asset.ID, f.farmer.ID, borrowedAt, borrowedAt.AddDate(0, 0, 7))
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
	}

	closed, err := f.lending.ReturnAsset(ctx, asset.ID, "")
	require.NoError(t, err)
	assert.True(t, closed.BorrowedAt.Equal(late))

	open, err := store.ListLoans(ctx, f.db, asset.ID, 0, true)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.True(t, open[0].BorrowedAt.Equal(early))
}
