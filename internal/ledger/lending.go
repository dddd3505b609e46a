package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agristock/agristock/internal/metrics"
	"github.com/agristock/agristock/internal/model"
	"github.com/agristock/agristock/internal/notify"
)

// Lending is the asset lending state machine: the sole writer of asset
// availability and loan return dates. An asset is either available (no
// open loan) or borrowed (exactly one open loan).
type Lending struct {
	store    Store
	notifier notify.Notifier
	log      *slog.Logger
	now      func() time.Time
}

// NewLending creates a lending state machine. notifier may be nil.
func NewLending(store Store, notifier notify.Notifier, log *slog.Logger) *Lending {
	if log == nil {
		log = slog.Default()
	}
	return &Lending{store: store, notifier: notifier, log: log, now: time.Now}
}

func (l *Lending) emit(ev notify.Event) {
	if l.notifier != nil {
		l.notifier.Notify(ev)
	}
}

// Borrow opens a loan for an available asset and flips it unavailable,
// atomically. Fails with ErrAssetUnavailable if a loan is already open.
func (l *Lending) Borrow(ctx context.Context, assetID, farmerID int64, borrowedAt, dueAt time.Time) (loan *model.AssetLoanRecord, err error) {
	defer countFailure("borrow", &err)

	tx, err := l.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning borrow: %w", err)
	}
	defer tx.Rollback()

	asset, err := tx.GetAsset(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("loading asset: %w", err)
	}
	if asset == nil {
		return nil, fmt.Errorf("asset %d: %w", assetID, ErrNotFound)
	}
	if err := requireFarmer(ctx, tx, farmerID); err != nil {
		return nil, err
	}

	if !asset.Available {
		return nil, fmt.Errorf("asset %q: %w", asset.Name, ErrAssetUnavailable)
	}

	if borrowedAt.IsZero() {
		borrowedAt = l.now()
	}
	if dueAt.IsZero() {
		dueAt = borrowedAt.AddDate(0, 0, 7)
	}
	if dueAt.Before(borrowedAt) {
		return nil, fmt.Errorf("due %s before borrow %s: %w",
			dueAt.Format(time.DateOnly), borrowedAt.Format(time.DateOnly), ErrInvalidLoanPeriod)
	}

	loan, err = tx.InsertLoan(ctx, assetID, farmerID, borrowedAt, dueAt)
	if err != nil {
		return nil, fmt.Errorf("recording loan: %w", err)
	}
	if err := tx.SetAssetAvailability(ctx, assetID, false); err != nil {
		return nil, fmt.Errorf("updating availability: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing borrow: %w", err)
	}

	l.log.Info("asset borrowed",
		"asset", asset.Name, "farmer", farmerID, "due", dueAt.Format(time.DateOnly))
	metrics.LoansOpened.Inc()
	l.emit(notify.AssetChanged(assetID, false))
	return loan, nil
}

// ReturnAsset closes the asset's open loan and flips it available,
// atomically. If more than one loan is somehow open (a prior invariant
// violation) the most recently borrowed one is closed and a warning is
// logged. Fails with ErrNoOpenLoan if none is open.
func (l *Lending) ReturnAsset(ctx context.Context, assetID int64, remarks string) (loan *model.AssetLoanRecord, err error) {
	defer countFailure("return_asset", &err)

	tx, err := l.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning asset return: %w", err)
	}
	defer tx.Rollback()

	asset, err := tx.GetAsset(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("loading asset: %w", err)
	}
	if asset == nil {
		return nil, fmt.Errorf("asset %d: %w", assetID, ErrNotFound)
	}

	open, err := tx.OpenLoans(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("loading open loans: %w", err)
	}
	if len(open) == 0 {
		return nil, fmt.Errorf("asset %q: %w", asset.Name, ErrNoOpenLoan)
	}
	if len(open) > 1 {
		l.log.Warn("asset has multiple open loans, closing most recent",
			"asset", assetID, "open", len(open))
	}

	returned := l.now()
	closing := open[0]
	if err := tx.CloseLoan(ctx, closing.ID, returned, remarks); err != nil {
		return nil, fmt.Errorf("closing loan: %w", err)
	}
	if err := tx.SetAssetAvailability(ctx, assetID, true); err != nil {
		return nil, fmt.Errorf("updating availability: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing asset return: %w", err)
	}

	l.log.Info("asset returned", "asset", asset.Name, "loan", closing.ID)
	metrics.LoansClosed.Inc()
	l.emit(notify.AssetChanged(assetID, true))

	closing.ReturnedAt = &returned
	closing.Remarks = remarks
	return &closing, nil
}
