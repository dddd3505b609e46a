package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agristock/agristock/internal/metrics"
	"github.com/agristock/agristock/internal/model"
	"github.com/agristock/agristock/internal/notify"
)

// Engine is the stock ledger: the sole writer of item quantities and of
// return statuses. Every mutation loads current state, validates the
// transition, and applies the delta inside one write transaction.
type Engine struct {
	store    Store
	notifier notify.Notifier
	log      *slog.Logger
}

// NewEngine creates a stock ledger engine. notifier may be nil.
func NewEngine(store Store, notifier notify.Notifier, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{store: store, notifier: notifier, log: log}
}

func (e *Engine) emit(ev notify.Event) {
	if e.notifier != nil {
		e.notifier.Notify(ev)
	}
}

// Disburse records goods given to a farmer and decrements the item's
// on-hand quantity, atomically. Fails with ErrInsufficientStock if the
// item does not hold enough, leaving no partial effect.
func (e *Engine) Disburse(ctx context.Context, itemID, farmerID, staffID int64, quantity int) (rec *model.DisbursementRecord, err error) {
	defer countFailure("disburse", &err)

	if quantity <= 0 {
		return nil, fmt.Errorf("disbursing %d: %w", quantity, ErrInvalidQuantity)
	}

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning disbursement: %w", err)
	}
	defer tx.Rollback()

	item, err := tx.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("loading item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if err := requireFarmer(ctx, tx, farmerID); err != nil {
		return nil, err
	}
	if ok, err := tx.StaffExists(ctx, staffID); err != nil {
		return nil, fmt.Errorf("checking staff: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("staff %d: %w", staffID, ErrNotFound)
	}

	if item.Quantity < quantity {
		return nil, fmt.Errorf("item %q has %d on hand, need %d: %w",
			item.Name, item.Quantity, quantity, ErrInsufficientStock)
	}

	if err := tx.AddItemQuantity(ctx, itemID, -quantity); err != nil {
		return nil, e.inconsistency("disburse", itemID, err)
	}
	rec, err = tx.InsertDisbursement(ctx, itemID, farmerID, staffID, quantity)
	if err != nil {
		return nil, fmt.Errorf("recording disbursement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing disbursement: %w", err)
	}

	e.log.Info("goods disbursed",
		"item", item.Name, "farmer", farmerID, "staff", staffID,
		"quantity", quantity, "remaining", item.Quantity-quantity)
	metrics.Disbursements.Inc()
	e.emit(notify.ItemChanged(itemID, item.Quantity-quantity))
	return rec, nil
}

// AddStock records goods received into inventory.
func (e *Engine) AddStock(ctx context.Context, itemID int64, quantity int) (item *model.Item, err error) {
	defer countFailure("add_stock", &err)

	if quantity <= 0 {
		return nil, fmt.Errorf("adding %d: %w", quantity, ErrInvalidQuantity)
	}

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning stock addition: %w", err)
	}
	defer tx.Rollback()

	item, err = tx.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("loading item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}

	if err := tx.AddItemQuantity(ctx, itemID, quantity); err != nil {
		return nil, e.inconsistency("add_stock", itemID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock addition: %w", err)
	}

	item.Quantity += quantity
	e.log.Info("stock added", "item", item.Name, "quantity", quantity, "on_hand", item.Quantity)
	metrics.StockAdditions.Inc()
	e.emit(notify.ItemChanged(itemID, item.Quantity))
	return item, nil
}

// CreateReturn opens a pending return against a disbursement. No stock
// moves until a reviewer marks the return as returned.
func (e *Engine) CreateReturn(ctx context.Context, disbursementID int64, quantity int, reason, cluster string) (ret *model.ReturnRecord, err error) {
	defer countFailure("create_return", &err)

	if quantity <= 0 {
		return nil, fmt.Errorf("returning %d: %w", quantity, ErrInvalidQuantity)
	}

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning return: %w", err)
	}
	defer tx.Rollback()

	disb, err := tx.GetDisbursement(ctx, disbursementID)
	if err != nil {
		return nil, fmt.Errorf("loading disbursement: %w", err)
	}
	if disb == nil {
		return nil, fmt.Errorf("disbursement %d: %w", disbursementID, ErrNotFound)
	}
	if quantity > disb.Quantity {
		return nil, fmt.Errorf("returning %d of %d disbursed: %w",
			quantity, disb.Quantity, ErrInvalidQuantity)
	}

	ret, err = tx.InsertReturn(ctx, &model.ReturnRecord{
		DisbursementID: disbursementID,
		ItemID:         disb.ItemID,
		FarmerID:       disb.FarmerID,
		Quantity:       quantity,
		Reason:         reason,
		Cluster:        cluster,
		Status:         model.ReturnStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("recording return: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing return: %w", err)
	}

	e.log.Info("return opened", "return", ret.ID, "disbursement", disbursementID, "quantity", quantity)
	return ret, nil
}

// SetReturnStatus moves a return to a reviewer decision, applying the
// stock delta implied by the transition:
//
//	into returned   (prev != returned): item quantity += qty
//	out of returned (prev == returned): item quantity -= qty
//	anything else: no quantity change
//
// Setting the same status twice is a no-op for stock. A reversal that
// would drive the quantity negative fails with ErrLedgerInconsistency and
// changes nothing.
func (e *Engine) SetReturnStatus(ctx context.Context, returnID int64, newStatus string) (ret *model.ReturnRecord, err error) {
	defer countFailure("set_return_status", &err)

	if !model.ValidReturnDecision(newStatus) {
		return nil, fmt.Errorf("status %q: %w", newStatus, ErrInvalidStatus)
	}

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning status change: %w", err)
	}
	defer tx.Rollback()

	ret, err = tx.GetReturn(ctx, returnID)
	if err != nil {
		return nil, fmt.Errorf("loading return: %w", err)
	}
	if ret == nil {
		return nil, fmt.Errorf("return %d: %w", returnID, ErrNotFound)
	}

	prev := ret.Status
	var delta int
	switch {
	case newStatus == model.ReturnStatusReturned && prev != model.ReturnStatusReturned:
		delta = ret.Quantity
	case newStatus != model.ReturnStatusReturned && prev == model.ReturnStatusReturned:
		delta = -ret.Quantity
	}

	var newQty int
	if delta != 0 {
		item, err := tx.GetItem(ctx, ret.ItemID)
		if err != nil {
			return nil, fmt.Errorf("loading item: %w", err)
		}
		if item == nil {
			return nil, e.inconsistency("set_return_status", ret.ItemID,
				fmt.Errorf("return %d references missing item %d: %w", returnID, ret.ItemID, ErrLedgerInconsistency))
		}
		if item.Quantity+delta < 0 {
			return nil, e.inconsistency("set_return_status", ret.ItemID,
				fmt.Errorf("reversing return %d (qty %d) against item %q with %d on hand: %w",
					returnID, ret.Quantity, item.Name, item.Quantity, ErrLedgerInconsistency))
		}
		if err := tx.AddItemQuantity(ctx, ret.ItemID, delta); err != nil {
			return nil, e.inconsistency("set_return_status", ret.ItemID, err)
		}
		newQty = item.Quantity + delta
	}

	if err := tx.SetReturnStatus(ctx, returnID, newStatus); err != nil {
		return nil, fmt.Errorf("updating return status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing status change: %w", err)
	}

	e.log.Info("return status changed",
		"return", returnID, "from", prev, "to", newStatus, "stock_delta", delta)
	metrics.ReturnTransitions.WithLabelValues(newStatus).Inc()
	if delta != 0 {
		e.emit(notify.ItemChanged(ret.ItemID, newQty))
	}
	ret.Status = newStatus
	return ret, nil
}

// inconsistency records and logs a data-integrity alarm. These indicate a
// prior bug or concurrent-write bug, not a user error, and are never
// silently repaired.
func (e *Engine) inconsistency(command string, itemID int64, err error) error {
	e.log.Error("ledger inconsistency", "command", command, "item", itemID, "error", err)
	metrics.Inconsistencies.Inc()
	return err
}

// countFailure records a failure metric when the wrapped operation
// returns an error.
func countFailure(command string, err *error) {
	if *err != nil {
		metrics.CommandFailures.WithLabelValues(command, reason(*err)).Inc()
	}
}

// requireFarmer fails with ErrNotFound unless the farmer exists.
func requireFarmer(ctx context.Context, tx Tx, farmerID int64) error {
	ok, err := tx.FarmerExists(ctx, farmerID)
	if err != nil {
		return fmt.Errorf("checking farmer: %w", err)
	}
	if !ok {
		return fmt.Errorf("farmer %d: %w", farmerID, ErrNotFound)
	}
	return nil
}
