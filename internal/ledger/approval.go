package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agristock/agristock/internal/metrics"
	"github.com/agristock/agristock/internal/model"
)

// Approvals gates batch item requests against live stock. Approval only
// certifies that disbursement may proceed; stock moves when the goods are
// actually disbursed.
type Approvals struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// NewApprovals creates the request approval gateway.
func NewApprovals(store Store, log *slog.Logger) *Approvals {
	if log == nil {
		log = slog.Default()
	}
	return &Approvals{store: store, log: log, now: time.Now}
}

// Submit creates a pending request. Stock is deliberately not checked
// here; it may change before review and is re-validated at decision time.
func (a *Approvals) Submit(ctx context.Context, requesterID int64, lines []model.RequestLine) (req *model.ApprovalRequest, err error) {
	defer countFailure("submit_request", &err)

	if err := validateLines(lines); err != nil {
		return nil, err
	}

	tx, err := a.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning request: %w", err)
	}
	defer tx.Rollback()

	if err := requireFarmer(ctx, tx, requesterID); err != nil {
		return nil, err
	}
	if err := requireItems(ctx, tx, lines); err != nil {
		return nil, err
	}

	req, err = tx.InsertRequest(ctx, requesterID, lines)
	if err != nil {
		return nil, fmt.Errorf("recording request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing request: %w", err)
	}

	a.log.Info("request submitted", "request", req.ID, "requester", requesterID, "lines", len(lines))
	return req, nil
}

// EditLines replaces a pending request's lines wholesale. Fails with
// ErrRequestClosed once the request has been decided.
func (a *Approvals) EditLines(ctx context.Context, requestID int64, lines []model.RequestLine) (req *model.ApprovalRequest, err error) {
	defer countFailure("edit_request", &err)

	if err := validateLines(lines); err != nil {
		return nil, err
	}

	tx, err := a.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning edit: %w", err)
	}
	defer tx.Rollback()

	req, err = tx.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("loading request: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("request %d: %w", requestID, ErrNotFound)
	}
	if req.Status != model.RequestStatusPending {
		return nil, fmt.Errorf("request %d is %s: %w", requestID, req.Status, ErrRequestClosed)
	}
	if err := requireItems(ctx, tx, lines); err != nil {
		return nil, err
	}

	if err := tx.ReplaceRequestLines(ctx, requestID, lines); err != nil {
		return nil, fmt.Errorf("replacing lines: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing edit: %w", err)
	}

	req.Lines = lines
	return req, nil
}

// Decide approves or rejects a pending request. Approval re-checks every
// line against current stock; if any line cannot be covered the decision
// fails with ErrInsufficientStock and the request stays pending. Either
// outcome is terminal.
func (a *Approvals) Decide(ctx context.Context, requestID int64, decision string) (req *model.ApprovalRequest, err error) {
	defer countFailure("decide_request", &err)

	if decision != model.RequestStatusApproved && decision != model.RequestStatusRejected {
		return nil, fmt.Errorf("decision %q: %w", decision, ErrInvalidStatus)
	}

	tx, err := a.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning decision: %w", err)
	}
	defer tx.Rollback()

	req, err = tx.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("loading request: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("request %d: %w", requestID, ErrNotFound)
	}
	if req.Status != model.RequestStatusPending {
		return nil, fmt.Errorf("request %d is %s: %w", requestID, req.Status, ErrRequestClosed)
	}

	if decision == model.RequestStatusApproved {
		for _, line := range req.Lines {
			item, err := tx.GetItem(ctx, line.ItemID)
			if err != nil {
				return nil, fmt.Errorf("loading item: %w", err)
			}
			if item == nil {
				return nil, fmt.Errorf("item %d: %w", line.ItemID, ErrNotFound)
			}
			if item.Quantity < line.Quantity {
				return nil, fmt.Errorf("item %q has %d on hand, request needs %d: %w",
					item.Name, item.Quantity, line.Quantity, ErrInsufficientStock)
			}
		}
	}

	decidedAt := a.now()
	if err := tx.SetRequestStatus(ctx, requestID, decision, decidedAt); err != nil {
		return nil, fmt.Errorf("updating request status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing decision: %w", err)
	}

	a.log.Info("request decided", "request", requestID, "decision", decision)
	metrics.RequestDecisions.WithLabelValues(decision).Inc()

	req.Status = decision
	req.DecidedAt = &decidedAt
	return req, nil
}

func validateLines(lines []model.RequestLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("request has no lines: %w", ErrInvalidQuantity)
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return fmt.Errorf("item %d quantity %d: %w", line.ItemID, line.Quantity, ErrInvalidQuantity)
		}
	}
	return nil
}

func requireItems(ctx context.Context, tx Tx, lines []model.RequestLine) error {
	for _, line := range lines {
		item, err := tx.GetItem(ctx, line.ItemID)
		if err != nil {
			return fmt.Errorf("loading item: %w", err)
		}
		if item == nil {
			return fmt.Errorf("item %d: %w", line.ItemID, ErrNotFound)
		}
	}
	return nil
}
