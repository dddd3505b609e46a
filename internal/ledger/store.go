package ledger

import (
	"context"
	"time"

	"github.com/agristock/agristock/internal/model"
)

// Store opens serializable transactions against the persistence layer.
// The engine depends on this interface, never on a concrete database.
type Store interface {
	// Begin starts a write transaction. Transactions on the same store
	// serialize against each other; the read of current state and the
	// write of new state inside one transaction are a single atomic unit.
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one write transaction over the entities the ledger mutates.
// Getters return (nil, nil) for absent rows.
type Tx interface {
	Commit() error
	Rollback() error

	GetItem(ctx context.Context, id int64) (*model.Item, error)
	// AddItemQuantity applies a delta to an item's quantity. The update is
	// guarded so the stored quantity can never go negative; a guard miss
	// reports ErrLedgerInconsistency.
	AddItemQuantity(ctx context.Context, id int64, delta int) error

	FarmerExists(ctx context.Context, id int64) (bool, error)
	StaffExists(ctx context.Context, id int64) (bool, error)

	InsertDisbursement(ctx context.Context, itemID, farmerID, staffID int64, quantity int) (*model.DisbursementRecord, error)
	GetDisbursement(ctx context.Context, id int64) (*model.DisbursementRecord, error)

	InsertReturn(ctx context.Context, rec *model.ReturnRecord) (*model.ReturnRecord, error)
	GetReturn(ctx context.Context, id int64) (*model.ReturnRecord, error)
	SetReturnStatus(ctx context.Context, id int64, status string) error

	GetAsset(ctx context.Context, id int64) (*model.Asset, error)
	SetAssetAvailability(ctx context.Context, id int64, available bool) error
	InsertLoan(ctx context.Context, assetID, farmerID int64, borrowedAt, dueAt time.Time) (*model.AssetLoanRecord, error)
	// OpenLoans returns the asset's open loans, most recently borrowed first.
	OpenLoans(ctx context.Context, assetID int64) ([]model.AssetLoanRecord, error)
	CloseLoan(ctx context.Context, loanID int64, returnedAt time.Time, remarks string) error

	InsertRequest(ctx context.Context, requesterID int64, lines []model.RequestLine) (*model.ApprovalRequest, error)
	GetRequest(ctx context.Context, id int64) (*model.ApprovalRequest, error)
	ReplaceRequestLines(ctx context.Context, requestID int64, lines []model.RequestLine) error
	SetRequestStatus(ctx context.Context, id int64, status string, decidedAt time.Time) error
}
