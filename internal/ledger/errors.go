// Package ledger owns every mutation of item quantities, asset
// availability, and the request/return status fields that drive them.
// Nothing outside this package writes those fields.
package ledger

import "errors"

// Sentinel errors. All are recoverable by the caller; ErrLedgerInconsistency
// additionally signals state corruption and is counted and logged separately
// from ordinary business-rule failures.
var (
	ErrNotFound            = errors.New("referenced entity not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrAssetUnavailable    = errors.New("asset is already on loan")
	ErrNoOpenLoan          = errors.New("asset has no open loan")
	ErrLedgerInconsistency = errors.New("ledger inconsistency detected")
	ErrRequestClosed       = errors.New("request has already been decided")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrInvalidStatus       = errors.New("invalid status for this operation")
	ErrInvalidLoanPeriod   = errors.New("due date precedes borrow date")
)

// reason maps an error to a stable label for failure metrics.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrAssetUnavailable):
		return "asset_unavailable"
	case errors.Is(err, ErrNoOpenLoan):
		return "no_open_loan"
	case errors.Is(err, ErrLedgerInconsistency):
		return "inconsistency"
	case errors.Is(err, ErrRequestClosed):
		return "request_closed"
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidLoanPeriod):
		return "invalid_argument"
	default:
		return "internal"
	}
}
