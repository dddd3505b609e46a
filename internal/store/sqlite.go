// Package store is the SQLite persistence layer: entity CRUD plus the
// transactional primitives the ledger mutates state through.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/agristock/agristock/internal/ledger"
	"github.com/agristock/agristock/internal/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx so read helpers can be
// shared between plain queries and ledger transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements ledger.Store over a SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a store over db.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ ledger.Store = (*Store)(nil)

// Begin starts a write transaction. The connection is opened with
// _txlock=immediate, so the write lock is taken here and held until
// commit; concurrent ledger transactions serialize on it.
func (s *Store) Begin(ctx context.Context) (ledger.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx is one ledger transaction.
type Tx struct {
	tx *sql.Tx
}

var _ ledger.Tx = (*Tx)(nil)

func (t *Tx) Commit() error   { return t.tx.Commit() }
func (t *Tx) Rollback() error { return t.tx.Rollback() }

func (t *Tx) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	return getItem(ctx, t.tx, id)
}

// AddItemQuantity applies a delta to an item's quantity. The WHERE guard
// (and the CHECK constraint behind it) refuses any update that would
// leave the quantity negative.
func (t *Tx) AddItemQuantity(ctx context.Context, id int64, delta int) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE items SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL AND quantity + ? >= 0`,
		delta, id, delta,
	)
	if err != nil {
		return fmt.Errorf("adjusting quantity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjusting quantity: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("quantity guard refused delta %d for item %d: %w",
			delta, id, ledger.ErrLedgerInconsistency)
	}
	return nil
}

func (t *Tx) FarmerExists(ctx context.Context, id int64) (bool, error) {
	return rowExists(ctx, t.tx, `SELECT 1 FROM farmers WHERE id = ? AND deleted_at IS NULL`, id)
}

func (t *Tx) StaffExists(ctx context.Context, id int64) (bool, error) {
	return rowExists(ctx, t.tx, `SELECT 1 FROM staff WHERE id = ? AND deleted_at IS NULL`, id)
}

func (t *Tx) InsertDisbursement(ctx context.Context, itemID, farmerID, staffID int64, quantity int) (*model.DisbursementRecord, error) {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO disbursements (item_id, farmer_id, staff_id, quantity)
		 VALUES (?, ?, ?, ?)`,
		itemID, farmerID, staffID, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting disbursement: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting disbursement id: %w", err)
	}
	return getDisbursement(ctx, t.tx, id)
}

func (t *Tx) GetDisbursement(ctx context.Context, id int64) (*model.DisbursementRecord, error) {
	return getDisbursement(ctx, t.tx, id)
}

func (t *Tx) InsertReturn(ctx context.Context, rec *model.ReturnRecord) (*model.ReturnRecord, error) {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO returns (disbursement_id, item_id, farmer_id, quantity, reason, cluster, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.DisbursementID, rec.ItemID, rec.FarmerID, rec.Quantity, rec.Reason, rec.Cluster, rec.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting return: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting return id: %w", err)
	}
	return getReturn(ctx, t.tx, id)
}

func (t *Tx) GetReturn(ctx context.Context, id int64) (*model.ReturnRecord, error) {
	return getReturn(ctx, t.tx, id)
}

func (t *Tx) SetReturnStatus(ctx context.Context, id int64, status string) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE returns SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating return status: %w", err)
	}
	return nil
}

func (t *Tx) GetAsset(ctx context.Context, id int64) (*model.Asset, error) {
	return getAsset(ctx, t.tx, id)
}

func (t *Tx) SetAssetAvailability(ctx context.Context, id int64, available bool) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE assets SET available = ? WHERE id = ?`,
		available, id,
	)
	if err != nil {
		return fmt.Errorf("updating availability: %w", err)
	}
	return nil
}

func (t *Tx) InsertLoan(ctx context.Context, assetID, farmerID int64, borrowedAt, dueAt time.Time) (*model.AssetLoanRecord, error) {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO asset_loans (asset_id, farmer_id, borrowed_at, due_at)
		 VALUES (?, ?, ?, ?)`,
		assetID, farmerID, borrowedAt, dueAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting loan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting loan id: %w", err)
	}
	return getLoan(ctx, t.tx, id)
}

func (t *Tx) OpenLoans(ctx context.Context, assetID int64) ([]model.AssetLoanRecord, error) {
	rows, err := t.tx.QueryContext(ctx,
		loanSelect+` WHERE l.asset_id = ? AND l.returned_at IS NULL
		 ORDER BY l.borrowed_at DESC, l.id DESC`, assetID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing open loans: %w", err)
	}
	defer rows.Close()

	return scanLoans(rows)
}

func (t *Tx) CloseLoan(ctx context.Context, loanID int64, returnedAt time.Time, remarks string) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE asset_loans SET returned_at = ?, remarks = ? WHERE id = ? AND returned_at IS NULL`,
		returnedAt, remarks, loanID,
	)
	if err != nil {
		return fmt.Errorf("closing loan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("closing loan: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("loan %d is already closed: %w", loanID, ledger.ErrLedgerInconsistency)
	}
	return nil
}

func (t *Tx) InsertRequest(ctx context.Context, requesterID int64, lines []model.RequestLine) (*model.ApprovalRequest, error) {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO requests (requester_id, status) VALUES (?, ?)`,
		requesterID, model.RequestStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting request id: %w", err)
	}
	if err := insertRequestLines(ctx, t.tx, id, lines); err != nil {
		return nil, err
	}
	return getRequest(ctx, t.tx, id)
}

func (t *Tx) GetRequest(ctx context.Context, id int64) (*model.ApprovalRequest, error) {
	return getRequest(ctx, t.tx, id)
}

func (t *Tx) ReplaceRequestLines(ctx context.Context, requestID int64, lines []model.RequestLine) error {
	if _, err := t.tx.ExecContext(ctx,
		`DELETE FROM request_lines WHERE request_id = ?`, requestID,
	); err != nil {
		return fmt.Errorf("clearing request lines: %w", err)
	}
	return insertRequestLines(ctx, t.tx, requestID, lines)
}

func (t *Tx) SetRequestStatus(ctx context.Context, id int64, status string, decidedAt time.Time) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE requests SET status = ?, decided_at = ? WHERE id = ?`,
		status, decidedAt, id,
	)
	if err != nil {
		return fmt.Errorf("updating request status: %w", err)
	}
	return nil
}

func insertRequestLines(ctx context.Context, q querier, requestID int64, lines []model.RequestLine) error {
	for i, line := range lines {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO request_lines (request_id, item_id, quantity, position)
			 VALUES (?, ?, ?, ?)`,
			requestID, line.ItemID, line.Quantity, i,
		); err != nil {
			return fmt.Errorf("inserting request line: %w", err)
		}
	}
	return nil
}

func rowExists(ctx context.Context, q querier, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking existence: %w", err)
	}
	return true, nil
}
