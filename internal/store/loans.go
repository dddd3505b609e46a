package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agristock/agristock/internal/model"
)

const loanSelect = `SELECT l.id, l.asset_id, l.farmer_id, l.borrowed_at, l.due_at, l.returned_at, l.remarks,
       a.name AS asset_name, f.name AS farmer_name
  FROM asset_loans l
  JOIN assets a ON a.id = l.asset_id
  JOIN farmers f ON f.id = l.farmer_id`

// GetLoan returns a loan record by ID.
func GetLoan(ctx context.Context, db *sql.DB, id int64) (*model.AssetLoanRecord, error) {
	return getLoan(ctx, db, id)
}

func getLoan(ctx context.Context, q querier, id int64) (*model.AssetLoanRecord, error) {
	l := &model.AssetLoanRecord{}
	var remarks sql.NullString
	err := q.QueryRowContext(ctx, loanSelect+` WHERE l.id = ?`, id).
		Scan(&l.ID, &l.AssetID, &l.FarmerID, &l.BorrowedAt, &l.DueAt, &l.ReturnedAt, &remarks,
			&l.AssetName, &l.FarmerName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting loan: %w", err)
	}
	l.Remarks = remarks.String
	return l, nil
}

// ListLoans returns loan records, newest first, optionally filtered by
// asset or farmer, and optionally only the open ones.
func ListLoans(ctx context.Context, db *sql.DB, assetID, farmerID int64, openOnly bool) ([]model.AssetLoanRecord, error) {
	query := loanSelect + ` WHERE 1=1`
	var args []any

	if assetID > 0 {
		query += ` AND l.asset_id = ?`
		args = append(args, assetID)
	}
	if farmerID > 0 {
		query += ` AND l.farmer_id = ?`
		args = append(args, farmerID)
	}
	if openOnly {
		query += ` AND l.returned_at IS NULL`
	}
	query += ` ORDER BY l.borrowed_at DESC, l.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing loans: %w", err)
	}
	defer rows.Close()

	return scanLoans(rows)
}

func scanLoans(rows *sql.Rows) ([]model.AssetLoanRecord, error) {
	var loans []model.AssetLoanRecord
	for rows.Next() {
		var l model.AssetLoanRecord
		var remarks sql.NullString
		if err := rows.Scan(&l.ID, &l.AssetID, &l.FarmerID, &l.BorrowedAt, &l.DueAt, &l.ReturnedAt, &remarks,
			&l.AssetName, &l.FarmerName); err != nil {
			return nil, fmt.Errorf("scanning loan: %w", err)
		}
		l.Remarks = remarks.String
		loans = append(loans, l)
	}
	return loans, rows.Err()
}
