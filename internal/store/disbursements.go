package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agristock/agristock/internal/model"
)

const disbursementSelect = `SELECT d.id, d.item_id, d.farmer_id, d.staff_id, d.quantity, d.disbursed_at,
       i.name AS item_name, f.name AS farmer_name, s.name AS staff_name
  FROM disbursements d
  JOIN items i ON i.id = d.item_id
  JOIN farmers f ON f.id = d.farmer_id
  JOIN staff s ON s.id = d.staff_id`

// GetDisbursement returns a disbursement by ID.
func GetDisbursement(ctx context.Context, db *sql.DB, id int64) (*model.DisbursementRecord, error) {
	return getDisbursement(ctx, db, id)
}

func getDisbursement(ctx context.Context, q querier, id int64) (*model.DisbursementRecord, error) {
	d := &model.DisbursementRecord{}
	err := q.QueryRowContext(ctx, disbursementSelect+` WHERE d.id = ?`, id).
		Scan(&d.ID, &d.ItemID, &d.FarmerID, &d.StaffID, &d.Quantity, &d.DisbursedAt,
			&d.ItemName, &d.FarmerName, &d.StaffName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting disbursement: %w", err)
	}
	return d, nil
}

// ListDisbursements returns disbursements, newest first, optionally
// filtered by item or farmer.
func ListDisbursements(ctx context.Context, db *sql.DB, itemID, farmerID int64) ([]model.DisbursementRecord, error) {
	query := disbursementSelect + ` WHERE 1=1`
	var args []any

	if itemID > 0 {
		query += ` AND d.item_id = ?`
		args = append(args, itemID)
	}
	if farmerID > 0 {
		query += ` AND d.farmer_id = ?`
		args = append(args, farmerID)
	}
	query += ` ORDER BY d.disbursed_at DESC, d.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing disbursements: %w", err)
	}
	defer rows.Close()

	var records []model.DisbursementRecord
	for rows.Next() {
		var d model.DisbursementRecord
		if err := rows.Scan(&d.ID, &d.ItemID, &d.FarmerID, &d.StaffID, &d.Quantity, &d.DisbursedAt,
			&d.ItemName, &d.FarmerName, &d.StaffName); err != nil {
			return nil, fmt.Errorf("scanning disbursement: %w", err)
		}
		records = append(records, d)
	}
	return records, rows.Err()
}
