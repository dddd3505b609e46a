package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agristock/agristock/internal/model"
)

const returnSelect = `SELECT r.id, r.disbursement_id, r.item_id, r.farmer_id, r.quantity,
       r.reason, r.cluster, r.status, r.created_at, r.updated_at,
       i.name AS item_name, f.name AS farmer_name
  FROM returns r
  JOIN items i ON i.id = r.item_id
  JOIN farmers f ON f.id = r.farmer_id`

// GetReturn returns a return record by ID.
func GetReturn(ctx context.Context, db *sql.DB, id int64) (*model.ReturnRecord, error) {
	return getReturn(ctx, db, id)
}

func getReturn(ctx context.Context, q querier, id int64) (*model.ReturnRecord, error) {
	r := &model.ReturnRecord{}
	var reason, cluster sql.NullString
	err := q.QueryRowContext(ctx, returnSelect+` WHERE r.id = ?`, id).
		Scan(&r.ID, &r.DisbursementID, &r.ItemID, &r.FarmerID, &r.Quantity,
			&reason, &cluster, &r.Status, &r.CreatedAt, &r.UpdatedAt,
			&r.ItemName, &r.FarmerName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting return: %w", err)
	}
	r.Reason = reason.String
	r.Cluster = cluster.String
	return r, nil
}

// ListReturns returns return records, newest first, optionally filtered
// by status or cluster.
func ListReturns(ctx context.Context, db *sql.DB, status, cluster string) ([]model.ReturnRecord, error) {
	query := returnSelect + ` WHERE 1=1`
	var args []any

	if status != "" {
		query += ` AND r.status = ?`
		args = append(args, status)
	}
	if cluster != "" {
		query += ` AND r.cluster = ?`
		args = append(args, cluster)
	}
	query += ` ORDER BY r.created_at DESC, r.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing returns: %w", err)
	}
	defer rows.Close()

	var records []model.ReturnRecord
	for rows.Next() {
		var r model.ReturnRecord
		var reason, cluster sql.NullString
		if err := rows.Scan(&r.ID, &r.DisbursementID, &r.ItemID, &r.FarmerID, &r.Quantity,
			&reason, &cluster, &r.Status, &r.CreatedAt, &r.UpdatedAt,
			&r.ItemName, &r.FarmerName); err != nil {
			return nil, fmt.Errorf("scanning return: %w", err)
		}
		r.Reason = reason.String
		r.Cluster = cluster.String
		records = append(records, r)
	}
	return records, rows.Err()
}
