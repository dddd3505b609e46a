package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agristock/agristock/internal/model"
)

const requestSelect = `SELECT q.id, q.requester_id, q.status, q.created_at, q.decided_at,
       f.name AS requester_name
  FROM requests q
  JOIN farmers f ON f.id = q.requester_id`

// GetRequest returns a request with its lines.
func GetRequest(ctx context.Context, db *sql.DB, id int64) (*model.ApprovalRequest, error) {
	return getRequest(ctx, db, id)
}

func getRequest(ctx context.Context, q querier, id int64) (*model.ApprovalRequest, error) {
	req := &model.ApprovalRequest{}
	err := q.QueryRowContext(ctx, requestSelect+` WHERE q.id = ?`, id).
		Scan(&req.ID, &req.RequesterID, &req.Status, &req.CreatedAt, &req.DecidedAt, &req.RequesterName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT rl.id, rl.item_id, rl.quantity, i.name AS item_name
		 FROM request_lines rl
		 JOIN items i ON i.id = rl.item_id
		 WHERE rl.request_id = ?
		 ORDER BY rl.position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting request lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line model.RequestLine
		if err := rows.Scan(&line.ID, &line.ItemID, &line.Quantity, &line.ItemName); err != nil {
			return nil, fmt.Errorf("scanning request line: %w", err)
		}
		req.Lines = append(req.Lines, line)
	}
	return req, rows.Err()
}

// ListRequests returns requests (without lines), newest first, optionally
// filtered by status.
func ListRequests(ctx context.Context, db *sql.DB, status string) ([]model.ApprovalRequest, error) {
	query := requestSelect + ` WHERE 1=1`
	var args []any

	if status != "" {
		query += ` AND q.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY q.created_at DESC, q.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer rows.Close()

	var requests []model.ApprovalRequest
	for rows.Next() {
		var req model.ApprovalRequest
		if err := rows.Scan(&req.ID, &req.RequesterID, &req.Status, &req.CreatedAt, &req.DecidedAt, &req.RequesterName); err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
