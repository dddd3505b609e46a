package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agristock/agristock/internal/model"
)

const farmerSelect = `SELECT id, name, cluster, code, created_at, deleted_at FROM farmers`

// CreateFarmer registers a new farmer.
func CreateFarmer(ctx context.Context, db *sql.DB, name, cluster, code string) (*model.Farmer, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO farmers (name, cluster, code) VALUES (?, ?, NULLIF(?, ''))`,
		name, cluster, code,
	)
	if err != nil {
		return nil, fmt.Errorf("creating farmer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting farmer id: %w", err)
	}

	return GetFarmer(ctx, db, id)
}

// GetFarmer returns a farmer by ID.
func GetFarmer(ctx context.Context, db *sql.DB, id int64) (*model.Farmer, error) {
	return scanFarmer(db.QueryRowContext(ctx, farmerSelect+` WHERE id = ?`, id))
}

// GetFarmerByCode resolves a farmer by their ID-card code (scan events).
func GetFarmerByCode(ctx context.Context, db *sql.DB, code string) (*model.Farmer, error) {
	return scanFarmer(db.QueryRowContext(ctx,
		farmerSelect+` WHERE code = ? AND deleted_at IS NULL`, code,
	))
}

func scanFarmer(row *sql.Row) (*model.Farmer, error) {
	farmer := &model.Farmer{}
	var cluster, code sql.NullString
	err := row.Scan(&farmer.ID, &farmer.Name, &cluster, &code, &farmer.CreatedAt, &farmer.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting farmer: %w", err)
	}
	farmer.Cluster = cluster.String
	farmer.Code = code.String
	return farmer, nil
}

// ListFarmers returns all non-deleted farmers, optionally filtered by
// cluster.
func ListFarmers(ctx context.Context, db *sql.DB, cluster string) ([]model.Farmer, error) {
	query := farmerSelect + ` WHERE deleted_at IS NULL`
	var args []any

	if cluster != "" {
		query += ` AND cluster = ?`
		args = append(args, cluster)
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing farmers: %w", err)
	}
	defer rows.Close()

	var farmers []model.Farmer
	for rows.Next() {
		var farmer model.Farmer
		var cluster, code sql.NullString
		if err := rows.Scan(&farmer.ID, &farmer.Name, &cluster, &code, &farmer.CreatedAt, &farmer.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning farmer: %w", err)
		}
		farmer.Cluster = cluster.String
		farmer.Code = code.String
		farmers = append(farmers, farmer)
	}
	return farmers, rows.Err()
}

// UpdateFarmer updates a farmer's details.
func UpdateFarmer(ctx context.Context, db *sql.DB, id int64, name, cluster, code string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE farmers SET name = ?, cluster = ?, code = NULLIF(?, '')
		 WHERE id = ? AND deleted_at IS NULL`,
		name, cluster, code, id,
	)
	if err != nil {
		return fmt.Errorf("updating farmer: %w", err)
	}
	return nil
}

// DeleteFarmer soft-deletes a farmer.
func DeleteFarmer(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE farmers SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting farmer: %w", err)
	}
	return nil
}
