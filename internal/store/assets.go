package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agristock/agristock/internal/model"
)

const assetSelect = `SELECT id, name, code, condition, available, created_at, deleted_at FROM assets`

// CreateAsset registers a new asset, initially available.
func CreateAsset(ctx context.Context, db *sql.DB, name, code, condition string) (*model.Asset, error) {
	if condition == "" {
		condition = model.AssetConditionGood
	}
	result, err := db.ExecContext(ctx,
		`INSERT INTO assets (name, code, condition) VALUES (?, NULLIF(?, ''), ?)`,
		name, code, condition,
	)
	if err != nil {
		return nil, fmt.Errorf("creating asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting asset id: %w", err)
	}

	return GetAsset(ctx, db, id)
}

// GetAsset returns an asset by ID.
func GetAsset(ctx context.Context, db *sql.DB, id int64) (*model.Asset, error) {
	return getAsset(ctx, db, id)
}

func getAsset(ctx context.Context, q querier, id int64) (*model.Asset, error) {
	return scanAsset(q.QueryRowContext(ctx, assetSelect+` WHERE id = ?`, id))
}

// GetAssetByCode resolves an asset by its reference code.
func GetAssetByCode(ctx context.Context, db *sql.DB, code string) (*model.Asset, error) {
	return scanAsset(db.QueryRowContext(ctx,
		assetSelect+` WHERE code = ? AND deleted_at IS NULL`, code,
	))
}

func scanAsset(row *sql.Row) (*model.Asset, error) {
	asset := &model.Asset{}
	var code sql.NullString
	err := row.Scan(&asset.ID, &asset.Name, &code, &asset.Condition, &asset.Available,
		&asset.CreatedAt, &asset.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting asset: %w", err)
	}
	asset.Code = code.String
	return asset, nil
}

// ListAssets returns all non-deleted assets. With availableOnly set, only
// assets without an open loan are returned.
func ListAssets(ctx context.Context, db *sql.DB, availableOnly bool) ([]model.Asset, error) {
	query := assetSelect + ` WHERE deleted_at IS NULL`
	if availableOnly {
		query += ` AND available = 1`
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	defer rows.Close()

	var assets []model.Asset
	for rows.Next() {
		var asset model.Asset
		var code sql.NullString
		if err := rows.Scan(&asset.ID, &asset.Name, &code, &asset.Condition, &asset.Available,
			&asset.CreatedAt, &asset.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		asset.Code = code.String
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// UpdateAsset updates an asset's metadata. Availability is owned by the
// lending state machine and deliberately not touched here.
func UpdateAsset(ctx context.Context, db *sql.DB, id int64, name, code, condition string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE assets SET name = ?, code = NULLIF(?, ''), condition = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		name, code, condition, id,
	)
	if err != nil {
		return fmt.Errorf("updating asset: %w", err)
	}
	return nil
}

// DeleteAsset soft-deletes an asset.
func DeleteAsset(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE assets SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting asset: %w", err)
	}
	return nil
}
