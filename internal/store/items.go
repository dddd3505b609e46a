package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agristock/agristock/internal/model"
)

const itemSelect = `SELECT id, name, classification, code, quantity, created_at, updated_at, deleted_at FROM items`

// CreateItem creates a new item with zero stock. Stock arrives through
// the ledger's AddStock, never at creation.
func CreateItem(ctx context.Context, db *sql.DB, name, classification, code string) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, classification, code) VALUES (?, ?, NULLIF(?, ''))`,
		name, classification, code,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	return getItem(ctx, db, id)
}

func getItem(ctx context.Context, q querier, id int64) (*model.Item, error) {
	return scanItem(q.QueryRowContext(ctx, itemSelect+` WHERE id = ?`, id))
}

// GetItemByCode resolves an item by its barcode reference (scan events).
func GetItemByCode(ctx context.Context, db *sql.DB, code string) (*model.Item, error) {
	return scanItem(db.QueryRowContext(ctx,
		itemSelect+` WHERE code = ? AND deleted_at IS NULL`, code,
	))
}

func scanItem(row *sql.Row) (*model.Item, error) {
	item := &model.Item{}
	var classification, code sql.NullString
	err := row.Scan(&item.ID, &item.Name, &classification, &code, &item.Quantity,
		&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.Classification = classification.String
	item.Code = code.String
	return item, nil
}

// ListItems returns all non-deleted items, optionally filtered by
// classification.
func ListItems(ctx context.Context, db *sql.DB, classification string) ([]model.Item, error) {
	query := itemSelect + ` WHERE deleted_at IS NULL`
	var args []any

	if classification != "" {
		query += ` AND classification = ?`
		args = append(args, classification)
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var classification, code sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &classification, &code, &item.Quantity,
			&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Classification = classification.String
		item.Code = code.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's metadata. Quantity is owned by the ledger
// and deliberately not touched here.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, name, classification, code string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, classification = ?, code = NULLIF(?, ''), updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		name, classification, code, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem soft-deletes an item.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}
