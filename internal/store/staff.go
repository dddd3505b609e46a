package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agristock/agristock/internal/model"
)

const staffSelect = `SELECT id, name, role, created_at, deleted_at FROM staff`

// CreateStaff registers a new staff member.
func CreateStaff(ctx context.Context, db *sql.DB, name, role string) (*model.Staff, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO staff (name, role) VALUES (?, ?)`,
		name, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating staff: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting staff id: %w", err)
	}

	return GetStaff(ctx, db, id)
}

// GetStaff returns a staff member by ID.
func GetStaff(ctx context.Context, db *sql.DB, id int64) (*model.Staff, error) {
	staff := &model.Staff{}
	err := db.QueryRowContext(ctx, staffSelect+` WHERE id = ?`, id).
		Scan(&staff.ID, &staff.Name, &staff.Role, &staff.CreatedAt, &staff.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting staff: %w", err)
	}
	return staff, nil
}

// ListStaff returns all non-deleted staff members.
func ListStaff(ctx context.Context, db *sql.DB) ([]model.Staff, error) {
	rows, err := db.QueryContext(ctx, staffSelect+` WHERE deleted_at IS NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing staff: %w", err)
	}
	defer rows.Close()

	var members []model.Staff
	for rows.Next() {
		var staff model.Staff
		if err := rows.Scan(&staff.ID, &staff.Name, &staff.Role, &staff.CreatedAt, &staff.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning staff: %w", err)
		}
		members = append(members, staff)
	}
	return members, rows.Err()
}

// UpdateStaff updates a staff member's details.
func UpdateStaff(ctx context.Context, db *sql.DB, id int64, name, role string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE staff SET name = ?, role = ? WHERE id = ? AND deleted_at IS NULL`,
		name, role, id,
	)
	if err != nil {
		return fmt.Errorf("updating staff: %w", err)
	}
	return nil
}

// DeleteStaff soft-deletes a staff member.
func DeleteStaff(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE staff SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting staff: %w", err)
	}
	return nil
}
