package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlipovsek/tillpoint/internal/model"
)

// CreateSalesperson creates a new salesperson, attributed to the creating
// client when known.
func CreateSalesperson(ctx context.Context, db *sql.DB, clientID *int64, name, phone string) (*model.Salesperson, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO salespersons (client_id, name, phone) VALUES (?, ?, ?)`,
		clientID, name, nullString(phone),
	)
	if err != nil {
		return nil, fmt.Errorf("creating salesperson: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting salesperson id: %w", err)
	}

	return GetSalesperson(ctx, db, id)
}

// GetSalesperson returns a salesperson by ID.
func GetSalesperson(ctx context.Context, db *sql.DB, id int64) (*model.Salesperson, error) {
	s := &model.Salesperson{}
	var phone sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, client_id, name, phone, active, created_at, deleted_at
		 FROM salespersons WHERE id = ?`, id,
	).Scan(&s.ID, &s.ClientID, &s.Name, &phone, &s.Active, &s.CreatedAt, &s.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting salesperson: %w", err)
	}
	s.Phone = phone.String
	return s, nil
}

// ListSalespersons returns all non-deleted salespersons, optionally only
// active ones.
func ListSalespersons(ctx context.Context, db *sql.DB, activeOnly bool) ([]model.Salesperson, error) {
	query := `SELECT id, client_id, name, phone, active, created_at, deleted_at
	          FROM salespersons WHERE deleted_at IS NULL`
	if activeOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing salespersons: %w", err)
	}
	defer rows.Close()

	var persons []model.Salesperson
	for rows.Next() {
		var s model.Salesperson
		var phone sql.NullString
		if err := rows.Scan(&s.ID, &s.ClientID, &s.Name, &phone, &s.Active, &s.CreatedAt, &s.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning salesperson: %w", err)
		}
		s.Phone = phone.String
		persons = append(persons, s)
	}
	return persons, rows.Err()
}

// UpdateSalesperson updates name and phone.
func UpdateSalesperson(ctx context.Context, db *sql.DB, id int64, name, phone string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE salespersons SET name = ?, phone = ? WHERE id = ? AND deleted_at IS NULL`,
		name, nullString(phone), id,
	)
	if err != nil {
		return fmt.Errorf("updating salesperson: %w", err)
	}
	return nil
}

// SetSalespersonActive toggles the active flag.
func SetSalespersonActive(ctx context.Context, db *sql.DB, id int64, active bool) error {
	_, err := db.ExecContext(ctx,
		`UPDATE salespersons SET active = ? WHERE id = ? AND deleted_at IS NULL`,
		active, id,
	)
	if err != nil {
		return fmt.Errorf("setting salesperson status: %w", err)
	}
	return nil
}

// DeleteSalesperson soft-deletes a salesperson; existing sales keep the
// reference.
func DeleteSalesperson(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE salespersons SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting salesperson: %w", err)
	}
	return nil
}
