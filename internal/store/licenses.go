package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mlipovsek/tillpoint/internal/model"
)

// IssueLicense creates a new active license for a client.
func IssueLicense(ctx context.Context, db *sql.DB, clientID int64, expiresAt *time.Time) (*model.License, error) {
	client, err := GetClient(ctx, db, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil || client.DeletedAt != nil {
		return nil, fmt.Errorf("%w: %d", ErrClientNotFound, clientID)
	}

	key := uuid.NewString()
	result, err := db.ExecContext(ctx,
		`INSERT INTO licenses (client_id, key, status, expires_at) VALUES (?, ?, ?, ?)`,
		clientID, key, model.LicenseActive, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("issuing license: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting license id: %w", err)
	}

	return GetLicense(ctx, db, id)
}

// GetLicense returns a license by ID.
func GetLicense(ctx context.Context, db *sql.DB, id int64) (*model.License, error) {
	l := &model.License{}
	err := db.QueryRowContext(ctx,
		`SELECT id, client_id, key, status, issued_at, expires_at FROM licenses WHERE id = ?`, id,
	).Scan(&l.ID, &l.ClientID, &l.Key, &l.Status, &l.IssuedAt, &l.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting license: %w", err)
	}
	return l, nil
}

// ListLicenses returns licenses newest first, filtered to one client when
// clientID is non-zero.
func ListLicenses(ctx context.Context, db *sql.DB, clientID int64) ([]model.License, error) {
	query := `SELECT id, client_id, key, status, issued_at, expires_at FROM licenses`
	var args []any
	if clientID > 0 {
		query += ` WHERE client_id = ?`
		args = append(args, clientID)
	}
	query += ` ORDER BY issued_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing licenses: %w", err)
	}
	defer rows.Close()

	var licenses []model.License
	for rows.Next() {
		var l model.License
		if err := rows.Scan(&l.ID, &l.ClientID, &l.Key, &l.Status, &l.IssuedAt, &l.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scanning license: %w", err)
		}
		licenses = append(licenses, l)
	}
	return licenses, rows.Err()
}

// SetLicenseStatus toggles a license between active and suspended.
func SetLicenseStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	if status != model.LicenseActive && status != model.LicenseSuspended {
		return fmt.Errorf("invalid license status %q", status)
	}
	_, err := db.ExecContext(ctx,
		`UPDATE licenses SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return fmt.Errorf("setting license status: %w", err)
	}
	return nil
}
