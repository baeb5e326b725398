package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlipovsek/tillpoint/internal/model"
)

// CreateClient creates a new client account. Duplicate active emails are
// rejected with ErrDuplicateEmail.
func CreateClient(ctx context.Context, db *sql.DB, email, name, phone, passwordHash, role string) (*model.Client, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clients WHERE email = ? AND deleted_at IS NULL`, email,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("checking client email: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO clients (email, name, phone, password_hash, role) VALUES (?, ?, ?, ?, ?)`,
		email, name, nullString(phone), passwordHash, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting client id: %w", err)
	}

	return GetClient(ctx, db, id)
}

// GetClient returns a client by ID.
func GetClient(ctx context.Context, db *sql.DB, id int64) (*model.Client, error) {
	c := &model.Client{}
	var phone sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, email, name, phone, password_hash, role, created_at, deleted_at
		 FROM clients WHERE id = ?`, id,
	).Scan(&c.ID, &c.Email, &c.Name, &phone, &c.PasswordHash, &c.Role, &c.CreatedAt, &c.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting client: %w", err)
	}
	c.Phone = phone.String
	return c, nil
}

// GetClientByEmail returns a non-deleted client by email.
func GetClientByEmail(ctx context.Context, db *sql.DB, email string) (*model.Client, error) {
	c := &model.Client{}
	var phone sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, email, name, phone, password_hash, role, created_at, deleted_at
		 FROM clients WHERE email = ? AND deleted_at IS NULL`, email,
	).Scan(&c.ID, &c.Email, &c.Name, &phone, &c.PasswordHash, &c.Role, &c.CreatedAt, &c.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting client by email: %w", err)
	}
	c.Phone = phone.String
	return c, nil
}

// ListClients returns all non-deleted clients.
func ListClients(ctx context.Context, db *sql.DB) ([]model.Client, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, email, name, phone, password_hash, role, created_at, deleted_at
		 FROM clients WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var c model.Client
		var phone sql.NullString
		if err := rows.Scan(&c.ID, &c.Email, &c.Name, &phone, &c.PasswordHash, &c.Role, &c.CreatedAt, &c.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}
		c.Phone = phone.String
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// UpdateClient updates a client's profile fields.
func UpdateClient(ctx context.Context, db *sql.DB, id int64, name, phone, role string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE clients SET name = ?, phone = ?, role = ? WHERE id = ? AND deleted_at IS NULL`,
		name, nullString(phone), role, id,
	)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}
	return nil
}

// UpdateClientPassword sets a new password hash.
func UpdateClientPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE clients SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating client password: %w", err)
	}
	return nil
}

// DeleteClient soft-deletes a client so the email can be reused later.
func DeleteClient(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE clients SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	return nil
}
