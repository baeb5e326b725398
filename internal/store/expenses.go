package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mlipovsek/tillpoint/internal/model"
)

// CreateExpense records a cash outflow.
func CreateExpense(ctx context.Context, db *sql.DB, e *model.Expense) (*model.Expense, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO expenses (client_id, label, category, amount, spent_on) VALUES (?, ?, ?, ?, ?)`,
		e.ClientID, e.Label, nullString(e.Category), e.Amount.String(), e.SpentOn,
	)
	if err != nil {
		return nil, fmt.Errorf("creating expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting expense id: %w", err)
	}

	return GetExpense(ctx, db, id)
}

// GetExpense returns an expense by ID.
func GetExpense(ctx context.Context, db *sql.DB, id int64) (*model.Expense, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, client_id, label, category, amount, spent_on, created_at, deleted_at
		 FROM expenses WHERE id = ?`, id,
	)
	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns non-deleted expenses in [from, to], newest first.
// When clientID is non-zero only that client's expenses are returned
// (cashier-role accounts only see their own).
func ListExpenses(ctx context.Context, db *sql.DB, clientID int64, from, to string) ([]model.Expense, error) {
	query := `SELECT id, client_id, label, category, amount, spent_on, created_at, deleted_at
	          FROM expenses WHERE deleted_at IS NULL`
	var args []any

	if clientID > 0 {
		query += ` AND client_id = ?`
		args = append(args, clientID)
	}
	if from != "" {
		query += ` AND spent_on >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND spent_on <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY spent_on DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

// UpdateExpense updates an expense's fields.
func UpdateExpense(ctx context.Context, db *sql.DB, e *model.Expense) error {
	_, err := db.ExecContext(ctx,
		`UPDATE expenses SET label = ?, category = ?, amount = ?, spent_on = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		e.Label, nullString(e.Category), e.Amount.String(), e.SpentOn, e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}
	return nil
}

// DeleteExpense soft-deletes an expense.
func DeleteExpense(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE expenses SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}
	return nil
}

func scanExpense(row rowScanner) (*model.Expense, error) {
	e := &model.Expense{}
	var category sql.NullString
	var amount string
	err := row.Scan(&e.ID, &e.ClientID, &e.Label, &category, &amount, &e.SpentOn, &e.CreatedAt, &e.DeletedAt)
	if err != nil {
		return nil, err
	}
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parsing expense amount: %w", err)
	}
	e.Category = category.String
	return e, nil
}
