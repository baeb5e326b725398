package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mlipovsek/tillpoint/internal/model"
)

// SetOpeningBalance records the drawer float for a day, replacing any
// earlier value for the same day.
func SetOpeningBalance(ctx context.Context, db *sql.DB, day string, amount decimal.Decimal) (*model.OpeningBalance, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO opening_balances (day, amount) VALUES (?, ?)
		 ON CONFLICT (day) DO UPDATE SET amount = excluded.amount`,
		day, amount.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("setting opening balance: %w", err)
	}

	return GetOpeningBalance(ctx, db, day)
}

// GetOpeningBalance returns the opening balance for a day, or nil when none
// was recorded.
func GetOpeningBalance(ctx context.Context, db *sql.DB, day string) (*model.OpeningBalance, error) {
	b := &model.OpeningBalance{}
	var amount string
	err := db.QueryRowContext(ctx,
		`SELECT id, day, amount, created_at FROM opening_balances WHERE day = ?`, day,
	).Scan(&b.ID, &b.Day, &amount, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting opening balance: %w", err)
	}
	if b.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parsing opening balance: %w", err)
	}
	return b, nil
}
