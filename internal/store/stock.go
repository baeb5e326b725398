package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlipovsek/tillpoint/internal/model"
)

// ApplyStockUpdates applies a batch of inventory corrections in one
// transaction, strictly in input order. A stock-out or stock-loss that would
// drive a product's quantity negative fails with ErrInsufficientStock, an
// unknown product with ErrProductNotFound; either aborts the whole batch and
// rolls back every earlier entry. The returned ids are only meaningful on
// full success, which matches the commit.
func ApplyStockUpdates(ctx context.Context, db *sql.DB, updates []model.StockUpdate) ([]int64, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("no stock updates given")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var updated []int64
	for _, u := range updates {
		if u.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be positive for product %d", u.ProductID)
		}

		var current int
		err := tx.QueryRowContext(ctx,
			`SELECT quantity FROM products WHERE id = ? AND deleted_at IS NULL`,
			u.ProductID,
		).Scan(&current)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, u.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("checking stock for product %d: %w", u.ProductID, err)
		}

		newQty := current + u.Action.Delta(u.Quantity)
		if newQty < 0 {
			return nil, fmt.Errorf("%w: product %d has %d, need %d",
				ErrInsufficientStock, u.ProductID, current, u.Quantity)
		}

		if u.Action == model.StockIn && u.Price != nil {
			_, err = tx.ExecContext(ctx,
				`UPDATE products SET quantity = ?, stock_price = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE id = ?`,
				newQty, u.Price.String(), u.ProductID,
			)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE products SET quantity = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE id = ?`,
				newQty, u.ProductID,
			)
		}
		if err != nil {
			return nil, fmt.Errorf("updating stock for product %d: %w", u.ProductID, err)
		}

		updated = append(updated, u.ProductID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock updates: %w", err)
	}
	return updated, nil
}
