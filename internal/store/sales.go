package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlipovsek/tillpoint/internal/model"
)

// CreateSale persists a checkout as one transaction: the sale header, every
// line item, and the matching product quantity decrements. Any failure rolls
// the whole sale back; readers never see a partial sale.
//
// The decrement deliberately has no floor check. A register must not refuse
// a sale over a stale count, so quantity may go negative here; only the
// stock adjustment path enforces non-negative results.
func CreateSale(ctx context.Context, db *sql.DB, sale *model.Sale) (*model.Sale, error) {
	if len(sale.Items) == 0 {
		return nil, fmt.Errorf("sale must have at least one item")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	receipt := newReceiptNumber()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO sales (receipt_number, total_amount, payment_method, promotion, discount, remarks, salesperson_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		receipt, sale.TotalAmount.String(), sale.PaymentMethod,
		nullString(sale.Promotion), nullString(sale.Discount), nullString(sale.Remarks),
		sale.SalespersonID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating sale: %w", err)
	}

	saleID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting sale id: %w", err)
	}

	for _, item := range sale.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, total_price)
			 VALUES (?, ?, ?, ?, ?)`,
			saleID, item.ProductID, item.Quantity,
			item.UnitPrice.String(), item.TotalPrice.String(),
		); err != nil {
			return nil, fmt.Errorf("creating sale item for product %d: %w", item.ProductID, err)
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE products SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			item.Quantity, item.ProductID,
		)
		if err != nil {
			return nil, fmt.Errorf("decrementing stock for product %d: %w", item.ProductID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("checking stock decrement for product %d: %w", item.ProductID, err)
		}
		if affected == 0 {
			return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, item.ProductID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing sale: %w", err)
	}

	return GetSale(ctx, db, saleID)
}

// GetSale returns a sale with its line items.
func GetSale(ctx context.Context, db *sql.DB, id int64) (*model.Sale, error) {
	s, err := scanSaleRow(db.QueryRowContext(ctx,
		`SELECT id, receipt_number, total_amount, payment_method, promotion, discount, remarks, salesperson_id, created_at
		 FROM sales WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting sale: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT si.id, si.sale_id, si.product_id, si.quantity, si.unit_price, si.total_price, p.name
		 FROM sale_items si
		 JOIN products p ON p.id = si.product_id
		 WHERE si.sale_id = ?
		 ORDER BY si.id`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting sale items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.SaleItem
		var unitPrice, totalPrice string
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity,
			&unitPrice, &totalPrice, &item.ProductName); err != nil {
			return nil, fmt.Errorf("scanning sale item: %w", err)
		}
		if item.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, fmt.Errorf("parsing unit price: %w", err)
		}
		if item.TotalPrice, err = decimal.NewFromString(totalPrice); err != nil {
			return nil, fmt.Errorf("parsing total price: %w", err)
		}
		s.Items = append(s.Items, item)
	}
	return s, rows.Err()
}

// ListSales returns sales whose creation date falls in [from, to], newest
// first. Dates are YYYY-MM-DD; empty bounds are open.
func ListSales(ctx context.Context, db *sql.DB, from, to string) ([]model.Sale, error) {
	query := `SELECT id, receipt_number, total_amount, payment_method, promotion, discount, remarks, salesperson_id, created_at
	          FROM sales WHERE 1=1`
	var args []any

	if from != "" {
		query += ` AND date(created_at) >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND date(created_at) <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var sales []model.Sale
	for rows.Next() {
		s, err := scanSaleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}
		sales = append(sales, *s)
	}
	return sales, rows.Err()
}

func scanSaleRow(row rowScanner) (*model.Sale, error) {
	s := &model.Sale{}
	var total string
	var promotion, discount, remarks sql.NullString
	err := row.Scan(&s.ID, &s.ReceiptNumber, &total, &s.PaymentMethod,
		&promotion, &discount, &remarks, &s.SalespersonID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}

	if s.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parsing sale total: %w", err)
	}
	s.Promotion = promotion.String
	s.Discount = discount.String
	s.Remarks = remarks.String
	return s, nil
}

// newReceiptNumber generates a short printable receipt reference.
func newReceiptNumber() string {
	return "R-" + strings.ToUpper(uuid.NewString()[:8])
}
