package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mlipovsek/tillpoint/internal/model"
)

// SalesSummary aggregates sales in [from, to] (YYYY-MM-DD, inclusive).
func SalesSummary(ctx context.Context, db *sql.DB, from, to string) (*model.SalesSummary, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT total_amount, payment_method FROM sales
		 WHERE date(created_at) BETWEEN ? AND ?`, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sales summary: %w", err)
	}
	defer rows.Close()

	summary := &model.SalesSummary{
		From:      from,
		To:        to,
		ByPayment: map[string]decimal.Decimal{},
	}
	for rows.Next() {
		var amount, method string
		if err := rows.Scan(&amount, &method); err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}
		total, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing sale total: %w", err)
		}
		summary.Total = summary.Total.Add(total)
		summary.ByPayment[method] = summary.ByPayment[method].Add(total)
		summary.Count++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if summary.Count > 0 {
		summary.Average = summary.Total.DivRound(decimal.NewFromInt(int64(summary.Count)), 2)
	}
	return summary, nil
}

// HourlyBreakdown returns per-hour sales volume for one day. Only hours
// with at least one sale are returned.
func HourlyBreakdown(ctx context.Context, db *sql.DB, day string) ([]model.HourlyBucket, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT CAST(strftime('%H', created_at) AS INTEGER), total_amount
		 FROM sales WHERE date(created_at) = ?`, day,
	)
	if err != nil {
		return nil, fmt.Errorf("querying hourly breakdown: %w", err)
	}
	defer rows.Close()

	buckets := map[int]*model.HourlyBucket{}
	for rows.Next() {
		var hour int
		var amount string
		if err := rows.Scan(&hour, &amount); err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}
		total, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing sale total: %w", err)
		}
		b := buckets[hour]
		if b == nil {
			b = &model.HourlyBucket{Hour: hour}
			buckets[hour] = b
		}
		b.Count++
		b.Total = b.Total.Add(total)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var result []model.HourlyBucket
	for _, b := range buckets {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Hour < result[j].Hour })
	return result, nil
}

// CategoryBreakdown returns per-category sales volume in [from, to] with
// each category's share of the gross total. Items whose product has no
// category are grouped under "uncategorized".
func CategoryBreakdown(ctx context.Context, db *sql.DB, from, to string) ([]model.CategorySales, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT p.category_id, COALESCE(c.name, 'uncategorized'), si.quantity, si.total_price
		 FROM sale_items si
		 JOIN sales s ON s.id = si.sale_id
		 JOIN products p ON p.id = si.product_id
		 LEFT JOIN categories c ON c.id = p.category_id
		 WHERE date(s.created_at) BETWEEN ? AND ?`, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("querying category breakdown: %w", err)
	}
	defer rows.Close()

	byName := map[string]*model.CategorySales{}
	var gross decimal.Decimal
	for rows.Next() {
		var categoryID *int64
		var name, amount string
		var quantity int
		if err := rows.Scan(&categoryID, &name, &quantity, &amount); err != nil {
			return nil, fmt.Errorf("scanning sale item: %w", err)
		}
		total, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing item total: %w", err)
		}
		cs := byName[name]
		if cs == nil {
			cs = &model.CategorySales{CategoryID: categoryID, CategoryName: name}
			byName[name] = cs
		}
		cs.Quantity += quantity
		cs.Total = cs.Total.Add(total)
		gross = gross.Add(total)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var result []model.CategorySales
	hundred := decimal.NewFromInt(100)
	for _, cs := range byName {
		if gross.IsPositive() {
			cs.Percent = cs.Total.Mul(hundred).DivRound(gross, 2)
		}
		result = append(result, *cs)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Total.GreaterThan(result[j].Total)
	})
	return result, nil
}

// Cashflow returns one row per day in [from, to] that saw any activity:
// opening balance plus cash sales minus expenses.
func Cashflow(ctx context.Context, db *sql.DB, from, to string) ([]model.CashflowDay, error) {
	days := map[string]*model.CashflowDay{}
	day := func(d string) *model.CashflowDay {
		c := days[d]
		if c == nil {
			c = &model.CashflowDay{Day: d}
			days[d] = c
		}
		return c
	}

	rows, err := db.QueryContext(ctx,
		`SELECT date(created_at), total_amount FROM sales
		 WHERE payment_method = ? AND date(created_at) BETWEEN ? AND ?`,
		model.PaymentCash, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("querying cash sales: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d, amount string
		if err := rows.Scan(&d, &amount); err != nil {
			return nil, fmt.Errorf("scanning cash sale: %w", err)
		}
		total, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing sale total: %w", err)
		}
		day(d).CashSales = day(d).CashSales.Add(total)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	expRows, err := db.QueryContext(ctx,
		`SELECT spent_on, amount FROM expenses
		 WHERE deleted_at IS NULL AND spent_on BETWEEN ? AND ?`, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("querying expenses: %w", err)
	}
	defer expRows.Close()

	for expRows.Next() {
		var d, amount string
		if err := expRows.Scan(&d, &amount); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		total, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing expense amount: %w", err)
		}
		day(d).Expenses = day(d).Expenses.Add(total)
	}
	if err := expRows.Err(); err != nil {
		return nil, err
	}

	balRows, err := db.QueryContext(ctx,
		`SELECT day, amount FROM opening_balances WHERE day BETWEEN ? AND ?`, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("querying opening balances: %w", err)
	}
	defer balRows.Close()

	for balRows.Next() {
		var d, amount string
		if err := balRows.Scan(&d, &amount); err != nil {
			return nil, fmt.Errorf("scanning opening balance: %w", err)
		}
		opening, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing opening balance: %w", err)
		}
		day(d).Opening = opening
	}
	if err := balRows.Err(); err != nil {
		return nil, err
	}

	var result []model.CashflowDay
	for _, c := range days {
		c.Net = c.Opening.Add(c.CashSales).Sub(c.Expenses)
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Day < result[j].Day })
	return result, nil
}
