package model

import "github.com/shopspring/decimal"

// SalesSummary aggregates sales over a date range. Sums are computed in
// application code from decimal strings, never in SQL floats.
type SalesSummary struct {
	From      string                     `json:"from"`
	To        string                     `json:"to"`
	Total     decimal.Decimal            `json:"total"`
	Count     int                        `json:"count"`
	Average   decimal.Decimal            `json:"average"`
	ByPayment map[string]decimal.Decimal `json:"by_payment"`
}

// HourlyBucket is the sales volume of one hour of a day.
type HourlyBucket struct {
	Hour  int             `json:"hour"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// CategorySales is the sales volume of one category over a range. Percent
// is the share of the range's gross total, rounded to two places.
type CategorySales struct {
	CategoryID   *int64          `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name"`
	Quantity     int             `json:"quantity"`
	Total        decimal.Decimal `json:"total"`
	Percent      decimal.Decimal `json:"percent"`
}

// CashflowDay is one day of the cashflow report: drawer float plus cash
// sales minus expenses.
type CashflowDay struct {
	Day       string          `json:"day"`
	Opening   decimal.Decimal `json:"opening"`
	CashSales decimal.Decimal `json:"cash_sales"`
	Expenses  decimal.Decimal `json:"expenses"`
	Net       decimal.Decimal `json:"net"`
}
