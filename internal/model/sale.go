package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a completed checkout. Immutable once created; line items are only
// ever written as part of sale creation.
type Sale struct {
	ID            int64           `json:"id"`
	ReceiptNumber string          `json:"receipt_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Promotion     string          `json:"promotion,omitempty"`
	Discount      string          `json:"discount,omitempty"`
	Remarks       string          `json:"remarks,omitempty"`
	SalespersonID *int64          `json:"salesperson_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`

	Items []SaleItem `json:"items,omitempty"`
}

// SaleItem is one cart line. TotalPrice is computed by the caller, not the
// database.
type SaleItem struct {
	ID         int64           `json:"id"`
	SaleID     int64           `json:"sale_id"`
	ProductID  int64           `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`

	// Joined field (not always populated).
	ProductName string `json:"product_name,omitempty"`
}

// Payment methods are stored as the free-form label the register sends.
// Reports only break out the well-known ones.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
)
