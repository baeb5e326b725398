package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an item sold over the counter. Quantity is the on-hand
// count; it is mutated only by sale creation and stock adjustments.
type Product struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	Barcode    string           `json:"barcode,omitempty"`
	Price      decimal.Decimal  `json:"price"`
	StockPrice *decimal.Decimal `json:"stock_price,omitempty"`
	Quantity   int              `json:"quantity"`
	CategoryID *int64           `json:"category_id,omitempty"`
	SortOrder  int              `json:"sort_order"`
	OffShelf   bool             `json:"off_shelf"`
	ImageMime  string           `json:"image_mime,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DeletedAt  *time.Time       `json:"deleted_at,omitempty"`

	// Joined field (not always populated).
	CategoryName string `json:"category_name,omitempty"`
}

// Category groups products for the register grid and reports.
type Category struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
