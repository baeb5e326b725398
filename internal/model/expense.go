package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a cash outflow entered by a client.
type Expense struct {
	ID        int64           `json:"id"`
	ClientID  *int64          `json:"client_id,omitempty"`
	Label     string          `json:"label"`
	Category  string          `json:"category,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	SpentOn   string          `json:"spent_on"`
	CreatedAt time.Time       `json:"created_at"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty"`
}

// OpeningBalance is the cash float counted into the drawer at the start of
// a day. One row per calendar day.
type OpeningBalance struct {
	ID        int64           `json:"id"`
	Day       string          `json:"day"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}
