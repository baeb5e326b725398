package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// StockAction is the kind of inventory correction being applied.
type StockAction string

// Stock actions.
const (
	StockIn   StockAction = "stock-in"
	StockOut  StockAction = "stock-out"
	StockLoss StockAction = "stock-loss"
)

// ParseStockAction validates a wire-level action string.
func ParseStockAction(s string) (StockAction, error) {
	switch a := StockAction(s); a {
	case StockIn, StockOut, StockLoss:
		return a, nil
	}
	return "", fmt.Errorf("unknown stock action %q", s)
}

// Delta returns the signed quantity change for a given entry quantity.
func (a StockAction) Delta(quantity int) int {
	if a == StockIn {
		return quantity
	}
	return -quantity
}

// StockUpdate is one entry of a stock adjustment batch. It is transient:
// applied to the product counter, never persisted as its own row.
type StockUpdate struct {
	ProductID int64            `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Action    StockAction      `json:"action"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Remarks   string           `json:"remarks,omitempty"`
}
