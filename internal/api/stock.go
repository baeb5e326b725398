package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mlipovsek/tillpoint/internal/model"
	"github.com/mlipovsek/tillpoint/internal/store"
)

// StockHandler handles bulk inventory adjustment.
type StockHandler struct {
	DB *sql.DB
}

type stockUpdatePayload struct {
	ProductID int64            `json:"productId"`
	Quantity  int              `json:"quantity"`
	Action    string           `json:"action"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Remarks   string           `json:"remarks,omitempty"`
}

type updateStockRequest struct {
	Updates []stockUpdatePayload `json:"updates"`
}

type updateStockResponse struct {
	Success         bool    `json:"success"`
	UpdatedProducts []int64 `json:"updatedProducts"`
}

// Update handles POST /pos/stock/update. The whole batch is applied in one
// transaction; any invalid entry aborts every change.
func (h *StockHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateStockRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Updates) == 0 {
		jsonError(w, http.StatusBadRequest, "updates required")
		return
	}

	updates := make([]model.StockUpdate, 0, len(req.Updates))
	for _, u := range req.Updates {
		action, err := model.ParseStockAction(u.Action)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		if u.Quantity <= 0 {
			jsonError(w, http.StatusBadRequest, "quantity must be positive")
			return
		}
		updates = append(updates, model.StockUpdate{
			ProductID: u.ProductID,
			Quantity:  u.Quantity,
			Action:    action,
			Price:     u.Price,
			Remarks:   u.Remarks,
		})
	}

	updated, err := store.ApplyStockUpdates(r.Context(), h.DB, updates)
	if err != nil {
		storeError(w, err, "failed to update stock")
		return
	}

	slog.Info("stock updated", "products", len(updated))
	jsonResponse(w, http.StatusOK, updateStockResponse{
		Success:         true,
		UpdatedProducts: updated,
	})
}
