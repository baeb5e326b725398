package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlipovsek/tillpoint/internal/model"
	"github.com/mlipovsek/tillpoint/internal/store"
)

// SalesHandler handles checkout and sale lookup endpoints.
type SalesHandler struct {
	DB *sql.DB
}

// The register UI speaks camelCase on the checkout contract; these payload
// types keep that wire shape stable independent of the model JSON.
type saleItemPayload struct {
	ProductID  int64           `json:"productId"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type createSaleRequest struct {
	Items         []saleItemPayload `json:"items"`
	TotalAmount   decimal.Decimal   `json:"totalAmount"`
	PaymentMethod string            `json:"paymentMethod"`
	Promotion     string            `json:"promotion,omitempty"`
	Discount      string            `json:"discount,omitempty"`
	Remarks       string            `json:"remarks,omitempty"`
	SalesPerson   *int64            `json:"salesPerson,omitempty"`
	PrintReceipt  bool              `json:"printReceipt,omitempty"`
}

type saleResponse struct {
	ID            int64             `json:"id"`
	ReceiptNumber string            `json:"receiptNumber"`
	TotalAmount   decimal.Decimal   `json:"totalAmount"`
	PaymentMethod string            `json:"paymentMethod"`
	CreatedAt     time.Time         `json:"createdAt"`
	Items         []saleItemPayload `json:"items"`
}

type createSaleResponse struct {
	Success bool         `json:"success"`
	Sale    saleResponse `json:"sale"`
}

// Create handles POST /pos/sales.
func (h *SalesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Items) == 0 {
		jsonError(w, http.StatusBadRequest, "items required")
		return
	}
	if req.PaymentMethod == "" {
		jsonError(w, http.StatusBadRequest, "payment method required")
		return
	}

	sale := &model.Sale{
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		Promotion:     req.Promotion,
		Discount:      req.Discount,
		Remarks:       req.Remarks,
		SalespersonID: req.SalesPerson,
	}
	for _, item := range req.Items {
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}

	created, err := store.CreateSale(r.Context(), h.DB, sale)
	if err != nil {
		storeError(w, err, "failed to create sale")
		return
	}

	slog.Info("sale created",
		"receipt", created.ReceiptNumber,
		"total", created.TotalAmount,
		"items", len(created.Items))

	resp := createSaleResponse{
		Success: true,
		Sale: saleResponse{
			ID:            created.ID,
			ReceiptNumber: created.ReceiptNumber,
			TotalAmount:   created.TotalAmount,
			PaymentMethod: created.PaymentMethod,
			CreatedAt:     created.CreatedAt,
		},
	}
	for _, item := range created.Items {
		resp.Sale.Items = append(resp.Sale.Items, saleItemPayload{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	jsonResponse(w, http.StatusCreated, resp)
}

// List handles GET /pos/sales with optional from/to date filters.
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	sales, err := store.ListSales(r.Context(), h.DB, from, to)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}
	if sales == nil {
		sales = []model.Sale{}
	}
	jsonResponse(w, http.StatusOK, sales)
}

// Get handles GET /pos/sales/{id}.
func (h *SalesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid sale id")
		return
	}

	sale, err := store.GetSale(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get sale")
		return
	}
	if sale == nil {
		jsonError(w, http.StatusNotFound, "sale not found")
		return
	}
	jsonResponse(w, http.StatusOK, sale)
}
