package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlipovsek/tillpoint/internal/model"
	"github.com/mlipovsek/tillpoint/internal/store"
)

// ExpensesHandler handles expense and opening balance endpoints.
type ExpensesHandler struct {
	DB *sql.DB
}

type expenseRequest struct {
	Label    string          `json:"label"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	SpentOn  string          `json:"spent_on"`
}

func (req *expenseRequest) validate() string {
	if req.Label == "" {
		return "label required"
	}
	if req.Amount.IsNegative() {
		return "amount must not be negative"
	}
	if req.SpentOn != "" {
		if _, err := time.Parse("2006-01-02", req.SpentOn); err != nil {
			return "invalid spent_on, want YYYY-MM-DD"
		}
	}
	return ""
}

// List handles GET /pos/expenses. Cashiers only see their own expenses,
// admins see everything unless they filter with ?client_id.
func (h *ExpensesHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var clientID int64
	if claims.Role == model.RoleAdmin {
		if v := r.URL.Query().Get("client_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				jsonError(w, http.StatusBadRequest, "invalid client_id")
				return
			}
			clientID = id
		}
	} else {
		clientID = claims.ClientID
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	expenses, err := store.ListExpenses(r.Context(), h.DB, clientID, from, to)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	jsonResponse(w, http.StatusOK, expenses)
}

// Create handles POST /pos/expenses.
func (h *ExpensesHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}
	if req.SpentOn == "" {
		req.SpentOn = time.Now().Format("2006-01-02")
	}

	clientID := claims.ClientID
	expense, err := store.CreateExpense(r.Context(), h.DB, &model.Expense{
		ClientID: &clientID,
		Label:    req.Label,
		Category: req.Category,
		Amount:   req.Amount,
		SpentOn:  req.SpentOn,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create expense")
		return
	}
	jsonResponse(w, http.StatusCreated, expense)
}

// loadOwned fetches an expense and checks the caller may touch it.
func (h *ExpensesHandler) loadOwned(w http.ResponseWriter, r *http.Request) *model.Expense {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return nil
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid expense id")
		return nil
	}

	expense, err := store.GetExpense(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get expense")
		return nil
	}
	if expense == nil || expense.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "expense not found")
		return nil
	}

	if claims.Role != model.RoleAdmin {
		if expense.ClientID == nil || *expense.ClientID != claims.ClientID {
			jsonError(w, http.StatusForbidden, "insufficient permissions")
			return nil
		}
	}
	return expense
}

// Get handles GET /pos/expenses/{id}.
func (h *ExpensesHandler) Get(w http.ResponseWriter, r *http.Request) {
	expense := h.loadOwned(w, r)
	if expense == nil {
		return
	}
	jsonResponse(w, http.StatusOK, expense)
}

// Update handles PUT /pos/expenses/{id}.
func (h *ExpensesHandler) Update(w http.ResponseWriter, r *http.Request) {
	expense := h.loadOwned(w, r)
	if expense == nil {
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	expense.Label = req.Label
	expense.Category = req.Category
	expense.Amount = req.Amount
	if req.SpentOn != "" {
		expense.SpentOn = req.SpentOn
	}
	if err := store.UpdateExpense(r.Context(), h.DB, expense); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update expense")
		return
	}
	jsonResponse(w, http.StatusOK, expense)
}

// Delete handles DELETE /pos/expenses/{id}.
func (h *ExpensesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	expense := h.loadOwned(w, r)
	if expense == nil {
		return
	}
	if err := store.DeleteExpense(r.Context(), h.DB, expense.ID); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "expense deleted"})
}

type openingBalanceRequest struct {
	Day    string          `json:"day"`
	Amount decimal.Decimal `json:"amount"`
}

// SetOpeningBalance handles PUT /pos/opening-balance. Setting the same day
// twice overwrites the earlier amount.
func (h *ExpensesHandler) SetOpeningBalance(w http.ResponseWriter, r *http.Request) {
	var req openingBalanceRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Day == "" {
		req.Day = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", req.Day); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid day, want YYYY-MM-DD")
		return
	}
	if req.Amount.IsNegative() {
		jsonError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}

	balance, err := store.SetOpeningBalance(r.Context(), h.DB, req.Day, req.Amount)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to set opening balance")
		return
	}
	jsonResponse(w, http.StatusOK, balance)
}

// GetOpeningBalance handles GET /pos/opening-balance?day=YYYY-MM-DD.
func (h *ExpensesHandler) GetOpeningBalance(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		day = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", day); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid day, want YYYY-MM-DD")
		return
	}

	balance, err := store.GetOpeningBalance(r.Context(), h.DB, day)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get opening balance")
		return
	}
	if balance == nil {
		jsonError(w, http.StatusNotFound, "no opening balance for day")
		return
	}
	jsonResponse(w, http.StatusOK, balance)
}
