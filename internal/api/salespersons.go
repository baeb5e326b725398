package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/mlipovsek/tillpoint/internal/store"
)

// SalespersonsHandler handles salesperson management endpoints.
type SalespersonsHandler struct {
	DB *sql.DB
}

type salespersonRequest struct {
	ClientID *int64 `json:"client_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

// List handles GET /pos/salespersons. Pass ?active=1 to hide inactive ones.
func (h *SalespersonsHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "1"
	salespersons, err := store.ListSalespersons(r.Context(), h.DB, activeOnly)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list salespersons")
		return
	}
	jsonResponse(w, http.StatusOK, salespersons)
}

// Create handles POST /pos/salespersons.
func (h *SalespersonsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req salespersonRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	salesperson, err := store.CreateSalesperson(r.Context(), h.DB, req.ClientID, req.Name, req.Phone)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create salesperson")
		return
	}
	jsonResponse(w, http.StatusCreated, salesperson)
}

// Get handles GET /pos/salespersons/{id}.
func (h *SalespersonsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid salesperson id")
		return
	}

	salesperson, err := store.GetSalesperson(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get salesperson")
		return
	}
	if salesperson == nil || salesperson.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "salesperson not found")
		return
	}
	jsonResponse(w, http.StatusOK, salesperson)
}

// Update handles PUT /pos/salespersons/{id}.
func (h *SalespersonsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid salesperson id")
		return
	}

	var req salespersonRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateSalesperson(r.Context(), h.DB, id, req.Name, req.Phone); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update salesperson")
		return
	}

	salesperson, err := store.GetSalesperson(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get salesperson")
		return
	}
	if salesperson == nil {
		jsonError(w, http.StatusNotFound, "salesperson not found")
		return
	}
	jsonResponse(w, http.StatusOK, salesperson)
}

type salespersonActiveRequest struct {
	Active bool `json:"active"`
}

// SetActive handles PUT /pos/salespersons/{id}/active.
func (h *SalespersonsHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid salesperson id")
		return
	}

	var req salespersonActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.SetSalespersonActive(r.Context(), h.DB, id, req.Active); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update salesperson")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "salesperson updated"})
}

// Delete handles DELETE /pos/salespersons/{id}.
func (h *SalespersonsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid salesperson id")
		return
	}

	if err := store.DeleteSalesperson(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete salesperson")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "salesperson deleted"})
}
