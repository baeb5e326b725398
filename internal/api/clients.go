package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mlipovsek/tillpoint/internal/model"
	"github.com/mlipovsek/tillpoint/internal/store"
)

// ClientsHandler handles client account and license management. All routes
// are admin only.
type ClientsHandler struct {
	DB *sql.DB
}

type createClientRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// List handles GET /pos/clients.
func (h *ClientsHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := store.ListClients(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list clients")
		return
	}
	jsonResponse(w, http.StatusOK, clients)
}

// Create handles POST /pos/clients.
func (h *ClientsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		jsonError(w, http.StatusBadRequest, "valid email required")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Role == "" {
		req.Role = model.RoleCashier
	}
	if req.Role != model.RoleAdmin && req.Role != model.RoleCashier {
		jsonError(w, http.StatusBadRequest, "invalid role")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	client, err := store.CreateClient(r.Context(), h.DB, req.Email, req.Name, req.Phone, string(hash), req.Role)
	if err != nil {
		storeError(w, err, "failed to create client")
		return
	}
	jsonResponse(w, http.StatusCreated, client)
}

// Get handles GET /pos/clients/{id}.
func (h *ClientsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	client, err := store.GetClient(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get client")
		return
	}
	if client == nil || client.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "client not found")
		return
	}
	jsonResponse(w, http.StatusOK, client)
}

type updateClientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// Update handles PUT /pos/clients/{id}.
func (h *ClientsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	var req updateClientRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if req.Role != model.RoleAdmin && req.Role != model.RoleCashier {
		jsonError(w, http.StatusBadRequest, "invalid role")
		return
	}

	if err := store.UpdateClient(r.Context(), h.DB, id, req.Name, req.Phone, req.Role); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update client")
		return
	}

	client, err := store.GetClient(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get client")
		return
	}
	if client == nil {
		jsonError(w, http.StatusNotFound, "client not found")
		return
	}
	jsonResponse(w, http.StatusOK, client)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// ResetPassword handles POST /pos/clients/{id}/password. Unlike the
// self-service change, no current password is required.
func (h *ClientsHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	if err := store.UpdateClientPassword(r.Context(), h.DB, id, string(hash)); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to reset password")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password reset"})
}

// Delete handles DELETE /pos/clients/{id}. Admins cannot delete themselves.
func (h *ClientsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	if claims := GetClaims(r.Context()); claims != nil && claims.ClientID == id {
		jsonError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	if err := store.DeleteClient(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete client")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "client deleted"})
}

type issueLicenseRequest struct {
	ClientID  int64      `json:"client_id"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// IssueLicense handles POST /pos/licenses.
func (h *ClientsHandler) IssueLicense(w http.ResponseWriter, r *http.Request) {
	var req issueLicenseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ClientID <= 0 {
		jsonError(w, http.StatusBadRequest, "client_id required")
		return
	}

	license, err := store.IssueLicense(r.Context(), h.DB, req.ClientID, req.ExpiresAt)
	if err != nil {
		storeError(w, err, "failed to issue license")
		return
	}
	jsonResponse(w, http.StatusCreated, license)
}

// ListLicenses handles GET /pos/licenses with an optional ?client_id filter.
func (h *ClientsHandler) ListLicenses(w http.ResponseWriter, r *http.Request) {
	var clientID int64
	if v := r.URL.Query().Get("client_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid client_id")
			return
		}
		clientID = id
	}

	licenses, err := store.ListLicenses(r.Context(), h.DB, clientID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list licenses")
		return
	}
	jsonResponse(w, http.StatusOK, licenses)
}

type licenseStatusRequest struct {
	Status string `json:"status"`
}

// SetLicenseStatus handles PUT /pos/licenses/{id}/status.
func (h *ClientsHandler) SetLicenseStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid license id")
		return
	}

	var req licenseStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.SetLicenseStatus(r.Context(), h.DB, id, req.Status); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	license, err := store.GetLicense(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get license")
		return
	}
	if license == nil {
		jsonError(w, http.StatusNotFound, "license not found")
		return
	}
	jsonResponse(w, http.StatusOK, license)
}
