package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mlipovsek/tillpoint/internal/imaging"
	"github.com/mlipovsek/tillpoint/internal/model"
	"github.com/mlipovsek/tillpoint/internal/store"
)

// ProductsHandler handles product catalog endpoints.
type ProductsHandler struct {
	DB *sql.DB
}

type productRequest struct {
	Name       string           `json:"name"`
	Barcode    string           `json:"barcode"`
	Price      decimal.Decimal  `json:"price"`
	StockPrice *decimal.Decimal `json:"stock_price"`
	Quantity   int              `json:"quantity"`
	CategoryID *int64           `json:"category_id"`
	OffShelf   bool             `json:"off_shelf"`
}

// List handles GET /pos/products. Off-shelf products are included when
// ?all=1 is set (back office view).
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	includeOffShelf := r.URL.Query().Get("all") == "1"
	products, err := store.ListProducts(r.Context(), h.DB, includeOffShelf)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	jsonResponse(w, http.StatusOK, products)
}

// Create handles POST /pos/products.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if req.Price.IsNegative() {
		jsonError(w, http.StatusBadRequest, "price must not be negative")
		return
	}
	if req.Quantity < 0 {
		jsonError(w, http.StatusBadRequest, "quantity must not be negative")
		return
	}

	product, err := store.CreateProduct(r.Context(), h.DB, &model.Product{
		Name:       req.Name,
		Barcode:    req.Barcode,
		Price:      req.Price,
		StockPrice: req.StockPrice,
		Quantity:   req.Quantity,
		CategoryID: req.CategoryID,
		OffShelf:   req.OffShelf,
	})
	if err != nil {
		storeError(w, err, "failed to create product")
		return
	}
	jsonResponse(w, http.StatusCreated, product)
}

// Get handles GET /pos/products/{id}.
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	if product == nil {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}
	jsonResponse(w, http.StatusOK, product)
}

// GetByBarcode handles GET /pos/products/barcode/{code} for scanner lookups.
func (h *ProductsHandler) GetByBarcode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		jsonError(w, http.StatusBadRequest, "barcode required")
		return
	}

	product, err := store.GetProductByBarcode(r.Context(), h.DB, code)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	if product == nil {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}
	jsonResponse(w, http.StatusOK, product)
}

// Update handles PUT /pos/products/{id}.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if req.Price.IsNegative() {
		jsonError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	product := &model.Product{
		ID:         id,
		Name:       req.Name,
		Barcode:    req.Barcode,
		Price:      req.Price,
		StockPrice: req.StockPrice,
		CategoryID: req.CategoryID,
		OffShelf:   req.OffShelf,
	}
	if err := store.UpdateProduct(r.Context(), h.DB, product); err != nil {
		storeError(w, err, "failed to update product")
		return
	}

	updated, _ := store.GetProduct(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /pos/products/{id}.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := store.DeleteProduct(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

type reorderRequest struct {
	IDs []int64 `json:"ids"`
}

// Reorder handles PUT /pos/products/reorder: the full id list in desired
// display order.
func (h *ProductsHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		jsonError(w, http.StatusBadRequest, "ids required")
		return
	}

	if err := store.ReorderProducts(r.Context(), h.DB, req.IDs); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to reorder products")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "products reordered"})
}

// UploadImage handles PUT /pos/products/{id}/image.
func (h *ProductsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetProductImage(r.Context(), h.DB, id, photo.Data, photo.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /pos/products/{id}/image.
func (h *ProductsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	data, mime, err := store.GetProductImage(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
