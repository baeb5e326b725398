package api

import (
	"database/sql"
	"net/http"

	"github.com/mlipovsek/tillpoint/internal/model"
)

// NewRouter creates the API router with all endpoints registered. mailer may
// be nil when SMTP is not configured; the email endpoint then returns 503.
func NewRouter(db *sql.DB, jwtSecret string, mailer ReportMailer) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	productsHandler := &ProductsHandler{DB: db}
	categoriesHandler := &CategoriesHandler{DB: db}
	salesHandler := &SalesHandler{DB: db}
	stockHandler := &StockHandler{DB: db}
	reportsHandler := &ReportsHandler{DB: db, Mailer: mailer}
	expensesHandler := &ExpensesHandler{DB: db}
	clientsHandler := &ClientsHandler{DB: db}
	salespersonsHandler := &SalespersonsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: login.
	mux.HandleFunc("POST /auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("POST /auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Products: read (all roles), write (admin).
	mux.Handle("GET /pos/products", authMW(http.HandlerFunc(productsHandler.List)))
	mux.Handle("POST /pos/products", authMW(requireAdmin(http.HandlerFunc(productsHandler.Create))))
	mux.Handle("PUT /pos/products/reorder", authMW(requireAdmin(http.HandlerFunc(productsHandler.Reorder))))
	mux.Handle("GET /pos/products/barcode/{code}", authMW(http.HandlerFunc(productsHandler.GetByBarcode)))
	mux.Handle("GET /pos/products/{id}", authMW(http.HandlerFunc(productsHandler.Get)))
	mux.Handle("PUT /pos/products/{id}", authMW(requireAdmin(http.HandlerFunc(productsHandler.Update))))
	mux.Handle("DELETE /pos/products/{id}", authMW(requireAdmin(http.HandlerFunc(productsHandler.Delete))))
	mux.Handle("PUT /pos/products/{id}/image", authMW(requireAdmin(http.HandlerFunc(productsHandler.UploadImage))))
	mux.Handle("GET /pos/products/{id}/image", authMW(http.HandlerFunc(productsHandler.GetImage)))

	// Categories: read (all roles), write (admin).
	mux.Handle("GET /pos/categories", authMW(http.HandlerFunc(categoriesHandler.List)))
	mux.Handle("POST /pos/categories", authMW(requireAdmin(http.HandlerFunc(categoriesHandler.Create))))
	mux.Handle("PUT /pos/categories/{id}", authMW(requireAdmin(http.HandlerFunc(categoriesHandler.Update))))
	mux.Handle("DELETE /pos/categories/{id}", authMW(requireAdmin(http.HandlerFunc(categoriesHandler.Delete))))

	// Sales (all roles).
	mux.Handle("POST /pos/sales", authMW(http.HandlerFunc(salesHandler.Create)))
	mux.Handle("GET /pos/sales", authMW(http.HandlerFunc(salesHandler.List)))
	mux.Handle("GET /pos/sales/{id}", authMW(http.HandlerFunc(salesHandler.Get)))

	// Stock adjustments (admin only).
	mux.Handle("POST /pos/stock/update", authMW(requireAdmin(http.HandlerFunc(stockHandler.Update))))

	// Reports (admin only).
	mux.Handle("GET /pos/reports/summary", authMW(requireAdmin(http.HandlerFunc(reportsHandler.Summary))))
	mux.Handle("GET /pos/reports/hourly", authMW(requireAdmin(http.HandlerFunc(reportsHandler.Hourly))))
	mux.Handle("GET /pos/reports/categories", authMW(requireAdmin(http.HandlerFunc(reportsHandler.Categories))))
	mux.Handle("GET /pos/reports/cashflow", authMW(requireAdmin(http.HandlerFunc(reportsHandler.Cashflow))))
	mux.Handle("GET /pos/reports/export/excel", authMW(requireAdmin(http.HandlerFunc(reportsHandler.ExportExcel))))
	mux.Handle("GET /pos/reports/export/csv", authMW(requireAdmin(http.HandlerFunc(reportsHandler.ExportCSV))))
	mux.Handle("POST /pos/reports/email", authMW(requireAdmin(http.HandlerFunc(reportsHandler.Email))))

	// Expenses (all roles, ownership checked per handler).
	mux.Handle("GET /pos/expenses", authMW(http.HandlerFunc(expensesHandler.List)))
	mux.Handle("POST /pos/expenses", authMW(http.HandlerFunc(expensesHandler.Create)))
	mux.Handle("GET /pos/expenses/{id}", authMW(http.HandlerFunc(expensesHandler.Get)))
	mux.Handle("PUT /pos/expenses/{id}", authMW(http.HandlerFunc(expensesHandler.Update)))
	mux.Handle("DELETE /pos/expenses/{id}", authMW(http.HandlerFunc(expensesHandler.Delete)))

	// Opening balance: read (all roles), write (admin).
	mux.Handle("GET /pos/opening-balance", authMW(http.HandlerFunc(expensesHandler.GetOpeningBalance)))
	mux.Handle("PUT /pos/opening-balance", authMW(requireAdmin(http.HandlerFunc(expensesHandler.SetOpeningBalance))))

	// Clients and licenses (admin only).
	mux.Handle("GET /pos/clients", authMW(requireAdmin(http.HandlerFunc(clientsHandler.List))))
	mux.Handle("POST /pos/clients", authMW(requireAdmin(http.HandlerFunc(clientsHandler.Create))))
	mux.Handle("GET /pos/clients/{id}", authMW(requireAdmin(http.HandlerFunc(clientsHandler.Get))))
	mux.Handle("PUT /pos/clients/{id}", authMW(requireAdmin(http.HandlerFunc(clientsHandler.Update))))
	mux.Handle("POST /pos/clients/{id}/password", authMW(requireAdmin(http.HandlerFunc(clientsHandler.ResetPassword))))
	mux.Handle("DELETE /pos/clients/{id}", authMW(requireAdmin(http.HandlerFunc(clientsHandler.Delete))))
	mux.Handle("GET /pos/licenses", authMW(requireAdmin(http.HandlerFunc(clientsHandler.ListLicenses))))
	mux.Handle("POST /pos/licenses", authMW(requireAdmin(http.HandlerFunc(clientsHandler.IssueLicense))))
	mux.Handle("PUT /pos/licenses/{id}/status", authMW(requireAdmin(http.HandlerFunc(clientsHandler.SetLicenseStatus))))

	// Salespersons: read (all roles), write (admin).
	mux.Handle("GET /pos/salespersons", authMW(http.HandlerFunc(salespersonsHandler.List)))
	mux.Handle("POST /pos/salespersons", authMW(requireAdmin(http.HandlerFunc(salespersonsHandler.Create))))
	mux.Handle("GET /pos/salespersons/{id}", authMW(http.HandlerFunc(salespersonsHandler.Get)))
	mux.Handle("PUT /pos/salespersons/{id}", authMW(requireAdmin(http.HandlerFunc(salespersonsHandler.Update))))
	mux.Handle("PUT /pos/salespersons/{id}/active", authMW(requireAdmin(http.HandlerFunc(salespersonsHandler.SetActive))))
	mux.Handle("DELETE /pos/salespersons/{id}", authMW(requireAdmin(http.HandlerFunc(salespersonsHandler.Delete))))

	return mux
}
