package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mlipovsek/tillpoint/internal/auth"
	"github.com/mlipovsek/tillpoint/internal/db"
	"github.com/mlipovsek/tillpoint/internal/mailer"
	"github.com/mlipovsek/tillpoint/internal/model"
	"github.com/mlipovsek/tillpoint/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB, string) {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret, nil)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create admin client.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	store.CreateClient(ctx, database, "admin@shop.test", "Admin", "", string(hash), model.RoleAdmin)

	// Get token.
	body, _ := json.Marshal(map[string]string{"email": "admin@shop.test", "password": "password123"})
	resp, err := http.Post(server.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}

	return server, database, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func seedProduct(t *testing.T, database *sql.DB, name, price string, quantity int) *model.Product {
	t.Helper()
	product, err := store.CreateProduct(context.Background(), database, &model.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
	})
	if err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	return product
}

func TestLoginEndpoint(t *testing.T) {
	server, _, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"email": "admin@shop.test", "password": "wrong-password"})
	resp, _ := http.Post(server.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestSaleCheckoutFlow(t *testing.T) {
	server, database, token := setupTestServer(t)
	product := seedProduct(t, database, "Americano", "3.50", 10)

	req, _ := authRequest("POST", server.URL+"/pos/sales", token, map[string]any{
		"items": []map[string]any{
			{"productId": product.ID, "quantity": 2, "unitPrice": "3.50", "totalPrice": "7.00"},
		},
		"totalAmount":   "7.00",
		"paymentMethod": model.PaymentCash,
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created createSaleResponse
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if !created.Success {
		t.Error("expected success true")
	}
	if created.Sale.ReceiptNumber == "" {
		t.Error("expected a receipt number")
	}
	if len(created.Sale.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(created.Sale.Items))
	}

	// Stock decremented.
	after, err := store.GetProduct(context.Background(), database, product.ID)
	if err != nil {
		t.Fatalf("getting product: %v", err)
	}
	if after.Quantity != 8 {
		t.Errorf("expected quantity 8 after sale, got %d", after.Quantity)
	}

	// Sale shows up in the listing.
	req, _ = authRequest("GET", server.URL+"/pos/sales", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var sales []model.Sale
	json.NewDecoder(resp.Body).Decode(&sales)
	resp.Body.Close()
	if len(sales) != 1 {
		t.Errorf("expected 1 sale listed, got %d", len(sales))
	}
}

func TestSaleUnknownProduct(t *testing.T) {
	server, database, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/pos/sales", token, map[string]any{
		"items": []map[string]any{
			{"productId": 999, "quantity": 1, "unitPrice": "1.00", "totalPrice": "1.00"},
		},
		"totalAmount":   "1.00",
		"paymentMethod": model.PaymentCard,
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	var count int
	database.QueryRow(`SELECT COUNT(*) FROM sales`).Scan(&count)
	if count != 0 {
		t.Errorf("expected no sales persisted, got %d", count)
	}
}

func TestStockUpdateContract(t *testing.T) {
	server, database, token := setupTestServer(t)
	product := seedProduct(t, database, "Beans 1kg", "18.00", 0)

	// Stock in.
	req, _ := authRequest("POST", server.URL+"/pos/stock/update", token, map[string]any{
		"updates": []map[string]any{
			{"productId": product.ID, "quantity": 40, "action": "stock-in", "price": "11.00"},
		},
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var updated updateStockResponse
	json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()
	if !updated.Success || len(updated.UpdatedProducts) != 1 {
		t.Errorf("unexpected response: %+v", updated)
	}

	// Stock out more than available fails and changes nothing.
	req, _ = authRequest("POST", server.URL+"/pos/stock/update", token, map[string]any{
		"updates": []map[string]any{
			{"productId": product.ID, "quantity": 100, "action": "stock-out"},
		},
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for insufficient stock, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	after, _ := store.GetProduct(context.Background(), database, product.ID)
	if after.Quantity != 40 {
		t.Errorf("expected quantity 40, got %d", after.Quantity)
	}

	// Unknown product in a batch.
	req, _ = authRequest("POST", server.URL+"/pos/stock/update", token, map[string]any{
		"updates": []map[string]any{
			{"productId": 999, "quantity": 1, "action": "stock-in"},
		},
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Bad action string.
	req, _ = authRequest("POST", server.URL+"/pos/stock/update", token, map[string]any{
		"updates": []map[string]any{
			{"productId": product.ID, "quantity": 1, "action": "restock"},
		},
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad action, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnauthenticatedAccess(t *testing.T) {
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret, nil)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	resp, _ := http.Get(server.URL + "/pos/products")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRoleBasedAccess(t *testing.T) {
	server, database, _ := setupTestServer(t)

	// Create a cashier.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	cashier, err := store.CreateClient(ctx, database, "cashier@shop.test", "Cashier", "", string(hash), model.RoleCashier)
	if err != nil {
		t.Fatalf("creating cashier: %v", err)
	}
	cashierToken, _ := auth.GenerateToken(testJWTSecret, cashier.ID, cashier.Email, cashier.Role)

	// Cashiers cannot adjust stock.
	req, _ := authRequest("POST", server.URL+"/pos/stock/update", cashierToken, map[string]any{
		"updates": []map[string]any{
			{"productId": 1, "quantity": 1, "action": "stock-in"},
		},
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for cashier stock update, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Cashiers cannot manage clients.
	req, _ = authRequest("GET", server.URL+"/pos/clients", cashierToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for cashier listing clients, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// But cashiers can sell.
	product := seedProduct(t, database, "Espresso", "2.50", 5)
	req, _ = authRequest("POST", server.URL+"/pos/sales", cashierToken, map[string]any{
		"items": []map[string]any{
			{"productId": product.ID, "quantity": 1, "unitPrice": "2.50", "totalPrice": "2.50"},
		},
		"totalAmount":   "2.50",
		"paymentMethod": model.PaymentCash,
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201 for cashier sale, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	server, _, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/auth/logout", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", server.URL+"/pos/products", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestExpenseOwnerScoping(t *testing.T) {
	server, database, adminToken := setupTestServer(t)

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	cashier, _ := store.CreateClient(ctx, database, "cashier@shop.test", "Cashier", "", string(hash), model.RoleCashier)
	cashierToken, _ := auth.GenerateToken(testJWTSecret, cashier.ID, cashier.Email, cashier.Role)

	// Each account records one expense.
	req, _ := authRequest("POST", server.URL+"/pos/expenses", adminToken, map[string]any{
		"label": "Rent", "amount": "500.00",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("POST", server.URL+"/pos/expenses", cashierToken, map[string]any{
		"label": "Milk run", "amount": "12.50",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var cashierExpense model.Expense
	json.NewDecoder(resp.Body).Decode(&cashierExpense)
	resp.Body.Close()

	// Cashier only sees their own expense.
	req, _ = authRequest("GET", server.URL+"/pos/expenses", cashierToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	var expenses []model.Expense
	json.NewDecoder(resp.Body).Decode(&expenses)
	resp.Body.Close()
	if len(expenses) != 1 || expenses[0].Label != "Milk run" {
		t.Errorf("expected cashier to see only their expense, got %+v", expenses)
	}

	// Admin sees both.
	req, _ = authRequest("GET", server.URL+"/pos/expenses", adminToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	expenses = nil
	json.NewDecoder(resp.Body).Decode(&expenses)
	resp.Body.Close()
	if len(expenses) != 2 {
		t.Errorf("expected admin to see 2 expenses, got %d", len(expenses))
	}

	// Admin may delete the cashier's expense.
	req, _ = authRequest("DELETE", server.URL+"/pos/expenses/"+strconv.FormatInt(cashierExpense.ID, 10), adminToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for admin delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

type fakeMailer struct {
	to          string
	subject     string
	attachments int
}

func (f *fakeMailer) SendReport(to, subject string, htmlBody []byte, attachments ...mailer.Attachment) error {
	f.to = to
	f.subject = subject
	f.attachments = len(attachments)
	return nil
}

func TestReportEmail(t *testing.T) {
	database := db.NewTestDB(t)
	sent := &fakeMailer{}
	router := NewRouter(database, testJWTSecret, sent)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	admin, _ := store.CreateClient(ctx, database, "admin@shop.test", "Admin", "", string(hash), model.RoleAdmin)
	token, _ := auth.GenerateToken(testJWTSecret, admin.ID, admin.Email, admin.Role)

	req, _ := authRequest("POST", server.URL+"/pos/reports/email", token, map[string]any{
		"email": "owner@shop.test",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	if sent.to != "owner@shop.test" {
		t.Errorf("expected report sent to owner@shop.test, got %q", sent.to)
	}
	if sent.attachments != 1 {
		t.Errorf("expected 1 attachment, got %d", sent.attachments)
	}
}

func TestReportEmailNotConfigured(t *testing.T) {
	server, _, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/pos/reports/email", token, map[string]any{
		"email": "owner@shop.test",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when SMTP is not configured, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
