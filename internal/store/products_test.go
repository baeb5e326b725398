package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mlipovsek/tillpoint/internal/db"
	"github.com/mlipovsek/tillpoint/internal/model"
)

func TestProductCRUD(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p := newProduct(t, database, "Flat White", "3.80", 5)
	if p.ID == 0 {
		t.Fatal("expected generated product id")
	}

	p.Name = "Flat White (large)"
	p.Price = decimal.RequireFromString("4.20")
	if err := UpdateProduct(ctx, database, p); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	got, _ := GetProduct(ctx, database, p.ID)
	if got.Name != "Flat White (large)" {
		t.Errorf("expected updated name, got %q", got.Name)
	}
	if !got.Price.Equal(decimal.RequireFromString("4.20")) {
		t.Errorf("expected price 4.20, got %s", got.Price)
	}
	// Quantity moves only through sales and stock adjustments.
	if got.Quantity != 5 {
		t.Errorf("expected quantity untouched at 5, got %d", got.Quantity)
	}

	if err := DeleteProduct(ctx, database, p.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	products, _ := ListProducts(ctx, database, true)
	if len(products) != 0 {
		t.Errorf("expected 0 products after delete, got %d", len(products))
	}
}

func TestListProductsOrderAndOffShelf(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a := newProduct(t, database, "Alpha", "1.00", 0)
	b := newProduct(t, database, "Beta", "1.00", 0)
	c := newProduct(t, database, "Gamma", "1.00", 0)

	// Stick Gamma to the top.
	if err := ReorderProducts(ctx, database, []int64{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("ReorderProducts: %v", err)
	}

	products, err := ListProducts(ctx, database, false)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 3 || products[0].Name != "Gamma" {
		t.Fatalf("expected Gamma first, got %v", products)
	}

	// Off-shelf products disappear from the register list.
	b.OffShelf = true
	if err := UpdateProduct(ctx, database, b); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	products, _ = ListProducts(ctx, database, false)
	if len(products) != 2 {
		t.Errorf("expected 2 on-shelf products, got %d", len(products))
	}
	products, _ = ListProducts(ctx, database, true)
	if len(products) != 3 {
		t.Errorf("expected 3 products including off-shelf, got %d", len(products))
	}
}

func TestGetProductByBarcode(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, err := CreateProduct(ctx, database, &model.Product{
		Name:    "Scanned",
		Barcode: "4006381333931",
		Price:   decimal.RequireFromString("1.50"),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	got, err := GetProductByBarcode(ctx, database, "4006381333931")
	if err != nil {
		t.Fatalf("GetProductByBarcode: %v", err)
	}
	if got == nil || got.ID != p.ID {
		t.Errorf("expected product %d, got %v", p.ID, got)
	}

	got, err = GetProductByBarcode(ctx, database, "0000000000000")
	if err != nil {
		t.Fatalf("GetProductByBarcode: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown barcode, got %v", got)
	}
}

func TestCategoryDuplicateName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateCategory(ctx, database, "Drinks"); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	_, err := CreateCategory(ctx, database, "Drinks")
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestDeleteCategoryDetachesProducts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cat, _ := CreateCategory(ctx, database, "Drinks")
	p, err := CreateProduct(ctx, database, &model.Product{
		Name:       "Espresso",
		Price:      decimal.RequireFromString("2.00"),
		CategoryID: &cat.ID,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	if err := DeleteCategory(ctx, database, cat.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	got, _ := GetProduct(ctx, database, p.ID)
	if got.CategoryID != nil {
		t.Errorf("expected product detached from category, got %v", *got.CategoryID)
	}
}

func TestProductImageRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p := newProduct(t, database, "Espresso", "2.00", 0)

	data := []byte{0xff, 0xd8, 0xff, 0xe0}
	if err := SetProductImage(ctx, database, p.ID, data, "image/jpeg"); err != nil {
		t.Fatalf("SetProductImage: %v", err)
	}

	got, mime, err := GetProductImage(ctx, database, p.ID)
	if err != nil {
		t.Fatalf("GetProductImage: %v", err)
	}
	if mime != "image/jpeg" || len(got) != len(data) {
		t.Errorf("expected stored image back, got %d bytes of %q", len(got), mime)
	}
}
