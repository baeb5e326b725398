package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mlipovsek/tillpoint/internal/db"
	"github.com/mlipovsek/tillpoint/internal/model"
)

func TestStockInUnconditional(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p := newProduct(t, database, "Beans", "8.50", 0)

	updated, err := ApplyStockUpdates(ctx, database, []model.StockUpdate{
		{ProductID: p.ID, Quantity: 250, Action: model.StockIn},
	})
	if err != nil {
		t.Fatalf("ApplyStockUpdates: %v", err)
	}
	if len(updated) != 1 || updated[0] != p.ID {
		t.Errorf("expected updated ids [%d], got %v", p.ID, updated)
	}
	if qty := productQuantity(t, database, p.ID); qty != 250 {
		t.Errorf("expected quantity 250, got %d", qty)
	}
}

func TestStockOutInsufficient(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p := newProduct(t, database, "Beans", "8.50", 2)

	_, err := ApplyStockUpdates(ctx, database, []model.StockUpdate{
		{ProductID: p.ID, Quantity: 5, Action: model.StockOut},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if qty := productQuantity(t, database, p.ID); qty != 2 {
		t.Errorf("expected quantity unchanged at 2, got %d", qty)
	}
}

func TestStockBatchRollsBack(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a := newProduct(t, database, "A", "1.00", 0)
	b := newProduct(t, database, "B", "1.00", 0)

	// A's stock-in succeeds first, then B's stock-out fails; the whole
	// batch must roll back.
	_, err := ApplyStockUpdates(ctx, database, []model.StockUpdate{
		{ProductID: a.ID, Quantity: 10, Action: model.StockIn},
		{ProductID: b.ID, Quantity: 1, Action: model.StockOut},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if qty := productQuantity(t, database, a.ID); qty != 0 {
		t.Errorf("expected A unchanged at 0, got %d", qty)
	}
	if qty := productQuantity(t, database, b.ID); qty != 0 {
		t.Errorf("expected B unchanged at 0, got %d", qty)
	}
}

func TestStockBatchAppliesInOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p := newProduct(t, database, "A", "1.00", 10)

	_, err := ApplyStockUpdates(ctx, database, []model.StockUpdate{
		{ProductID: p.ID, Quantity: 5, Action: model.StockIn},
		{ProductID: p.ID, Quantity: 3, Action: model.StockLoss},
	})
	if err != nil {
		t.Fatalf("ApplyStockUpdates: %v", err)
	}
	if qty := productQuantity(t, database, p.ID); qty != 12 {
		t.Errorf("expected quantity 12 (10+5-3), got %d", qty)
	}
}

func TestStockOrderMatters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p := newProduct(t, database, "A", "1.00", 0)

	// Reversed order would succeed; literal input order sees 0-3 first and
	// must fail.
	_, err := ApplyStockUpdates(ctx, database, []model.StockUpdate{
		{ProductID: p.ID, Quantity: 3, Action: model.StockOut},
		{ProductID: p.ID, Quantity: 5, Action: model.StockIn},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if qty := productQuantity(t, database, p.ID); qty != 0 {
		t.Errorf("expected quantity unchanged at 0, got %d", qty)
	}
}

func TestStockUnknownProduct(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := ApplyStockUpdates(context.Background(), database, []model.StockUpdate{
		{ProductID: 42, Quantity: 1, Action: model.StockIn},
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestStockInUpdatesStockPrice(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p := newProduct(t, database, "Beans", "8.50", 0)

	price := decimal.RequireFromString("5.20")
	_, err := ApplyStockUpdates(ctx, database, []model.StockUpdate{
		{ProductID: p.ID, Quantity: 10, Action: model.StockIn, Price: &price},
	})
	if err != nil {
		t.Fatalf("ApplyStockUpdates: %v", err)
	}

	got, _ := GetProduct(ctx, database, p.ID)
	if got.StockPrice == nil || !got.StockPrice.Equal(price) {
		t.Errorf("expected stock price 5.20, got %v", got.StockPrice)
	}
}

func TestStockEmptyBatch(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := ApplyStockUpdates(context.Background(), database, nil)
	if err == nil {
		t.Error("expected error for empty batch")
	}
}
