package store

import (
	"context"
	"errors"
	"testing"

	"github.com/mlipovsek/tillpoint/internal/db"
	"github.com/mlipovsek/tillpoint/internal/model"
)

func TestClientCRUD(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, err := CreateClient(ctx, database, "owner@shop.test", "Owner", "", "hash", model.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	got, _ := GetClientByEmail(ctx, database, "owner@shop.test")
	if got == nil || got.ID != c.ID {
		t.Fatalf("expected client by email, got %v", got)
	}

	if err := UpdateClient(ctx, database, c.ID, "New Owner", "555-0100", model.RoleCashier); err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}
	got, _ = GetClient(ctx, database, c.ID)
	if got.Name != "New Owner" || got.Role != model.RoleCashier {
		t.Errorf("expected updated client, got %+v", got)
	}

	if err := DeleteClient(ctx, database, c.ID); err != nil {
		t.Fatalf("DeleteClient: %v", err)
	}
	got, _ = GetClientByEmail(ctx, database, "owner@shop.test")
	if got != nil {
		t.Error("expected deleted client invisible by email")
	}

	// Email reusable after soft delete.
	if _, err := CreateClient(ctx, database, "owner@shop.test", "Again", "", "hash", model.RoleAdmin); err != nil {
		t.Errorf("expected email reusable after delete: %v", err)
	}
}

func TestClientDuplicateEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateClient(ctx, database, "a@shop.test", "A", "", "hash", model.RoleCashier); err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	_, err := CreateClient(ctx, database, "a@shop.test", "B", "", "hash", model.RoleCashier)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestLicenseLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, _ := CreateClient(ctx, database, "a@shop.test", "A", "", "hash", model.RoleCashier)

	l, err := IssueLicense(ctx, database, c.ID, nil)
	if err != nil {
		t.Fatalf("IssueLicense: %v", err)
	}
	if l.Key == "" || l.Status != model.LicenseActive {
		t.Errorf("expected active license with key, got %+v", l)
	}

	if err := SetLicenseStatus(ctx, database, l.ID, model.LicenseSuspended); err != nil {
		t.Fatalf("SetLicenseStatus: %v", err)
	}
	got, _ := GetLicense(ctx, database, l.ID)
	if got.Status != model.LicenseSuspended {
		t.Errorf("expected suspended, got %q", got.Status)
	}

	if err := SetLicenseStatus(ctx, database, l.ID, "revoked"); err == nil {
		t.Error("expected error for invalid status")
	}

	licenses, _ := ListLicenses(ctx, database, c.ID)
	if len(licenses) != 1 {
		t.Errorf("expected 1 license, got %d", len(licenses))
	}
}

func TestIssueLicenseUnknownClient(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := IssueLicense(context.Background(), database, 42, nil)
	if err == nil {
		t.Error("expected error for unknown client")
	}
}
