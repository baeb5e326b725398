package store

import (
	"context"
	"testing"
	"time"

	"github.com/mlipovsek/tillpoint/internal/db"
)

func TestRevokeToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "some-jti")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expected token not revoked initially")
	}

	if err := RevokeToken(ctx, database, "some-jti", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, _ = IsTokenRevoked(ctx, database, "some-jti")
	if !revoked {
		t.Error("expected token revoked")
	}

	// Revoking twice is a no-op.
	if err := RevokeToken(ctx, database, "some-jti", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("double revoke: %v", err)
	}
}

func TestGetJWTSecretStable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	if first == "" {
		t.Fatal("expected generated secret")
	}

	second, _ := GetJWTSecret(ctx, database)
	if first != second {
		t.Error("expected stable secret across calls")
	}
}
