package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pawmart/pawmart/internal/store"
	"github.com/pawmart/pawmart/internal/testutil"
)

func newUserStore(t *testing.T) *store.UserStore {
	t.Helper()
	db := testutil.NewTestDB(t)
	return store.NewUserStore(db)
}

func TestResolveCreatesUser(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	u, err := us.Resolve(ctx, store.Principal{
		Provider:    "google",
		Subject:     "sub-1",
		Email:       "alice@example.com",
		DisplayName: "Alice",
		AvatarURL:   "https://cdn.example.com/alice.png",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if u.Provider != "google" || u.Subject != "sub-1" {
		t.Errorf("identity key = (%q, %q), want (google, sub-1)", u.Provider, u.Subject)
	}
	if u.Email != "alice@example.com" || u.DisplayName != "Alice" {
		t.Errorf("profile not persisted: %+v", u)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	first, err := us.Resolve(ctx, store.Principal{Provider: "google", Subject: "sub-1", Email: "old@example.com", DisplayName: "Old Name"})
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	// Same subject logs in again with refreshed claims: same row, new fields.
	second, err := us.Resolve(ctx, store.Principal{Provider: "google", Subject: "sub-1", Email: "new@example.com", DisplayName: "New Name", AvatarURL: "https://cdn.example.com/new.png"})
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected same user ID, got %s then %s", first.ID, second.ID)
	}
	if second.Email != "new@example.com" {
		t.Errorf("email = %q, want refreshed value", second.Email)
	}
	if second.DisplayName != "New Name" {
		t.Errorf("display name = %q, want refreshed value", second.DisplayName)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed across logins: %v then %v", first.CreatedAt, second.CreatedAt)
	}
}

func TestResolveDistinguishesProviders(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	a, err := us.Resolve(ctx, store.Principal{Provider: "google", Subject: "shared-sub"})
	if err != nil {
		t.Fatalf("resolve google: %v", err)
	}
	b, err := us.Resolve(ctx, store.Principal{Provider: "github", Subject: "shared-sub"})
	if err != nil {
		t.Fatalf("resolve github: %v", err)
	}
	if a.ID == b.ID {
		t.Error("same subject on different providers must be distinct users")
	}
}

func TestResolveRejectsEmptySubject(t *testing.T) {
	us := newUserStore(t)

	_, err := us.Resolve(context.Background(), store.Principal{Provider: "google", Email: "x@example.com"})
	if !errors.Is(err, store.ErrInvalidPrincipal) {
		t.Fatalf("expected ErrInvalidPrincipal, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	created, err := us.Resolve(ctx, store.Principal{Provider: "google", Subject: "sub-1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	got, err := us.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Subject != "sub-1" {
		t.Errorf("subject = %q, want sub-1", got.Subject)
	}

	if _, err := us.GetByID(ctx, "missing"); err == nil {
		t.Fatal("expected error for missing user")
	}
}
