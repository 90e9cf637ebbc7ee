package service

import (
	"context"
	"errors"
	"testing"
)

func TestCreateUserEmailConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.users.Create(ctx, "dup@example.com", "First"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := env.users.Create(ctx, "dup@example.com", "Second")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestUpdateUserSelfOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice@example.com")
	bob := env.createUser(t, "bob@example.com")

	if _, err := env.users.Update(ctx, alice.ID, bob.ID, "hijack"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("cross-user update: got %v, want ErrForbidden", err)
	}

	updated, err := env.users.Update(ctx, alice.ID, alice.ID, "Alice Renamed")
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if updated.DisplayName != "Alice Renamed" {
		t.Fatalf("display name = %q", updated.DisplayName)
	}
}

func TestEnsureIdentityProvisionsAndRefreshes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.users.EnsureIdentity(ctx, "idp-123", "new@example.com", "New User")
	if err != nil {
		t.Fatalf("first sight: %v", err)
	}
	if first.ID != "idp-123" || first.Email != "new@example.com" {
		t.Fatalf("provisioned user = %+v", first)
	}

	second, err := env.users.EnsureIdentity(ctx, "idp-123", "new@example.com", "Renamed User")
	if err != nil {
		t.Fatalf("second sight: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("identity produced a second user: %s vs %s", second.ID, first.ID)
	}
	if second.DisplayName != "Renamed User" {
		t.Fatalf("display name not refreshed: %q", second.DisplayName)
	}
}
