package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/tasktide/tasktide/internal/kv"
	"github.com/tasktide/tasktide/internal/model"
	"github.com/tasktide/tasktide/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(kv.NewMemory(0), logger)
	return NewManager(st, logger, nil), st
}

func TestManager_StartsAnonymous(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)

	if m.IsAuthenticated() {
		t.Error("manager should start Anonymous")
	}
	if m.User() != nil {
		t.Error("user should be nil before any login")
	}
}

func TestManager_Login_EmptyFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "secret"},
		{"empty password", "a@b.com", ""},
		{"both empty", "", ""},
		{"whitespace email", "   ", "secret"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, _ := newTestManager(t)
			_, err := m.Login(context.Background(), tt.email, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
			if m.IsAuthenticated() {
				t.Error("failed login should leave the manager Anonymous")
			}
		})
	}
}

func TestManager_Login_MockAcceptsAnyPair(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestManager(t)

	user, err := m.Login(ctx, "a@b.com", "x")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Email != "a@b.com" {
		t.Errorf("Email = %s, want a@b.com", user.Email)
	}
	if user.ID == "" {
		t.Error("login should assign a user id")
	}
	if !m.IsAuthenticated() {
		t.Error("manager should be Authenticated after login")
	}
}

func TestManager_Login_FreshIDWithoutCredential(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestManager(t)

	first, err := m.Login(ctx, "a@b.com", "x")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	second, err := m.Login(ctx, "a@b.com", "x")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	// Without a stored credential each mock login mints a new identity
	if first.ID == second.ID {
		t.Error("mock logins should produce distinct user ids")
	}
}

func TestManager_Signup_ThenLogin_StableID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestManager(t)

	created, err := m.Signup(ctx, "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if err := m.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	returned, err := m.Login(ctx, "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("Login after signup failed: %v", err)
	}

	if returned.ID != created.ID {
		t.Errorf("login after signup should reuse the stored id: got %s, want %s", returned.ID, created.ID)
	}
}

func TestManager_Login_WrongPasswordAfterSignup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestManager(t)

	if _, err := m.Signup(ctx, "a@b.com", "secret123"); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	_ = m.Logout(ctx)

	_, err := m.Login(ctx, "a@b.com", "not-the-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if m.IsAuthenticated() {
		t.Error("rejected login should leave the manager Anonymous")
	}
}

func TestManager_Signup_AlwaysFreshID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestManager(t)

	first, err := m.Signup(ctx, "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	second, err := m.Signup(ctx, "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("second signup failed: %v", err)
	}

	if first.ID == second.ID {
		t.Error("each signup should mint a fresh user id")
	}
}

func TestManager_Logout_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestManager(t)

	if _, err := m.Login(ctx, "a@b.com", "x"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := m.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if m.IsAuthenticated() {
		t.Error("manager should be Anonymous after logout")
	}

	// Logging out again succeeds
	if err := m.Logout(ctx); err != nil {
		t.Errorf("second Logout should succeed: %v", err)
	}
}

func TestManager_Restore_PicksUpPersistedSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(kv.NewMemory(0), logger)

	first := NewManager(st, logger, nil)
	user, err := first.Login(ctx, "a@b.com", "x")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// A new manager over the same store restores the session
	second := NewManager(st, logger, nil)
	if err := second.Restore(ctx); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	restored := second.User()
	if restored == nil || restored.ID != user.ID {
		t.Errorf("Restore = %+v, want user %s", restored, user.ID)
	}
}

func TestManager_Restore_NoSessionStaysAnonymous(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)

	if err := m.Restore(context.Background()); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if m.IsAuthenticated() {
		t.Error("Restore without a stored session should stay Anonymous")
	}
}

func TestManager_OnChange_FiresOnTransitions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestManager(t)

	var changes []*model.User
	m.OnChange(func(ctx context.Context, user *model.User) {
		changes = append(changes, user)
	})

	user, err := m.Login(ctx, "a@b.com", "x")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := m.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if len(changes) != 2 {
		t.Fatalf("expected 2 change events, got %d", len(changes))
	}
	if changes[0] == nil || changes[0].ID != user.ID {
		t.Errorf("first change = %+v, want the logged-in user", changes[0])
	}
	if changes[1] != nil {
		t.Errorf("second change = %+v, want nil (logout)", changes[1])
	}
}
