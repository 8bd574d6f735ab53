package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tasktide/tasktide/internal/metrics"
	"github.com/tasktide/tasktide/internal/model"
	"github.com/tasktide/tasktide/internal/store"
)

// ErrInvalidCredentials indicates a rejected login or signup.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ChangeFunc is invoked after every identity change with the new
// user, or nil after logout.
type ChangeFunc func(ctx context.Context, user *model.User)

// Manager owns the current session and persists it across restarts.
//
// The manager starts Anonymous. Restore picks up a persisted session;
// Login and Signup transition to Authenticated; Logout transitions
// back to Anonymous.
type Manager struct {
	store   *store.Store
	logger  *slog.Logger
	metrics metrics.Recorder

	mu       sync.RWMutex
	user     *model.User
	onChange ChangeFunc
}

// NewManager creates a session Manager over the persistence adapter.
func NewManager(st *store.Store, logger *slog.Logger, recorder metrics.Recorder) *Manager {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Manager{
		store:   st,
		logger:  logger,
		metrics: recorder,
	}
}

// OnChange registers the identity-change hook. Set once during wiring,
// before the manager is used from multiple goroutines.
func (m *Manager) OnChange(fn ChangeFunc) {
	m.onChange = fn
}

// User returns the current session user, or nil when Anonymous.
func (m *Manager) User() *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// IsAuthenticated reports whether a session is established.
func (m *Manager) IsAuthenticated() bool {
	return m.User() != nil
}

// Restore loads a persisted session, if any. Called once at startup;
// with no stored session the manager stays Anonymous.
func (m *Manager) Restore(ctx context.Context) error {
	user, err := m.store.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if user == nil {
		return nil
	}

	m.setUser(ctx, user)
	m.logger.Info("session restored", "user_id", user.ID, "email", user.Email)
	return nil
}

// Login establishes a session for the given email.
//
// When a prior signup stored a credential for the email, the password
// is verified against it and the stored user id is reused. With no
// stored credential any non-empty pair is accepted with a fresh id,
// matching the demo behavior of the storage-backed mock backend.
func (m *Manager) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user := &model.User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	cred, err := m.store.LookupCredential(ctx, email)
	if err != nil {
		return nil, err
	}
	if cred != nil {
		ok, err := VerifyPassword(password, cred.PasswordHash)
		if err != nil || !ok {
			m.logger.Warn("login rejected", "email", email)
			return nil, ErrInvalidCredentials
		}
		user.ID = cred.UserID
		user.CreatedAt = cred.CreatedAt
	}

	if err := m.store.SaveSession(ctx, user); err != nil {
		return nil, err
	}

	m.setUser(ctx, user)
	m.metrics.IncLogin()
	m.logger.Info("login", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Signup creates a fresh user, stores a credential record for the
// email, and establishes a session. It never reuses a prior id.
func (m *Manager) Signup(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	cred := store.Credential{
		UserID:       user.ID,
		PasswordHash: hash,
		CreatedAt:    user.CreatedAt,
	}
	if err := m.store.SaveCredential(ctx, email, cred); err != nil {
		return nil, err
	}

	if err := m.store.SaveSession(ctx, user); err != nil {
		return nil, err
	}

	m.setUser(ctx, user)
	m.metrics.IncSignup()
	m.logger.Info("signup", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Logout clears the session state and its persisted record. Idempotent.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.ClearSession(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	wasAuthenticated := m.user != nil
	m.user = nil
	m.mu.Unlock()

	if wasAuthenticated {
		m.metrics.IncLogout()
		m.logger.Info("logout")
	}
	if m.onChange != nil {
		m.onChange(ctx, nil)
	}
	return nil
}

func (m *Manager) setUser(ctx context.Context, user *model.User) {
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	if m.onChange != nil {
		m.onChange(ctx, user)
	}
}
