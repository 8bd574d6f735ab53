package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tasktide/tasktide/internal/kv"
	"github.com/tasktide/tasktide/internal/model"
)

// SaveSession persists the session blob.
func (s *Store) SaveSession(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.kv.Set(ctx, sessionKey, string(data)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns the persisted session user, or nil when no
// session is stored. A malformed blob degrades to no session.
func (s *Store) LoadSession(ctx context.Context) (*model.User, error) {
	raw, err := s.kv.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("malformed session blob, treating as absent", "error", err)
		return nil, nil
	}
	return &user, nil
}

// ClearSession removes the persisted session. Idempotent.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.kv.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Credential is a stored signup record keyed by email.
type Credential struct {
	UserID       string    `json:"user_id"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// loadCredentials reads the credentials blob, degrading malformed or
// absent data to an empty map.
func (s *Store) loadCredentials(ctx context.Context) (map[string]Credential, error) {
	raw, err := s.kv.Get(ctx, credentialsKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return map[string]Credential{}, nil
		}
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	creds := map[string]Credential{}
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		s.logger.Warn("malformed credentials blob, treating as empty", "error", err)
		return map[string]Credential{}, nil
	}
	return creds, nil
}

// SaveCredential records a signup credential for email, replacing any
// previous record.
func (s *Store) SaveCredential(ctx context.Context, email string, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.loadCredentials(ctx)
	if err != nil {
		return err
	}
	creds[email] = cred

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := s.kv.Set(ctx, credentialsKey, string(data)); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// LookupCredential returns the stored credential for email, or nil
// when none exists.
func (s *Store) LookupCredential(ctx context.Context, email string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.loadCredentials(ctx)
	if err != nil {
		return nil, err
	}

	cred, ok := creds[email]
	if !ok {
		return nil, nil
	}
	return &cred, nil
}
