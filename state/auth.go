// Package state holds the four data-owning services: auth, catalog, orders
// and currency. Each owns its collections in memory, guards them with a
// read-write lock, and writes them through the KV persistence layer after
// every mutation. Persistence failures are logged, never surfaced: a failed
// write degrades to in-memory-only state, not a failed operation.
package state

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"souq-delivery-api/models"
	"souq-delivery-api/storage"
)

// ErrInvalidCredentials is returned on any login failure; the caller learns
// nothing about which half of the pair was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// storedUser carries the bcrypt hash alongside the user when persisted.
// The API-facing model keeps the hash out of its JSON form.
type storedUser struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

// AuthService owns the account set. Accounts come from a fixed seeded list
// (there is no self-registration) and survive restarts through the KV store.
type AuthService struct {
	mu    sync.RWMutex
	kv    storage.KV
	now   func() time.Time
	users []storedUser
}

func NewAuthService(kv storage.KV) *AuthService {
	s := &AuthService{kv: kv, now: time.Now}
	s.load()
	return s
}

func (s *AuthService) load() {
	var users []storedUser
	err := storage.LoadJSON(s.kv, storage.KeyUsers, &users)
	switch {
	case err == nil && len(users) > 0:
		s.users = users
		return
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		// Corrupted payload: drop the key and fall back to seed accounts.
		slog.Warn("dropping malformed users payload", "error", err)
		_ = s.kv.Delete(storage.KeyUsers)
	}
	s.users = seedAccounts(s.now())
	s.persist()
}

func (s *AuthService) persist() {
	if err := storage.SaveJSON(s.kv, storage.KeyUsers, s.users); err != nil {
		slog.Error("persisting users failed", "error", err)
	}
}

// Login matches identifier (email or phone) and secret against the account
// set and returns the matching user.
func (s *AuthService) Login(identifier, secret string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		u := &s.users[i]
		if u.Email != identifier && u.Phone != identifier {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(secret)) != nil {
			return nil, ErrInvalidCredentials
		}
		user := u.User
		return &user, nil
	}
	return nil, ErrInvalidCredentials
}

// UserByID returns a copy of the stored user.
func (s *AuthService) UserByID(id string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID == id {
			user := s.users[i].User
			return &user, true
		}
	}
	return nil, false
}

// Users returns all accounts, optionally filtered by role.
func (s *AuthService) Users(role models.UserRole) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for i := range s.users {
		if role != "" && s.users[i].Role != role {
			continue
		}
		out = append(out, s.users[i].User)
	}
	return out
}

// UserPatch is a partial profile update; nil fields are left unchanged.
type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// UpdateUser applies a partial update. Unknown ids are a no-op.
func (s *AuthService) UpdateUser(id string, patch UserPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		if patch.Name != nil {
			s.users[i].Name = *patch.Name
		}
		if patch.Email != nil {
			s.users[i].Email = *patch.Email
		}
		if patch.Phone != nil {
			s.users[i].Phone = *patch.Phone
		}
		s.persist()
		return true
	}
	return false
}

// HasPermission reports whether the account holds the capability.
func (s *AuthService) HasPermission(userID string, perm models.Permission) bool {
	user, ok := s.UserByID(userID)
	if !ok {
		return false
	}
	return user.HasPermission(perm)
}
