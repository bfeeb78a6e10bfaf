package state

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"souq-delivery-api/models"
	"souq-delivery-api/storage"
)

const (
	// DefaultRate is the USD→SYP rate used until an admin sets one.
	DefaultRate = 6500
	// RateCooldown is the minimum wall-clock gap between rate updates.
	RateCooldown = 2 * time.Hour
)

var (
	ErrInvalidRate  = errors.New("exchange rate must be greater than zero")
	ErrRateCooldown = errors.New("at least two hours must pass before updating the rate again")
)

// CurrencyService owns the single USD→SYP exchange rate, its time-gated
// update rule and the append-only history log.
type CurrencyService struct {
	mu          sync.RWMutex
	kv          storage.KV
	ids         idGen
	now         func() time.Time
	rate        float64
	lastUpdated *time.Time
	history     []models.CurrencyRate
}

func NewCurrencyService(kv storage.KV) *CurrencyService {
	s := &CurrencyService{
		kv:   kv,
		ids:  idGen{now: time.Now},
		now:  time.Now,
		rate: DefaultRate,
	}
	s.load()
	return s
}

func (s *CurrencyService) load() {
	var rate float64
	if err := storage.LoadJSON(s.kv, storage.KeyCurrencyRate, &rate); err == nil && rate > 0 {
		s.rate = rate
	}
	var updated time.Time
	if err := storage.LoadJSON(s.kv, storage.KeyCurrencyUpdated, &updated); err == nil && !updated.IsZero() {
		s.lastUpdated = &updated
	}
	var history []models.CurrencyRate
	err := storage.LoadJSON(s.kv, storage.KeyCurrencyHistory, &history)
	switch {
	case err == nil:
		s.history = history
	case !errors.Is(err, storage.ErrNotFound):
		slog.Warn("dropping malformed rate history payload", "error", err)
		_ = s.kv.Delete(storage.KeyCurrencyHistory)
	}
}

func (s *CurrencyService) persist() {
	if err := storage.SaveJSON(s.kv, storage.KeyCurrencyRate, s.rate); err != nil {
		slog.Error("persisting currency rate failed", "error", err)
	}
	if s.lastUpdated != nil {
		if err := storage.SaveJSON(s.kv, storage.KeyCurrencyUpdated, s.lastUpdated); err != nil {
			slog.Error("persisting currency timestamp failed", "error", err)
		}
	}
	if err := storage.SaveJSON(s.kv, storage.KeyCurrencyHistory, s.history); err != nil {
		slog.Error("persisting rate history failed", "error", err)
	}
}

// Rate returns the current USD→SYP rate.
func (s *CurrencyService) Rate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rate
}

// LastUpdated returns when the rate last changed, or nil if never.
func (s *CurrencyService) LastUpdated() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastUpdated == nil {
		return nil
	}
	t := *s.lastUpdated
	return &t
}

// History returns the append-only rate log, oldest first.
func (s *CurrencyService) History() []models.CurrencyRate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CurrencyRate(nil), s.history...)
}

// CanUpdate reports whether the cooldown has elapsed since the last update.
func (s *CurrencyService) CanUpdate() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canUpdate()
}

func (s *CurrencyService) canUpdate() bool {
	if s.lastUpdated == nil {
		return true
	}
	return s.now().Sub(*s.lastUpdated) >= RateCooldown
}

// UpdateRate sets a new rate, records the update time and appends a history
// entry. Non-positive rates and updates inside the cooldown are rejected
// with the state unchanged.
func (s *CurrencyService) UpdateRate(newRate float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if newRate <= 0 {
		return ErrInvalidRate
	}
	if !s.canUpdate() {
		return ErrRateCooldown
	}
	now := s.now()
	s.rate = newRate
	s.lastUpdated = &now
	s.history = append(s.history, models.CurrencyRate{
		ID:        s.ids.next("rate"),
		Rate:      newRate,
		CreatedAt: now,
	})
	s.persist()
	return nil
}

// ConvertToSYP converts an amount to SYP: identity for SYP prices,
// amount × current rate for USD.
func (s *CurrencyService) ConvertToSYP(amount float64, currency models.CurrencyType) float64 {
	if currency == models.CurrencySYP {
		return amount
	}
	return amount * s.Rate()
}
