// Package storage provides the pluggable key-value persistence layer.
// Every state owner serializes its whole collection as JSON under a fixed key,
// so a real database can replace the backend without touching business logic.
package storage

import (
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("storage: key not found")

// KV is the persistence contract used by all state owners.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Keys for the persisted collections, one entry per collection.
const (
	KeyUsers           = "users"
	KeyOrders          = "orders"
	KeyStores          = "stores"
	KeyStoreSections   = "store_sections"
	KeyStoreProducts   = "store_products"
	KeyCurrencyRate    = "currency_rate"
	KeyCurrencyUpdated = "currency_rate_updated"
	KeyCurrencyHistory = "currency_rate_history"
)

// LoadJSON reads the value under key and unmarshals it into v.
// Returns ErrNotFound when the key is absent.
func LoadJSON(kv KV, key string, v interface{}) error {
	data, err := kv.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// SaveJSON marshals v and stores it under key.
func SaveJSON(kv KV, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Set(key, data)
}
