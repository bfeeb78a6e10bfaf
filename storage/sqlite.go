package storage

import (
	"errors"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// kvEntry is the single table backing the sqlite KV store.
type kvEntry struct {
	Key   string `gorm:"primaryKey"`
	Value []byte
}

func (kvEntry) TableName() string { return "kv_entries" }

// SQLite is a KV backend on an embedded sqlite database.
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database file and migrates the KV table.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(key string) ([]byte, error) {
	var entry kvEntry
	if err := s.db.First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry.Value, nil
}

func (s *SQLite) Set(key string, value []byte) error {
	return s.db.Save(&kvEntry{Key: key, Value: value}).Error
}

func (s *SQLite) Delete(key string) error {
	return s.db.Delete(&kvEntry{}, "key = ?", key).Error
}
