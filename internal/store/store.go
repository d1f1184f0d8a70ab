package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Keys for the three independent snapshots the terminal persists. Each write
// fully replaces its key's value; absence of a key means "no saved state".
const (
	KeyCart   = "pos.cart"
	KeyFields = "pos.checkout_fields"
	KeyDrafts = "pos.drafts"
)

type record struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value []byte `gorm:"column:value"`
}

func (record) TableName() string { return "kv" }

// Store is a typed key-value store backed by a local sqlite file. It plays the
// role of the browser profile storage: JSON snapshots that survive restarts on
// one device.
type Store struct {
	db     *gorm.DB
	logger *log.Logger
}

// Open opens (and if needed creates) the sqlite file at path.
func Open(path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrate kv table: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Put marshals v and replaces the value under key.
func (s *Store) Put(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.db.Save(&record{Key: key, Value: data}).Error; err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Get unmarshals the value under key into out. Returns false when the key is
// absent. A malformed stored value is treated as absent (logged, not fatal) so
// a corrupt snapshot never wedges the terminal.
func (s *Store) Get(key string, out interface{}) (bool, error) {
	var rec record
	err := s.db.First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(rec.Value, out); err != nil {
		s.logger.Printf("store: discarding malformed value for %s: %v", key, err)
		return false, nil
	}
	return true, nil
}

// Delete removes the key; deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	if err := s.db.Delete(&record{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
