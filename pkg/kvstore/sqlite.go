package kvstore

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type kvEntry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     []byte `gorm:"column:value"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string {
	return "kv_entries"
}

// SQLiteStore persists keys in a single-table sqlite database.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (or creates) the database file and ensures the
// key-value table exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrate kv table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStoreWithDB wraps an already-open gorm handle. The caller is
// responsible for having run the table migration.
func NewSQLiteStoreWithDB(db *gorm.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("gorm db is required")
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLiteStore) Read(key string) ([]byte, bool) {
	var entry kvEntry
	err := s.db.Where("key = ?", key).First(&entry).Error
	if err != nil {
		return nil, false
	}
	return entry.Value, true
}

func (s *SQLiteStore) Write(key string, raw []byte) error {
	entry := kvEntry{Key: key, Value: raw, UpdatedAt: time.Now().UTC()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&entry).Error
}

func (s *SQLiteStore) Remove(key string) error {
	return s.db.Where("key = ?", key).Delete(&kvEntry{}).Error
}
