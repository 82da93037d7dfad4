package tokens

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	meetup "github.com/meetup-tools/attendee-sync"
)

// TokenRecord is the single-row table backing DBStore.
type TokenRecord struct {
	ID           uint `gorm:"primarykey"`
	AccessToken  string
	RefreshToken string
	UpdatedAt    time.Time
}

func (TokenRecord) TableName() string {
	return "tokens"
}

// DBStore keeps the token pair in a sqlite database. Same single-record
// semantics as FileStore, for deployments that already carry a database file
// around.
type DBStore struct {
	db *gorm.DB
}

func NewDBStore(path string) (*DBStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("could not open token database: %w", err)
	}

	if err := db.AutoMigrate(&TokenRecord{}); err != nil {
		return nil, fmt.Errorf("could not migrate token database: %w", err)
	}

	return &DBStore{db: db}, nil
}

func (s *DBStore) Load() (*meetup.TokenPair, error) {
	var rec TokenRecord
	if err := s.db.First(&rec, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoTokens
		}
		return nil, fmt.Errorf("could not load token record: %w", err)
	}

	if rec.AccessToken == "" {
		return nil, ErrNoTokens
	}

	return &meetup.TokenPair{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
	}, nil
}

func (s *DBStore) Save(pair *meetup.TokenPair) error {
	rec := TokenRecord{
		ID:           1,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UpdatedAt:    time.Now(),
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&rec).Error; err != nil {
		return fmt.Errorf("could not save token record: %w", err)
	}

	return nil
}
