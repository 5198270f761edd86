package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nutrilog/backend/internal/domain"
	"gorm.io/gorm"
)

// catalogRecord is the persistence shape of a catalog entry. The per-100g
// profile is stored as a JSON column; the engine never queries inside it.
type catalogRecord struct {
	ID              string  `gorm:"type:uuid;primaryKey"`
	UserID          string  `gorm:"index:idx_catalog_source,priority:1;not null"`
	Name            string  `gorm:"not null"`
	NameNormalized  string  `gorm:"index;not null"`
	Brand           *string
	Source          string  `gorm:"index:idx_catalog_source,priority:2;not null"`
	SourceID        *string `gorm:"index:idx_catalog_source,priority:3"`
	Barcode         *string
	DefaultPortionG *float64
	Per100g         domain.NutritionProfile `gorm:"serializer:json"`
	TimesLogged     int                     `gorm:"not null;default:0"`
	CreatedAt       time.Time
}

func (catalogRecord) TableName() string {
	return "catalog_entries"
}

// foodLogRecord is the persistence shape of a food log entry. The snapshot
// is embedded as JSON and immutable after insert.
type foodLogRecord struct {
	ID             string                   `gorm:"type:uuid;primaryKey"`
	UserID         string                   `gorm:"index;not null"`
	CatalogEntryID string                   `gorm:"type:uuid;index;not null"`
	PortionG       float64                  `gorm:"not null"`
	Meal           string                   `gorm:"not null"`
	Snapshot       domain.NutritionSnapshot `gorm:"serializer:json"`
	LoggedAt       time.Time                `gorm:"index;not null"`
	CreatedAt      time.Time
}

func (foodLogRecord) TableName() string {
	return "food_logs"
}

// Store implements domain.CatalogStore and domain.FoodLogStore on a gorm DB.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on an open gorm connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the engine's tables.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&catalogRecord{}, &foodLogRecord{})
}

// FindPersonal returns the user's catalog entries whose normalized name
// contains the normalized query, most-logged first, at most limit of them.
func (s *Store) FindPersonal(ctx context.Context, userID, query string, limit int) ([]domain.CatalogEntry, error) {
	pattern := "%" + domain.NormalizeName(query) + "%"

	var records []catalogRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND name_normalized LIKE ?", userID, pattern).
		Order("times_logged DESC, name ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("querying personal catalog: %w", err)
	}

	entries := make([]domain.CatalogEntry, 0, len(records))
	for i := range records {
		entries = append(entries, records[i].toDomain())
	}
	return entries, nil
}

// FindBySourceID returns the user's entry for an external (source, sourceID)
// pair, or nil when none exists.
func (s *Store) FindBySourceID(ctx context.Context, userID string, source domain.Source, sourceID string) (*domain.CatalogEntry, error) {
	var record catalogRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND source = ? AND source_id = ?", userID, string(source), sourceID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying catalog by source id: %w", err)
	}

	entry := record.toDomain()
	return &entry, nil
}

// Insert persists a new entry, assigning its ID and normalized name.
func (s *Store) Insert(ctx context.Context, entry *domain.CatalogEntry) (*domain.CatalogEntry, error) {
	record := catalogRecord{
		ID:              uuid.NewString(),
		UserID:          entry.UserID,
		Name:            entry.Name,
		NameNormalized:  domain.NormalizeName(entry.Name),
		Brand:           entry.Brand,
		Source:          string(entry.Source),
		SourceID:        entry.SourceID,
		Barcode:         entry.Barcode,
		DefaultPortionG: entry.DefaultPortionG,
		Per100g:         entry.Per100g,
		TimesLogged:     0,
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("inserting catalog entry: %w", err)
	}

	inserted := record.toDomain()
	return &inserted, nil
}

// InsertLog persists a food log and bumps the entry's usage counter, which
// drives the most-logged-first ranking in FindPersonal.
func (s *Store) InsertLog(ctx context.Context, entry *domain.FoodLog) error {
	record := foodLogRecord{
		ID:             uuid.NewString(),
		UserID:         entry.UserID,
		CatalogEntryID: entry.CatalogEntryID,
		PortionG:       entry.PortionG,
		Meal:           entry.Meal,
		Snapshot:       entry.Snapshot,
		LoggedAt:       entry.LoggedAt,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Model(&catalogRecord{}).
			Where("id = ?", entry.CatalogEntryID).
			UpdateColumn("times_logged", gorm.Expr("times_logged + 1")).Error
	})
	if err != nil {
		return fmt.Errorf("inserting food log: %w", err)
	}

	entry.ID = record.ID
	return nil
}

func (r *catalogRecord) toDomain() domain.CatalogEntry {
	return domain.CatalogEntry{
		ID:              r.ID,
		UserID:          r.UserID,
		Name:            r.Name,
		NameNormalized:  r.NameNormalized,
		Brand:           r.Brand,
		Source:          domain.Source(r.Source),
		SourceID:        r.SourceID,
		Barcode:         r.Barcode,
		DefaultPortionG: r.DefaultPortionG,
		Per100g:         r.Per100g,
		TimesLogged:     r.TimesLogged,
		CreatedAt:       r.CreatedAt,
	}
}
