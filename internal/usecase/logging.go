package usecase

import (
	"context"
	"time"

	"github.com/nutrilog/backend/internal/domain"
)

// LogService turns a resolved catalog entry plus a portion into a persisted
// food log with its immutable nutrition snapshot.
type LogService struct {
	store domain.CatalogStore
	logs  domain.FoodLogStore
}

// NewLogService creates a log service.
func NewLogService(store domain.CatalogStore, logs domain.FoodLogStore) *LogService {
	return &LogService{
		store: store,
		logs:  logs,
	}
}

// ResolveEntry returns the catalog entry to log against, deduplicating
// external results: if the user already saved this (source, source_id) pair
// the existing entry is reused unchanged, otherwise a new one is inserted.
// Entries without a source_id (user-authored foods) are always inserted.
func (s *LogService) ResolveEntry(ctx context.Context, userID string, entry domain.CatalogEntry) (*domain.CatalogEntry, error) {
	if entry.ID != "" {
		return &entry, nil
	}

	entry.UserID = userID

	if entry.SourceID != nil && entry.Source != domain.SourcePersonal {
		existing, err := s.store.FindBySourceID(ctx, userID, entry.Source, *entry.SourceID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	return s.store.Insert(ctx, &entry)
}

// CreateLog resolves the entry, builds the portion-scaled snapshot and
// persists the log. The snapshot is computed once here and never recomputed.
func (s *LogService) CreateLog(ctx context.Context, userID string, entry domain.CatalogEntry, portionG float64, meal string, loggedAt time.Time) (*domain.FoodLog, error) {
	resolved, err := s.ResolveEntry(ctx, userID, entry)
	if err != nil {
		return nil, err
	}

	snapshot, err := BuildSnapshot(resolved.Per100g, portionG)
	if err != nil {
		return nil, err
	}

	if loggedAt.IsZero() {
		loggedAt = time.Now().UTC()
	}

	foodLog := &domain.FoodLog{
		UserID:         userID,
		CatalogEntryID: resolved.ID,
		PortionG:       portionG,
		Meal:           meal,
		Snapshot:       snapshot,
		LoggedAt:       loggedAt,
	}

	if err := s.logs.InsertLog(ctx, foodLog); err != nil {
		return nil, err
	}

	return foodLog, nil
}
