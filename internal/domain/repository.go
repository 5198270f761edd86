package domain

import (
	"context"
	"time"
)

// CatalogStore is the persistence collaborator for a user's food catalog.
// FindPersonal failures are fatal to a search request; it is first-party data.
type CatalogStore interface {
	// FindPersonal returns the user's catalog entries matching query, in
	// implementation-defined relevance order, at most limit of them.
	FindPersonal(ctx context.Context, userID, query string, limit int) ([]CatalogEntry, error)

	// FindBySourceID returns the user's entry for an external (source,
	// sourceID) pair, or nil when none exists.
	FindBySourceID(ctx context.Context, userID string, source Source, sourceID string) (*CatalogEntry, error)

	// Insert persists a new entry and returns it with its assigned ID.
	Insert(ctx context.Context, entry *CatalogEntry) (*CatalogEntry, error)
}

// FoodLogStore persists food log entries with their nutrition snapshots.
type FoodLogStore interface {
	InsertLog(ctx context.Context, entry *FoodLog) error
}

// USDAClient talks to the USDA FoodData Central API.
type USDAClient interface {
	// Search returns up to limit lightweight hits. Results are served from a
	// short-lived response cache when available.
	Search(ctx context.Context, query string, limit int) ([]USDASearchResult, error)

	// FetchDetails fetches and maps the full nutrient breakdown for one food.
	FetchDetails(ctx context.Context, fdcID string) (*CatalogEntry, error)
}

// OpenFoodFactsClient talks to the Open Food Facts API. All calls share one
// throttle gate.
type OpenFoodFactsClient interface {
	// FetchByBarcode returns the product for an exact barcode, or nil when
	// the provider reports it unknown.
	FetchByBarcode(ctx context.Context, code string) (*CatalogEntry, error)

	// SearchByName returns up to limit name matches; products without a
	// usable display name are discarded.
	SearchByName(ctx context.Context, query string, limit int) ([]CatalogEntry, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
