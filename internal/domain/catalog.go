package domain

import (
	"strings"
	"time"
)

// Source identifies where a catalog entry originally came from.
type Source string

const (
	SourcePersonal      Source = "personal"
	SourceUSDA          Source = "usda"
	SourceOpenFoodFacts Source = "openfoodfacts"
)

// CatalogEntry is one food in a user's catalog. External search results are
// CatalogEntry-shaped too; they get an ID only once persisted (first time the
// user logs them, see the dedup-on-save rule).
type CatalogEntry struct {
	ID              string           `json:"id,omitempty"`
	UserID          string           `json:"user_id,omitempty"`
	Name            string           `json:"name"`
	NameNormalized  string           `json:"name_normalized,omitempty"`
	Brand           *string          `json:"brand,omitempty"`
	Source          Source           `json:"source"`
	SourceID        *string          `json:"source_id,omitempty"`
	Barcode         *string          `json:"barcode,omitempty"`
	DefaultPortionG *float64         `json:"default_portion_g,omitempty"`
	Per100g         NutritionProfile `json:"per_100g"`
	TimesLogged     int              `json:"times_logged,omitempty"`
	CreatedAt       time.Time        `json:"created_at,omitempty"`
}

// SearchResultEnvelope is the search response: three ordered lists, one per
// source. Order within each list is the source's own relevance order; the
// aggregator never re-ranks across lists.
type SearchResultEnvelope struct {
	Personal      []CatalogEntry `json:"personal"`
	USDA          []CatalogEntry `json:"usda"`
	OpenFoodFacts []CatalogEntry `json:"openfoodfacts"`
}

// USDASearchResult is a lightweight hit from the USDA search endpoint,
// before the full nutrient breakdown is fetched.
type USDASearchResult struct {
	FdcID       string `json:"fdc_id"`
	Description string `json:"description"`
	DataType    string `json:"data_type"`
	Brand       string `json:"brand,omitempty"`
}

// FoodLog is one logged consumption of a catalog entry. The snapshot is
// computed once at creation time and never recomputed.
type FoodLog struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	CatalogEntryID string            `json:"catalog_entry_id"`
	PortionG       float64           `json:"portion_g"`
	Meal           string            `json:"meal"`
	Snapshot       NutritionSnapshot `json:"snapshot"`
	LoggedAt       time.Time         `json:"logged_at"`
}

// NormalizeName lowercases and trims a food name for matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
