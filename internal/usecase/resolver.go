package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/nutrilog/backend/internal/domain"
)

// Quota policy: prefer the user's own catalog, only pay for external calls
// when it is sparse, never let a third-party outage fail the search.
const (
	personalCeiling = 10 // max personal results fetched
	personalQuota   = 3  // personal hits at or above this skip USDA
	usdaSearchLimit = 5  // USDA search page size
	usdaDetailLimit = 3  // detail fetches per search
	externalQuota   = 5  // personal+usda hits at or above this skip OFF name search
	offSearchLimit  = 5  // OFF name search page size
)

// defaultProviderTimeout bounds each external provider step. A timed-out
// step degrades to zero results like any other provider failure.
const defaultProviderTimeout = 8 * time.Second

// Resolver orchestrates the catalog store and both external providers into
// one merged search envelope.
type Resolver struct {
	store           domain.CatalogStore
	usda            domain.USDAClient
	off             domain.OpenFoodFactsClient
	providerTimeout time.Duration
}

// NewResolver creates a resolver. A zero providerTimeout selects the default.
func NewResolver(store domain.CatalogStore, usda domain.USDAClient, off domain.OpenFoodFactsClient, providerTimeout time.Duration) *Resolver {
	if providerTimeout == 0 {
		providerTimeout = defaultProviderTimeout
	}

	return &Resolver{
		store:           store,
		usda:            usda,
		off:             off,
		providerTimeout: providerTimeout,
	}
}

// Resolve runs one search request. The personal catalog is queried first and
// its failure is fatal; both external steps degrade to empty lists on any
// failure. List order inside the envelope is each source's own relevance
// order, never re-ranked across sources.
func (r *Resolver) Resolve(ctx context.Context, userID, query string) (*domain.SearchResultEnvelope, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidQuery
	}

	personal, err := r.store.FindPersonal(ctx, userID, query, personalCeiling)
	if err != nil {
		return nil, err
	}
	if personal == nil {
		personal = []domain.CatalogEntry{}
	}

	// Barcodes route exclusively to the Open Food Facts lookup; the USDA
	// path never sees them.
	barcode := IsBarcode(query)

	usdaResults := []domain.CatalogEntry{}
	if !barcode && len(personal) < personalQuota {
		usdaResults = r.resolveUSDA(ctx, query)
	}

	offResults := r.resolveOpenFoodFacts(ctx, query, barcode, len(personal)+len(usdaResults))

	return &domain.SearchResultEnvelope{
		Personal:      personal,
		USDA:          usdaResults,
		OpenFoodFacts: offResults,
	}, nil
}

// resolveUSDA searches USDA and fetches details for the top candidates
// concurrently, keeping whatever succeeds. Any failure of the step as a
// whole yields zero results; a missing API key skips it silently.
func (r *Resolver) resolveUSDA(ctx context.Context, query string) []domain.CatalogEntry {
	ctx, cancel := context.WithTimeout(ctx, r.providerTimeout)
	defer cancel()

	hits, err := r.usda.Search(ctx, query, usdaSearchLimit)
	if err != nil {
		if !errors.Is(err, domain.ErrNotConfigured) {
			log.Printf("[RESOLVE] USDA search failed, continuing without: %v", err)
		}
		return []domain.CatalogEntry{}
	}

	if len(hits) > usdaDetailLimit {
		hits = hits[:usdaDetailLimit]
	}

	// Fetch details in parallel; one failure never cancels its siblings.
	// Indexed slots preserve the provider's relevance order.
	slots := make([]*domain.CatalogEntry, len(hits))
	var wg sync.WaitGroup
	for i, hit := range hits {
		wg.Add(1)
		go func(i int, hit domain.USDASearchResult) {
			defer wg.Done()
			entry, err := r.usda.FetchDetails(ctx, hit.FdcID)
			if err != nil {
				log.Printf("[RESOLVE] USDA detail fetch for %s failed, dropping candidate: %v", hit.FdcID, err)
				return
			}
			if entry.Brand == nil && hit.Brand != "" {
				brand := hit.Brand
				entry.Brand = &brand
			}
			slots[i] = entry
		}(i, hit)
	}
	wg.Wait()

	results := make([]domain.CatalogEntry, 0, len(slots))
	for _, entry := range slots {
		if entry != nil {
			results = append(results, *entry)
		}
	}
	return results
}

// resolveOpenFoodFacts runs the barcode path for barcode-shaped queries,
// otherwise the name search when the other sources left the envelope sparse.
// Failures yield zero results.
func (r *Resolver) resolveOpenFoodFacts(ctx context.Context, query string, barcode bool, foundSoFar int) []domain.CatalogEntry {
	if barcode {
		ctx, cancel := context.WithTimeout(ctx, r.providerTimeout)
		defer cancel()

		entry, err := r.off.FetchByBarcode(ctx, query)
		if err != nil {
			log.Printf("[RESOLVE] OFF barcode lookup failed, continuing without: %v", err)
			return []domain.CatalogEntry{}
		}
		if entry == nil {
			return []domain.CatalogEntry{}
		}
		return []domain.CatalogEntry{*entry}
	}

	if foundSoFar >= externalQuota {
		return []domain.CatalogEntry{}
	}

	ctx, cancel := context.WithTimeout(ctx, r.providerTimeout)
	defer cancel()

	entries, err := r.off.SearchByName(ctx, query, offSearchLimit)
	if err != nil {
		log.Printf("[RESOLVE] OFF name search failed, continuing without: %v", err)
		return []domain.CatalogEntry{}
	}
	if entries == nil {
		entries = []domain.CatalogEntry{}
	}
	return entries
}
