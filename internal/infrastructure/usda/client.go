package usda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nutrilog/backend/internal/domain"
)

// dataTypes restricts searches to the two curated data-quality categories.
// Branded coverage comes from Open Food Facts instead.
const dataTypes = "Foundation,Survey (FNDDS)"

// Client handles communication with the USDA FoodData Central API. Search
// responses are cached for a short TTL; detail fetches are never cached but
// get one retry on transient failures.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	cache      domain.CacheRepository
	searchTTL  time.Duration
	retryDelay time.Duration
}

// NewClient creates a new USDA API client. An empty apiKey is allowed; every
// call then returns domain.ErrNotConfigured so the caller can skip the step.
func NewClient(apiKey, baseURL string, cache domain.CacheRepository, searchTTL time.Duration) *Client {
	if searchTTL == 0 {
		searchTTL = 5 * time.Minute
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiKey:     apiKey,
		baseURL:    baseURL,
		cache:      cache,
		searchTTL:  searchTTL,
		retryDelay: time.Second,
	}
}

// searchResponse mirrors the /v1/foods/search payload.
type searchResponse struct {
	Foods []searchFood `json:"foods"`
}

type searchFood struct {
	FdcID       int64  `json:"fdcId"`
	Description string `json:"description"`
	DataType    string `json:"dataType"`
	BrandOwner  string `json:"brandOwner,omitempty"`
}

// detailResponse mirrors the /v1/food/{id} payload.
type detailResponse struct {
	FdcID         int64          `json:"fdcId"`
	Description   string         `json:"description"`
	FoodNutrients []foodNutrient `json:"foodNutrients"`
}

type foodNutrient struct {
	Nutrient nutrientRef `json:"nutrient"`
	Amount   float64     `json:"amount"`
}

type nutrientRef struct {
	Number string `json:"number"`
}

// Search queries the food-search endpoint, serving repeats of the same
// (query, pageSize) pair from cache for the configured TTL.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.USDASearchResult, error) {
	if c.apiKey == "" {
		return nil, domain.ErrNotConfigured
	}

	cacheKey := fmt.Sprintf("usda:search:%s:%d", strings.ToLower(strings.TrimSpace(query)), limit)
	if cached, err := c.cache.Get(ctx, cacheKey); err == nil {
		if results, ok := cached.([]domain.USDASearchResult); ok {
			log.Printf("[USDA] Cache hit for query: %q", query)
			return results, nil
		}
	}

	endpoint := fmt.Sprintf("%s/v1/foods/search", c.baseURL)
	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("dataType", dataTypes)
	params.Add("pageSize", strconv.Itoa(limit))

	body, err := c.doGet(ctx, fmt.Sprintf("%s?%s", endpoint, params.Encode()))
	if err != nil {
		return nil, err
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %v", domain.ErrProviderFailure, err)
	}

	results := make([]domain.USDASearchResult, 0, len(searchResp.Foods))
	for _, food := range searchResp.Foods {
		if len(results) >= limit {
			break
		}
		results = append(results, domain.USDASearchResult{
			FdcID:       strconv.FormatInt(food.FdcID, 10),
			Description: food.Description,
			DataType:    food.DataType,
			Brand:       food.BrandOwner,
		})
	}

	if err := c.cache.Set(ctx, cacheKey, results, c.searchTTL); err != nil {
		log.Printf("[USDA] Failed to cache search results: %v", err)
	}

	log.Printf("[USDA] Found %d foods for query: %q", len(results), query)
	return results, nil
}

// FetchDetails retrieves the full nutrient breakdown for one food and maps
// it into a catalog entry. On a 429 or 5xx the request is retried once after
// a fixed delay, then fails.
func (c *Client) FetchDetails(ctx context.Context, fdcID string) (*domain.CatalogEntry, error) {
	if c.apiKey == "" {
		return nil, domain.ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/v1/food/%s", c.baseURL, url.PathEscape(fdcID))
	params := url.Values{}
	params.Add("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	body, err := c.doGet(ctx, reqURL)
	if err != nil {
		if !isTransient(err) {
			return nil, err
		}

		log.Printf("[USDA] Transient error fetching %s, retrying once: %v", fdcID, err)
		select {
		case <-time.After(c.retryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, ctx.Err())
		}

		body, err = c.doGet(ctx, reqURL)
		if err != nil {
			return nil, fmt.Errorf("%w: retry exhausted: %v", domain.ErrProviderFailure, err)
		}
	}

	var detail detailResponse
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("%w: decoding detail response: %v", domain.ErrProviderFailure, err)
	}

	return mapDetail(&detail), nil
}

// doGet executes a GET and returns the response body, classifying failures
// as transient (429/5xx) or permanent.
func (c *Client) doGet(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", domain.ErrProviderFailure, err)
	}
	req.Header.Set("User-Agent", "NutriLog/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrProviderFailure, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrProductNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", domain.ErrProviderTransient, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: status %d", domain.ErrProviderFailure, resp.StatusCode)
	}
}

func isTransient(err error) bool {
	return errors.Is(err, domain.ErrProviderTransient)
}

// mapDetail converts a detail response to a CatalogEntry-shaped result.
// Nutrient numbers arrive as strings; non-numeric ones are dropped.
func mapDetail(detail *detailResponse) *domain.CatalogEntry {
	pairs := make([]NutrientAmount, 0, len(detail.FoodNutrients))
	for _, fn := range detail.FoodNutrients {
		number, err := strconv.Atoi(fn.Nutrient.Number)
		if err != nil {
			continue
		}
		pairs = append(pairs, NutrientAmount{Number: number, Amount: fn.Amount})
	}

	sourceID := strconv.FormatInt(detail.FdcID, 10)
	return &domain.CatalogEntry{
		Name:           detail.Description,
		NameNormalized: domain.NormalizeName(detail.Description),
		Source:         domain.SourceUSDA,
		SourceID:       &sourceID,
		Per100g:        MapNutrients(pairs),
	}
}
