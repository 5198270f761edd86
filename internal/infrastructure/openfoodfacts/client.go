package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nutrilog/backend/internal/domain"
	"golang.org/x/time/rate"
)

// defaultMinInterval keeps us under the provider's 10 requests/minute limit.
const defaultMinInterval = 6 * time.Second

// Client handles communication with the Open Food Facts API. One shared
// limiter gates every request, so concurrent searches serialize against this
// provider. There is no response cache and no retry; the crowdsourced source
// is best-effort.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient creates a new Open Food Facts client. minInterval is the minimum
// spacing between consecutive requests; zero selects the default 6 seconds.
func NewClient(baseURL, userAgent string, minInterval time.Duration) *Client {
	if minInterval == 0 {
		minInterval = defaultMinInterval
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:   baseURL,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// productResponse mirrors the /api/v2/product/{code} payload. Status 0 means
// the barcode is unknown to the provider.
type productResponse struct {
	Status  int     `json:"status"`
	Product product `json:"product"`
}

type searchByNameResponse struct {
	Products []product `json:"products"`
}

type product struct {
	Code          string                 `json:"code"`
	ProductName   string                 `json:"product_name"`
	ProductNameEn string                 `json:"product_name_en"`
	GenericName   string                 `json:"generic_name"`
	Brands        string                 `json:"brands"`
	Nutriments    map[string]interface{} `json:"nutriments"`
}

// name returns the best available product name using the fallback order
// product_name -> product_name_en -> generic_name -> "".
func (p *product) name() string {
	if p.ProductName != "" {
		return p.ProductName
	}
	if p.ProductNameEn != "" {
		return p.ProductNameEn
	}
	return p.GenericName
}

// FetchByBarcode fetches one product by exact barcode. Returns (nil, nil)
// when the provider reports the code unknown.
func (c *Client) FetchByBarcode(ctx context.Context, code string) (*domain.CatalogEntry, error) {
	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(code))

	body, err := c.doGet(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var resp productResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding product response: %v", domain.ErrProviderFailure, err)
	}

	if resp.Status == 0 {
		log.Printf("[OFF] No product for barcode %s", code)
		return nil, nil
	}

	entry := mapProduct(&resp.Product)
	if entry == nil {
		return nil, nil
	}
	entry.Barcode = &code
	return entry, nil
}

// SearchByName fetches up to limit name matches. Products without a usable
// display name are discarded before mapping.
func (c *Client) SearchByName(ctx context.Context, query string, limit int) ([]domain.CatalogEntry, error) {
	endpoint := fmt.Sprintf("%s/cgi/search.pl", c.baseURL)
	params := url.Values{}
	params.Add("search_terms", query)
	params.Add("search_simple", "1")
	params.Add("action", "process")
	params.Add("json", "1")
	params.Add("page_size", strconv.Itoa(limit))

	body, err := c.doGet(ctx, fmt.Sprintf("%s?%s", endpoint, params.Encode()))
	if err != nil {
		return nil, err
	}

	var resp searchByNameResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %v", domain.ErrProviderFailure, err)
	}

	entries := make([]domain.CatalogEntry, 0, len(resp.Products))
	for i := range resp.Products {
		if len(entries) >= limit {
			break
		}
		entry := mapProduct(&resp.Products[i])
		if entry == nil {
			continue
		}
		entries = append(entries, *entry)
	}

	log.Printf("[OFF] Found %d products for query: %q", len(entries), query)
	return entries, nil
}

// doGet waits on the shared limiter, then executes a GET.
func (c *Client) doGet(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", domain.ErrProviderFailure, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrProviderFailure, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	return body, nil
}

// mapProduct converts a provider product into a CatalogEntry-shaped result.
// Returns nil when the product has no usable name.
func mapProduct(p *product) *domain.CatalogEntry {
	name := p.name()
	if name == "" {
		return nil
	}

	entry := &domain.CatalogEntry{
		Name:           name,
		NameNormalized: domain.NormalizeName(name),
		Source:         domain.SourceOpenFoodFacts,
		Per100g:        MapNutriments(p.Nutriments),
	}
	if p.Code != "" {
		code := p.Code
		entry.SourceID = &code
	}
	if p.Brands != "" {
		brand := p.Brands
		entry.Brand = &brand
	}
	return entry
}
