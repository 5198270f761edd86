package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/nutrilog/backend/internal/domain"
)

// MockCatalogStore is a mock implementation of domain.CatalogStore
type MockCatalogStore struct {
	personal      []domain.CatalogEntry
	personalErr   error
	personalCalls int
	lastLimit     int

	bySourceID map[string]*domain.CatalogEntry
	inserted   []domain.CatalogEntry
}

func NewMockCatalogStore() *MockCatalogStore {
	return &MockCatalogStore{bySourceID: make(map[string]*domain.CatalogEntry)}
}

func (m *MockCatalogStore) FindPersonal(ctx context.Context, userID, query string, limit int) ([]domain.CatalogEntry, error) {
	m.personalCalls++
	m.lastLimit = limit
	if m.personalErr != nil {
		return nil, m.personalErr
	}
	return m.personal, nil
}

func (m *MockCatalogStore) FindBySourceID(ctx context.Context, userID string, source domain.Source, sourceID string) (*domain.CatalogEntry, error) {
	return m.bySourceID[string(source)+":"+sourceID], nil
}

func (m *MockCatalogStore) Insert(ctx context.Context, entry *domain.CatalogEntry) (*domain.CatalogEntry, error) {
	saved := *entry
	saved.ID = "entry-" + string(rune('a'+len(m.inserted)))
	m.inserted = append(m.inserted, saved)
	if saved.SourceID != nil {
		m.bySourceID[string(saved.Source)+":"+*saved.SourceID] = &saved
	}
	return &saved, nil
}

// MockUSDAClient is a mock implementation of domain.USDAClient
type MockUSDAClient struct {
	searchResults []domain.USDASearchResult
	searchErr     error
	searchCalls   int
	lastLimit     int

	details     map[string]*domain.CatalogEntry
	detailErrs  map[string]error
	detailCalls []string
}

func NewMockUSDAClient() *MockUSDAClient {
	return &MockUSDAClient{
		details:    make(map[string]*domain.CatalogEntry),
		detailErrs: make(map[string]error),
	}
}

func (m *MockUSDAClient) Search(ctx context.Context, query string, limit int) ([]domain.USDASearchResult, error) {
	m.searchCalls++
	m.lastLimit = limit
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResults, nil
}

func (m *MockUSDAClient) FetchDetails(ctx context.Context, fdcID string) (*domain.CatalogEntry, error) {
	m.detailCalls = append(m.detailCalls, fdcID)
	if err := m.detailErrs[fdcID]; err != nil {
		return nil, err
	}
	return m.details[fdcID], nil
}

// MockOFFClient is a mock implementation of domain.OpenFoodFactsClient
type MockOFFClient struct {
	barcodeResult *domain.CatalogEntry
	barcodeErr    error
	barcodeCalls  int

	nameResults []domain.CatalogEntry
	nameErr     error
	nameCalls   int
	lastLimit   int
}

func NewMockOFFClient() *MockOFFClient {
	return &MockOFFClient{}
}

func (m *MockOFFClient) FetchByBarcode(ctx context.Context, code string) (*domain.CatalogEntry, error) {
	m.barcodeCalls++
	if m.barcodeErr != nil {
		return nil, m.barcodeErr
	}
	return m.barcodeResult, nil
}

func (m *MockOFFClient) SearchByName(ctx context.Context, query string, limit int) ([]domain.CatalogEntry, error) {
	m.nameCalls++
	m.lastLimit = limit
	if m.nameErr != nil {
		return nil, m.nameErr
	}
	return m.nameResults, nil
}

func personalEntries(n int) []domain.CatalogEntry {
	entries := make([]domain.CatalogEntry, n)
	for i := range entries {
		entries[i] = domain.CatalogEntry{
			ID:     "p" + string(rune('1'+i)),
			Name:   "Personal " + string(rune('1'+i)),
			Source: domain.SourcePersonal,
		}
	}
	return entries
}

func usdaHits(ids ...string) []domain.USDASearchResult {
	hits := make([]domain.USDASearchResult, len(ids))
	for i, id := range ids {
		hits[i] = domain.USDASearchResult{FdcID: id, Description: "Food " + id}
	}
	return hits
}

func TestResolve_RejectsEmptyQuery(t *testing.T) {
	resolver := NewResolver(NewMockCatalogStore(), NewMockUSDAClient(), NewMockOFFClient(), 0)

	_, err := resolver.Resolve(context.Background(), "user-1", "   ")
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("error = %v, want ErrInvalidQuery", err)
	}
}

func TestResolve_StoreFailureIsFatal(t *testing.T) {
	store := NewMockCatalogStore()
	store.personalErr = errors.New("connection refused")
	usdaMock := NewMockUSDAClient()
	resolver := NewResolver(store, usdaMock, NewMockOFFClient(), 0)

	_, err := resolver.Resolve(context.Background(), "user-1", "milk")

	if err == nil {
		t.Fatal("expected store failure to propagate")
	}
	if usdaMock.searchCalls != 0 {
		t.Errorf("USDA search calls = %d, want 0 after store failure", usdaMock.searchCalls)
	}
}

func TestResolve_PersonalQuotaSkipsUSDA(t *testing.T) {
	store := NewMockCatalogStore()
	store.personal = personalEntries(3)
	usdaMock := NewMockUSDAClient()
	resolver := NewResolver(store, usdaMock, NewMockOFFClient(), 0)

	envelope, err := resolver.Resolve(context.Background(), "user-1", "milk")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if usdaMock.searchCalls != 0 {
		t.Errorf("USDA search calls = %d, want 0 when personal quota is met", usdaMock.searchCalls)
	}
	if len(envelope.Personal) != 3 {
		t.Errorf("personal = %d entries, want 3", len(envelope.Personal))
	}
	if store.lastLimit != 10 {
		t.Errorf("FindPersonal limit = %d, want 10", store.lastLimit)
	}
}

func TestResolve_SparsePersonalTriggersUSDA(t *testing.T) {
	store := NewMockCatalogStore()
	store.personal = personalEntries(2)

	usdaMock := NewMockUSDAClient()
	usdaMock.searchResults = usdaHits("1", "2", "3", "4", "5")
	for _, id := range []string{"1", "2", "3"} {
		sourceID := id
		usdaMock.details[id] = &domain.CatalogEntry{
			Name:     "Food " + id,
			Source:   domain.SourceUSDA,
			SourceID: &sourceID,
		}
	}

	resolver := NewResolver(store, usdaMock, NewMockOFFClient(), 0)

	envelope, err := resolver.Resolve(context.Background(), "user-1", "milk")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if usdaMock.lastLimit != 5 {
		t.Errorf("USDA search limit = %d, want 5", usdaMock.lastLimit)
	}
	if len(usdaMock.detailCalls) != 3 {
		t.Errorf("detail fetches = %d, want exactly 3", len(usdaMock.detailCalls))
	}
	if len(envelope.USDA) != 3 {
		t.Errorf("usda = %d entries, want 3", len(envelope.USDA))
	}
	// Provider relevance order is preserved.
	for i, want := range []string{"Food 1", "Food 2", "Food 3"} {
		if envelope.USDA[i].Name != want {
			t.Errorf("usda[%d] = %q, want %q", i, envelope.USDA[i].Name, want)
		}
	}
}

func TestResolve_FailedDetailFetchDropsOnlyThatCandidate(t *testing.T) {
	store := NewMockCatalogStore()
	usdaMock := NewMockUSDAClient()
	usdaMock.searchResults = usdaHits("1", "2", "3")
	one, three := "1", "3"
	usdaMock.details["1"] = &domain.CatalogEntry{Name: "Food 1", Source: domain.SourceUSDA, SourceID: &one}
	usdaMock.detailErrs["2"] = domain.ErrProviderFailure
	usdaMock.details["3"] = &domain.CatalogEntry{Name: "Food 3", Source: domain.SourceUSDA, SourceID: &three}

	resolver := NewResolver(store, usdaMock, NewMockOFFClient(), 0)

	envelope, err := resolver.Resolve(context.Background(), "user-1", "milk")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if len(envelope.USDA) != 2 {
		t.Fatalf("usda = %d entries, want 2", len(envelope.USDA))
	}
	if envelope.USDA[0].Name != "Food 1" || envelope.USDA[1].Name != "Food 3" {
		t.Errorf("usda order = %q, %q; want Food 1, Food 3", envelope.USDA[0].Name, envelope.USDA[1].Name)
	}
}

func TestResolve_USDAOutageDegradesToEmpty(t *testing.T) {
	store := NewMockCatalogStore()
	usdaMock := NewMockUSDAClient()
	usdaMock.searchErr = domain.ErrProviderFailure

	resolver := NewResolver(store, usdaMock, NewMockOFFClient(), 0)

	envelope, err := resolver.Resolve(context.Background(), "user-1", "milk")
	if err != nil {
		t.Fatalf("Resolve() error = %v, want graceful degradation", err)
	}
	if len(envelope.USDA) != 0 {
		t.Errorf("usda = %d entries, want 0", len(envelope.USDA))
	}
	if envelope.USDA == nil {
		t.Error("usda list must be empty, not nil")
	}
}

func TestResolve_MissingUSDAKeySkipsSilently(t *testing.T) {
	store := NewMockCatalogStore()
	usdaMock := NewMockUSDAClient()
	usdaMock.searchErr = domain.ErrNotConfigured

	resolver := NewResolver(store, usdaMock, NewMockOFFClient(), 0)

	envelope, err := resolver.Resolve(context.Background(), "user-1", "milk")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(envelope.USDA) != 0 {
		t.Errorf("usda = %d entries, want 0", len(envelope.USDA))
	}
}

func TestResolve_BarcodeRoutesToOFFOnly(t *testing.T) {
	store := NewMockCatalogStore()
	usdaMock := NewMockUSDAClient()
	offMock := NewMockOFFClient()
	barcode := "049000028911"
	offMock.barcodeResult = &domain.CatalogEntry{
		Name:    "Coca-Cola",
		Source:  domain.SourceOpenFoodFacts,
		Barcode: &barcode,
	}

	resolver := NewResolver(store, usdaMock, offMock, 0)

	envelope, err := resolver.Resolve(context.Background(), "user-1", barcode)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if offMock.barcodeCalls != 1 {
		t.Errorf("barcode calls = %d, want 1", offMock.barcodeCalls)
	}
	if offMock.nameCalls != 0 {
		t.Errorf("name search calls = %d, want 0 for a barcode query", offMock.nameCalls)
	}
	if usdaMock.searchCalls != 0 {
		t.Errorf("USDA search calls = %d, want 0 for a barcode query", usdaMock.searchCalls)
	}
	if len(envelope.OpenFoodFacts) != 1 {
		t.Errorf("openfoodfacts = %d entries, want exactly 1", len(envelope.OpenFoodFacts))
	}
}

func TestResolve_BarcodeMissYieldsZeroResults(t *testing.T) {
	store := NewMockCatalogStore()
	offMock := NewMockOFFClient() // barcodeResult stays nil

	resolver := NewResolver(store, NewMockUSDAClient(), offMock, 0)

	envelope, err := resolver.Resolve(context.Background(), "user-1", "12345678")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(envelope.OpenFoodFacts) != 0 {
		t.Errorf("openfoodfacts = %d entries, want 0", len(envelope.OpenFoodFacts))
	}
}

func TestResolve_OFFNameSearchSkippedWhenEnvelopeFull(t *testing.T) {
	store := NewMockCatalogStore()
	store.personal = personalEntries(2)

	usdaMock := NewMockUSDAClient()
	usdaMock.searchResults = usdaHits("1", "2", "3")
	for _, id := range []string{"1", "2", "3"} {
		sourceID := id
		usdaMock.details[id] = &domain.CatalogEntry{Name: "Food " + id, Source: domain.SourceUSDA, SourceID: &sourceID}
	}

	offMock := NewMockOFFClient()
	resolver := NewResolver(store, usdaMock, offMock, 0)

	// personal(2) + usda(3) == 5, so the OFF name search is skipped.
	_, err := resolver.Resolve(context.Background(), "user-1", "milk")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if offMock.nameCalls != 0 {
		t.Errorf("name search calls = %d, want 0 when quota is met", offMock.nameCalls)
	}
}

func TestResolve_OFFNameSearchRunsWhenSparse(t *testing.T) {
	store := NewMockCatalogStore()
	store.personal = personalEntries(1)

	offMock := NewMockOFFClient()
	offMock.nameResults = []domain.CatalogEntry{
		{Name: "Oat Drink", Source: domain.SourceOpenFoodFacts},
	}

	resolver := NewResolver(store, NewMockUSDAClient(), offMock, 0)

	envelope, err := resolver.Resolve(context.Background(), "user-1", "oat drink")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if offMock.nameCalls != 1 {
		t.Errorf("name search calls = %d, want 1", offMock.nameCalls)
	}
	if offMock.lastLimit != 5 {
		t.Errorf("name search limit = %d, want 5", offMock.lastLimit)
	}
	if len(envelope.OpenFoodFacts) != 1 {
		t.Errorf("openfoodfacts = %d entries, want 1", len(envelope.OpenFoodFacts))
	}
}

func TestResolve_OFFOutageDegradesToEmpty(t *testing.T) {
	store := NewMockCatalogStore()
	offMock := NewMockOFFClient()
	offMock.nameErr = domain.ErrProviderFailure
	offMock.barcodeErr = domain.ErrProviderFailure

	resolver := NewResolver(store, NewMockUSDAClient(), offMock, 0)

	for _, query := range []string{"milk", "049000028911"} {
		envelope, err := resolver.Resolve(context.Background(), "user-1", query)
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v, want graceful degradation", query, err)
		}
		if len(envelope.OpenFoodFacts) != 0 {
			t.Errorf("Resolve(%q) openfoodfacts = %d entries, want 0", query, len(envelope.OpenFoodFacts))
		}
	}
}
