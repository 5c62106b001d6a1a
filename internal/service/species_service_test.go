package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/birdwatch-labs/rare-bird-finder/internal/config"
	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
)

type memoryTaxonomyCache struct {
	mu      sync.Mutex
	entries []domain.SpeciesEntry
	sets    int
}

func (c *memoryTaxonomyCache) Get(ctx context.Context) ([]domain.SpeciesEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries, nil
}

func (c *memoryTaxonomyCache) Set(ctx context.Context, entries []domain.SpeciesEntry, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	c.sets++
	return nil
}

func testTaxonomy() []domain.SpeciesEntry {
	return []domain.SpeciesEntry{
		{CommonName: "Snowy Owl", ScientificName: "Bubo scandiacus", SpeciesCode: "snoowl1"},
		{CommonName: "Snow Goose", ScientificName: "Anser caerulescens", SpeciesCode: "snogoo"},
		{CommonName: "Barn Owl", ScientificName: "Tyto alba", SpeciesCode: "brnowl"},
		{CommonName: "Great Horned Owl", ScientificName: "Bubo virginianus", SpeciesCode: "grhowl"},
		{CommonName: "American Robin", ScientificName: "Turdus migratorius", SpeciesCode: "amerob"},
	}
}

func newCachedSpeciesService(entries []domain.SpeciesEntry) *SpeciesService {
	cache := &memoryTaxonomyCache{entries: entries}
	cfg := config.EBirdConfig{APIKey: "test-key", BaseURL: "http://ebird.invalid", TaxonomyCacheTTLH: 12}
	return NewSpeciesService(cfg, cache, zap.NewNop())
}

func TestSuggestPrefixMatchesRankFirst(t *testing.T) {
	t.Parallel()

	svc := newCachedSpeciesService(testTaxonomy())

	suggestions, err := svc.Suggest(context.Background(), "snow", 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	// both are prefix matches; the shorter common name wins
	assert.Equal(t, "Snowy Owl", suggestions[0].SpeciesName)
	assert.Equal(t, "snoowl1", suggestions[0].SpeciesCode)
	assert.Equal(t, "Snow Goose", suggestions[1].SpeciesName)
}

func TestSuggestSubstringAndScientificName(t *testing.T) {
	t.Parallel()

	svc := newCachedSpeciesService(testTaxonomy())

	t.Run("substring matches rank after prefix matches", func(t *testing.T) {
		suggestions, err := svc.Suggest(context.Background(), "owl", 10)
		require.NoError(t, err)
		require.Len(t, suggestions, 3)
		assert.Equal(t, "Barn Owl", suggestions[0].SpeciesName)
		assert.Equal(t, "Snowy Owl", suggestions[1].SpeciesName)
		assert.Equal(t, "Great Horned Owl", suggestions[2].SpeciesName)
	})

	t.Run("scientific name matches", func(t *testing.T) {
		suggestions, err := svc.Suggest(context.Background(), "bubo", 10)
		require.NoError(t, err)
		require.Len(t, suggestions, 2)
		assert.Equal(t, "Snowy Owl", suggestions[0].SpeciesName)
	})

	t.Run("case insensitive", func(t *testing.T) {
		suggestions, err := svc.Suggest(context.Background(), "SNOWY", 10)
		require.NoError(t, err)
		require.Len(t, suggestions, 1)
	})
}

func TestSuggestLimitsAndEmptyQuery(t *testing.T) {
	t.Parallel()

	svc := newCachedSpeciesService(testTaxonomy())

	suggestions, err := svc.Suggest(context.Background(), "  ", 10)
	require.NoError(t, err)
	assert.Empty(t, suggestions)

	suggestions, err = svc.Suggest(context.Background(), "owl", 1)
	require.NoError(t, err)
	assert.Len(t, suggestions, 1)

	suggestions, err = svc.Suggest(context.Background(), "owl", 0)
	require.NoError(t, err)
	assert.Len(t, suggestions, 1, "limit below one is clamped to one")

	suggestions, err = svc.Suggest(context.Background(), "zzz", 10)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestLoadTaxonomyFetchesAndFilters(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-eBirdApiToken"))
		assert.Equal(t, taxonomyPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"comName":"Snowy Owl","sciName":"Bubo scandiacus","speciesCode":"snoowl1"},
			{"comName":"","sciName":"Incomplete","speciesCode":"x"},
			{"comName":"No Code","sciName":"Missing","speciesCode":""}
		]`))
	}))
	defer server.Close()

	cache := &memoryTaxonomyCache{}
	cfg := config.EBirdConfig{APIKey: "test-key", BaseURL: server.URL, TaxonomyCacheTTLH: 12}
	svc := NewSpeciesService(cfg, cache, zap.NewNop())

	entries, err := svc.LoadTaxonomy(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, entries, 1, "entries missing a name or code are dropped")
	assert.Equal(t, "snoowl1", entries[0].SpeciesCode)
	assert.Equal(t, 1, cache.sets, "fetched taxonomy is written back to the cache")

	// warm cache short-circuits the upstream call
	server.Close()
	entries, err = svc.LoadTaxonomy(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFetchSpeciesObservations(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/obs/geo/recent/snoowl1", r.URL.Path)
		assert.Equal(t, "39.7", r.URL.Query().Get("lat"))
		assert.Equal(t, "14", r.URL.Query().Get("back"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"comName":"Snowy Owl","speciesCode":"snoowl1","locName":"Cherry Creek","locId":"L123","obsDt":"2025-06-01 08:15","lat":39.65,"lng":-104.87,"howMany":2}
		]`))
	}))
	defer server.Close()

	cfg := config.EBirdConfig{APIKey: "test-key", BaseURL: server.URL, TaxonomyCacheTTLH: 12}
	svc := NewSpeciesService(cfg, &memoryTaxonomyCache{}, zap.NewNop())

	observations, err := svc.FetchSpeciesObservations(context.Background(), "snoowl1", 39.7, -104.9, 25, 14)
	require.NoError(t, err)
	require.Len(t, observations, 1)
	assert.Equal(t, "Snowy Owl", observations[0].Species)
	assert.Equal(t, "L123", observations[0].LocationID)
	require.NotNil(t, observations[0].HowMany)
	assert.Equal(t, 2, *observations[0].HowMany)
}

func TestMissingAPIKeyFailsClosed(t *testing.T) {
	t.Parallel()

	cfg := config.EBirdConfig{APIKey: "", BaseURL: "http://ebird.invalid"}
	svc := NewSpeciesService(cfg, &memoryTaxonomyCache{}, zap.NewNop())

	_, err := svc.FetchSpeciesObservations(context.Background(), "snoowl1", 39.7, -104.9, 25, 0)
	assert.Equal(t, "UPSTREAM_MISCONFIGURED", domainCode(t, err))
}
