package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/birdwatch-labs/rare-bird-finder/internal/config"
	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
)

const (
	taxonomyPath     = "/ref/taxonomy/ebird"
	taxonomyCacheKey = "species:taxonomy"

	maxSuggestions = 25
)

// TaxonomyCache stores the eBird taxonomy between refreshes. Get returns
// (nil, nil) on a cache miss.
type TaxonomyCache interface {
	Get(ctx context.Context) ([]domain.SpeciesEntry, error)
	Set(ctx context.Context, entries []domain.SpeciesEntry, ttl time.Duration) error
}

type redisTaxonomyCache struct {
	client *redis.Client
}

// NewRedisTaxonomyCache returns a Redis-backed taxonomy cache.
func NewRedisTaxonomyCache(client *redis.Client) TaxonomyCache {
	return &redisTaxonomyCache{client: client}
}

func (c *redisTaxonomyCache) Get(ctx context.Context) ([]domain.SpeciesEntry, error) {
	raw, err := c.client.Get(ctx, taxonomyCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var entries []domain.SpeciesEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *redisTaxonomyCache) Set(ctx context.Context, entries []domain.SpeciesEntry, ttl time.Duration) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, taxonomyCacheKey, raw, ttl).Err()
}

// SpeciesService serves species autocomplete and per-species observations,
// backed by a cached copy of the eBird taxonomy.
type SpeciesService struct {
	ebird    *ebirdClient
	cache    TaxonomyCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewSpeciesService builds the service.
func NewSpeciesService(cfg config.EBirdConfig, cache TaxonomyCache, logger *zap.Logger) *SpeciesService {
	return &SpeciesService{
		ebird:    newEBirdClient(cfg, logger),
		cache:    cache,
		cacheTTL: cfg.TaxonomyCacheTTL(),
		logger:   logger,
	}
}

// LoadTaxonomy returns the taxonomy, fetching from eBird when the cache is
// cold or forceRefresh is set. Cache write failures are logged, not fatal.
func (s *SpeciesService) LoadTaxonomy(ctx context.Context, forceRefresh bool) ([]domain.SpeciesEntry, error) {
	if !forceRefresh {
		if entries, err := s.cache.Get(ctx); err != nil {
			s.logger.Warn("taxonomy cache read failed", zap.Error(err))
		} else if entries != nil {
			return entries, nil
		}
	}

	query := url.Values{}
	query.Set("fmt", "json")
	query.Set("locale", "en")

	var raw []domain.SpeciesEntry
	if err := s.ebird.get(ctx, taxonomyPath, query, &raw); err != nil {
		return nil, err
	}

	entries := make([]domain.SpeciesEntry, 0, len(raw))
	for _, item := range raw {
		if item.CommonName != "" && item.SpeciesCode != "" {
			entries = append(entries, item)
		}
	}

	if err := s.cache.Set(ctx, entries, s.cacheTTL); err != nil {
		s.logger.Warn("taxonomy cache write failed", zap.Error(err))
	}
	s.logger.Info("loaded taxonomy", zap.Int("entries", len(entries)))
	return entries, nil
}

// Suggest returns autocomplete matches for a partial species name. Prefix
// matches rank first; among equals, shorter common names win.
func (s *SpeciesService) Suggest(ctx context.Context, query string, limit int) ([]*domain.SpeciesSuggestion, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []*domain.SpeciesSuggestion{}, nil
	}

	taxonomy, err := s.LoadTaxonomy(ctx, false)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		rank       int
		suggestion *domain.SpeciesSuggestion
	}

	matches := make([]ranked, 0)
	for _, entry := range taxonomy {
		common := strings.ToLower(entry.CommonName)
		scientific := strings.ToLower(entry.ScientificName)
		if !strings.Contains(common+" "+scientific, q) {
			continue
		}
		rank := len(entry.CommonName)
		if strings.HasPrefix(common, q) || strings.HasPrefix(scientific, q) {
			rank -= 10
		}
		matches = append(matches, ranked{
			rank: rank,
			suggestion: &domain.SpeciesSuggestion{
				SpeciesName:    entry.CommonName,
				SpeciesCode:    entry.SpeciesCode,
				ScientificName: entry.ScientificName,
			},
		})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].rank < matches[j].rank })

	if limit < 1 {
		limit = 1
	}
	if limit > maxSuggestions {
		limit = maxSuggestions
	}
	if limit > len(matches) {
		limit = len(matches)
	}

	suggestions := make([]*domain.SpeciesSuggestion, 0, limit)
	for _, m := range matches[:limit] {
		suggestions = append(suggestions, m.suggestion)
	}
	return suggestions, nil
}

// FetchSpeciesObservations returns recent sightings of one species around a
// point. backDays limits how far back eBird looks; zero means the API default.
func (s *SpeciesService) FetchSpeciesObservations(ctx context.Context, speciesCode string, lat, lng float64, radiusKm, backDays int) ([]*domain.Observation, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("dist", strconv.Itoa(radiusKm))
	if backDays > 0 {
		query.Set("back", strconv.Itoa(backDays))
	}

	var raw []ebirdObservation
	if err := s.ebird.get(ctx, fmt.Sprintf("/data/obs/geo/recent/%s", url.PathEscape(speciesCode)), query, &raw); err != nil {
		return nil, err
	}

	observations := make([]*domain.Observation, 0, len(raw))
	for _, item := range raw {
		if item.SpeciesCode == "" {
			item.SpeciesCode = speciesCode
		}
		observations = append(observations, item.toDomain())
	}
	return observations, nil
}
