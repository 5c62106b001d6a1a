package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/birdwatch-labs/rare-bird-finder/internal/config"
	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
	apperrors "github.com/birdwatch-labs/rare-bird-finder/pkg/util"
)

// ebirdClient performs authenticated GET requests against the eBird API.
type ebirdClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	logger     *zap.Logger
}

func newEBirdClient(cfg config.EBirdConfig, logger *zap.Logger) *ebirdClient {
	return &ebirdClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		logger:     logger,
	}
}

// get fetches path with the given query and decodes the JSON body into out.
func (c *ebirdClient) get(ctx context.Context, path string, query url.Values, out any) error {
	if c.apiKey == "" {
		c.logger.Error("EBIRD_API_KEY not configured")
		return apperrors.NewDomainError("UPSTREAM_MISCONFIGURED", "eBird API key not configured", http.StatusInternalServerError, nil)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-eBirdApiToken", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("ebird request failed", zap.String("path", path), zap.Error(err))
		return apperrors.NewDomainError("UPSTREAM_UNAVAILABLE", "service temporarily unavailable", http.StatusServiceUnavailable, nil)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("ebird API error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return apperrors.NewDomainError("UPSTREAM_ERROR", "failed to fetch bird data", resp.StatusCode, nil)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// ebirdObservation is the subset of the eBird observation payload we keep.
type ebirdObservation struct {
	ComName         string  `json:"comName"`
	SpeciesCode     string  `json:"speciesCode"`
	LocName         string  `json:"locName"`
	LocID           string  `json:"locId"`
	ObsDt           string  `json:"obsDt"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	HowMany         *int    `json:"howMany"`
	UserDisplayName *string `json:"userDisplayName"`
}

func (o ebirdObservation) toDomain() *domain.Observation {
	species := o.ComName
	if species == "" {
		species = "unknown"
	}
	return &domain.Observation{
		Species:      species,
		SpeciesCode:  o.SpeciesCode,
		Location:     o.LocName,
		LocationID:   o.LocID,
		Date:         o.ObsDt,
		Lat:          o.Lat,
		Lng:          o.Lng,
		HowMany:      o.HowMany,
		ObserverName: o.UserDisplayName,
	}
}
