package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/alinamichelle/utilify/internal/domain/entities"
	"github.com/alinamichelle/utilify/internal/domain/providers"
	"github.com/alinamichelle/utilify/internal/infrastructure/observability"
	"github.com/alinamichelle/utilify/pkg/config"
	"github.com/alinamichelle/utilify/pkg/retry"
)

const (
	nominatimSearchURL = "https://nominatim.openstreetmap.org/search"
	defaultHTTPTimeout = 5 * time.Second
)

// NominatimProvider implements providers.Geocoder against the OSM Nominatim
// search API. It paces outbound calls with a rate limiter to honor the
// upstream fair-use policy and retries transient failures with exponential
// backoff. Every unresolvable condition fails closed: the caller gets a nil
// Location, never a panic.
type NominatimProvider struct {
	userAgent  string
	email      string
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	retryCfg   retry.Config
	metrics    *observability.Metrics
}

// NewNominatimProvider creates a Nominatim geocoder with production pacing
// (one request per second) and the shared retry policy.
func NewNominatimProvider(cfg config.NominatimConfig, metrics *observability.Metrics) *NominatimProvider {
	return NewNominatimProviderWithOptions(cfg, nominatimSearchURL, nil, nil, retry.DefaultConfig(), metrics)
}

// NewNominatimProviderWithOptions allows overriding the base URL, HTTP
// client, limiter, and retry policy (used for tests).
func NewNominatimProviderWithOptions(cfg config.NominatimConfig, baseURL string, httpClient *http.Client, limiter *rate.Limiter, retryCfg retry.Config, metrics *observability.Metrics) *NominatimProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = nominatimSearchURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(1), 1)
	}
	return &NominatimProvider{
		userAgent:  cfg.UserAgent,
		email:      cfg.Email,
		httpClient: httpClient,
		baseURL:    baseURL,
		limiter:    limiter,
		retryCfg:   retryCfg,
		metrics:    metrics,
	}
}

// Geocode resolves a free-text address to coordinates and a display name.
// It returns (nil, nil) for addresses the upstream cannot resolve and
// (nil, err) once transient failures exhaust the retry budget.
func (p *NominatimProvider) Geocode(ctx context.Context, address string) (*entities.Location, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, nil
	}

	var location *entities.Location
	err := retry.Do(ctx, p.retryCfg, func() error {
		loc, err := p.search(ctx, trimmed)
		if err != nil {
			return err
		}
		location = loc
		return nil
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Error().
			Err(err).
			Str("address", trimmed).
			Msg("geocoding failed after retries")
		return nil, err
	}
	return location, nil
}

// search performs one upstream call. Transient conditions (429, 5xx, network
// timeouts) come back wrapped with retry.Transient; terminal conditions
// (other statuses, empty or malformed result lists, non-timeout transport
// errors) yield a nil location with no error so the caller stops immediately.
func (p *NominatimProvider) search(ctx context.Context, address string) (*entities.Location, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"q":              {address},
		"format":         {"jsonv2"},
		"limit":          {"1"},
		"addressdetails": {"0"},
	}
	if p.email != "" {
		params.Set("email", p.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	observability.RecordUpstreamMetric(ctx, p.metrics, "nominatim", time.Since(start))
	if err != nil {
		if isTimeout(err) {
			return nil, retry.Transient(fmt.Errorf("geocode request timed out: %w", err))
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("geocode transport error")
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, retry.Transient(fmt.Errorf("geocoder returned status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		observability.LoggerFromContext(ctx).Warn().
			Int("status", resp.StatusCode).
			Msg("geocoder returned unexpected status")
		return nil, nil
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("geocoder returned malformed body")
		return nil, nil
	}
	if len(results) == 0 {
		return nil, nil
	}

	top := results[0]
	lat, latErr := strconv.ParseFloat(top.Lat, 64)
	lng, lngErr := strconv.ParseFloat(top.Lon, 64)
	if latErr != nil || lngErr != nil {
		observability.LoggerFromContext(ctx).Warn().
			Str("lat", top.Lat).
			Str("lon", top.Lon).
			Msg("geocoder returned unparseable coordinates")
		return nil, nil
	}

	return &entities.Location{
		Lat:         lat,
		Lng:         lng,
		DisplayName: top.DisplayName,
	}, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Nominatim returns coordinates as strings in its JSON payload.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

var _ providers.Geocoder = (*NominatimProvider)(nil)
