package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/alinamichelle/utilify/internal/domain/entities"
	"github.com/alinamichelle/utilify/internal/domain/providers"
	"github.com/alinamichelle/utilify/internal/infrastructure/observability"
	"github.com/alinamichelle/utilify/pkg/address"
	apperrors "github.com/alinamichelle/utilify/pkg/errors"
)

const (
	errMissingAddress = "Address is required"
	errGeocodeFailed  = "Unable to geocode address"

	geocodeFailedKind = "geocode_failed"
)

// ResolutionService orchestrates a full address resolution: geocoding,
// component extraction, the four-way provider fan-out, and the result cache.
// It is safe for concurrent use; the cache is the only shared mutable state
// and singleflight keeps at most one computation per key in flight.
type ResolutionService struct {
	geocoder providers.Geocoder
	electric providers.UtilityLookup
	water    providers.UtilityLookup
	gas      providers.UtilityLookup
	trash    providers.UtilityLookup

	cache providers.CacheProvider
	ttl   time.Duration

	metrics *observability.Metrics
	group   singleflight.Group
}

// NewResolutionService wires the orchestrator. cache may be nil, which
// disables memoization entirely.
func NewResolutionService(
	geocoder providers.Geocoder,
	electric providers.UtilityLookup,
	water providers.UtilityLookup,
	gas providers.UtilityLookup,
	trash providers.UtilityLookup,
	cache providers.CacheProvider,
	ttl time.Duration,
	metrics *observability.Metrics,
) *ResolutionService {
	return &ResolutionService{
		geocoder: geocoder,
		electric: electric,
		water:    water,
		gas:      gas,
		trash:    trash,
		cache:    cache,
		ttl:      ttl,
		metrics:  metrics,
	}
}

// cachedOutcome is the memoized resolution outcome: either a successful
// result or a semantic error, replayed identically until the entry expires.
type cachedOutcome struct {
	Result       *entities.ResolutionResult `json:"result,omitempty"`
	ErrorKind    string                     `json:"error_kind,omitempty"`
	ErrorMessage string                     `json:"error_message,omitempty"`
}

// Resolve resolves the utility providers serving an address. A blank address
// yields a validation error without invoking the geocoder; a geocoding
// failure yields an external error. Both are semantic errors, not failures
// of the service itself.
func (s *ResolutionService) Resolve(ctx context.Context, rawAddress string) (*entities.ResolutionResult, error) {
	trimmed := strings.TrimSpace(rawAddress)
	if trimmed == "" {
		return nil, apperrors.NewValidationError(errMissingAddress)
	}

	key := cacheKey(trimmed)

	if outcome := s.cacheGet(ctx, key); outcome != nil {
		observability.RecordCacheHit(ctx, s.metrics)
		return outcome.replay()
	}
	observability.RecordCacheMiss(ctx, s.metrics)

	value, err, _ := s.group.Do(key, func() (any, error) {
		outcome := s.compute(ctx, trimmed)
		s.cacheSet(ctx, key, outcome)
		return outcome, nil
	})
	if err != nil {
		return nil, apperrors.NewInternalError("resolution failed", err)
	}

	return value.(*cachedOutcome).replay()
}

// compute performs the uncached resolution: geocode, extract, fan out.
func (s *ResolutionService) compute(ctx context.Context, trimmedAddress string) *cachedOutcome {
	logger := observability.LoggerFromContext(ctx)

	location, err := s.geocoder.Geocode(ctx, trimmedAddress)
	if err != nil || location == nil {
		logger.Warn().Err(err).Str("address", trimmedAddress).Msg("address did not geocode")
		return &cachedOutcome{
			ErrorKind:    geocodeFailedKind,
			ErrorMessage: errGeocodeFailed,
		}
	}

	components := address.Extract(location.DisplayName)
	logger.Debug().
		Str("city", components.City).
		Str("county", components.County).
		Str("zip", components.Zip).
		Msg("extracted administrative components")

	coords := location.Coordinates()
	request := providers.LookupRequest{
		Coordinates: &coords,
		Address:     trimmedAddress,
		City:        components.City,
		County:      components.County,
		Zip:         components.Zip,
	}

	// The four lookups are independent; run them concurrently and join
	// before aggregation. The clients never return errors, so the group
	// only coordinates completion.
	var set entities.ProviderSet
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	g.Go(func() error {
		set.Electric = s.electric.Lookup(gctx, request)
		return nil
	})
	g.Go(func() error {
		set.Water = s.water.Lookup(gctx, request)
		return nil
	})
	g.Go(func() error {
		set.Gas = s.gas.Lookup(gctx, request)
		return nil
	})
	g.Go(func() error {
		set.Trash = s.trash.Lookup(gctx, request)
		return nil
	})
	_ = g.Wait()

	return &cachedOutcome{
		Result: &entities.ResolutionResult{
			Address:   trimmedAddress,
			Location:  *location,
			Providers: set,
		},
	}
}

// replay converts a memoized outcome back into the Resolve return shape.
func (o *cachedOutcome) replay() (*entities.ResolutionResult, error) {
	if o.ErrorKind != "" {
		return nil, apperrors.NewExternalError(o.ErrorMessage, nil)
	}
	return o.Result, nil
}

func (s *ResolutionService) cacheGet(ctx context.Context, key string) *cachedOutcome {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil || len(data) == 0 {
		return nil
	}
	var outcome cachedOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("dropping undecodable cache entry")
		_ = s.cache.Delete(ctx, key)
		return nil
	}
	return &outcome
}

func (s *ResolutionService) cacheSet(ctx context.Context, key string, outcome *cachedOutcome) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(outcome)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, int(s.ttl.Seconds())); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to populate resolution cache")
	}
}

// cacheKey hashes the normalized address so arbitrary user input never leaks
// into cache key space.
func cacheKey(trimmedAddress string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(trimmedAddress)))
	return "providers:" + hex.EncodeToString(sum[:])
}
