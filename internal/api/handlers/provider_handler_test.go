package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alinamichelle/utilify/internal/application/services"
	"github.com/alinamichelle/utilify/internal/domain/entities"
	"github.com/alinamichelle/utilify/internal/domain/providers"
)

// fixedGeocoder resolves every address to the same location, or to nothing.
type fixedGeocoder struct {
	location *entities.Location
}

func (g *fixedGeocoder) Geocode(context.Context, string) (*entities.Location, error) {
	return g.location, nil
}

type fixedLookup struct {
	result entities.ProviderResult
}

func (l *fixedLookup) Lookup(context.Context, providers.LookupRequest) entities.ProviderResult {
	return l.result
}

func newTestHandler(geocoder providers.Geocoder) *ProviderHandler {
	confirmed := func(name string) *fixedLookup {
		return &fixedLookup{result: entities.ProviderResult{
			Provider:   entities.StringPtr(name),
			Source:     "test fixture",
			Confidence: entities.ConfidenceConfirmed,
		}}
	}

	resolution := services.NewResolutionService(
		geocoder,
		confirmed("Austin Energy"),
		confirmed("Austin Water"),
		confirmed("Texas Gas Service"),
		confirmed("Austin Resource Recovery"),
		nil,
		15*time.Minute,
		nil,
	)
	return NewProviderHandler(resolution)
}

func performResolve(handler *ProviderHandler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	recorder := httptest.NewRecorder()
	handler.Resolve(recorder, req)
	return recorder
}

func TestResolve_ReturnsFullProviderSet(t *testing.T) {
	handler := newTestHandler(&fixedGeocoder{location: &entities.Location{
		Lat:         30.2655,
		Lng:         -97.7468,
		DisplayName: "301 West 2nd Street, Austin, Travis County, Texas, 78701, USA",
	}})

	recorder := performResolve(handler, "/api/v1/providers?address=301+West+2nd+Street%2C+Austin%2C+TX")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var body struct {
		Address  string `json:"address"`
		Location struct {
			Lat         float64 `json:"lat"`
			Lng         float64 `json:"lng"`
			DisplayName string  `json:"display_name"`
		} `json:"location"`
		Providers map[string]json.RawMessage `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	assert.Equal(t, "301 West 2nd Street, Austin, TX", body.Address)
	assert.InDelta(t, 30.2655, body.Location.Lat, 0.0001)

	// The aggregation shape is fixed: all four utilities, always.
	for _, key := range []string{"electric", "water", "gas", "trash"} {
		assert.Contains(t, body.Providers, key)
	}
}

func TestResolve_MissingAddress(t *testing.T) {
	handler := newTestHandler(&fixedGeocoder{})

	for _, target := range []string{"/api/v1/providers", "/api/v1/providers?address=", "/api/v1/providers?address=++"} {
		recorder := performResolve(handler, target)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "Address is required", body["error"])
	}
}

func TestResolve_GeocodeFailure(t *testing.T) {
	handler := newTestHandler(&fixedGeocoder{location: nil})

	recorder := performResolve(handler, "/api/v1/providers?address=nowhere+at+all")

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Unable to geocode address", body["error"])
}
