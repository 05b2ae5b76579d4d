package utility

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alinamichelle/utilify/internal/domain/entities"
)

// newWaterTestServer serves layer 3 and layer 0 query endpoints with the
// provided handlers.
func newWaterTestServer(serviceArea, muds http.HandlerFunc) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/3/query", serviceArea)
	mux.HandleFunc("/0/query", muds)
	return httptest.NewServer(mux)
}

func respondFeature(attributes string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(featureBody(attributes)))
	}
}

func respondEmpty() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(emptyFeatureBody))
	}
}

func TestWaterLookup_InsideAustinWater(t *testing.T) {
	var mudsCalled atomic.Bool
	server := newWaterTestServer(
		respondFeature(`{"OBJECTID":1}`),
		func(w http.ResponseWriter, r *http.Request) { mudsCalled.Store(true) },
	)
	defer server.Close()

	client := NewWaterClientWithOptions(server.URL, nil, testRetryConfig(), nil)

	result := client.Lookup(context.Background(), austinRequest())

	require.NotNil(t, result.Provider)
	assert.Equal(t, "Austin Water", *result.Provider)
	assert.Equal(t, entities.ConfidenceConfirmed, result.Confidence)
	require.NotNil(t, result.StatusText)
	assert.Equal(t, "Inside Austin Water service area", *result.StatusText)
	require.Len(t, result.NextActions, 2)
	// Service area hit short-circuits the MUD fallback.
	assert.False(t, mudsCalled.Load())
}

func TestWaterLookup_FallsBackToMUD(t *testing.T) {
	server := newWaterTestServer(
		respondEmpty(),
		respondFeature(`{"NAME":"Shady Hollow MUD"}`),
	)
	defer server.Close()

	client := NewWaterClientWithOptions(server.URL, nil, testRetryConfig(), nil)

	result := client.Lookup(context.Background(), austinRequest())

	require.NotNil(t, result.Provider)
	assert.Equal(t, "MUD: Shady Hollow MUD", *result.Provider)
	assert.Equal(t, entities.ConfidenceLikely, result.Confidence)
	require.NotNil(t, result.StatusText)
	assert.Equal(t, "Municipal Utility District service area", *result.StatusText)
	require.Len(t, result.NextActions, 1)
	assert.Equal(t, "Contact MUD Office", result.NextActions[0].Label)
	assert.Nil(t, result.NextActions[0].URL)
}

func TestWaterLookup_MUDNameProbesAlternateFields(t *testing.T) {
	server := newWaterTestServer(
		respondEmpty(),
		respondFeature(`{"NAME":"","Utility_Name":"Wells Branch MUD"}`),
	)
	defer server.Close()

	client := NewWaterClientWithOptions(server.URL, nil, testRetryConfig(), nil)

	result := client.Lookup(context.Background(), austinRequest())

	require.NotNil(t, result.Provider)
	assert.Equal(t, "MUD: Wells Branch MUD", *result.Provider)
}

func TestWaterLookup_UnnamedMUD(t *testing.T) {
	server := newWaterTestServer(
		respondEmpty(),
		respondFeature(`{"OBJECTID":5}`),
	)
	defer server.Close()

	client := NewWaterClientWithOptions(server.URL, nil, testRetryConfig(), nil)

	result := client.Lookup(context.Background(), austinRequest())

	require.NotNil(t, result.Provider)
	assert.Equal(t, "MUD: Unknown MUD", *result.Provider)
}

func TestWaterLookup_NoMatchOnEitherLayer(t *testing.T) {
	server := newWaterTestServer(respondEmpty(), respondEmpty())
	defer server.Close()

	client := NewWaterClientWithOptions(server.URL, nil, testRetryConfig(), nil)

	result := client.Lookup(context.Background(), austinRequest())

	assert.Nil(t, result.Provider)
	assert.Equal(t, entities.ConfidenceUnknown, result.Confidence)
}

func TestWaterLookup_ServiceAreaFailureStillTriesMUDs(t *testing.T) {
	var serviceAreaCalls atomic.Int32
	server := newWaterTestServer(
		func(w http.ResponseWriter, r *http.Request) {
			serviceAreaCalls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		},
		respondFeature(`{"NAME":"River Place MUD"}`),
	)
	defer server.Close()

	client := NewWaterClientWithOptions(server.URL, nil, testRetryConfig(), nil)

	result := client.Lookup(context.Background(), austinRequest())

	require.NotNil(t, result.Provider)
	assert.Equal(t, "MUD: River Place MUD", *result.Provider)
	// The first layer exhausted its retry budget before the fallback ran.
	assert.Equal(t, int32(3), serviceAreaCalls.Load())
}
