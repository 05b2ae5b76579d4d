package utility

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alinamichelle/utilify/internal/domain/entities"
	"github.com/alinamichelle/utilify/internal/domain/providers"
)

func TestTrashLookup_CityAddress(t *testing.T) {
	client := NewTrashClient()

	result := client.Lookup(context.Background(), austinRequest())

	require.NotNil(t, result.Provider)
	assert.Equal(t, "Austin Resource Recovery", *result.Provider)
	assert.Equal(t, entities.ConfidenceConfirmed, result.Confidence)
	require.NotNil(t, result.StatusText)
	assert.Equal(t, "City address", *result.StatusText)
	assert.Equal(t, "Applies to City of Austin addresses.", result.Meta["note"])
	require.Len(t, result.NextActions, 2)
	assert.Equal(t, "Open My Schedule", result.NextActions[0].Label)
	assert.Equal(t, entities.ActionKindPrimary, result.NextActions[0].Kind)
}

func TestTrashLookup_CityMatchIsCaseInsensitive(t *testing.T) {
	client := NewTrashClient()

	result := client.Lookup(context.Background(), providers.LookupRequest{City: "AUSTIN"})

	assert.Equal(t, entities.ConfidenceConfirmed, result.Confidence)
}

func TestTrashLookup_OutsideCityLimits(t *testing.T) {
	client := NewTrashClient()

	result := client.Lookup(context.Background(), providers.LookupRequest{
		City:   "Round Rock",
		County: "Williamson",
	})

	require.NotNil(t, result.Provider)
	assert.Equal(t, "Austin Resource Recovery", *result.Provider)
	assert.Equal(t, entities.ConfidenceLikely, result.Confidence)
	require.NotNil(t, result.StatusText)
	assert.Equal(t, "Outside City limits—confirm service", *result.StatusText)
	assert.Equal(t, "This address may not be served by ARR; confirm locally.", result.Meta["note"])
	assert.Equal(t, "Round Rock", result.Meta["city"])
	assert.Equal(t, "Williamson", result.Meta["county"])
}

func TestTrashLookup_NeverTouchesCoordinates(t *testing.T) {
	client := NewTrashClient()

	result := client.Lookup(context.Background(), providers.LookupRequest{})

	require.NotNil(t, result.Provider)
	assert.Equal(t, entities.ConfidenceLikely, result.Confidence)
}
