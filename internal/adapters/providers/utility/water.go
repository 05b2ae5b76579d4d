package utility

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alinamichelle/utilify/internal/domain/entities"
	"github.com/alinamichelle/utilify/internal/domain/providers"
	"github.com/alinamichelle/utilify/internal/infrastructure/observability"
	"github.com/alinamichelle/utilify/pkg/retry"
)

const (
	austinWaterBaseURL = "https://maps.austintexas.gov/gis/rest/PropertyProfile/AustinWater/MapServer"
	waterSource        = "AustinWater MapServer"

	// Layer 3 is the Austin Water service area; layer 0 is the municipal
	// utility districts fallback.
	serviceAreaLayer = 3
	mudsLayer        = 0
)

// WaterClient resolves the water provider with a two-layer fallback: the
// Austin Water service area first, then the MUD special districts. A retry
// exhaustion on one layer does not prevent trying the next.
type WaterClient struct {
	arcgis  *arcgisClient
	baseURL string
}

// NewWaterClient creates the Austin Water lookup client.
func NewWaterClient(metrics *observability.Metrics) *WaterClient {
	return NewWaterClientWithOptions(austinWaterBaseURL, nil, retry.DefaultConfig(), metrics)
}

// NewWaterClientWithOptions allows overriding the map server URL, HTTP
// client, and retry policy (used for tests).
func NewWaterClientWithOptions(baseURL string, httpClient *http.Client, retryCfg retry.Config, metrics *observability.Metrics) *WaterClient {
	if baseURL == "" {
		baseURL = austinWaterBaseURL
	}
	return &WaterClient{
		arcgis:  newArcgisClient(httpClient, retryCfg, metrics),
		baseURL: baseURL,
	}
}

// Lookup resolves the water provider for the request coordinates.
func (c *WaterClient) Lookup(ctx context.Context, req providers.LookupRequest) entities.ProviderResult {
	if req.Coordinates == nil {
		return entities.UnknownProviderResult(waterSource)
	}

	if attributes := c.queryLayer(ctx, serviceAreaLayer, *req.Coordinates); attributes != nil {
		return entities.ProviderResult{
			Provider:   entities.StringPtr("Austin Water"),
			Source:     waterSource,
			Confidence: entities.ConfidenceConfirmed,
			StatusText: entities.StringPtr("Inside Austin Water service area"),
			NextActions: []entities.NextAction{
				{
					Label: "Start / Stop / Transfer",
					URL:   entities.StringPtr("https://www.austintexas.gov/department/austin-water"),
					Kind:  entities.ActionKindPrimary,
				},
				{
					Label: "Report Water Issue",
					URL:   entities.StringPtr("https://www.austintexas.gov/department/austin-water"),
					Kind:  entities.ActionKindSecondary,
				},
			},
			Meta: attributes,
		}
	}

	if attributes := c.queryLayer(ctx, mudsLayer, *req.Coordinates); attributes != nil {
		mudName := firstStringAttribute(attributes, "NAME", "Utility_Name", "UTILITY", "COMPANY", "PROVIDER")
		if mudName == "" {
			mudName = "Unknown MUD"
		}

		return entities.ProviderResult{
			Provider:   entities.StringPtr("MUD: " + mudName),
			Source:     waterSource,
			Confidence: entities.ConfidenceLikely,
			StatusText: entities.StringPtr("Municipal Utility District service area"),
			NextActions: []entities.NextAction{
				{
					// No MUD office URLs in the source data yet.
					Label: "Contact MUD Office",
					URL:   nil,
					Kind:  entities.ActionKindSecondary,
				},
			},
			Meta: attributes,
		}
	}

	return entities.UnknownProviderResult(waterSource)
}

// queryLayer queries one map server layer and returns the matching feature's
// attributes, or nil on a miss or any failure. Failures are logged and
// swallowed so the next layer still gets a chance.
func (c *WaterClient) queryLayer(ctx context.Context, layerID int, coords entities.Coordinates) map[string]any {
	layerURL := fmt.Sprintf("%s/%d/query", c.baseURL, layerID)
	upstream := fmt.Sprintf("austin_water_layer_%d", layerID)

	attributes, err := c.arcgis.queryPoint(ctx, layerURL, upstream, coords)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Int("layer", layerID).
			Msg("water layer lookup failed")
		return nil
	}
	return attributes
}

var _ providers.UtilityLookup = (*WaterClient)(nil)
