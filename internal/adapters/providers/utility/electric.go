package utility

import (
	"context"
	"net/http"

	"github.com/alinamichelle/utilify/internal/domain/entities"
	"github.com/alinamichelle/utilify/internal/domain/providers"
	"github.com/alinamichelle/utilify/internal/infrastructure/observability"
	"github.com/alinamichelle/utilify/pkg/retry"
)

const (
	austinEnergyLayerURL = "https://services.arcgis.com/0L95CJ0VTaxqcmED/ArcGIS/rest/services/UTILITIESCOMMUNICATION_austin_energy_service_area/FeatureServer/0/query"
	electricSource       = "ArcGIS FeatureServer"
)

// ElectricClient resolves the electric provider with a single point
// intersection query against the Austin Energy service area layer. The
// provider name is fixed by the data source identity, not read from the
// feature.
type ElectricClient struct {
	arcgis   *arcgisClient
	layerURL string
}

// NewElectricClient creates the Austin Energy lookup client.
func NewElectricClient(metrics *observability.Metrics) *ElectricClient {
	return NewElectricClientWithOptions(austinEnergyLayerURL, nil, retry.DefaultConfig(), metrics)
}

// NewElectricClientWithOptions allows overriding the layer URL, HTTP client,
// and retry policy (used for tests).
func NewElectricClientWithOptions(layerURL string, httpClient *http.Client, retryCfg retry.Config, metrics *observability.Metrics) *ElectricClient {
	if layerURL == "" {
		layerURL = austinEnergyLayerURL
	}
	return &ElectricClient{
		arcgis:   newArcgisClient(httpClient, retryCfg, metrics),
		layerURL: layerURL,
	}
}

// Lookup resolves the electric provider for the request coordinates.
func (c *ElectricClient) Lookup(ctx context.Context, req providers.LookupRequest) entities.ProviderResult {
	if req.Coordinates == nil {
		return entities.UnknownProviderResult(electricSource)
	}

	attributes, err := c.arcgis.queryPoint(ctx, c.layerURL, "austin_energy", *req.Coordinates)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("electric lookup degraded")
		return entities.UnknownProviderResultWithError(electricSource, lookupErrorText(err))
	}
	if attributes == nil {
		return entities.UnknownProviderResult(electricSource)
	}

	return entities.ProviderResult{
		Provider:   entities.StringPtr("Austin Energy"),
		Source:     electricSource,
		Confidence: entities.ConfidenceConfirmed,
		StatusText: entities.StringPtr("Inside Austin Energy service area"),
		NextActions: []entities.NextAction{
			{
				Label: "Start / Transfer Service",
				URL:   entities.StringPtr("https://www.austinenergy.com/"),
				Kind:  entities.ActionKindPrimary,
			},
			{
				Label: "Outage Map",
				URL:   entities.StringPtr("https://outagemap.austinenergy.com/"),
				Kind:  entities.ActionKindSecondary,
			},
			{
				Label: "Contact Support",
				URL:   entities.StringPtr("https://www.austinenergy.com/ae/contact-us"),
				Kind:  entities.ActionKindSecondary,
			},
		},
		Meta: attributes,
	}
}

var _ providers.UtilityLookup = (*ElectricClient)(nil)
