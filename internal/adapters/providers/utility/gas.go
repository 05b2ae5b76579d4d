package utility

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/alinamichelle/utilify/internal/domain/entities"
	"github.com/alinamichelle/utilify/internal/domain/providers"
	"github.com/alinamichelle/utilify/internal/infrastructure/observability"
	"github.com/alinamichelle/utilify/pkg/overrides"
	"github.com/alinamichelle/utilify/pkg/retry"
)

const (
	hifldLayerURL     = "https://maps.nccs.nasa.gov/mapping/rest/services/hifld_open/energy/MapServer/29/query"
	gasSource         = "HIFLD LDC Territories"
	gasOverrideSource = "Local Override"

	overrideStatusText = "Local override for this area; confirm on provider site"
)

// providerURLPattern maps normalized provider-name substrings to known public
// URLs for action building.
type providerURLPattern struct {
	pattern *regexp.Regexp
	url     string
}

var gasProviderURLs = []providerURLPattern{
	{regexp.MustCompile(`(?i)texas gas service`), "https://www.texasgasservice.com/"},
	{regexp.MustCompile(`(?i)centerpoint`), "https://www.centerpointenergy.com/"},
	{regexp.MustCompile(`(?i)atmos energy`), "https://www.atmosenergy.com/"},
	{regexp.MustCompile(`(?i)coserv gas`), "https://www.coserv.com/"},
}

var corporateSuffixRe = regexp.MustCompile(`(?i)\s+(LLC|INC|CORP|CORPORATION|CO\.?|COMPANY)$`)

// GasClient resolves the gas local distribution company from the HIFLD open
// dataset, with a locally configured override table taking precedence. The
// override table is immutable after load and shared across resolutions.
type GasClient struct {
	arcgis    *arcgisClient
	layerURL  string
	overrides overrides.Lookup
}

// NewGasClient creates the HIFLD gas LDC lookup client.
func NewGasClient(table overrides.Lookup, metrics *observability.Metrics) *GasClient {
	return NewGasClientWithOptions(table, hifldLayerURL, nil, retry.DefaultConfig(), metrics)
}

// NewGasClientWithOptions allows overriding the layer URL, HTTP client, and
// retry policy (used for tests).
func NewGasClientWithOptions(table overrides.Lookup, layerURL string, httpClient *http.Client, retryCfg retry.Config, metrics *observability.Metrics) *GasClient {
	if layerURL == "" {
		layerURL = hifldLayerURL
	}
	return &GasClient{
		arcgis:    newArcgisClient(httpClient, retryCfg, metrics),
		layerURL:  layerURL,
		overrides: table,
	}
}

// Lookup resolves the gas provider. Resolution order: a dataset feature with
// a disagreeing override loses to the override; a dataset feature alone wins;
// an override alone wins with the override source tag; otherwise unknown.
// On retry exhaustion the override path is still consulted so a degraded but
// useful result survives upstream outages.
func (c *GasClient) Lookup(ctx context.Context, req providers.LookupRequest) entities.ProviderResult {
	if req.Coordinates == nil {
		return entities.UnknownProviderResult(gasSource)
	}

	override := c.overrides.Find(req.County, req.Zip)

	attributes, err := c.arcgis.queryPoint(ctx, c.layerURL, "hifld_gas_ldc", *req.Coordinates)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("gas lookup degraded")
		errText := lookupErrorText(err)
		if override != "" {
			result := c.overrideResult(override)
			result.Meta["error"] = errText
			return result
		}
		return entities.UnknownProviderResultWithError(gasSource, errText)
	}

	if attributes != nil {
		rawName := rawGasProviderName(attributes)
		hifldName := stripCorporateSuffix(rawName)

		if override != "" && override != hifldName {
			meta := cloneMeta(attributes)
			// The untouched dataset name, for auditing the disagreement.
			meta["hifld_name"] = rawName
			meta["override_applied"] = true
			return entities.ProviderResult{
				Provider:    entities.StringPtr(override),
				Source:      gasSource,
				Confidence:  entities.ConfidenceLikely,
				StatusText:  entities.StringPtr(overrideStatusText),
				NextActions: buildGasActions(mapGasProviderURL(override)),
				Meta:        meta,
			}
		}

		if hifldName != "" {
			return entities.ProviderResult{
				Provider:    entities.StringPtr(hifldName),
				Source:      gasSource,
				Confidence:  entities.ConfidenceLikely,
				StatusText:  entities.StringPtr("Territory match from HIFLD"),
				NextActions: buildGasActions(mapGasProviderURL(hifldName)),
				Meta:        attributes,
			}
		}

		return entities.UnknownProviderResult(gasSource)
	}

	if override != "" {
		return c.overrideResult(override)
	}

	return entities.UnknownProviderResult(gasSource)
}

// overrideResult builds the result for an override match with no usable
// dataset feature.
func (c *GasClient) overrideResult(provider string) entities.ProviderResult {
	return entities.ProviderResult{
		Provider:    entities.StringPtr(provider),
		Source:      gasOverrideSource,
		Confidence:  entities.ConfidenceLikely,
		StatusText:  entities.StringPtr(overrideStatusText),
		NextActions: buildGasActions(mapGasProviderURL(provider)),
		Meta:        map[string]any{"override_applied": true},
	}
}

// rawGasProviderName probes the HIFLD attribute fields in preference order.
func rawGasProviderName(attributes map[string]any) string {
	return strings.TrimSpace(firstStringAttribute(attributes, "NAME", "name", "COMPANY", "company", "UTILITY", "utility"))
}

// stripCorporateSuffix removes a trailing corporate designation for display
// and override comparison.
func stripCorporateSuffix(name string) string {
	if name == "" {
		return ""
	}
	return corporateSuffixRe.ReplaceAllString(name, "")
}

func mapGasProviderURL(provider string) string {
	if provider == "" {
		return ""
	}
	for _, entry := range gasProviderURLs {
		if entry.pattern.MatchString(provider) {
			return entry.url
		}
	}
	return ""
}

// buildGasActions returns the fixed action pair; a missing provider URL
// yields nil links rendered as disabled rather than dropped.
func buildGasActions(providerURL string) []entities.NextAction {
	if providerURL != "" {
		return []entities.NextAction{
			{
				Label: "Start / Transfer Service",
				URL:   entities.StringPtr(providerURL),
				Kind:  entities.ActionKindPrimary,
			},
			{
				Label: "Emergency: Smell Gas? Call 911 and Utility",
				URL:   entities.StringPtr(providerURL),
				Kind:  entities.ActionKindSecondary,
			},
		}
	}
	return []entities.NextAction{
		{
			Label: "Start / Transfer Service",
			URL:   nil,
			Kind:  entities.ActionKindPrimary,
		},
		{
			Label: "Emergency: Smell Gas? Call 911",
			URL:   nil,
			Kind:  entities.ActionKindSecondary,
		},
	}
}

func cloneMeta(attributes map[string]any) map[string]any {
	meta := make(map[string]any, len(attributes)+2)
	for key, value := range attributes {
		meta[key] = value
	}
	return meta
}

var _ providers.UtilityLookup = (*GasClient)(nil)
