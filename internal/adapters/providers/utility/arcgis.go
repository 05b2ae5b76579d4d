// Package utility contains the per-utility provider lookup clients. The
// electric, water, and gas clients share one ArcGIS point-intersection query
// convention; trash is a static responder. None of them ever return an error:
// every failure path degrades to an unknown ProviderResult with diagnostic
// text in meta.error.
package utility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/alinamichelle/utilify/internal/domain/entities"
	"github.com/alinamichelle/utilify/internal/infrastructure/observability"
	"github.com/alinamichelle/utilify/pkg/retry"
)

const defaultHTTPTimeout = 5 * time.Second

// unexpectedStatusError marks a terminal non-2xx response from a feature
// service. It is never retried.
type unexpectedStatusError struct {
	code int
}

func (e *unexpectedStatusError) Error() string {
	return fmt.Sprintf("Unexpected response: %d", e.code)
}

// arcgisClient issues point-in-polygon intersection queries against esri
// feature layers, with the shared transient/terminal retry policy.
type arcgisClient struct {
	httpClient *http.Client
	retryCfg   retry.Config
	metrics    *observability.Metrics
}

func newArcgisClient(httpClient *http.Client, retryCfg retry.Config, metrics *observability.Metrics) *arcgisClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &arcgisClient{
		httpClient: httpClient,
		retryCfg:   retryCfg,
		metrics:    metrics,
	}
}

type pointGeometry struct {
	X                float64          `json:"x"`
	Y                float64          `json:"y"`
	SpatialReference spatialReference `json:"spatialReference"`
}

type spatialReference struct {
	WKID int `json:"wkid"`
}

type featureResponse struct {
	Features []struct {
		Attributes map[string]any `json:"attributes"`
	} `json:"features"`
}

// queryPoint runs a point intersection query against layerURL and returns the
// first matching feature's attributes, or nil when no polygon contains the
// point. Transient upstream conditions (429, 5xx, timeouts) are retried with
// exponential backoff; any other failure is terminal.
func (c *arcgisClient) queryPoint(ctx context.Context, layerURL, upstream string, coords entities.Coordinates) (map[string]any, error) {
	geometry, err := json.Marshal(pointGeometry{
		X:                coords.Lng,
		Y:                coords.Lat,
		SpatialReference: spatialReference{WKID: 4326},
	})
	if err != nil {
		return nil, fmt.Errorf("encode geometry: %w", err)
	}

	params := url.Values{
		"f":              {"json"},
		"geometry":       {string(geometry)},
		"geometryType":   {"esriGeometryPoint"},
		"inSR":           {"4326"},
		"spatialRel":     {"esriSpatialRelIntersects"},
		"returnGeometry": {"false"},
		"outFields":      {"*"},
	}

	var attributes map[string]any
	err = retry.Do(ctx, c.retryCfg, func() error {
		attrs, queryErr := c.doQuery(ctx, layerURL, upstream, params)
		if queryErr != nil {
			return queryErr
		}
		attributes = attrs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attributes, nil
}

func (c *arcgisClient) doQuery(ctx context.Context, layerURL, upstream string, params url.Values) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, layerURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	observability.RecordUpstreamMetric(ctx, c.metrics, upstream, time.Since(start))
	if err != nil {
		if isTimeout(err) {
			return nil, retry.Transient(fmt.Errorf("feature query timed out: %w", err))
		}
		return nil, fmt.Errorf("feature query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, retry.Transient(fmt.Errorf("feature service returned status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &unexpectedStatusError{code: resp.StatusCode}
	}

	var payload featureResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode feature response: %w", err)
	}
	if len(payload.Features) == 0 {
		return nil, nil
	}

	attributes := payload.Features[0].Attributes
	if attributes == nil {
		attributes = map[string]any{}
	}
	return attributes, nil
}

// lookupErrorText renders a queryPoint failure for meta.error, matching the
// diagnostics the rest of the system expects.
func lookupErrorText(err error) string {
	var statusErr *unexpectedStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	if retry.IsTransient(err) {
		return "Service unavailable: " + err.Error()
	}
	return err.Error()
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// firstStringAttribute probes keys in order and returns the first non-empty
// string value.
func firstStringAttribute(attributes map[string]any, keys ...string) string {
	for _, key := range keys {
		if raw, ok := attributes[key]; ok {
			if s, ok := raw.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
