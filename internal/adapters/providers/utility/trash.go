package utility

import (
	"context"
	"strings"

	"github.com/alinamichelle/utilify/internal/domain/entities"
	"github.com/alinamichelle/utilify/internal/domain/providers"
)

const (
	trashSource      = "City of Austin"
	trashScheduleURL = "https://www.austintexas.gov/services/view-your-recycling-composting-and-trash-schedule"
	trashBulkURL     = "https://www.austintexas.gov/ondemand"
)

// TrashClient is the static Austin Resource Recovery responder. ARR has
// universal municipal coverage, so this client always returns a populated
// provider with next actions and never touches the network. Its asymmetry
// with the spatial clients is intentional: confidence only drops to likely
// outside city limits, with an "unsure outside city limits" caveat.
type TrashClient struct{}

// NewTrashClient creates the static trash lookup client.
func NewTrashClient() *TrashClient {
	return &TrashClient{}
}

// Lookup always resolves Austin Resource Recovery. Confidence is confirmed
// for City of Austin addresses and likely everywhere else.
func (c *TrashClient) Lookup(_ context.Context, req providers.LookupRequest) entities.ProviderResult {
	isAustin := strings.EqualFold(req.City, "austin")

	statusText := "Outside City limits—confirm service"
	note := "This address may not be served by ARR; confirm locally."
	confidence := entities.ConfidenceLikely
	if isAustin {
		statusText = "City address"
		note = "Applies to City of Austin addresses."
		confidence = entities.ConfidenceConfirmed
	}

	return entities.ProviderResult{
		Provider:   entities.StringPtr("Austin Resource Recovery"),
		Source:     trashSource,
		Confidence: confidence,
		StatusText: entities.StringPtr(statusText),
		NextActions: []entities.NextAction{
			{
				Label: "Open My Schedule",
				URL:   entities.StringPtr(trashScheduleURL),
				Kind:  entities.ActionKindPrimary,
			},
			{
				Label: "Schedule Bulk/Brush or HHW",
				URL:   entities.StringPtr(trashBulkURL),
				Kind:  entities.ActionKindSecondary,
			},
		},
		Meta: map[string]any{
			"city":         req.City,
			"county":       req.County,
			"note":         note,
			"schedule_url": trashScheduleURL,
			"bulk_url":     trashBulkURL,
		},
	}
}

var _ providers.UtilityLookup = (*TrashClient)(nil)
