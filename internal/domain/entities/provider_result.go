package entities

// Confidence is the declared certainty tier of a provider match.
type Confidence string

const (
	// ConfidenceConfirmed is a direct authoritative spatial hit.
	ConfidenceConfirmed Confidence = "confirmed"

	// ConfidenceLikely is a secondary, derived, or overridden match.
	ConfidenceLikely Confidence = "likely"

	// ConfidenceUnknown means no usable match was found.
	ConfidenceUnknown Confidence = "unknown"
)

// ActionKind distinguishes primary from secondary next actions.
type ActionKind string

const (
	ActionKindPrimary   ActionKind = "primary"
	ActionKindSecondary ActionKind = "secondary"
)

// NextAction is a user-facing follow-up for a provider match. A nil URL means
// the action exists but the link is not yet known; renderers show it disabled
// rather than omitting it.
type NextAction struct {
	Label string     `json:"label"`
	URL   *string    `json:"url"`
	Kind  ActionKind `json:"kind"`
}

// ProviderResult is the outcome of one provider lookup. A nil Provider implies
// ConfidenceUnknown and no next actions; the static trash responder is the
// deliberate exception and always carries a provider and actions.
type ProviderResult struct {
	Provider    *string        `json:"provider"`
	Source      string         `json:"source"`
	Confidence  Confidence     `json:"confidence"`
	StatusText  *string        `json:"status_text"`
	NextActions []NextAction   `json:"next_actions"`
	Meta        map[string]any `json:"meta"`
}

// UnknownProviderResult builds the degraded result for a source that produced
// no usable match.
func UnknownProviderResult(source string) ProviderResult {
	return ProviderResult{
		Provider:    nil,
		Source:      source,
		Confidence:  ConfidenceUnknown,
		StatusText:  nil,
		NextActions: []NextAction{},
		Meta:        map[string]any{},
	}
}

// UnknownProviderResultWithError builds a degraded result carrying diagnostic
// text in meta.error.
func UnknownProviderResultWithError(source, errText string) ProviderResult {
	result := UnknownProviderResult(source)
	result.Meta["error"] = errText
	return result
}

// StringPtr returns a pointer to s. Handy for optional JSON fields.
func StringPtr(s string) *string {
	return &s
}
