package entities

// ProviderSet is the fixed-shape aggregation of the four utility lookups.
// The shape never varies: every resolution carries all four keys, possibly
// with unknown results.
type ProviderSet struct {
	Electric ProviderResult `json:"electric"`
	Water    ProviderResult `json:"water"`
	Gas      ProviderResult `json:"gas"`
	Trash    ProviderResult `json:"trash"`
}

// ResolutionResult is the successful outcome of resolving an address.
type ResolutionResult struct {
	Address   string      `json:"address"`
	Location  Location    `json:"location"`
	Providers ProviderSet `json:"providers"`
}
