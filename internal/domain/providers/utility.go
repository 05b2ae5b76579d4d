package providers

import (
	"context"

	"github.com/alinamichelle/utilify/internal/domain/entities"
)

// LookupRequest carries everything a utility lookup may need. Coordinates are
// required for the spatial clients; the administrative fields are optional
// context used by the override and static strategies.
type LookupRequest struct {
	Coordinates *entities.Coordinates
	Address     string
	City        string
	County      string
	Zip         string
}

// UtilityLookup resolves one utility category for a request. Implementations
// never return an error: every failure path degrades to an unknown
// ProviderResult carrying diagnostic text in meta.error.
type UtilityLookup interface {
	Lookup(ctx context.Context, req LookupRequest) entities.ProviderResult
}
