package providers

import (
	"context"

	"github.com/alinamichelle/utilify/internal/domain/entities"
)

// Geocoder turns a free-text address into coordinates and a normalized
// display name. Implementations fail closed: a nil Location with a nil error
// means the address was terminally unresolvable, while a non-nil error means
// the upstream was unavailable after retries. Callers treat both the same.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*entities.Location, error)
}
