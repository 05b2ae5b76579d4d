package entities

// Coordinates represents a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is the geocoded result for an address. It is produced once per
// resolution and never mutated afterwards.
type Location struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"display_name"`
}

// Coordinates returns the point portion of the location.
func (l Location) Coordinates() Coordinates {
	return Coordinates{Lat: l.Lat, Lng: l.Lng}
}
