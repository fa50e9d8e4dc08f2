// pkg/core/place.go
package core

// LatLng is a WGS84 coordinate pair in degrees
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a labeled point on a map
type Place struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// NewPlace builds a Place from its fields
func NewPlace(title, description string, latitude, longitude float64) Place {
	return Place{
		Title:       title,
		Description: description,
		Latitude:    latitude,
		Longitude:   longitude,
	}
}

// LatLng returns the coordinates of the place
func (p Place) LatLng() LatLng {
	return LatLng{Lat: p.Latitude, Lng: p.Longitude}
}

// Valid reports whether the coordinates are within WGS84 degree ranges.
// Nothing in the engine requires this; it is only used to warn on input.
func (p Place) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}
