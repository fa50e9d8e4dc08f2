package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/mymaps/mymaps/pkg/core"
)

var (
	// ErrInvalidCoordinates is returned when the coordinates are invalid
	ErrInvalidCoordinates = errors.New("invalid coordinates provided")
	// ErrInvalidPlace is returned when a place spec does not have three fields
	ErrInvalidPlace = errors.New("place must be title|description|lat,lng")
)

// LatLngFromString parses a string in the format "lat,lng".
// Surrounding whitespace around either component is ignored. NaN and
// infinities are rejected.
func LatLngFromString(coords string) (core.LatLng, error) {
	parts := strings.Split(coords, ",")
	if len(parts) != 2 {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	if !finite(lat) || !finite(lng) {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	return core.LatLng{Lat: lat, Lng: lng}, nil
}

// PlaceFromString parses "title|description|lat,lng" into a Place.
// The description may be empty.
func PlaceFromString(spec string) (core.Place, error) {
	parts := strings.Split(spec, "|")
	if len(parts) != 3 {
		return core.Place{}, ErrInvalidPlace
	}
	ll, err := LatLngFromString(parts[2])
	if err != nil {
		return core.Place{}, err
	}
	return core.NewPlace(parts[0], parts[1], ll.Lat, ll.Lng), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
