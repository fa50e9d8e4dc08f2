package geo

import (
	"errors"
	"fmt"

	"github.com/mymaps/mymaps/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrEmptyRegion is returned when a region is requested over zero points
var ErrEmptyRegion = errors.New("cannot compute region of zero points")

// Region is an axis aligned lat/lng rectangle.
// Longitudes are not normalized, so sets that cross the antimeridian
// produce a box spanning the long way round.
type Region struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Bounds returns the smallest Region containing every point.
// The result does not depend on the order of points.
func Bounds(points []core.LatLng) (Region, error) {
	if len(points) == 0 {
		return Region{}, ErrEmptyRegion
	}

	// X is longitude, Y is latitude
	var (
		env geom.Envelope
		err error
	)
	for i, p := range points {
		if env, err = env.ExtendToIncludeXY(geom.XY{X: p.Lng, Y: p.Lat}); err != nil {
			return Region{}, fmt.Errorf("point %d: %w", i, err)
		}
	}

	lo, hi, ok := env.MinMaxXYs()
	if !ok {
		return Region{}, ErrEmptyRegion
	}

	return Region{
		South: lo.Y,
		West:  lo.X,
		North: hi.Y,
		East:  hi.X,
	}, nil
}

// Contains reports whether p lies inside the region, edges included
func (r Region) Contains(p core.LatLng) bool {
	return p.Lat >= r.South && p.Lat <= r.North &&
		p.Lng >= r.West && p.Lng <= r.East
}

// Center returns the midpoint of the region in degrees
func (r Region) Center() core.LatLng {
	return core.LatLng{
		Lat: (r.South + r.North) / 2,
		Lng: (r.West + r.East) / 2,
	}
}
