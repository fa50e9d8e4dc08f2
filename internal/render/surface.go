// Package render places a UserMap on a render surface: one animated marker
// per place and a single camera fit over all of them.
package render

import (
	"github.com/mymaps/mymaps/internal/animation"
	"github.com/mymaps/mymaps/internal/geo"
	"github.com/mymaps/mymaps/pkg/core"
)

// MarkerOptions describes a marker to add
type MarkerOptions struct {
	Position core.LatLng
	Title    string
	Snippet  string
}

// Marker is a handle on a marker owned by the surface
type Marker interface {
	animation.Target
}

// CameraUpdate asks the surface to animate its camera onto Region.
// PaddingX and PaddingY are in logical units.
type CameraUpdate struct {
	Region   geo.Region
	PaddingX int
	PaddingY int
	Tilt     float64
}

// Surface is the map widget the orchestrator draws on
type Surface interface {
	AddMarker(opts MarkerOptions) (Marker, error)
	AnimateCameraToFit(update CameraUpdate) error
	ShowDefaultView() error
}
