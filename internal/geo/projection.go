package geo

import (
	"math"

	"github.com/mymaps/mymaps/pkg/core"
	"github.com/wroge/wgs84"
)

// Web mercator constants
const (
	tileSize       = 256.0
	mercatorExtent = 20037508.342789244
	MaxZoom        = 21.0
)

// Envelope3857 is a region projected to EPSG:3857 meters
type Envelope3857 struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Camera is the position a render surface settles on after a fit
type Camera struct {
	Target core.LatLng
	Zoom   float64
}

// Project converts a region from EPSG:4326 to EPSG:3857
func Project(r Region) Envelope3857 {
	f := wgs84.EPSG().Transform(4326, 3857)
	minX, minY, _ := f(r.West, r.South, 0)
	maxX, maxY, _ := f(r.East, r.North, 0)
	return Envelope3857{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Unproject converts an EPSG:3857 point back to degrees
func Unproject(x, y float64) core.LatLng {
	f := wgs84.EPSG().Transform(3857, 4326)
	lng, lat, _ := f(x, y, 0)
	return core.LatLng{Lat: lat, Lng: lng}
}

// FitCamera returns the camera that frames r inside a width x height box of
// logical pixels. Degenerate regions (one point) get MaxZoom.
func FitCamera(r Region, width, height int) Camera {
	env := Project(r)
	center := Unproject((env.MinX+env.MaxX)/2, (env.MinY+env.MaxY)/2)

	spanX := env.MaxX - env.MinX
	spanY := env.MaxY - env.MinY
	if width <= 0 || height <= 0 {
		return Camera{Target: center, Zoom: 0}
	}

	zoom := MaxZoom
	worldMeters := 2 * mercatorExtent
	if spanX > 0 {
		zoom = math.Min(zoom, math.Log2(float64(width)*worldMeters/(spanX*tileSize)))
	}
	if spanY > 0 {
		zoom = math.Min(zoom, math.Log2(float64(height)*worldMeters/(spanY*tileSize)))
	}

	return Camera{Target: center, Zoom: math.Max(0, zoom)}
}
