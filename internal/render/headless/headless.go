// Package headless implements a render.Surface with no display. It records
// every command and logs it, which is what the CLI renders to.
package headless

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/mymaps/mymaps/internal/geo"
	"github.com/mymaps/mymaps/internal/render"
)

// ErrClosed is returned by commands issued after Close
var ErrClosed = errors.New("headless surface closed")

// Marker is a recorded marker
type Marker struct {
	ID      uuid.UUID
	Options render.MarkerOptions

	mu            sync.Mutex
	anchorX       float64
	anchorY       float64
	anchorUpdates int
	labelShown    int
	surface       *Surface
}

// SetAnchor records the anchor
func (m *Marker) SetAnchor(x, y float64) error {
	if m.surface.isClosed() {
		return ErrClosed
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.anchorX, m.anchorY = x, y
	m.anchorUpdates++
	return nil
}

// ShowInfoLabel records the label reveal
func (m *Marker) ShowInfoLabel() error {
	if m.surface.isClosed() {
		return ErrClosed
	}
	m.mu.Lock()
	m.labelShown++
	m.mu.Unlock()

	m.surface.logger.Info("info label shown", "marker", m.ID, "title", m.Options.Title, "snippet", m.Options.Snippet)
	return nil
}

// Anchor returns the last anchor set
func (m *Marker) Anchor() (x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.anchorX, m.anchorY
}

// AnchorUpdates returns how many times the anchor was set
func (m *Marker) AnchorUpdates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.anchorUpdates
}

// LabelsShown returns how many times the info label was revealed
func (m *Marker) LabelsShown() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.labelShown
}

// Surface records markers and camera moves
type Surface struct {
	logger *slog.Logger

	mu           sync.Mutex
	markers      []*Marker
	cameraCalls  []render.CameraUpdate
	camera       geo.Camera
	defaultViews int
	closed       bool
}

// New creates a headless surface
func New(logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	return &Surface{logger: logger}
}

// AddMarker records a marker anchored at its bottom center
func (s *Surface) AddMarker(opts render.MarkerOptions) (render.Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	m := &Marker{
		ID:      uuid.New(),
		Options: opts,
		anchorX: 0.5,
		anchorY: 1,
		surface: s,
	}
	s.markers = append(s.markers, m)
	s.logger.Info("marker added", "marker", m.ID, "title", opts.Title,
		"lat", opts.Position.Lat, "lng", opts.Position.Lng)
	return m, nil
}

// AnimateCameraToFit records the update and where the camera lands.
// The padding values are taken as the logical box the region must fit in.
func (s *Surface) AnimateCameraToFit(update render.CameraUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	s.cameraCalls = append(s.cameraCalls, update)
	s.camera = geo.FitCamera(update.Region, update.PaddingX, update.PaddingY)
	s.logger.Info("camera fit",
		"south", update.Region.South, "west", update.Region.West,
		"north", update.Region.North, "east", update.Region.East,
		"targetLat", s.camera.Target.Lat, "targetLng", s.camera.Target.Lng,
		"zoom", s.camera.Zoom)
	return nil
}

// ShowDefaultView records that the surface fell back to its default camera
func (s *Surface) ShowDefaultView() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.defaultViews++
	s.camera = geo.Camera{}
	s.logger.Info("default view shown")
	return nil
}

// Close rejects every later command, like a destroyed view
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Surface) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Markers returns the markers added so far, in order
func (s *Surface) Markers() []*Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Marker(nil), s.markers...)
}

// CameraCalls returns every camera update received
func (s *Surface) CameraCalls() []render.CameraUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]render.CameraUpdate(nil), s.cameraCalls...)
}

// Camera returns the current camera position
func (s *Surface) Camera() geo.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera
}

// DefaultViews returns how often the default view was shown
func (s *Surface) DefaultViews() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaultViews
}
