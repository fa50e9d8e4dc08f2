package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mymaps/mymaps/internal/animation"
	"github.com/mymaps/mymaps/internal/geo"
	"github.com/mymaps/mymaps/pkg/core"
)

var (
	// ErrInvalidSurfaceState is returned when rendering before the surface
	// signalled it is ready
	ErrInvalidSurfaceState = errors.New("render surface not ready")
	// ErrAlreadyRendered is returned when a ready signal is rendered twice
	ErrAlreadyRendered = errors.New("surface already rendered")
)

// CameraConfig holds the fixed camera fit parameters
type CameraConfig struct {
	PaddingX int
	PaddingY int
	Tilt     float64
}

// DefaultCameraConfig returns a 1000x1000 fit with no tilt
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{PaddingX: 1000, PaddingY: 1000}
}

// Dependencies holds all dependencies for the orchestrator
type Dependencies struct {
	Scheduler *animation.Scheduler
	Logger    *slog.Logger
	Camera    CameraConfig
}

// Orchestrator renders one UserMap per ready surface
type Orchestrator struct {
	deps Dependencies
}

// NewOrchestrator creates an orchestrator
func NewOrchestrator(deps Dependencies) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Orchestrator{deps: deps}
}

// Pass is the result of one render: the markers placed and their animations
type Pass struct {
	Title      string
	Markers    []Marker
	Animations []*animation.Animation

	// Camera is nil when the map had no places
	Camera *CameraUpdate

	once sync.Once
}

// Wait blocks until every animation has finished or ctx is done.
// Animation failures are joined into the returned error.
func (p *Pass) Wait(ctx context.Context) error {
	var errs []error
	for _, a := range p.Animations {
		if err := a.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Completed returns how many animations settled normally
func (p *Pass) Completed() int {
	n := 0
	for _, a := range p.Animations {
		if a.Phase() == animation.Done {
			n++
		}
	}
	return n
}

// Cancel aborts every animation still running, e.g. when the surface is torn down
func (p *Pass) Cancel() {
	p.once.Do(func() {
		for _, a := range p.Animations {
			a.Cancel()
		}
	})
}

// Render draws m on the surface carried by ready.
// The signal must already have been delivered, and can be rendered once.
func (o *Orchestrator) Render(ctx context.Context, ready *ReadySignal, m core.UserMap) (*Pass, error) {
	if ready == nil {
		o.deps.Logger.Error("render requested without a ready signal", "map", m.Title)
		return nil, ErrInvalidSurfaceState
	}
	surface, ok := ready.Surface()
	if !ok {
		o.deps.Logger.Error("render requested before surface was ready", "map", m.Title)
		return nil, ErrInvalidSurfaceState
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ready.claim() {
		return nil, ErrAlreadyRendered
	}

	o.deps.Logger.Info("rendering user map", "map", m.Title, "places", len(m.Places))

	pass := &Pass{Title: m.Title}

	if len(m.Places) == 0 {
		if err := surface.ShowDefaultView(); err != nil {
			return pass, fmt.Errorf("showing default view: %w", err)
		}
		return pass, nil
	}

	for i, place := range m.Places {
		marker, err := surface.AddMarker(MarkerOptions{
			Position: place.LatLng(),
			Title:    place.Title,
			Snippet:  place.Description,
		})
		if err != nil {
			o.deps.Logger.Error("failed to add marker", "map", m.Title, "place", place.Title, "index", i, "error", err)
			continue
		}
		pass.Markers = append(pass.Markers, marker)

		a, err := o.deps.Scheduler.Start(marker)
		if err != nil {
			o.deps.Logger.Error("failed to start pin drop", "map", m.Title, "place", place.Title, "error", err)
			continue
		}
		pass.Animations = append(pass.Animations, a)
	}

	region, err := geo.Bounds(m.Points())
	if err != nil {
		return pass, fmt.Errorf("computing bounds: %w", err)
	}

	update := CameraUpdate{
		Region:   region,
		PaddingX: o.deps.Camera.PaddingX,
		PaddingY: o.deps.Camera.PaddingY,
		Tilt:     o.deps.Camera.Tilt,
	}
	pass.Camera = &update
	if err := surface.AnimateCameraToFit(update); err != nil {
		return pass, fmt.Errorf("animating camera: %w", err)
	}

	return pass, nil
}

// OnSurfaceReady waits for ready to fire and then renders m once
func (o *Orchestrator) OnSurfaceReady(ctx context.Context, ready *ReadySignal, m core.UserMap) (*Pass, error) {
	if ready == nil {
		return nil, ErrInvalidSurfaceState
	}
	if _, err := ready.Wait(ctx); err != nil {
		return nil, err
	}
	return o.Render(ctx, ready, m)
}
