// Package session wires the map library, the render orchestrator and the
// event dispatcher together for one run of the application.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mymaps/mymaps/internal/dispatcher"
	"github.com/mymaps/mymaps/internal/library"
	"github.com/mymaps/mymaps/internal/render"
	"github.com/mymaps/mymaps/pkg/core"
)

// Commands handled by the controller
const (
	CmdList   = ":MAP:LIST:"
	CmdSelect = ":MAP:SELECT:"
	CmdCreate = ":MAP:CREATE:"
)

// ErrNotStarted is returned by handlers invoked before Start
var ErrNotStarted = errors.New("session not started")

// SurfaceProvider opens a render surface for the map titled title and
// returns the signal that fires once it is ready.
type SurfaceProvider func(ctx context.Context, title string) (*render.ReadySignal, error)

// Dependencies holds all dependencies for the controller
type Dependencies struct {
	Library      *library.Library
	Orchestrator *render.Orchestrator
	Surfaces     SurfaceProvider
	Logger       *slog.Logger
}

// Controller owns the library for the session and routes map selection and
// creation.
type Controller struct {
	deps Dependencies

	mu      sync.Mutex
	ctx     context.Context
	current *render.Pass
}

// New creates a controller. Call Start before dispatching events.
func New(deps Dependencies) *Controller {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Controller{deps: deps}
}

// Start loads the library. ctx bounds every render and save made through
// dispatched events. A load failure leaves the session running on the
// sample maps and is returned for the caller to report.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	return c.deps.Library.Load(ctx)
}

// RegisterHandlers registers the map commands with the dispatcher.
func (c *Controller) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(CmdList, c.handleList)
	d.Register(CmdSelect, c.handleSelect, dispatcher.Logged())
	d.Register(CmdCreate, c.handleCreate, dispatcher.Logged())
}

// Maps returns the library contents in display order
func (c *Controller) Maps() []core.UserMap {
	return c.deps.Library.Maps()
}

// SelectMap renders the map at index on a fresh surface. Animations of the
// previously selected map are cancelled.
func (c *Controller) SelectMap(ctx context.Context, index int) (*render.Pass, error) {
	m, err := c.deps.Library.Get(index)
	if err != nil {
		return nil, err
	}

	ready, err := c.deps.Surfaces(ctx, m.Title)
	if err != nil {
		return nil, fmt.Errorf("opening surface for %q: %w", m.Title, err)
	}

	c.mu.Lock()
	if c.current != nil {
		c.current.Cancel()
		c.current = nil
	}
	c.mu.Unlock()

	pass, err := c.deps.Orchestrator.OnSurfaceReady(ctx, ready, m)
	if pass != nil {
		c.mu.Lock()
		c.current = pass
		c.mu.Unlock()
	}
	if err != nil {
		return pass, fmt.Errorf("rendering %q: %w", m.Title, err)
	}
	return pass, nil
}

// CreateMap appends m to the library and persists it
func (c *Controller) CreateMap(ctx context.Context, m core.UserMap) error {
	for _, p := range m.Places {
		if !p.Valid() {
			c.deps.Logger.Warn("place outside WGS84 range", "map", m.Title, "place", p.Title,
				"latitude", p.Latitude, "longitude", p.Longitude)
		}
	}
	return c.deps.Library.Create(ctx, m)
}

// Close cancels animations still running on the selected map
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.Cancel()
		c.current = nil
	}
}

func (c *Controller) baseContext() (context.Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx == nil {
		return nil, ErrNotStarted
	}
	return c.ctx, nil
}

func (c *Controller) handleList(e dispatcher.Event) (any, error) {
	return c.Maps(), nil
}

func (c *Controller) handleSelect(e dispatcher.Event) (any, error) {
	ctx, err := c.baseContext()
	if err != nil {
		return nil, err
	}
	index, ok := e.Payload.(int)
	if !ok {
		return nil, fmt.Errorf("select payload must be a map index, got %T", e.Payload)
	}
	return c.SelectMap(ctx, index)
}

func (c *Controller) handleCreate(e dispatcher.Event) (any, error) {
	ctx, err := c.baseContext()
	if err != nil {
		return nil, err
	}
	m, ok := e.Payload.(core.UserMap)
	if !ok {
		return nil, fmt.Errorf("create payload must be a user map, got %T", e.Payload)
	}
	if err := c.CreateMap(ctx, m); err != nil {
		return nil, err
	}
	return c.deps.Library.Len() - 1, nil
}
