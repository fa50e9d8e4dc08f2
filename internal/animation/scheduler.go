package animation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ErrStopped is returned when starting an animation on a stopped scheduler
var ErrStopped = errors.New("animation scheduler stopped")

// ErrCancelled is reported by animations that did not run to completion
var ErrCancelled = errors.New("animation cancelled")

// Animation is a handle on one running pin drop
type Animation struct {
	id    uint64
	state State
	phase Phase
	err   error
	done  chan struct{}
	sched *Scheduler
}

// Done is closed when the animation leaves the Running phase
func (a *Animation) Done() <-chan struct{} {
	return a.done
}

// Phase returns the current phase
func (a *Animation) Phase() Phase {
	a.sched.mu.Lock()
	defer a.sched.mu.Unlock()
	return a.phase
}

// Err returns why the animation did not complete, or nil
func (a *Animation) Err() error {
	a.sched.mu.Lock()
	defer a.sched.mu.Unlock()
	return a.err
}

// Cancel stops the animation. The marker keeps its last anchor and the info
// label is not shown. Cancelling a finished animation is a no-op.
func (a *Animation) Cancel() {
	a.sched.mu.Lock()
	defer a.sched.mu.Unlock()
	a.sched.finish(a, Cancelled, ErrCancelled)
}

// Wait blocks until the animation finishes or ctx is done
func (a *Animation) Wait(ctx context.Context) error {
	select {
	case <-a.done:
		return a.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// Scheduler steps every running animation from one shared tick source.
// Marker methods are called with the scheduler lock held, from Start for the
// first frame and from the goroutine running Run afterwards.
type Scheduler struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	nextID  uint64
	running []*Animation
	stopped bool

	stopCh   chan struct{}
	stopOnce sync.Once

	// OTEL metrics
	active       metric.Int64ObservableGauge
	started      metric.Int64Counter
	completed    metric.Int64Counter
	cancelled    metric.Int64Counter
	failed       metric.Int64Counter
	registration metric.Registration
}

// NewScheduler creates a scheduler. Call Run to start ticking.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewScheduler(cfg Config, logger *slog.Logger, opts ...Option) (*Scheduler, error) {
	if cfg.Tick <= 0 {
		return nil, fmt.Errorf("tick must be positive, got %s", cfg.Tick)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	m := meter()
	var err error

	s.active, err = m.Int64ObservableGauge(
		"animation.active",
		metric.WithDescription("Pin drop animations currently running"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating active gauge: %w", err)
	}

	s.registration, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(s.active, int64(s.Active()))
			return nil
		},
		s.active,
	)
	if err != nil {
		return nil, fmt.Errorf("registering active callback: %w", err)
	}

	if s.started, err = m.Int64Counter("animation.started",
		metric.WithDescription("Total pin drop animations started")); err != nil {
		return nil, fmt.Errorf("creating started counter: %w", err)
	}
	if s.completed, err = m.Int64Counter("animation.completed",
		metric.WithDescription("Total pin drop animations that settled")); err != nil {
		return nil, fmt.Errorf("creating completed counter: %w", err)
	}
	if s.cancelled, err = m.Int64Counter("animation.cancelled",
		metric.WithDescription("Total pin drop animations cancelled")); err != nil {
		return nil, fmt.Errorf("creating cancelled counter: %w", err)
	}
	if s.failed, err = m.Int64Counter("animation.failed",
		metric.WithDescription("Total pin drop animations aborted by a marker error")); err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	return s, nil
}

// Config returns the timing the scheduler was built with
func (s *Scheduler) Config() Config {
	return s.cfg
}

// Start lifts target to its first-frame anchor and registers a pin drop
// beginning now. The marker is never visible at its resting anchor before
// the drop starts.
func (s *Scheduler) Start(target Target) (*Animation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil, ErrStopped
	}

	state := State{
		Target:   target,
		Start:    s.now(),
		Duration: s.cfg.Duration,
	}
	anchor, _ := Step(state, state.Start, s.cfg.Overshoot)
	if err := target.SetAnchor(anchor.X, anchor.Y); err != nil {
		s.logger.Error("marker initial anchor failed", "error", err)
		s.failed.Add(context.Background(), 1)
		return nil, fmt.Errorf("set anchor: %w", err)
	}

	s.nextID++
	a := &Animation{
		id:    s.nextID,
		state: state,
		phase: Running,
		done:  make(chan struct{}),
		sched: s,
	}
	s.running = append(s.running, a)
	s.started.Add(context.Background(), 1)
	return a, nil
}

// Active returns the number of running animations
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.running)
}

// Run ticks until ctx is done or Stop is called, then cancels whatever is
// still running.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.tick(s.now())
		}
	}
}

// Stop cancels all running animations and refuses new ones
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		for _, a := range append([]*Animation(nil), s.running...) {
			s.finish(a, Cancelled, ErrCancelled)
		}
		s.mu.Unlock()

		close(s.stopCh)
		if s.registration != nil {
			_ = s.registration.Unregister()
		}
	})
}

// tick advances every running animation to now
func (s *Scheduler) tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range append([]*Animation(nil), s.running...) {
		anchor, settled := Step(a.state, now, s.cfg.Overshoot)

		if err := a.state.Target.SetAnchor(anchor.X, anchor.Y); err != nil {
			s.logger.Error("marker anchor update failed", "animation", a.id, "error", err)
			s.finish(a, Failed, fmt.Errorf("set anchor: %w", err))
			continue
		}
		if !settled {
			continue
		}

		if err := a.state.Target.ShowInfoLabel(); err != nil {
			s.logger.Error("marker info label failed", "animation", a.id, "error", err)
			s.finish(a, Failed, fmt.Errorf("show info label: %w", err))
			continue
		}
		s.finish(a, Done, nil)
	}
}

// finish moves a to a terminal phase and releases its state.
// Must be called with s.mu held.
func (s *Scheduler) finish(a *Animation, phase Phase, err error) {
	if a.phase != Running {
		return
	}
	a.phase = phase
	a.err = err
	a.state = State{}

	for i, r := range s.running {
		if r == a {
			s.running = append(s.running[:i], s.running[i+1:]...)
			break
		}
	}
	close(a.done)

	ctx := context.Background()
	switch phase {
	case Done:
		s.completed.Add(ctx, 1)
	case Cancelled:
		s.cancelled.Add(ctx, 1)
	case Failed:
		s.failed.Add(ctx, 1)
	}
}
