package render

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrAlreadyDelivered is returned when a ready signal fires twice
	ErrAlreadyDelivered = errors.New("surface ready signal already delivered")
	// ErrNilSurface is returned when delivering a nil surface
	ErrNilSurface = errors.New("nil surface")
)

// ReadySignal is a one-shot event carrying the surface once it can accept
// commands.
type ReadySignal struct {
	mu      sync.Mutex
	surface Surface
	claimed bool
	ready   chan struct{}
}

// NewReadySignal creates a signal that has not fired yet
func NewReadySignal() *ReadySignal {
	return &ReadySignal{ready: make(chan struct{})}
}

// Deliver fires the signal with s. Only the first call succeeds.
func (r *ReadySignal) Deliver(s Surface) error {
	if s == nil {
		return ErrNilSurface
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.surface != nil {
		return ErrAlreadyDelivered
	}
	r.surface = s
	close(r.ready)
	return nil
}

// Ready is closed once the surface has been delivered
func (r *ReadySignal) Ready() <-chan struct{} {
	return r.ready
}

// Surface returns the delivered surface, if any
func (r *ReadySignal) Surface() (Surface, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surface, r.surface != nil
}

// Wait blocks until the surface is delivered or ctx is done
func (r *ReadySignal) Wait(ctx context.Context) (Surface, error) {
	select {
	case <-r.ready:
		s, _ := r.Surface()
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// claim marks the signal as consumed by a render pass.
// It reports false if the signal was already claimed.
func (r *ReadySignal) claim() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimed {
		return false
	}
	r.claimed = true
	return true
}
