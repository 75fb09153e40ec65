// Package mutation wraps remote writes with deterministic client-visible
// outcomes: exactly one write request per run, a success or error
// notification, and cache reconciliation so subsequent reads stay
// consistent without a full re-fetch in the common case.
package mutation

import (
	"context"
	"errors"
	"log"
	"sync/atomic"

	"github.com/iliyamo/cabin-booking-api/internal/notify"
)

// ErrInFlight is returned when a run is rejected because the same
// logical operation already has a request outstanding. Callers disable
// duplicate submissions while Busy reports true.
var ErrInFlight = errors.New("mutation already in flight")

// Mutation is one logical write operation (create booking, update
// profile, save cabin). In carries the domain payload; Out is the
// server-returned value used for cache reconciliation.
//
// On success the reconcile step runs (cache Replace or Invalidate per
// the operation's policy) and a success notification fires. On failure
// no cache mutation occurs and the remote error's message is surfaced
// verbatim as an error notification; the caller keeps its UI state so
// the user can retry.
type Mutation[In, Out any] struct {
	name      string
	write     func(ctx context.Context, in In) (Out, error)
	reconcile func(ctx context.Context, out Out) error
	onSuccess string
	notifier  notify.Notifier
	inflight  atomic.Bool
}

// New builds a Mutation. reconcile may be nil for writes with no cached
// dependents. successMsg is the toast shown after a successful write.
func New[In, Out any](
	name string,
	notifier notify.Notifier,
	write func(ctx context.Context, in In) (Out, error),
	reconcile func(ctx context.Context, out Out) error,
	successMsg string,
) *Mutation[In, Out] {
	return &Mutation[In, Out]{
		name:      name,
		write:     write,
		reconcile: reconcile,
		onSuccess: successMsg,
		notifier:  notifier,
	}
}

// Busy reports whether a run is currently outstanding.
func (m *Mutation[In, Out]) Busy() bool { return m.inflight.Load() }

// Run issues the remote write. At most one run is in flight at a time;
// concurrent calls fail fast with ErrInFlight and no notification.
//
// A reconcile failure is logged but does not fail the run: the write
// itself succeeded and the cache entry will expire on its own.
func (m *Mutation[In, Out]) Run(ctx context.Context, in In) (Out, error) {
	var zero Out
	if !m.inflight.CompareAndSwap(false, true) {
		return zero, ErrInFlight
	}
	defer m.inflight.Store(false)

	out, err := m.write(ctx, in)
	if err != nil {
		m.notifier.Error(err.Error())
		return zero, err
	}
	if m.reconcile != nil {
		if rerr := m.reconcile(ctx, out); rerr != nil {
			log.Printf("mutation %s: cache reconcile failed: %v", m.name, rerr)
		}
	}
	if m.onSuccess != "" {
		m.notifier.Success(m.onSuccess)
	}
	return out, nil
}
