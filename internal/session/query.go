// Package session provides the shared, cached view of "who is the current
// actor". Every guard and page reads through one Query so concurrent
// subscribers never duplicate network calls.
package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/paylaterhq/storefront-core/internal/guard"
	pkgerrors "github.com/paylaterhq/storefront-core/pkg/errors"
	"github.com/paylaterhq/storefront-core/pkg/types"
)

// identityResolver is the slice of the identity client the query needs.
type identityResolver interface {
	Me(ctx context.Context) (*types.Actor, error)
}

// flightKey is the single logical identity query key.
const flightKey = "session:me"

// State is the tuple every subscriber observes.
type State struct {
	Loading bool
	Actor   *types.Actor
	Err     error
}

// GuardState projects the query result into the guard's tri-state.
// Authentication failures and unresolved transient errors both collapse to
// absent; guards never see raw fetch errors.
func (s State) GuardState() guard.SessionState {
	switch {
	case s.Loading:
		return guard.Loading()
	case s.Actor != nil:
		return guard.Present(s.Actor)
	default:
		return guard.Absent()
	}
}

// Query caches the current actor for a bounded staleness window.
type Query struct {
	resolver  identityResolver
	staleness time.Duration

	group singleflight.Group

	mu        sync.Mutex
	cached    State
	fetchedAt time.Time
	resolved  bool
}

// NewQuery wires the session query over an identity resolver.
func NewQuery(resolver identityResolver, staleness time.Duration) (*Query, error) {
	if resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "identity resolver required")
	}
	if staleness <= 0 {
		staleness = 30 * time.Second
	}
	return &Query{resolver: resolver, staleness: staleness}, nil
}

// Current returns the cached state when fresh, otherwise resolves it.
// Concurrent callers share one in-flight fetch.
func (q *Query) Current(ctx context.Context) State {
	q.mu.Lock()
	if q.resolved && time.Since(q.fetchedAt) < q.staleness {
		state := q.cached
		q.mu.Unlock()
		return state
	}
	q.mu.Unlock()

	result, _, _ := q.group.Do(flightKey, func() (any, error) {
		state := q.fetch(ctx)

		q.mu.Lock()
		q.cached = state
		q.fetchedAt = time.Now()
		q.resolved = true
		q.mu.Unlock()

		return state, nil
	})
	return result.(State)
}

// Snapshot returns the cached state without triggering a fetch. Before the
// first resolution it reports loading.
func (q *Query) Snapshot() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.resolved {
		return State{Loading: true}
	}
	return q.cached
}

// Invalidate drops the cached value so the next subscription refetches,
// e.g. after login or logout.
func (q *Query) Invalidate() {
	q.mu.Lock()
	q.resolved = false
	q.cached = State{}
	q.mu.Unlock()
	q.group.Forget(flightKey)
}

// fetch resolves the actor once. An unauthenticated outcome caches as a
// plain absent session, not an error, so there is no retry loop and guards
// treat it identically to an anonymous visitor.
func (q *Query) fetch(ctx context.Context) State {
	actor, err := q.resolver.Me(ctx)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeUnauthenticated) {
			return State{}
		}
		return State{Err: err}
	}
	return State{Actor: actor}
}
