// Package guard decides whether a navigation may render.
//
// The decision is an explicit three-state machine driven solely by session
// snapshots: pending while the session is unresolved, grant when the route's
// requirements are met, redirect otherwise. The guard holds no state of its
// own and re-evaluates on every session change.
package guard

import (
	"context"

	fieldops "github.com/opsdeck/fieldops-go"
	"github.com/opsdeck/fieldops-go/capability"
	"github.com/opsdeck/fieldops-go/metrics"
)

// Decision is the outcome of evaluating a navigation.
type Decision int

const (
	// DecisionPending means the session is unresolved: render a neutral
	// loading indicator, never a redirect.
	DecisionPending Decision = iota

	// DecisionGrant means the requested page may render.
	DecisionGrant

	// DecisionRedirect means navigation must move to Result.Target.
	DecisionRedirect
)

func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionGrant:
		return "grant"
	case DecisionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Route describes the requirements of a navigation target.
type Route struct {
	// Path identifies the route, for logging only.
	Path string

	// RequiresAuth gates the route behind an authenticated session.
	// Public routes always grant.
	RequiresAuth bool

	// Capability additionally gates the route behind a capability. Only
	// consulted when RequiresAuth is true.
	Capability *capability.Descriptor
}

// Result is a guard decision plus redirect instructions.
type Result struct {
	Decision Decision

	// Target is the redirect destination, set when Decision is DecisionRedirect.
	Target string

	// ReplaceHistory tells navigation to replace the current history entry so
	// back-navigation cannot return to the guarded route.
	ReplaceHistory bool
}

// Guard evaluates routes against session snapshots.
type Guard struct {
	loginRoute     string
	forbiddenRoute string
	metrics        *metrics.Metrics
}

// Option configures the Guard.
type Option func(*Guard)

// WithMetrics records guard decisions.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Guard) { g.metrics = m }
}

// New creates a guard redirecting to the given login and forbidden routes.
func New(loginRoute, forbiddenRoute string, opts ...Option) *Guard {
	g := &Guard{loginRoute: loginRoute, forbiddenRoute: forbiddenRoute}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Evaluate decides the route against the snapshot. Pure apart from metrics.
func (g *Guard) Evaluate(snap fieldops.Snapshot, route Route) Result {
	res := g.evaluate(snap, route)
	if g.metrics != nil {
		g.metrics.RecordGuardDecision(res.Decision.String())
	}
	return res
}

func (g *Guard) evaluate(snap fieldops.Snapshot, route Route) Result {
	if !route.RequiresAuth {
		return Result{Decision: DecisionGrant}
	}

	switch snap.Status {
	case fieldops.StatusLoading:
		return Result{Decision: DecisionPending}

	case fieldops.StatusAuthenticated:
		if route.Capability != nil && !capability.Allowed(snap.Profile, *route.Capability) {
			return Result{Decision: DecisionRedirect, Target: g.forbiddenRoute, ReplaceHistory: true}
		}
		return Result{Decision: DecisionGrant}

	default: // StatusAnonymous
		return Result{Decision: DecisionRedirect, Target: g.loginRoute, ReplaceHistory: true}
	}
}

// Session is the slice of the session store Follow needs.
// Implemented by *session.Store.
type Session interface {
	Current() fieldops.Snapshot
	Subscribe() (<-chan fieldops.Snapshot, func())
}

// Follow evaluates the route against the current session and every subsequent
// change, sending each result until the decision leaves pending or the
// context is done. The channel closes after a terminal decision, so for a
// guarded navigation the observable sequence is pending*, then exactly one
// grant or redirect.
func (g *Guard) Follow(ctx context.Context, s Session, route Route) <-chan Result {
	out := make(chan Result, 1)

	updates, cancel := s.Subscribe()
	go func() {
		defer close(out)
		defer cancel()

		res := g.Evaluate(s.Current(), route)
		select {
		case out <- res:
		case <-ctx.Done():
			return
		}
		if res.Decision != DecisionPending {
			return
		}

		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				res := g.Evaluate(snap, route)
				select {
				case out <- res:
				case <-ctx.Done():
					return
				}
				if res.Decision != DecisionPending {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
