// Package transport provides the HTTP request interceptor that couples every
// backend call to the session store.
//
// AuthGate attaches the current bearer token to outbound requests and, when
// the backend answers 401, degrades the session so the whole application
// observes the logout at once. The rejected response still propagates to the
// caller; no request is ever retried by the gate.
package transport

import (
	"net/http"
)

// Session is the slice of the session store the gate needs.
// Implemented by *session.Store.
type Session interface {
	// Token returns the current bearer token, or "".
	Token() string

	// Invalidate clears the session after a rejection.
	Invalidate()
}

// AuthGate is an http.RoundTripper wrapper. Safe for concurrent use.
type AuthGate struct {
	base    http.RoundTripper
	session Session
	exempt  map[string]bool
}

// compile-time check
var _ http.RoundTripper = (*AuthGate)(nil)

// Option configures the AuthGate.
type Option func(*AuthGate)

// WithBase sets the underlying transport. Default: http.DefaultTransport.
func WithBase(rt http.RoundTripper) Option {
	return func(g *AuthGate) { g.base = rt }
}

// WithExemptPaths marks request paths whose 401 responses do not invalidate
// the session. The credential-exchange endpoint must be exempt: a failed
// login is the caller's problem, not grounds to clear an unrelated session.
func WithExemptPaths(paths ...string) Option {
	return func(g *AuthGate) {
		for _, p := range paths {
			g.exempt[p] = true
		}
	}
}

// New creates an AuthGate bound to the session.
func New(session Session, opts ...Option) *AuthGate {
	g := &AuthGate{
		base:    http.DefaultTransport,
		session: session,
		exempt:  make(map[string]bool),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Client returns an *http.Client using the gate as its transport.
func (g *AuthGate) Client() *http.Client {
	return &http.Client{Transport: g}
}

// RoundTrip implements http.RoundTripper. The request is cloned before the
// Authorization header is set, per the RoundTripper contract.
func (g *AuthGate) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if token := g.session.Token(); token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && !g.exempt[req.URL.Path] {
		g.session.Invalidate()
	}
	return resp, nil
}
