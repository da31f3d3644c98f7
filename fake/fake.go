// Package fake provides in-memory implementations of all fieldops interfaces
// for testing.
//
// Use fake.NewClient() in unit tests to avoid network calls and external
// dependencies. Tokens are plain strings mapped straight to profiles.
package fake

import (
	"context"
	"fmt"
	"sync"

	fieldops "github.com/opsdeck/fieldops-go"
)

// Option configures the fake backend.
type Option func(*state)

type state struct {
	mu        sync.RWMutex
	passwords map[string]string            // email → password
	tokens    map[string]string            // email → token issued on login
	profiles  map[string]*fieldops.Profile // token → profile
	failFetch error
	failAuth  error
}

// WithUser registers a user. Logging in with the email/password pair yields
// the token; fetching with the token yields the profile.
func WithUser(token, password string, profile fieldops.Profile) Option {
	return func(s *state) {
		s.passwords[profile.Email] = password
		s.tokens[profile.Email] = token
		p := profile
		s.profiles[token] = &p
	}
}

// WithFetchError makes every profile fetch fail with err.
func WithFetchError(err error) Option {
	return func(s *state) { s.failFetch = err }
}

// WithAuthenticateError makes every credential exchange fail with err.
func WithAuthenticateError(err error) Option {
	return func(s *state) { s.failAuth = err }
}

// Backend is an in-memory Authenticator + ProfileService.
type Backend struct {
	s *state
}

// compile-time checks
var (
	_ fieldops.Authenticator  = (*Backend)(nil)
	_ fieldops.ProfileService = (*Backend)(nil)
)

// NewBackend creates an in-memory backend.
func NewBackend(opts ...Option) *Backend {
	s := &state{
		passwords: make(map[string]string),
		tokens:    make(map[string]string),
		profiles:  make(map[string]*fieldops.Profile),
	}
	for _, o := range opts {
		o(s)
	}
	return &Backend{s: s}
}

// Authenticate exchanges credentials for the registered token.
func (b *Backend) Authenticate(_ context.Context, creds fieldops.Credentials) (string, error) {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()

	if b.s.failAuth != nil {
		return "", b.s.failAuth
	}

	password, ok := b.s.passwords[creds.Email]
	if !ok || password != creds.Password {
		return "", fmt.Errorf("fieldops/fake: %w", fieldops.ErrInvalidCredentials)
	}
	return b.s.tokens[creds.Email], nil
}

// Fetch returns the profile registered for the token.
func (b *Backend) Fetch(_ context.Context, token string) (*fieldops.Profile, error) {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()

	if b.s.failFetch != nil {
		return nil, b.s.failFetch
	}

	profile, ok := b.s.profiles[token]
	if !ok {
		return nil, fmt.Errorf("fieldops/fake: %w", fieldops.ErrUnauthorized)
	}
	return profile, nil
}

// RevokeToken makes the token invalid from now on, simulating expiry.
func (b *Backend) RevokeToken(token string) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	delete(b.s.profiles, token)
}

// NewClient creates a *fieldops.Client wired to an in-memory backend and an
// in-memory token store.
func NewClient(opts ...Option) (*fieldops.Client, *Backend) {
	backend := NewBackend(opts...)
	c, _ := fieldops.NewClient(
		fieldops.Config{BaseURL: "fake://localhost"},
		fieldops.WithAuthenticator(backend),
		fieldops.WithProfileService(backend),
		fieldops.WithTokenStore(&memoryTokens{}),
	)
	return c, backend
}

// memoryTokens is a minimal in-memory TokenStore, kept local so the fake
// package depends only on the root interfaces.
type memoryTokens struct {
	mu    sync.Mutex
	token string
}

func (m *memoryTokens) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memoryTokens) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memoryTokens) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
