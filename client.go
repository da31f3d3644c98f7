// Package fieldops provides a framework-agnostic Go SDK for the FieldOps
// platform's session and authorization core.
//
// The SDK defines interfaces for credential exchange, profile resolution and
// durable token storage. Concrete implementations are injected via Option
// functions, making the SDK independent of any specific backend deployment.
//
// Example usage with the REST backend:
//
//	client, err := fieldops.NewClient(
//	    fieldops.Config{BaseURL: "https://ops.example.com"},
//	    fieldops.WithAuthenticator(backend),
//	    fieldops.WithProfileService(backend),
//	    fieldops.WithTokenStore(tokenstore.NewFile(path)),
//	)
package fieldops

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Client is the main entry point for FieldOps session operations.
// Service implementations are injected via Option functions.
type Client struct {
	config   Config
	logger   *slog.Logger
	auth     Authenticator
	profiles ProfileService
	tokens   TokenStore
}

// Config holds connection and behavior configuration.
type Config struct {
	// BaseURL is the address of the FieldOps backend
	// (e.g. "https://ops.example.com").
	BaseURL string

	// RequestTimeout bounds individual backend calls. Default: 10 seconds.
	RequestTimeout time.Duration

	// LoginRoute is the client route anonymous navigation is redirected to.
	// Default: "/login".
	LoginRoute string

	// ForbiddenRoute is the client route shown when an authenticated user
	// lacks a required capability. Default: "/forbidden".
	ForbiddenRoute string
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets a structured logger for the client.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithAuthenticator sets the credential-exchange implementation.
func WithAuthenticator(a Authenticator) Option {
	return func(c *Client) { c.auth = a }
}

// WithProfileService sets the profile-resolution implementation.
func WithProfileService(p ProfileService) Option {
	return func(c *Client) { c.profiles = p }
}

// WithTokenStore sets the durable token storage implementation.
func WithTokenStore(t TokenStore) Option {
	return func(c *Client) { c.tokens = t }
}

// Defaults applied by NewClient.
const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultLoginRoute     = "/login"
	DefaultForbiddenRoute = "/forbidden"
)

// NewClient creates a new FieldOps client with the given configuration and options.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.LoginRoute == "" {
		cfg.LoginRoute = DefaultLoginRoute
	}
	if cfg.ForbiddenRoute == "" {
		cfg.ForbiddenRoute = DefaultForbiddenRoute
	}

	c := &Client{config: cfg}
	for _, o := range opts {
		o(c)
	}

	if cfg.BaseURL == "" && c.auth == nil && c.profiles == nil {
		return nil, fmt.Errorf("fieldops: BaseURL or an injected backend service is required")
	}
	return c, nil
}

// Config returns the client configuration.
func (c *Client) Config() Config { return c.config }

// Logger returns the configured logger, or nil.
func (c *Client) Logger() *slog.Logger { return c.logger }

// Auth returns the authenticator, or nil if not configured.
func (c *Client) Auth() Authenticator { return c.auth }

// Profiles returns the profile service, or nil if not configured.
func (c *Client) Profiles() ProfileService { return c.profiles }

// Tokens returns the token store, or nil if not configured.
func (c *Client) Tokens() TokenStore { return c.tokens }

// Close releases all resources held by the client.
// Any injected service that implements io.Closer will be closed.
func (c *Client) Close() error {
	closers := []interface{}{c.auth, c.profiles, c.tokens}
	var firstErr error
	for _, svc := range closers {
		if cl, ok := svc.(io.Closer); ok && cl != nil {
			if err := cl.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
