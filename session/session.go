// Package session holds the single source of truth for "who is logged in".
//
// The Store owns the session state. It starts loading, resolves to
// authenticated or anonymous through exactly four writer paths — Login,
// Logout, Rehydrate and Invalidate — and publishes every transition to
// subscribers. All other packages hold read-only views obtained through
// Current or Subscribe, never private copies.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	fieldops "github.com/opsdeck/fieldops-go"
	"github.com/opsdeck/fieldops-go/audit"
	"github.com/opsdeck/fieldops-go/metrics"
	"github.com/opsdeck/fieldops-go/tokeninfo"
)

// Store is the session store. Safe for concurrent use.
//
// Concurrent logins are not serialized: whichever attempt resolves last wins,
// and results of superseded attempts are discarded via a generation counter.
type Store struct {
	tokens   fieldops.TokenStore
	profiles fieldops.ProfileService
	auth     fieldops.Authenticator
	logger   *slog.Logger
	audit    *audit.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu      sync.Mutex
	status  fieldops.Status
	token   string
	profile *fieldops.Profile
	gen     uint64

	subMu   sync.Mutex
	subs    map[uint64]chan fieldops.Snapshot
	nextSub uint64

	sf singleflight.Group
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets a structured logger for session transitions.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithAuthenticator enables LoginWithCredentials.
func WithAuthenticator(a fieldops.Authenticator) Option {
	return func(s *Store) { s.auth = a }
}

// WithAuditLogger records session lifecycle events to the audit log.
func WithAuditLogger(l *audit.Logger) Option {
	return func(s *Store) { s.audit = l }
}

// WithMetrics records session metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New creates a session store. The store starts in the loading state; call
// Rehydrate to resolve it from durable storage.
func New(tokens fieldops.TokenStore, profiles fieldops.ProfileService, opts ...Option) *Store {
	s := &Store{
		tokens:   tokens,
		profiles: profiles,
		logger:   slog.Default(),
		now:      time.Now,
		status:   fieldops.StatusLoading,
		subs:     make(map[uint64]chan fieldops.Snapshot),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Current returns a snapshot of the session.
func (s *Store) Current() fieldops.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Token returns the current bearer token, or "" when anonymous. The token is
// present during the loading window so in-flight validation can use it.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Subscribe registers for session changes. The returned channel receives a
// snapshot after every transition; cancel releases it. A slow subscriber may
// miss intermediate snapshots but always observes the latest one eventually.
func (s *Store) Subscribe() (<-chan fieldops.Snapshot, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan fieldops.Snapshot, 8)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Login validates the token against the backend and transitions the session.
//
// The token is persisted first, the state marked loading, and a profile fetch
// issued. Success transitions to authenticated; any failure clears the token
// and degrades to anonymous. The error is returned so the login form can
// report it, but the store itself never ends in an undefined state.
func (s *Store) Login(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("fieldops/session: token cannot be empty")
	}

	gen := s.begin(token)

	if err := s.tokens.Save(token); err != nil {
		// A session that only lasts this run is still a session.
		s.logger.Warn("token persist failed", "error", err)
	}

	profile, err := s.profiles.Fetch(ctx, token)
	if !s.resolve(gen, token, profile, err) {
		return nil
	}
	if err != nil {
		s.recordLogin(audit.ResultFailure, err)
		return fmt.Errorf("fieldops/session: login: %w", err)
	}
	s.recordLogin(audit.ResultSuccess, nil)
	return nil
}

// LoginWithCredentials exchanges credentials for a token and logs in with it.
// A rejected pair returns an error wrapping fieldops.ErrInvalidCredentials
// and leaves both session state and durable storage untouched.
func (s *Store) LoginWithCredentials(ctx context.Context, creds fieldops.Credentials) error {
	if s.auth == nil {
		return fmt.Errorf("fieldops/session: no authenticator configured")
	}

	token, err := s.auth.Authenticate(ctx, creds)
	if err != nil {
		s.recordLogin(audit.ResultDenied, err)
		return fmt.Errorf("fieldops/session: %w", err)
	}
	return s.Login(ctx, token)
}

// Rehydrate restores the session from durable storage at startup.
//
// No stored token, a storage error or an already-expired JWT all resolve to
// anonymous without a network call. Otherwise the token is validated exactly
// like a login. Concurrent rehydrations share one profile fetch.
func (s *Store) Rehydrate(ctx context.Context) {
	_, _, _ = s.sf.Do("rehydrate", func() (interface{}, error) {
		s.rehydrate(ctx)
		return nil, nil
	})
}

func (s *Store) rehydrate(ctx context.Context) {
	token, err := s.tokens.Load()
	if err != nil {
		s.logger.Warn("token load failed", "error", err)
		token = ""
	}
	if token == "" {
		s.clear(s.bump())
		s.recordRehydrate("anonymous")
		return
	}

	if info, err := tokeninfo.Peek(token); err == nil && info.Expired(s.now()) {
		_ = s.tokens.Clear()
		s.clear(s.bump())
		s.recordRehydrate("anonymous")
		return
	}

	gen := s.begin(token)
	profile, err := s.profiles.Fetch(ctx, token)
	if !s.resolve(gen, token, profile, err) {
		return
	}
	if err != nil {
		// Indistinguishable from "not logged in yet" for the user.
		s.logger.Debug("rehydration fetch failed", "error", err)
		s.recordRehydrate("anonymous")
		return
	}
	s.recordRehydrate("authenticated")
}

// Logout clears the session and the persisted token. Local only, idempotent.
func (s *Store) Logout() {
	s.clear(s.bump())
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("token clear failed", "error", err)
	}

	if s.audit != nil {
		s.audit.Log(audit.Event{Action: audit.ActionLogout, Result: audit.ResultSuccess})
	}
	if s.metrics != nil {
		s.metrics.RecordLogout()
	}
}

// Invalidate clears the session after a backend rejection. Same transition as
// Logout; recorded separately so rejection storms are visible.
func (s *Store) Invalidate() {
	s.clear(s.bump())
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("token clear failed", "error", err)
	}

	if s.audit != nil {
		s.audit.Log(audit.Event{Action: audit.ActionInvalidate, Result: audit.ResultSuccess})
	}
	if s.metrics != nil {
		s.metrics.RecordInvalidation()
	}
}

// --- state transitions ---

// begin enters the loading state with the given token and returns the
// generation owning the in-flight validation.
func (s *Store) begin(token string) uint64 {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.status = fieldops.StatusLoading
	s.token = token
	s.profile = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return gen
}

// bump invalidates any in-flight validation without changing state.
func (s *Store) bump() uint64 {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	return gen
}

// resolve applies a fetch result. It reports false when the generation was
// superseded and the result discarded (last write wins).
func (s *Store) resolve(gen uint64, token string, profile *fieldops.Profile, err error) bool {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return false
	}

	if err != nil {
		s.status = fieldops.StatusAnonymous
		s.token = ""
		s.profile = nil
		snap := s.snapshotLocked()
		s.mu.Unlock()

		if clearErr := s.tokens.Clear(); clearErr != nil {
			s.logger.Warn("token clear failed", "error", clearErr)
		}
		s.notify(snap)
		return true
	}

	s.status = fieldops.StatusAuthenticated
	s.token = token
	s.profile = profile
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// clear resets to anonymous if the generation is still current.
func (s *Store) clear(gen uint64) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.status = fieldops.StatusAnonymous
	s.token = ""
	s.profile = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Store) snapshotLocked() fieldops.Snapshot {
	return fieldops.Snapshot{Status: s.status, Token: s.token, Profile: s.profile}
}

func (s *Store) notify(snap fieldops.Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Drop the oldest queued snapshot to make room for the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// --- observability ---

func (s *Store) recordLogin(result string, err error) {
	if s.audit != nil {
		e := audit.Event{Action: audit.ActionLogin, Result: result}
		if err != nil {
			e.Error = err.Error()
		}
		if p := s.Current().Profile; p != nil {
			e.UserID = p.ID
			if p.Tenant != nil {
				e.TenantID = p.Tenant.ID
			}
		}
		s.audit.Log(e)
	}
	if s.metrics != nil {
		switch result {
		case audit.ResultSuccess:
			s.metrics.RecordLogin("success")
		case audit.ResultDenied:
			s.metrics.RecordLogin("rejected")
		default:
			s.metrics.RecordLogin("error")
		}
	}
}

func (s *Store) recordRehydrate(result string) {
	if s.audit != nil {
		s.audit.Log(audit.Event{Action: audit.ActionRehydrate, Details: result, Result: audit.ResultSuccess})
	}
	if s.metrics != nil {
		s.metrics.RecordRehydration(result)
	}
}
