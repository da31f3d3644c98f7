// Package api implements the Authenticator and ProfileService interfaces
// against the FieldOps REST backend.
//
// Only the two endpoints the session core depends on live here: the
// credential exchange and the current-profile lookup. Every other endpoint is
// consumed by page-level code through the same transport.AuthGate and simply
// inherits its token handling.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	fieldops "github.com/opsdeck/fieldops-go"
)

// Endpoint paths on the backend.
const (
	LoginPath   = "/api/auth/login/"
	ProfilePath = "/api/users/me/"
)

// Client talks to the FieldOps backend. It implements both
// fieldops.Authenticator and fieldops.ProfileService.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
}

// compile-time checks
var (
	_ fieldops.Authenticator  = (*Client)(nil)
	_ fieldops.ProfileService = (*Client)(nil)
)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. Wiring the transport.AuthGate's
// client here is how authenticated profile fetches reach the backend.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// New creates a backend client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// loginRequest is the wire shape of the credential exchange.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// loginResponse is the wire shape of a successful exchange.
type loginResponse struct {
	Token string `json:"token"`
}

// Authenticate exchanges credentials for a bearer token.
// Malformed credentials fail locally; a backend rejection returns an error
// wrapping fieldops.ErrInvalidCredentials.
func (c *Client) Authenticate(ctx context.Context, creds fieldops.Credentials) (string, error) {
	req := loginRequest{Email: creds.Email, Password: creds.Password}
	if err := c.validate.Struct(req); err != nil {
		return "", fmt.Errorf("fieldops/api: %w: %v", fieldops.ErrInvalidCredentials, err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("fieldops/api: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+LoginPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("fieldops/api: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("fieldops/api: login request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("fieldops/api: %w", fieldops.ErrInvalidCredentials)
	default:
		return "", fmt.Errorf("fieldops/api: login endpoint returned %d", resp.StatusCode)
	}

	var loginResp loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return "", fmt.Errorf("fieldops/api: failed to decode login response: %w", err)
	}
	if loginResp.Token == "" {
		return "", fmt.Errorf("fieldops/api: empty token in login response")
	}
	return loginResp.Token, nil
}

// profileResponse is the wire shape of the current-profile endpoint.
type profileResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Role        string `json:"role"`
	IsSuperuser bool   `json:"is_superuser"`
	Tenant      *struct {
		ID              int64  `json:"id"`
		Name            string `json:"name"`
		Logo            string `json:"logo"`
		BackgroundImage string `json:"background_image"`
	} `json:"tenant"`
}

// Fetch returns the profile the token belongs to. A rejected token returns an
// error wrapping fieldops.ErrUnauthorized.
func (c *Client) Fetch(ctx context.Context, token string) (*fieldops.Profile, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ProfilePath, nil)
	if err != nil {
		return nil, fmt.Errorf("fieldops/api: %w", err)
	}
	// Set explicitly as well: a bare http.Client without the AuthGate must
	// still be able to fetch the profile during login.
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fieldops/api: profile request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("fieldops/api: %w", fieldops.ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fieldops/api: profile endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var pr profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("fieldops/api: failed to decode profile: %w", err)
	}

	profile := &fieldops.Profile{
		ID:          strconv.FormatInt(pr.ID, 10),
		Email:       pr.Email,
		FullName:    pr.FullName,
		Role:        fieldops.Role(pr.Role),
		IsSuperuser: pr.IsSuperuser,
	}
	if pr.Tenant != nil {
		profile.Tenant = &fieldops.Tenant{
			ID:            strconv.FormatInt(pr.Tenant.ID, 10),
			Name:          pr.Tenant.Name,
			LogoURL:       pr.Tenant.Logo,
			BackgroundURL: pr.Tenant.BackgroundImage,
		}
	}
	return profile, nil
}
