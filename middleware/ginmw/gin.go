// Package ginmw provides Gin HTTP middleware for the gateway that fronts the
// FieldOps single-page application.
//
// The gateway enforces the same policy as the client-side guard: Auth
// resolves the bearer token to a profile via the client's ProfileService, and
// Require consults the shared capability resolver. A link hidden in the
// navigation and a request blocked at the gateway can never disagree.
package ginmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	fieldops "github.com/opsdeck/fieldops-go"
	"github.com/opsdeck/fieldops-go/capability"
)

// Context keys for storing session data in gin.Context.
const (
	KeyProfile  = "fieldops_profile"
	KeyTenantID = "fieldops_tenant_id"
	KeyToken    = "fieldops_token"
)

// AuthOption configures Auth middleware behavior.
type AuthOption func(*authConfig)

type authConfig struct {
	excludedPaths map[string]bool
}

// WithExcludedPaths sets paths that skip authentication (e.g. health checks,
// the login endpoint itself).
func WithExcludedPaths(paths ...string) AuthOption {
	return func(cfg *authConfig) {
		for _, p := range paths {
			cfg.excludedPaths[p] = true
		}
	}
}

// Auth returns Gin middleware that resolves bearer tokens through
// client.Profiles(). On success the profile is stored in the context
// (retrievable via GetProfile, GetTenantID, GetToken).
// Responds with 401 if the token is missing or rejected.
func Auth(client *fieldops.Client, opts ...AuthOption) gin.HandlerFunc {
	cfg := &authConfig{excludedPaths: make(map[string]bool)}
	for _, o := range opts {
		o(cfg)
	}

	return func(c *gin.Context) {
		if cfg.excludedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		token := extractBearerToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		profiles := client.Profiles()
		if profiles == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "profile service not configured"})
			return
		}

		profile, err := profiles.Fetch(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(KeyProfile, profile)
		c.Set(KeyToken, token)
		if profile.Tenant != nil {
			c.Set(KeyTenantID, profile.Tenant.ID)
		}

		c.Next()
	}
}

// Require returns Gin middleware that checks a capability descriptor.
// Requires Auth middleware to run first (uses profile from context).
// Responds with 403 if the capability is denied.
func Require(desc capability.Descriptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !capability.Allowed(GetProfile(c), desc) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}

// RequireAny returns Gin middleware granting access when any of the given
// descriptors allows the profile.
func RequireAny(descs ...capability.Descriptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := GetProfile(c)
		for _, d := range descs {
			if capability.Allowed(profile, d) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	}
}

// --- Context helpers ---

// GetProfile returns the authenticated profile from the Gin context, or nil.
func GetProfile(c *gin.Context) *fieldops.Profile {
	v, _ := c.Get(KeyProfile)
	p, _ := v.(*fieldops.Profile)
	return p
}

// GetTenantID returns the tenant ID from the Gin context.
func GetTenantID(c *gin.Context) string {
	v, _ := c.Get(KeyTenantID)
	s, _ := v.(string)
	return s
}

// GetToken returns the bearer token from the Gin context.
func GetToken(c *gin.Context) string {
	v, _ := c.Get(KeyToken)
	s, _ := v.(string)
	return s
}

// --- internal helpers ---

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
