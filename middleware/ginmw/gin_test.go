package ginmw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	fieldops "github.com/opsdeck/fieldops-go"
	"github.com/opsdeck/fieldops-go/capability"
	"github.com/opsdeck/fieldops-go/fake"
	"github.com/opsdeck/fieldops-go/middleware/ginmw"
)

func newRouter(t *testing.T) (*gin.Engine, *fieldops.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client, _ := fake.NewClient(
		fake.WithUser("tok-lead", "pw", fieldops.Profile{
			ID: "1", Email: "lead@example.com", Role: fieldops.RoleTeamLeader,
			Tenant: &fieldops.Tenant{ID: "7", Name: "Acme Electrics"},
		}),
		fake.WithUser("tok-root", "pw", fieldops.Profile{
			ID: "2", Email: "root@example.com", Role: fieldops.RoleElectrician, IsSuperuser: true,
		}),
	)

	r := gin.New()
	r.Use(ginmw.Auth(client, ginmw.WithExcludedPaths("/healthz")))

	adminOnly := capability.AnyOf("users.manage", fieldops.RoleAdmin)
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"email":  ginmw.GetProfile(c).Email,
			"tenant": ginmw.GetTenantID(c),
		})
	})
	r.GET("/users", ginmw.Require(adminOnly), func(c *gin.Context) { c.Status(http.StatusOK) })

	return r, client
}

func do(r *gin.Engine, token, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingToken(t *testing.T) {
	r, _ := newRouter(t)

	if w := do(r, "", "/me"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	r, _ := newRouter(t)

	if w := do(r, "no-such-token", "/me"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ValidToken_SetsContext(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, "tok-lead", "/me")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "lead@example.com") || !strings.Contains(body, `"tenant":"7"`) {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestAuth_ExcludedPath(t *testing.T) {
	r, _ := newRouter(t)

	if w := do(r, "", "/healthz"); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 without a token", w.Code)
	}
}

func TestRequire_Denied(t *testing.T) {
	r, _ := newRouter(t)

	if w := do(r, "tok-lead", "/users"); w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for team leader", w.Code)
	}
}

func TestRequire_SuperuserBypass(t *testing.T) {
	r, _ := newRouter(t)

	if w := do(r, "tok-root", "/users"); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for superuser", w.Code)
	}
}

func TestRequireAny(t *testing.T) {
	gin.SetMode(gin.TestMode)

	client, _ := fake.NewClient(
		fake.WithUser("tok-acct", "pw", fieldops.Profile{
			ID: "3", Email: "acct@example.com", Role: fieldops.RoleAccountant,
		}),
	)

	r := gin.New()
	r.Use(ginmw.Auth(client))
	r.GET("/reports",
		ginmw.RequireAny(
			capability.AnyOf("projects.view", fieldops.RoleProjectManager),
			capability.AnyOf("timesheets.view", fieldops.RoleAccountant),
		),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	if w := do(r, "tok-acct", "/reports"); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 via second descriptor", w.Code)
	}
}
