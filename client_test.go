package fieldops_test

import (
	"testing"
	"time"

	fieldops "github.com/opsdeck/fieldops-go"
)

func TestNewClient_RequiresBaseURLOrService(t *testing.T) {
	_, err := fieldops.NewClient(fieldops.Config{})
	if err == nil {
		t.Fatal("NewClient() expected error with no BaseURL and no services")
	}
}

func TestNewClient_AcceptsBaseURL(t *testing.T) {
	c, err := fieldops.NewClient(fieldops.Config{BaseURL: "https://ops.example.com"})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if c.Config().BaseURL != "https://ops.example.com" {
		t.Errorf("BaseURL = %q, want %q", c.Config().BaseURL, "https://ops.example.com")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := fieldops.NewClient(fieldops.Config{BaseURL: "https://ops.example.com"})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if c.Config().RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want %v", c.Config().RequestTimeout, 10*time.Second)
	}
	if c.Config().LoginRoute != "/login" {
		t.Errorf("LoginRoute = %q, want %q", c.Config().LoginRoute, "/login")
	}
	if c.Config().ForbiddenRoute != "/forbidden" {
		t.Errorf("ForbiddenRoute = %q, want %q", c.Config().ForbiddenRoute, "/forbidden")
	}
}

func TestNewClient_CustomRoutes(t *testing.T) {
	c, err := fieldops.NewClient(fieldops.Config{
		BaseURL:    "https://ops.example.com",
		LoginRoute: "/auth/sign-in",
	})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if c.Config().LoginRoute != "/auth/sign-in" {
		t.Errorf("LoginRoute = %q, want %q", c.Config().LoginRoute, "/auth/sign-in")
	}
}

func TestNewClient_NilServicesBeforeInjection(t *testing.T) {
	c, _ := fieldops.NewClient(fieldops.Config{BaseURL: "https://ops.example.com"})

	if c.Auth() != nil {
		t.Error("Auth() should be nil before injection")
	}
	if c.Profiles() != nil {
		t.Error("Profiles() should be nil before injection")
	}
	if c.Tokens() != nil {
		t.Error("Tokens() should be nil before injection")
	}
}

func TestClient_Close_NoServices(t *testing.T) {
	c, _ := fieldops.NewClient(fieldops.Config{BaseURL: "https://ops.example.com"})
	if err := c.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestStatus_String(t *testing.T) {
	cases := []struct {
		status fieldops.Status
		want   string
	}{
		{fieldops.StatusLoading, "loading"},
		{fieldops.StatusAuthenticated, "authenticated"},
		{fieldops.StatusAnonymous, "anonymous"},
	}
	for _, tc := range cases {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestSnapshot_Authenticated(t *testing.T) {
	anon := fieldops.Snapshot{Status: fieldops.StatusAnonymous}
	if anon.Authenticated() {
		t.Error("anonymous snapshot should not be authenticated")
	}

	auth := fieldops.Snapshot{
		Status:  fieldops.StatusAuthenticated,
		Token:   "tok",
		Profile: &fieldops.Profile{ID: "1"},
	}
	if !auth.Authenticated() {
		t.Error("snapshot with profile should be authenticated")
	}
}
