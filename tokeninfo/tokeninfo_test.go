package tokeninfo_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/opsdeck/fieldops-go/tokeninfo"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestPeek_ValidJWT(t *testing.T) {
	exp := time.Now().Add(1 * time.Hour)
	token := signedToken(t, jwt.MapClaims{
		"sub": "42",
		"iss": "fieldops",
		"exp": exp.Unix(),
		"iat": time.Now().Unix(),
	})

	info, err := tokeninfo.Peek(token)
	if err != nil {
		t.Fatalf("Peek returned error: %v", err)
	}
	if info.Subject != "42" {
		t.Errorf("Subject = %q, want %q", info.Subject, "42")
	}
	if info.Issuer != "fieldops" {
		t.Errorf("Issuer = %q, want %q", info.Issuer, "fieldops")
	}
	if info.ExpiresAt.Unix() != exp.Unix() {
		t.Errorf("ExpiresAt = %v, want %v", info.ExpiresAt, exp)
	}
	if info.Expired(time.Now()) {
		t.Error("token should not be expired")
	}
}

func TestPeek_ExpiredJWT(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"exp": time.Now().Add(-1 * time.Minute).Unix(),
	})

	info, err := tokeninfo.Peek(token)
	if err != nil {
		t.Fatalf("Peek returned error: %v", err)
	}
	if !info.Expired(time.Now()) {
		t.Error("token should be expired")
	}
}

func TestPeek_NoExpClaim(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "42"})

	info, err := tokeninfo.Peek(token)
	if err != nil {
		t.Fatalf("Peek returned error: %v", err)
	}
	if info.Expired(time.Now()) {
		t.Error("tokens without exp never report expired")
	}
}

func TestPeek_OpaqueToken(t *testing.T) {
	_, err := tokeninfo.Peek("9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b")
	if !errors.Is(err, tokeninfo.ErrNotJWT) {
		t.Errorf("error = %v, want ErrNotJWT", err)
	}
}

func TestPeek_Empty(t *testing.T) {
	_, err := tokeninfo.Peek("")
	if !errors.Is(err, tokeninfo.ErrNotJWT) {
		t.Errorf("error = %v, want ErrNotJWT", err)
	}
}
