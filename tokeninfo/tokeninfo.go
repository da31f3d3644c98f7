// Package tokeninfo inspects bearer tokens without verifying them.
//
// The backend issues JWTs, and peeking at the expiry claim lets rehydration
// skip a doomed profile fetch when the stored token is already expired.
// Verification stays the backend's job: an unexpired peek proves nothing, and
// tokens that are not JWTs are sent to the backend untouched.
package tokeninfo

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned when the token is not parseable as a JWT. Opaque
// tokens are valid bearer credentials; only the backend can judge them.
var ErrNotJWT = errors.New("fieldops/tokeninfo: token is not a JWT")

// Info holds the claims peeked from an unverified JWT.
type Info struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Expired reports whether the token was expired at the given instant.
// Tokens without an exp claim never report expired.
func (i *Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && i.ExpiresAt.Before(now)
}

// Peek decodes the token's claims without signature verification.
func Peek(token string) (*Info, error) {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	info := &Info{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if iss, err := claims.GetIssuer(); err == nil {
		info.Issuer = iss
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	return info, nil
}
