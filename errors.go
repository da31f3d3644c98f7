package fieldops

import "errors"

// Sentinel errors shared across packages. Callers match them with errors.Is;
// implementations wrap them with call-site detail.
var (
	// ErrInvalidCredentials is returned by Authenticator implementations when
	// the backend rejects an email/password pair.
	ErrInvalidCredentials = errors.New("fieldops: invalid credentials")

	// ErrUnauthorized is returned when the backend rejects a bearer token.
	ErrUnauthorized = errors.New("fieldops: unauthorized")

	// ErrNoSession is returned by operations that require an authenticated
	// session when none is present.
	ErrNoSession = errors.New("fieldops: no active session")
)
