package fieldops

import "context"

// Authenticator exchanges user credentials for a bearer token.
// Implementations: api/ (REST backend), fake/ (testing).
type Authenticator interface {
	// Authenticate performs the credential exchange and returns the token.
	// A rejected pair returns an error wrapping ErrInvalidCredentials.
	Authenticate(ctx context.Context, creds Credentials) (string, error)
}

// ProfileService fetches the profile a bearer token belongs to.
// Implementations: api/ (REST backend), fake/ (testing).
type ProfileService interface {
	// Fetch returns the profile for the token. A rejected token returns an
	// error wrapping ErrUnauthorized.
	Fetch(ctx context.Context, token string) (*Profile, error)
}

// TokenStore is the durable client storage for the single bearer-token
// record. It survives restarts; everything else about the session is derived
// from the token at rehydration.
type TokenStore interface {
	// Load returns the persisted token, or "" if none is stored.
	Load() (string, error)

	// Save persists the token, replacing any previous record.
	Save(token string) error

	// Clear deletes the record. Clearing an empty store is not an error.
	Clear() error
}
