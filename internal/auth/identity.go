package auth

import "context"

// IdentityRecord is the narrow view of a stored member the authentication
// pipeline needs; the full persisted entity never crosses this boundary.
type IdentityRecord struct {
	Username        string
	PasswordHash    string
	Role            string
	ProfileComplete bool
	Active          bool
}

// IdentitySource looks up stored identities by username. A missing username
// returns (nil, nil); errors are reserved for lookup failures.
type IdentitySource interface {
	Lookup(ctx context.Context, username string) (*IdentityRecord, error)
}

// Principal is the request-scoped authenticated identity. It is rebuilt on
// every request from token claims or, at login, from the stored record, and
// never cached across requests.
type Principal struct {
	Username        string
	Role            string
	ProfileComplete bool
}
