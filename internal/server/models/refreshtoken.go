// Package models defines server-side data models persisted in the store.
package models

import "time"

// TokenState classifies a refresh token for diagnostics. Expired and revoked
// are both terminal; callers only ever see an invalid-token error.
type TokenState int

const (
	TokenStateActive TokenState = iota
	TokenStateExpired
	TokenStateRevoked
)

func (s TokenState) String() string {
	switch s {
	case TokenStateActive:
		return "active"
	case TokenStateExpired:
		return "expired"
	case TokenStateRevoked:
		return "revoked"
	default:
		return "unknown"
	}
}

// RefreshToken is one issued refresh token. Records are never deleted;
// RevokedAt, once set, is never cleared.
type RefreshToken struct {
	ID        string
	Token     string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// IsActive reports whether the token can still be exchanged at now.
// A token is still active at exactly ExpiresAt.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return t.State(now) == TokenStateActive
}

// State evaluates the token at now. Revocation takes precedence over expiry.
func (t *RefreshToken) State(now time.Time) TokenState {
	if t.RevokedAt != nil {
		return TokenStateRevoked
	}
	if now.After(t.ExpiresAt) {
		return TokenStateExpired
	}
	return TokenStateActive
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
