// Package common defines shared constants and sentinel errors used across
// the token lifecycle server. Callers should use errors.Is to match these
// values; components wrap them with fmt.Errorf("...: %w", ...).
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// Service-level errors.
	ErrorInternal      = errors.New("internal error")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConfiguration reports a signing key or settings value that cannot
	// be used. It is expected at startup, never per request.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidToken is returned for refresh tokens that do not exist, are
	// expired or were revoked, and for access tokens that fail verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned by access token verification only.
	ErrTokenExpired = errors.New("token expired")
)
