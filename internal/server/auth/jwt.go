// Package auth mints and verifies HS256 access tokens that carry the user
// identity as claims.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/clock"
	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/validatorx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinKeyLength is the shortest signing key accepted for HS256 (256 bits).
const MinKeyLength = 32

// Settings configures access token minting.
//
// ExpirationMinutes is not range checked: zero or a negative value yields
// tokens that are already expired when issued.
type Settings struct {
	Key               string `validate:"required,min=32"`
	Issuer            string `validate:"required"`
	Audience          string `validate:"required"`
	ExpirationMinutes int
}

// Validate reports unusable settings as common.ErrConfiguration.
func (s Settings) Validate() error {
	if err := validatorx.Struct(s); err != nil {
		return fmt.Errorf("%w: jwt settings: %w", common.ErrConfiguration, err)
	}
	return nil
}

// Claims is the access token payload. Subject holds the user id.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Sign encodes user into an access token issued at now. It validates
// settings on every call; hot paths should use a Signer instead.
func Sign(user *models.User, settings Settings, now time.Time) (string, error) {
	if user == nil {
		return "", fmt.Errorf("%w: user is required", common.ErrInvalidArgument)
	}
	if err := settings.Validate(); err != nil {
		return "", err
	}
	return sign(user, settings, now)
}

func sign(user *models.User, settings Settings, now time.Time) (string, error) {
	lifetime := time.Duration(settings.ExpirationMinutes) * time.Minute

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: user.Email,
		Role:  user.Role,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Issuer:    settings.Issuer,
			Audience:  jwt.ClaimStrings{settings.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	})

	tokenString, err := token.SignedString([]byte(settings.Key))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return tokenString, nil
}

// Signer holds settings that were validated once at construction.
type Signer struct {
	settings Settings
	key      []byte
	clock    clock.Clock
}

// NewSigner validates settings and returns a Signer. A nil clock means the
// system clock.
func NewSigner(settings Settings, c clock.Clock) (*Signer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Signer{settings: settings, key: []byte(settings.Key), clock: c}, nil
}

// Settings returns a copy of the signer configuration.
func (s *Signer) Settings() Settings {
	return s.settings
}

// Sign mints an access token for user at the current clock reading.
func (s *Signer) Sign(user *models.User) (string, error) {
	return s.SignAt(user, s.clock.Now())
}

// SignAt mints an access token for user as of now.
func (s *Signer) SignAt(user *models.User, now time.Time) (string, error) {
	if user == nil {
		return "", fmt.Errorf("%w: user is required", common.ErrInvalidArgument)
	}
	return sign(user, s.settings, now)
}

// Verify checks signature, algorithm, issuer, audience and expiry and returns
// the claims. Expired tokens yield common.ErrTokenExpired, every other
// failure wraps common.ErrInvalidToken.
func (s *Signer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.settings.Issuer),
		jwt.WithAudience(s.settings.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// ParseUnverified decodes the claims without checking the signature or any
// time-based claim. It is meant for diagnostics only.
func ParseUnverified(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	return claims, nil
}
