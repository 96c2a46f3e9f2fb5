// Package services contains server-side business logic. This file implements
// TokenService, which issues, rotates and revokes token pairs.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/clock"
	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/server/auth"
	"github.com/dmitrijs2005/gophsession/internal/server/metrics"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// DefaultRefreshLifetime is used when Options.RefreshLifetime is not set.
const DefaultRefreshLifetime = 7 * 24 * time.Hour

// errLostRace marks a rotation whose compare-and-set revoke was beaten by a
// concurrent call. It never leaves this package.
var errLostRace = errors.New("refresh token revoked concurrently")

// Options tunes a TokenService. Zero values pick defaults.
type Options struct {
	RefreshLifetime time.Duration
	Clock           clock.Clock
	Logger          logging.Logger
	Metrics         metrics.Recorder
}

// TokenService issues token pairs, rotates refresh tokens and revokes them.
//
// Every operation reads the clock once; that instant is used for record
// timestamps, the access token claims and expiry checks.
type TokenService struct {
	repomanager     repomanager.RepositoryManager
	signer          *auth.Signer
	refreshLifetime time.Duration
	clock           clock.Clock
	log             logging.Logger
	metrics         metrics.Recorder
	newToken        func() (string, error)
}

// NewTokenService constructs a TokenService. The signer must already hold
// validated settings.
func NewTokenService(m repomanager.RepositoryManager, signer *auth.Signer, opts Options) (*TokenService, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: repository manager is required", common.ErrConfiguration)
	}
	if signer == nil {
		return nil, fmt.Errorf("%w: signer is required", common.ErrConfiguration)
	}
	if opts.RefreshLifetime <= 0 {
		opts.RefreshLifetime = DefaultRefreshLifetime
	}
	if opts.Clock == nil {
		opts.Clock = clock.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NopRecorder{}
	}

	return &TokenService{
		repomanager:     m,
		signer:          signer,
		refreshLifetime: opts.RefreshLifetime,
		clock:           opts.Clock,
		log:             opts.Logger.With("module", "tokens"),
		metrics:         opts.Metrics,
		newToken: func() (string, error) {
			return common.MakeRandToken(common.RefreshTokenSize)
		},
	}, nil
}

// IssueTokenPair mints an access token for user and stores a fresh refresh
// token for it. The user is trusted as given; it is not looked up.
func (s *TokenService) IssueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("%w: user with id is required", common.ErrInvalidArgument)
	}
	now := s.clock.Now()

	var pair *models.TokenPair
	err := s.repomanager.WithinTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		var err error
		pair, err = s.issue(ctx, repos.RefreshTokens(), user, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TokenIssued()
	s.log.Info(ctx, "token pair issued", "user_id", user.ID)
	return pair, nil
}

// Refresh exchanges an active refresh token for a new pair and revokes it.
// A token that is unknown, expired, revoked, or whose user no longer
// exists yields common.ErrInvalidToken, as does losing a concurrent
// rotation of the same token.
func (s *TokenService) Refresh(ctx context.Context, token string) (*models.TokenPair, error) {
	now := s.clock.Now()

	if token == "" {
		return nil, s.reject(ctx, metrics.ReasonNotFound)
	}

	rt, err := s.repomanager.RefreshTokens().FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.reject(ctx, metrics.ReasonNotFound)
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	switch rt.State(now) {
	case models.TokenStateRevoked:
		s.metrics.RefreshReplay()
		s.log.Warn(ctx, "refresh token replay", "user_id", rt.UserID, "token_id", rt.ID, "revoked_at", rt.RevokedAt)
		return nil, s.reject(ctx, metrics.ReasonRevoked, "token_id", rt.ID)
	case models.TokenStateExpired:
		return nil, s.reject(ctx, metrics.ReasonExpired, "token_id", rt.ID)
	}

	user, err := s.repomanager.Users().GetByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.reject(ctx, metrics.ReasonUserMissing, "token_id", rt.ID, "user_id", rt.UserID)
		}
		return nil, fmt.Errorf("error loading token owner: %w", err)
	}

	var pair *models.TokenPair
	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		revoked, err := repos.RefreshTokens().MarkRevoked(ctx, rt.ID, now)
		if err != nil {
			return fmt.Errorf("error revoking refresh token: %w", err)
		}
		if !revoked {
			return errLostRace
		}
		pair, err = s.issue(ctx, repos.RefreshTokens(), user, now)
		return err
	})
	if err != nil {
		if errors.Is(err, errLostRace) {
			return nil, s.reject(ctx, metrics.ReasonRace, "token_id", rt.ID)
		}
		return nil, err
	}

	s.metrics.TokenRefreshed()
	s.log.Info(ctx, "refresh token rotated", "user_id", user.ID, "token_id", rt.ID)
	return pair, nil
}

// Revoke revokes the refresh token if it exists and is not revoked yet.
// Unknown, empty and already revoked tokens are not an error; only store
// failures are returned.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	now := s.clock.Now()

	rt, err := s.repomanager.RefreshTokens().FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return fmt.Errorf("error searching refresh token: %w", err)
	}

	revoked, err := s.repomanager.RefreshTokens().MarkRevoked(ctx, rt.ID, now)
	if err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	if revoked {
		s.metrics.TokenRevoked()
		s.log.Info(ctx, "refresh token revoked", "user_id", rt.UserID, "token_id", rt.ID)
	}
	return nil
}

// Verify validates an access token minted by this service.
func (s *TokenService) Verify(accessToken string) (*auth.Claims, error) {
	return s.signer.Verify(accessToken)
}

// --- helpers below ---

func (s *TokenService) reject(ctx context.Context, reason string, args ...any) error {
	s.metrics.RefreshRejected(reason)
	s.log.Debug(ctx, "refresh rejected", append([]any{"reason", reason}, args...)...)
	return common.ErrInvalidToken
}

// issue stores a new refresh token and signs the matching access token,
// both stamped with now. A token value collision is retried once.
func (s *TokenService) issue(ctx context.Context, repo refreshtokens.Repository, user *models.User, now time.Time) (*models.TokenPair, error) {
	rt, err := s.insertRefreshToken(ctx, repo, user.ID, now)
	if err != nil {
		return nil, err
	}

	access, err := s.signer.SignAt(user, now)
	if err != nil {
		return nil, err
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: rt.Token}, nil
}

func (s *TokenService) insertRefreshToken(ctx context.Context, repo refreshtokens.Repository, userID string, now time.Time) (*models.RefreshToken, error) {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		var value string
		value, err = s.newToken()
		if err != nil {
			return nil, fmt.Errorf("error generating refresh token: %w", err)
		}

		rt := &models.RefreshToken{
			ID:        uuid.NewString(),
			Token:     value,
			UserID:    userID,
			IssuedAt:  now,
			ExpiresAt: now.Add(s.refreshLifetime),
		}

		err = repo.Insert(ctx, rt)
		if err == nil {
			return rt, nil
		}
		if !errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("error storing refresh token: %w", err)
		}
		s.log.Warn(ctx, "refresh token collision", "attempt", attempt+1)
	}
	return nil, fmt.Errorf("error storing refresh token: %w", err)
}
