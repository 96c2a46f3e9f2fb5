// Package refreshtokens declares the server-side repository contract for
// refresh token records and provides PostgreSQL, Redis and in-memory
// implementations of it.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/server/models"
)

// Repository stores refresh token records. Records are never deleted; the
// only mutation is setting RevokedAt once.
type Repository interface {
	// Insert stores a new record. A duplicate token value yields
	// common.ErrConflict and leaves the store unchanged.
	Insert(ctx context.Context, token *models.RefreshToken) error

	// FindByToken returns the record for the opaque token value, or
	// common.ErrorNotFound.
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)

	// MarkRevoked sets RevokedAt on the record with the given id if and only
	// if it is not revoked yet. It reports whether this call did the revoke.
	// An already revoked or unknown id is (false, nil).
	MarkRevoked(ctx context.Context, id string, when time.Time) (bool, error)
}
