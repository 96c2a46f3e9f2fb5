package refreshtokens

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
)

// MemoryRepository keeps records in process memory. It is used by tests and
// by development runs with the memory store backend.
type MemoryRepository struct {
	mu      sync.Mutex
	byToken map[string]*models.RefreshToken
	byID    map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byToken: make(map[string]*models.RefreshToken),
		byID:    make(map[string]string),
	}
}

func (r *MemoryRepository) Insert(ctx context.Context, t *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byToken[t.Token]; ok {
		return fmt.Errorf("%w: refresh token already exists", common.ErrConflict)
	}
	if _, ok := r.byID[t.ID]; ok {
		return fmt.Errorf("%w: refresh token id already exists", common.ErrConflict)
	}

	r.byToken[t.Token] = clone(t)
	r.byID[t.ID] = t.Token
	return nil
}

func (r *MemoryRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(t), nil
}

func (r *MemoryRepository) MarkRevoked(ctx context.Context, id string, when time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	t := r.byToken[token]
	if t.RevokedAt != nil {
		return false, nil
	}
	w := when
	t.RevokedAt = &w
	return true, nil
}

// Len returns the number of stored records.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byToken)
}

func clone(t *models.RefreshToken) *models.RefreshToken {
	c := *t
	if t.RevokedAt != nil {
		r := *t.RevokedAt
		c.RevokedAt = &r
	}
	return &c
}
