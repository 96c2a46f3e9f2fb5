package refreshtokens

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepository runs the behaviour every Repository implementation must share.
func testRepository(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("insert and find", func(t *testing.T) {
		repo := newRepo(t)
		rt := sampleToken()
		require.NoError(t, repo.Insert(ctx, rt))

		got, err := repo.FindByToken(ctx, rt.Token)
		require.NoError(t, err)
		assert.Equal(t, rt.ID, got.ID)
		assert.Equal(t, rt.Token, got.Token)
		assert.Equal(t, rt.UserID, got.UserID)
		assert.True(t, rt.IssuedAt.Equal(got.IssuedAt))
		assert.True(t, rt.ExpiresAt.Equal(got.ExpiresAt))
		assert.Nil(t, got.RevokedAt)
	})

	t.Run("find unknown", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindByToken(ctx, "never-issued")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("duplicate token conflicts", func(t *testing.T) {
		repo := newRepo(t)
		rt := sampleToken()
		require.NoError(t, repo.Insert(ctx, rt))

		dup := sampleToken()
		dup.ID = "another-id"
		dup.UserID = "u2"
		err := repo.Insert(ctx, dup)
		require.ErrorIs(t, err, common.ErrConflict)

		got, err := repo.FindByToken(ctx, rt.Token)
		require.NoError(t, err)
		assert.Equal(t, rt.ID, got.ID, "conflicting insert must not overwrite")
	})

	t.Run("revoke is compare and set", func(t *testing.T) {
		repo := newRepo(t)
		rt := sampleToken()
		require.NoError(t, repo.Insert(ctx, rt))

		first := rt.IssuedAt.Add(time.Hour)
		ok, err := repo.MarkRevoked(ctx, rt.ID, first)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.MarkRevoked(ctx, rt.ID, first.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := repo.FindByToken(ctx, rt.Token)
		require.NoError(t, err)
		require.NotNil(t, got.RevokedAt)
		assert.True(t, first.Equal(*got.RevokedAt), "revoked_at must keep the first value")
	})

	t.Run("revoke unknown id", func(t *testing.T) {
		repo := newRepo(t)
		ok, err := repo.MarkRevoked(ctx, "missing", time.Now())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		repo := newRepo(t)
		rt := sampleToken()
		require.NoError(t, repo.Insert(ctx, rt))

		got, err := repo.FindByToken(ctx, rt.Token)
		require.NoError(t, err)
		now := time.Now()
		got.RevokedAt = &now

		again, err := repo.FindByToken(ctx, rt.Token)
		require.NoError(t, err)
		assert.Nil(t, again.RevokedAt)
	})

	t.Run("concurrent revoke has one winner", func(t *testing.T) {
		repo := newRepo(t)
		rt := sampleToken()
		require.NoError(t, repo.Insert(ctx, rt))

		const workers = 16
		var wins atomic.Int32
		var wg sync.WaitGroup
		start := make(chan struct{})

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				ok, err := repo.MarkRevoked(ctx, rt.ID, rt.IssuedAt.Add(time.Duration(i)*time.Second))
				if err != nil {
					t.Errorf("MarkRevoked: %v", err)
					return
				}
				if ok {
					wins.Add(1)
				}
			}(i)
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
	})

	t.Run("many distinct tokens", func(t *testing.T) {
		repo := newRepo(t)
		for i := 0; i < 50; i++ {
			rt := sampleToken()
			rt.ID = fmt.Sprintf("id-%d", i)
			rt.Token = fmt.Sprintf("tok-%d", i)
			if err := repo.Insert(ctx, rt); err != nil {
				t.Fatalf("insert %d: %v", i, err)
			}
		}
		_, err := repo.FindByToken(ctx, "tok-49")
		if errors.Is(err, common.ErrorNotFound) {
			t.Fatal("expected tok-49 to be stored")
		}
	})
}

func TestMemoryRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) Repository {
		return NewMemoryRepository()
	})
}

func TestMemoryRepository_Len(t *testing.T) {
	repo := NewMemoryRepository()
	require.NoError(t, repo.Insert(context.Background(), sampleToken()))
	assert.Equal(t, 1, repo.Len())
}
