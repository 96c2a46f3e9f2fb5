package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/server/config"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoreBackend = config.StoreMemory
	cfg.SecretKey = "UnitTestSecretKeyUnitTestSecretKey123"
	cfg.EndpointAddrGRPC = "127.0.0.1:0"
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	return cfg
}

func TestNewApp_Memory(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(ctx, memoryConfig(), logging.Discard())
	require.NoError(t, err)
	defer app.Close()

	u, err := app.repomanager.Users().Create(ctx, &models.User{Email: "a@test.com", Role: "user"})
	require.NoError(t, err)

	pair, err := app.tokenService.IssueTokenPair(ctx, u)
	require.NoError(t, err)

	_, err = app.tokenService.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.SecretKey = "short"

	_, err := NewApp(context.Background(), cfg, logging.Discard())
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestNewApp_UnreachableRedis(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreBackend = config.StoreRedis
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := NewApp(context.Background(), cfg, logging.Discard())
	assert.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig(), logging.Discard())
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestApp_RunStopsWhenServerFails(t *testing.T) {
	cfg := memoryConfig()
	cfg.EndpointAddrHTTP = "bad-address"

	app, err := NewApp(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	defer app.Close()

	done := make(chan struct{})
	go func() {
		app.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after listen failure")
	}
}

func TestApp_RunWithoutHTTP(t *testing.T) {
	cfg := memoryConfig()
	cfg.EndpointAddrHTTP = ""

	app, err := NewApp(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
