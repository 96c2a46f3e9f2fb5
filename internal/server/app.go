// Package server initializes and runs the token lifecycle server.
// It selects the store backend, applies migrations, builds the token
// service and runs the gRPC and HTTP endpoints until a shutdown signal.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/gophsession/internal/clock"
	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/server/auth"
	"github.com/dmitrijs2005/gophsession/internal/server/config"
	"github.com/dmitrijs2005/gophsession/internal/server/metrics"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophsession/internal/server/services"

	gs "github.com/dmitrijs2005/gophsession/internal/server/grpc"
	hs "github.com/dmitrijs2005/gophsession/internal/server/http"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	repomanager  repomanager.RepositoryManager
	registry     *prometheus.Registry
	tokenService *services.TokenService
}

// NewApp validates c, connects the store and builds the services. The
// caller owns the returned App and must Close it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	signer, err := auth.NewSigner(c.JWTSettings(), clock.SystemClock{})
	if err != nil {
		return nil, err
	}

	rm, err := repomanager.New(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec, err := metrics.NewPrometheusRecorder(reg)
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("metrics init error: %w", err)
	}

	ts, err := services.NewTokenService(rm, signer, services.Options{
		RefreshLifetime: c.RefreshTokenValidityDuration,
		Logger:          logger,
		Metrics:         rec,
	})
	if err != nil {
		_ = rm.Close()
		return nil, err
	}

	return &App{
		config:       c,
		logger:       logger,
		repomanager:  rm,
		registry:     reg,
		tokenService: ts,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.tokenService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server error", "error", err)
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := hs.NewRouter(app.tokenService, app.registry, app.logger)
	s := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, router)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server error", "error", err)
		cancelFunc()
	}
}

// Run serves the gRPC endpoint, and the HTTP endpoint when an address is
// configured, until ctx is cancelled, a shutdown signal arrives or one of
// the servers fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrHTTP != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHTTPServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
}

// Close releases the store connection.
func (app *App) Close() error {
	return app.repomanager.Close()
}
