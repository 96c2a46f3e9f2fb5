package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophsession/internal/clock"
	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/server/auth"
	"github.com/dmitrijs2005/gophsession/internal/server/config"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophsession/internal/server/services"
	"github.com/dmitrijs2005/gophsession/internal/tokenctl"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return tokenctl.ErrUsage
	}

	cfg, err := config.Load(args[1:])
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	signer, err := auth.NewSigner(cfg.JWTSettings(), clock.SystemClock{})
	if err != nil {
		return err
	}

	rm, err := repomanager.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("store init error: %w", err)
	}
	defer rm.Close()

	if err := rm.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	ts, err := services.NewTokenService(rm, signer, services.Options{
		RefreshLifetime: cfg.RefreshTokenValidityDuration,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	app := tokenctl.NewApp(services.NewUserService(rm), ts, os.Stdout)
	return app.Run(ctx, args)
}
