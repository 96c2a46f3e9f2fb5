package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/server"
	"github.com/dmitrijs2005/gophsession/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "app init error", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error(ctx, "close error", "error", err)
		}
	}()

	app.Run(ctx)

}
