package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/orgball2608/telegram-hugo-exporter/internal/app"
	"github.com/orgball2608/telegram-hugo-exporter/pkg/logger"
	"go.uber.org/fx"
)

func main() {
	_ = godotenv.Load()

	log := logger.New(logger.Opts{})

	app := fx.New(
		fx.Logger(log),
		app.Module,
	)

	if err := app.Start(context.Background()); err != nil {
		log.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	// Released on SIGINT/SIGTERM or when the export run finishes.
	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		log.Error("Failed to stop application", "error", err)
		os.Exit(1)
	}
}
