package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/orgball2608/telegram-hugo-exporter/internal/exporter"
	"github.com/orgball2608/telegram-hugo-exporter/internal/exporter/exporterimpl"
	"github.com/orgball2608/telegram-hugo-exporter/internal/notifier"
	"github.com/orgball2608/telegram-hugo-exporter/internal/notifier/notifierimpl"
	"github.com/orgball2608/telegram-hugo-exporter/internal/pgx"
	repositories "github.com/orgball2608/telegram-hugo-exporter/internal/repositories/fx"
	"github.com/orgball2608/telegram-hugo-exporter/internal/telegram"
	"github.com/orgball2608/telegram-hugo-exporter/internal/telegram/telegramimpl"
	"github.com/orgball2608/telegram-hugo-exporter/pkg/config"
	"github.com/orgball2608/telegram-hugo-exporter/pkg/logger"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
	),
	fx.Provide(
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		),
		fx.Annotate(
			notifierimpl.New,
			fx.As(new(notifier.Client)),
		),
		fx.Annotate(
			exporterimpl.New,
			fx.As(new(exporter.Client)),
		),
	),
	repositories.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

// migrate applies pending migrations. The database is optional: when it is
// unreachable the export still runs, only the skip-already-exported state is
// lost, so migration failures degrade to a warning instead of failing startup.
func migrate(c *config.Config, log logger.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", c.GetDSN())
	if err != nil {
		log.Warn("Skipping migrations, cannot open database", "error", err)
		return nil
	}
	defer db.Close()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	if err := goose.Up(db, filepath.Join(wd, "migrations")); err != nil {
		log.Warn("Migrations not applied, export state disabled for this run", "error", err)
	}
	return nil
}

func run(lc fx.Lifecycle, sd fx.Shutdowner, log logger.Logger, cfg *config.Config, expClient exporter.Client, notifClient notifier.Client) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHttpServer(log, cfg)

			go func() {
				if err := expClient.Run(runCtx); err != nil {
					log.Error("Export run failed", "error", err)
					notifClient.SendMessageToUser("Export run failed: " + err.Error())
				}
				_ = sd.Shutdown()
			}()

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func startHttpServer(log logger.Logger, cfg *config.Config) {
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})

	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), nil); err != nil {
		log.Error("Server failed to start", "error", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, log logger.Logger) {
	log.Debug("Health check request received", "method", r.Method, "url", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		log.Error("Failed to write response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
