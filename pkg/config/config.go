package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Telegram struct {
		ApiID       int    `env:"TELEGRAM_API_ID"`
		ApiHash     string `env:"TELEGRAM_API_HASH"`
		Phone       string `env:"TELEGRAM_PHONE"`
		SessionPath string `env:"TELEGRAM_SESSION_PATH" env-default:"./tg-session.json"`
		BotToken    string `env:"TELEGRAM_BOT_TOKEN"`
		User        int64  `env:"TELEGRAM_USER"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Export struct {
		ContentDir    string `env:"EXPORT_CONTENT_DIR" env-default:"hugo_content/posts"`
		Limit         int    `env:"EXPORT_LIMIT" env-default:"0"`
		GalleryPolicy string `env:"EXPORT_GALLERY_POLICY" env-default:"legacy"`
		WatchMinutes  int    `env:"EXPORT_WATCH_MINUTES" env-default:"0"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// GetDSN returns the postgres connection string used by database/sql callers.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}
