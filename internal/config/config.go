package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env string `env:"ENV" default:"dev"`

	Port string `env:"PORT" default:"8080"`

	StateBackend string `env:"STATE_BACKEND" default:"memory"` // memory | mysql
	MySQLDSN     string `env:"DB_DSN" default:""`              // required when STATE_BACKEND=mysql

	// Optional: run migrations at startup (dev convenience)
	RunMigrations bool `env:"RUN_MIGRATIONS" default:"false"`

	// Headless content store (read-only source of vehicle listings)
	CMSBaseURL string `env:"CMS_BASE_URL" default:""`
	CMSDataset string `env:"CMS_DATASET" default:"production"`
	CMSToken   string `env:"CMS_TOKEN" default:""`

	// Shared secret the content store sends with webhook deliveries.
	// Empty disables the check (dev only).
	WebhookSecret string `env:"WEBHOOK_SECRET" default:""`

	// Interval for the syncd full-catalog reconciliation pass.
	SyncInterval time.Duration `env:"SYNC_INTERVAL" default:"1h"`
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:           getenv("ENV", "dev"),
		Port:          getenv("PORT", "8080"),
		StateBackend:  getenv("STATE_BACKEND", "memory"),
		MySQLDSN:      getenv("DB_DSN", ""),
		RunMigrations: getenv("RUN_MIGRATIONS", "false") == "true",
		CMSBaseURL:    getenv("CMS_BASE_URL", ""),
		CMSDataset:    getenv("CMS_DATASET", "production"),
		CMSToken:      getenv("CMS_TOKEN", ""),
		WebhookSecret: getenv("WEBHOOK_SECRET", ""),
		SyncInterval:  getduration("SYNC_INTERVAL", time.Hour),
	}
	return cfg
}

func getenv(key string, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
