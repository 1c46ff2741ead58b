package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults used when the corresponding environment variable is unset.
const (
	defaultACRHost      = "identify-eu-west-1.acrcloud.com"
	defaultACRTimeout   = 10 * time.Second
	defaultDownloadsDir = "downloads"
	defaultWorkerCount  = 5
	defaultTaskTopic    = "recognition-tasks"
)

// Config holds every runtime setting. It is built exactly once in main and
// passed by parameter into each component's constructor.
type Config struct {
	TelegramToken string

	ACRHost      string
	ACRAccessKey string
	ACRSecret    string
	ACRTimeout   time.Duration
	ACRMatchLen  int

	DatabaseURL  string
	RedisAddress string

	// GoogleCloudProject enables Cloud Logging and the Pub/Sub dispatcher.
	// With an empty project the bot logs to stderr and dispatches in-process.
	GoogleCloudProject string
	TaskTopic          string

	DownloadsDir string
	WorkerCount  int
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		ACRHost:            envOr("ACRCLOUD_HOST", defaultACRHost),
		ACRAccessKey:       os.Getenv("ACRCLOUD_ACCESS_KEY"),
		ACRSecret:          os.Getenv("ACRCLOUD_SECRET_KEY"),
		ACRTimeout:         defaultACRTimeout,
		ACRMatchLen:        5,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisAddress:       os.Getenv("REDIS_ADDRESS"),
		GoogleCloudProject: os.Getenv("GOOGLE_CLOUD_PROJECT"),
		TaskTopic:          envOr("TASK_TOPIC", defaultTaskTopic),
		DownloadsDir:       envOr("DOWNLOADS_DIR", defaultDownloadsDir),
		WorkerCount:        defaultWorkerCount,
	}

	if v := os.Getenv("ACRCLOUD_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ACRCLOUD_TIMEOUT_SECONDS %q: %w", v, err)
		}
		cfg.ACRTimeout = time.Duration(seconds) * time.Second
	}
	if v := os.Getenv("WORKER_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid WORKER_COUNT %q", v)
		}
		cfg.WorkerCount = n
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	if cfg.ACRAccessKey == "" || cfg.ACRSecret == "" {
		return nil, fmt.Errorf("ACRCLOUD_ACCESS_KEY and ACRCLOUD_SECRET_KEY are required")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
