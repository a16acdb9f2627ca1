package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// TranscribeMode selects how POST /api/transcribe behaves.
type TranscribeMode string

const (
	// ModeAsync queues a job and returns immediately.
	ModeAsync TranscribeMode = "async"
	// ModeSync runs the pipeline inside the request.
	ModeSync TranscribeMode = "sync"
)

// DB drivers accepted by Config.DBDriver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all runtime configuration. Values come from an optional
// YAML file, overridden by environment variables.
type Config struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`

	DBDriver    string `yaml:"db_driver"`
	DBPath      string `yaml:"db_path"`
	DatabaseURL string `yaml:"database_url"`

	OpenAIAPIKey string `yaml:"openai_api_key"`
	YtdlpBinary  string `yaml:"ytdlp_binary"`

	TranscribeMode     TranscribeMode `yaml:"transcribe_mode"`
	WorkerPollInterval time.Duration  `yaml:"worker_poll_interval"`
	TranscribeTimeout  time.Duration  `yaml:"transcribe_timeout"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Host:               "0.0.0.0",
		Port:               "8000",
		Environment:        "development",
		DBDriver:           DriverSQLite,
		DBPath:             "data/transcriber.db",
		YtdlpBinary:        "yt-dlp",
		TranscribeMode:     ModeAsync,
		WorkerPollInterval: 5 * time.Second,
		TranscribeTimeout:  10 * time.Minute,
	}
}

// LoadEnv loads environment variables from a .env file if one exists.
// Missing files are not an error; variables may be set system-wide.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// Load builds the effective configuration: defaults, then the YAML file
// (YTT_CONFIG or ./ytt.yaml when present), then environment variables.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	cfg := Defaults()

	yamlPath := os.Getenv("YTT_CONFIG")
	if yamlPath == "" {
		yamlPath = "ytt.yaml"
	}
	if raw, err := os.ReadFile(yamlPath); err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", yamlPath, err)
		}
	} else if os.Getenv("YTT_CONFIG") != "" {
		return nil, fmt.Errorf("read %s: %w", yamlPath, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Host, "HOST")
	setString(&cfg.Port, "PORT")
	setString(&cfg.Environment, "ENVIRONMENT")
	setString(&cfg.DBDriver, "DB_DRIVER")
	setString(&cfg.DBPath, "DB_PATH")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.YtdlpBinary, "YTDLP_BINARY")

	if v := strings.TrimSpace(os.Getenv("TRANSCRIBE_MODE")); v != "" {
		cfg.TranscribeMode = TranscribeMode(strings.ToLower(v))
	}
	setDuration(&cfg.WorkerPollInterval, "WORKER_POLL_INTERVAL")
	setDuration(&cfg.TranscribeTimeout, "TRANSCRIBE_TIMEOUT")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

// Validate checks the configuration for contradictions before anything
// else starts up.
func (c *Config) Validate() error {
	switch c.TranscribeMode {
	case ModeAsync, ModeSync:
	default:
		return fmt.Errorf("invalid TRANSCRIBE_MODE %q: must be async or sync", c.TranscribeMode)
	}

	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: must be sqlite or postgres", c.DBDriver)
	}

	if c.OpenAIAPIKey != "" && !strings.HasPrefix(c.OpenAIAPIKey, "sk-") {
		return fmt.Errorf("invalid OPENAI_API_KEY format: must start with 'sk-'")
	}

	if c.WorkerPollInterval <= 0 {
		return fmt.Errorf("WORKER_POLL_INTERVAL must be positive")
	}

	return nil
}

// Addr returns the host:port the API server binds to.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}
