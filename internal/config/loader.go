package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "mindcore.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "MINDCORE_PORT")
	setString(&cfg.Server.CORSOrigin, "MINDCORE_CORS_ORIGIN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "MINDCORE_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "MINDCORE_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "MINDCORE_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "MINDCORE_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "MINDCORE_PG_HEALTH_CHECK")
	setString(&cfg.Gateway.Endpoint, "MINDCORE_GATEWAY_ENDPOINT")
	setString(&cfg.Gateway.APIKey, "GEMINI_API_KEY")
	setString(&cfg.Gateway.Model, "MINDCORE_GATEWAY_MODEL")
	setDuration(&cfg.Gateway.Timeout, "MINDCORE_GATEWAY_TIMEOUT")
	setDuration(&cfg.Executors.DefaultTimeout, "MINDCORE_EXEC_TIMEOUT")
	setBool(&cfg.Notify.Enabled, "MINDCORE_NOTIFY_ENABLED")
	setStringList(&cfg.Notify.Providers, "MINDCORE_NOTIFY_PROVIDERS")
	setString(&cfg.Notify.SMTP.Host, "MINDCORE_SMTP_HOST")
	setInt(&cfg.Notify.SMTP.Port, "MINDCORE_SMTP_PORT")
	setString(&cfg.Notify.SMTP.From, "MINDCORE_SMTP_FROM")
	setString(&cfg.Notify.SMTP.Password, "MINDCORE_SMTP_PASSWORD")
	setString(&cfg.Notify.Slack.WebhookURL, "MINDCORE_SLACK_WEBHOOK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setInt64(&cfg.Cache.MaxSizeMB, "MINDCORE_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.TTL, "MINDCORE_CACHE_TTL")
	setString(&cfg.Logging.Level, "MINDCORE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "MINDCORE_LOG_SERVICE")
	setInt(&cfg.Breaker.MaxFailures, "MINDCORE_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "MINDCORE_BREAKER_TIMEOUT")
	setBool(&cfg.Telemetry.Enabled, "MINDCORE_OTEL_ENABLED")
	setString(&cfg.Telemetry.Endpoint, "MINDCORE_OTEL_ENDPOINT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Gateway.Endpoint == "" {
		return errors.New("gateway.endpoint is required")
	}
	if cfg.Gateway.Timeout <= 0 {
		return errors.New("gateway.timeout must be positive")
	}
	if cfg.Executors.DefaultTimeout <= 0 {
		return errors.New("executors.default_timeout must be positive")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setStringList(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := parts[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		*dst = out
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
