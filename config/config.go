// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Billing   BillingConfig   `yaml:"billing"`
	Validator ValidatorConfig `yaml:"validator"`
	Tools     ToolsConfig     `yaml:"tools"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	OpenAPI   OpenAPIConfig   `yaml:"openapi"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	BaseURL      string        `yaml:"base_url"` // Public URL used in checkout redirects
}

// DatabaseConfig configures the database.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite"
	DSN    string `yaml:"dsn"`
}

// AuthConfig configures session authentication.
type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret,omitempty"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

// BillingConfig configures the payment provider.
// Mode is "none", "stripe" or "fake".
type BillingConfig struct {
	Mode                string `yaml:"mode"`
	StripeSecretKey     string `yaml:"stripe_secret_key,omitempty"`
	StripePublicKey     string `yaml:"stripe_public_key,omitempty"`
	StripeWebhookSecret string `yaml:"stripe_webhook_secret,omitempty"`
	PriceID             string `yaml:"price_id,omitempty"` // Subscription price
}

// ValidatorConfig configures the external idea validation service.
type ValidatorConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
}

// ToolsConfig configures the research tools.
type ToolsConfig struct {
	SpinLimit      int    `yaml:"spin_limit"`       // Free roulette spins
	SpinReset      string `yaml:"spin_reset"`       // "never" (default), "daily" or "monthly"
	FreeValidSteps int    `yaml:"free_valid_steps"` // Validation steps shown without subscription
	// Estimator adjustment expressions, evaluated per estimate with
	// the input in scope. Example: "category == 'games' ? low * 0.8 : low".
	EstimatorAdjustLow  string `yaml:"estimator_adjust_low,omitempty"`
	EstimatorAdjustHigh string `yaml:"estimator_adjust_high,omitempty"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// OpenAPIConfig configures OpenAPI/Swagger documentation.
type OpenAPIConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
// Useful for Docker deployments where no config file is needed.
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback tries to load from file, falls back to environment variables.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// applyEnvOverrides applies NICHES_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NICHES_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("NICHES_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("NICHES_SERVER_BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("NICHES_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("NICHES_AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("NICHES_AUTH_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Auth.SessionTTL = d
		}
	}
	if v := os.Getenv("NICHES_BILLING_MODE"); v != "" {
		cfg.Billing.Mode = v
	}
	if v := os.Getenv("NICHES_BILLING_STRIPE_SECRET_KEY"); v != "" {
		cfg.Billing.StripeSecretKey = v
	}
	if v := os.Getenv("NICHES_BILLING_STRIPE_WEBHOOK_SECRET"); v != "" {
		cfg.Billing.StripeWebhookSecret = v
	}
	if v := os.Getenv("NICHES_BILLING_PRICE_ID"); v != "" {
		cfg.Billing.PriceID = v
	}
	if v := os.Getenv("NICHES_VALIDATOR_URL"); v != "" {
		cfg.Validator.URL = v
	}
	if v := os.Getenv("NICHES_VALIDATOR_API_KEY"); v != "" {
		cfg.Validator.APIKey = v
	}
	if v := os.Getenv("NICHES_TOOLS_SPIN_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Tools.SpinLimit = n
		}
	}
	if v := os.Getenv("NICHES_TOOLS_FREE_VALID_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Tools.FreeValidSteps = n
		}
	}
	if v := os.Getenv("NICHES_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("NICHES_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("NICHES_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("NICHES_OPENAPI_ENABLED"); v != "" {
		cfg.OpenAPI.Enabled = parseBool(v)
	}
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 90 * time.Second
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "nicheshunter.db"
	}
	if cfg.Auth.SessionTTL == 0 {
		cfg.Auth.SessionTTL = 30 * 24 * time.Hour
	}
	if cfg.Billing.Mode == "" {
		cfg.Billing.Mode = "none"
	}
	if cfg.Validator.Timeout == 0 {
		cfg.Validator.Timeout = 60 * time.Second
	}
	if cfg.Tools.SpinLimit == 0 {
		cfg.Tools.SpinLimit = 3
	}
	if cfg.Tools.SpinReset == "" {
		cfg.Tools.SpinReset = "never"
	}
	if cfg.Tools.FreeValidSteps == 0 {
		cfg.Tools.FreeValidSteps = 2
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	switch cfg.Billing.Mode {
	case "none", "fake", "test":
	case "stripe":
		if cfg.Billing.StripeSecretKey == "" {
			return fmt.Errorf("billing mode stripe requires stripe_secret_key")
		}
		if cfg.Billing.PriceID == "" {
			return fmt.Errorf("billing mode stripe requires price_id")
		}
	default:
		return fmt.Errorf("unknown billing mode: %s", cfg.Billing.Mode)
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", cfg.Logging.Format)
	}
	if cfg.Tools.SpinLimit < 0 {
		return fmt.Errorf("spin_limit must not be negative")
	}
	switch cfg.Tools.SpinReset {
	case "never", "daily", "monthly":
	default:
		return fmt.Errorf("invalid spin_reset: %s", cfg.Tools.SpinReset)
	}
	if cfg.Tools.FreeValidSteps < 0 {
		return fmt.Errorf("free_valid_steps must not be negative")
	}
	return nil
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}
