package config

import (
	"fmt"
	"os"
	"time"

	"github.com/jhchoi91066/system-trading-sub000/src/helpers"
	"github.com/jhchoi91066/system-trading-sub000/src/models"
	"github.com/jhchoi91066/system-trading-sub000/src/utils"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Built-in defaults applied before validation.
const (
	DefaultPingIntervalSeconds  = 30
	DefaultReconnectBaseDelayMs = 1000
	DefaultReconnectMaxAttempts = 5
	DefaultCacheTTLSeconds      = 300
	DefaultAuthTokenEnv         = "MONITOR_AUTH_TOKEN"
	DefaultRateLimitRPS         = 20
	DefaultRateLimitBurst       = 40
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from YAML file. A .env file next
// to the working directory is loaded first so secrets (the monitor auth
// token) stay out of the YAML.
func NewConfig(configPath string) (*Config, error) {
	// Secrets come from the environment; missing .env is fine.
	_ = godotenv.Load()

	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	// 3. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, helpers.NewConfigurationError("config validation failed", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// applyDefaults fills zero values with built-in defaults so a minimal YAML
// stays valid.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.Monitor.PingIntervalSeconds <= 0 {
		c.Monitor.PingIntervalSeconds = DefaultPingIntervalSeconds
	}
	if c.Monitor.ReconnectBaseDelayMs <= 0 {
		c.Monitor.ReconnectBaseDelayMs = DefaultReconnectBaseDelayMs
	}
	if c.Monitor.ReconnectMaxAttempts <= 0 {
		c.Monitor.ReconnectMaxAttempts = DefaultReconnectMaxAttempts
	}
	if c.Monitor.AuthTokenEnv == "" {
		c.Monitor.AuthTokenEnv = DefaultAuthTokenEnv
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = DefaultCacheTTLSeconds
	}
	if c.Notifications.HistoryLimit <= 0 {
		c.Notifications.HistoryLimit = utils.DefaultNotificationHistory
	}
	if c.API.RateLimitRPS <= 0 {
		c.API.RateLimitRPS = DefaultRateLimitRPS
	}
	if c.API.RateLimitBurst <= 0 {
		c.API.RateLimitBurst = DefaultRateLimitBurst
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	// Validate App configuration (Flattened)
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Validate Server configuration (Flattened)
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	// Validate Monitor configuration
	if c.Monitor.EndpointURL == "" {
		return fmt.Errorf("monitor endpoint URL cannot be empty")
	}
	if c.Monitor.PingIntervalSeconds <= 0 {
		return fmt.Errorf("ping interval must be greater than 0")
	}
	if c.Monitor.ReconnectBaseDelayMs <= 0 {
		return fmt.Errorf("reconnect base delay must be greater than 0")
	}
	if c.Monitor.ReconnectMaxAttempts <= 0 {
		return fmt.Errorf("reconnect max attempts must be greater than 0")
	}

	// Validate Storage configuration
	if c.Storage.DBType == "" {
		return fmt.Errorf("database type cannot be empty")
	}
	if c.Storage.DBType == "sqlite" && c.Storage.DBPath == "" {
		return fmt.Errorf("database path cannot be empty for sqlite")
	}
	if c.Storage.DBType == "postgres" && c.Storage.DBConnectionString == "" {
		return fmt.Errorf("connection string cannot be empty for postgres")
	}

	// Validate Cache configuration
	if c.Cache.Enabled && c.Cache.RedisAddr == "" {
		return fmt.Errorf("redis address cannot be empty when cache is enabled")
	}

	// Validate Analytics configuration
	if c.Analytics.InitialCapital < 0 {
		return fmt.Errorf("initial capital cannot be negative")
	}

	return nil
}

// -----------------------------------------------------------------------------

// PingInterval returns the heartbeat period for the monitor stream.
func (c *Config) PingInterval() time.Duration {
	return time.Duration(c.Monitor.PingIntervalSeconds) * time.Second
}

// -----------------------------------------------------------------------------

// ReconnectBaseDelay returns the backoff base for the reconnect budget.
func (c *Config) ReconnectBaseDelay() time.Duration {
	return time.Duration(c.Monitor.ReconnectBaseDelayMs) * time.Millisecond
}

// -----------------------------------------------------------------------------

// CacheTTL returns the snapshot cache expiry.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
