package models

// MConfig Structure
type MConfig struct {
	Name          string              `yaml:"name"`
	Host          string              `yaml:"host"`
	Port          int                 `yaml:"port"`
	LogLevel      string              `yaml:"log_level"`
	Monitor       MMonitorConfig      `yaml:"monitor"`
	Storage       MStorageConfig      `yaml:"storage"`
	Cache         MCacheConfig        `yaml:"cache"`
	Analytics     MAnalyticsConfig    `yaml:"analytics"`
	Notifications MNotificationConfig `yaml:"notifications"`
	API           MAPIConfig          `yaml:"api"`
}

type MMonitorConfig struct {
	EndpointURL          string `yaml:"endpoint_url"`
	PingIntervalSeconds  int    `yaml:"ping_interval_seconds"`
	ReconnectBaseDelayMs int    `yaml:"reconnect_base_delay_ms"`
	ReconnectMaxAttempts int    `yaml:"reconnect_max_attempts"`
	AuthTokenEnv         string `yaml:"auth_token_env"`
	AuthURL              string `yaml:"auth_url"` // Optional HTTP token endpoint
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MCacheConfig struct {
	Enabled       bool   `yaml:"enabled"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	TTLSeconds    int    `yaml:"ttl_seconds"`
}

type MAnalyticsConfig struct {
	InitialCapital float64 `yaml:"initial_capital"`
}

type MNotificationConfig struct {
	HistoryLimit int `yaml:"history_limit"`
}

type MAPIConfig struct {
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}
