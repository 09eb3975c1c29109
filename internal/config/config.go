// Package config provides configuration management for the ValueBet bot.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Engine    EngineConfig    `mapstructure:"engine" validate:"required"`
	Scan      ScanConfig      `mapstructure:"scan" validate:"required"`
	Providers ProvidersConfig `mapstructure:"providers" validate:"required"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// EngineConfig holds the value-detection thresholds
type EngineConfig struct {
	ValueThreshold float64 `mapstructure:"value_threshold" validate:"gte=0"`
	MinProbability float64 `mapstructure:"min_probability" validate:"gte=0,lte=1"`
	TopN           int     `mapstructure:"top_n" validate:"gte=0"`
	TotalGoalsLine float64 `mapstructure:"total_goals_line" validate:"gt=0"`
}

// LeagueConfig identifies one competition to scan
type LeagueConfig struct {
	ID   int    `mapstructure:"id" validate:"required,gt=0"`
	Name string `mapstructure:"name" validate:"required"`
}

// ScanConfig represents which competitions and fixtures to scan
type ScanConfig struct {
	Leagues   []LeagueConfig `mapstructure:"leagues" validate:"required,min=1,dive"`
	Season    int            `mapstructure:"season" validate:"required,gte=2000"`
	DaysAhead int            `mapstructure:"days_ahead" validate:"required,gt=0"`
}

// ProvidersConfig groups the external data providers
type ProvidersConfig struct {
	APIFootball ProviderConfig `mapstructure:"api_football" validate:"required"`
	OddsAPI     ProviderConfig `mapstructure:"odds_api" validate:"required"`
}

// ProviderConfig represents one HTTP data provider
type ProviderConfig struct {
	BaseURL         string  `mapstructure:"base_url" validate:"required,url"`
	APIKey          string  `mapstructure:"api_key"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// TelegramConfig represents the notification channel configuration
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// SchedulerConfig represents the daily job schedule (hours in UTC)
type SchedulerConfig struct {
	RefreshHour int `mapstructure:"refresh_hour" validate:"gte=0,lte=23"`
	ScanHour    int `mapstructure:"scan_hour" validate:"gte=0,lte=23"`
	SettleHour  int `mapstructure:"settle_hour" validate:"gte=0,lte=23"`
}

// ServerConfig represents the dashboard/health HTTP server
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// LeagueName returns the display name for a competition ID
func (c *Config) LeagueName(id int) string {
	for _, l := range c.Scan.Leagues {
		if l.ID == id {
			return l.Name
		}
	}
	return fmt.Sprintf("league %d", id)
}
