// Package config provides configuration management for the ValueBet bot.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
// and falls back to the documented engine defaults for absent values.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := viper.New()
	v.SetConfigType("yaml")

	// Environment variables override file values (VALUEBET_ENGINE_TOP_N etc.)
	v.SetEnvPrefix("VALUEBET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration, tolerating a missing config file so
// the bot can run from environment variables alone.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("VALUEBET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers fallbacks for every optional knob. The engine
// thresholds match the model's documented defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "valuebet-bot")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("engine.value_threshold", 0.05)
	v.SetDefault("engine.min_probability", 0.55)
	v.SetDefault("engine.top_n", 5)
	v.SetDefault("engine.total_goals_line", 2.5)

	v.SetDefault("scan.days_ahead", 3)

	v.SetDefault("providers.api_football.base_url", "https://v3.football.api-sports.io")
	v.SetDefault("providers.api_football.timeout_seconds", 15)
	v.SetDefault("providers.api_football.rate_limit", 5)
	v.SetDefault("providers.api_football.cache_ttl_seconds", 300)
	v.SetDefault("providers.odds_api.base_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("providers.odds_api.timeout_seconds", 15)
	v.SetDefault("providers.odds_api.rate_limit", 1)
	v.SetDefault("providers.odds_api.cache_ttl_seconds", 300)

	v.SetDefault("scheduler.refresh_hour", 6)
	v.SetDefault("scheduler.scan_hour", 8)
	v.SetDefault("scheduler.settle_hour", 10)

	v.SetDefault("server.port", 5000)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
