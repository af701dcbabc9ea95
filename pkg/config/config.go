// Package config loads memkvd's configuration from flags, environment
// variables and an optional YAML file, layered the way viper layers
// them: explicit flag > environment > config file > default.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every setting memkvd needs to start serving.
type Config struct {
	// Server settings
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// Cache engine settings
	Capacity     uint64  `mapstructure:"capacity"`
	ItemLifetime float64 `mapstructure:"item_lifetime"`
	KeyMaxlen    uint64  `mapstructure:"key_maxlen"`
	ValueMaxlen  uint64  `mapstructure:"value_maxlen"`

	// Connection handling
	MaxConnections int `mapstructure:"max_connections"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Hot reload
	ConfigFile        string `mapstructure:"config_file"`
	HotReloadInterval int    `mapstructure:"hot_reload_interval_ms"`
}

// DefaultConfig returns a Config with memkvd's out-of-the-box values.
func DefaultConfig() *Config {
	return &Config{
		Host:              "0.0.0.0",
		Port:              11211,
		Capacity:          1_000_000,
		ItemLifetime:      -1,
		KeyMaxlen:         250,
		ValueMaxlen:       1_048_576,
		MaxConnections:    10000,
		LogLevel:          "info",
		LogFormat:         "text",
		HotReloadInterval: 2000,
	}
}

// Load reads configuration from an optional YAML file named
// memkvd.yaml, environment variables, and any flags already bound to
// v, in that ascending order of precedence.
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("memkvd")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/memkvd/")
	v.AddConfigPath("$HOME/.memkvd")

	v.SetEnvPrefix("MEMKVD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("capacity", cfg.Capacity)
	v.SetDefault("item_lifetime", cfg.ItemLifetime)
	v.SetDefault("key_maxlen", cfg.KeyMaxlen)
	v.SetDefault("value_maxlen", cfg.ValueMaxlen)
	v.SetDefault("max_connections", cfg.MaxConnections)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)
	v.SetDefault("hot_reload_interval_ms", cfg.HotReloadInterval)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Validate rejects settings that would make the server unable to
// start or behave nonsensically.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Port)
	}
	if c.Capacity == 0 {
		return fmt.Errorf("capacity must be at least 1")
	}
	if c.MaxConnections < 1 {
		return fmt.Errorf("max_connections must be at least 1")
	}
	if c.KeyMaxlen == 0 {
		return fmt.Errorf("key_maxlen must be at least 1")
	}
	if c.ValueMaxlen == 0 {
		return fmt.Errorf("value_maxlen must be at least 1")
	}

	validLogLevels := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	valid := false
	for _, level := range validLogLevels {
		if c.LogLevel == level {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid log_level: %s (must be one of: %s)",
			c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	return nil
}

// Addr returns the host:port pair the server should listen on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// String renders a short human-readable summary of the config.
func (c *Config) String() string {
	return fmt.Sprintf("memkvd config: %s, capacity=%d, item_lifetime=%.0f, log_level=%s",
		c.Addr(), c.Capacity, c.ItemLifetime, c.LogLevel)
}
