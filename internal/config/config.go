// Package config loads service configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ClickHouse holds warehouse connection settings.
type ClickHouse struct {
	Addr         []string `mapstructure:"addr"`
	Database     string   `mapstructure:"database"`
	Username     string   `mapstructure:"username"`
	Password     string   `mapstructure:"password"`
	MaxOpenConns int      `mapstructure:"max_open_conns"`
	MaxIdleConns int      `mapstructure:"max_idle_conns"`
}

// CSV points at local extracts of the two event tables, used when the source
// kind is "csv".
type CSV struct {
	Transfers string `mapstructure:"transfers"`
	Calls     string `mapstructure:"calls"`
}

// Config is the full service configuration.
type Config struct {
	LogLevel   string     `mapstructure:"log_level"`
	Source     string     `mapstructure:"source"` // "clickhouse" or "csv"
	Listen     string     `mapstructure:"listen"`
	CacheSize  int        `mapstructure:"cache_size"`
	Routers    []string   `mapstructure:"routers"` // monitored router contract addresses
	ClickHouse ClickHouse `mapstructure:"clickhouse"`
	CSV        CSV        `mapstructure:"csv"`
}

// Load reads configuration from the given file (optional) and from
// BRIDGE_METRICS_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("source", "clickhouse")
	v.SetDefault("listen", ":8080")
	v.SetDefault("cache_size", 64)
	v.SetDefault("clickhouse.addr", []string{"127.0.0.1:9000"})
	v.SetDefault("clickhouse.database", "bridge")
	v.SetDefault("clickhouse.max_open_conns", 10)
	v.SetDefault("clickhouse.max_idle_conns", 5)

	v.SetEnvPrefix("BRIDGE_METRICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if cfg.Source != "clickhouse" && cfg.Source != "csv" {
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source)
	}
	return &cfg, nil
}
