package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/tranvictor/safeops/util/cache"
)

const EnvPrefix = "SAFEOPS"

// Values set by cobra flags.
var (
	ConfigFile  string
	Network     string
	LogLevel    string
	CachePath   string
	MetricsFile string
)

type AnalyticsConfig struct {
	Enabled       bool   `mapstructure:"enabled" json:"enabled"`
	Environment   string `mapstructure:"environment" json:"environment,omitempty"`
	MeasurementID string `mapstructure:"measurement_id" json:"measurement_id,omitempty"`
	APISecret     string `mapstructure:"api_secret" json:"api_secret,omitempty"`
	Endpoint      string `mapstructure:"endpoint" json:"endpoint,omitempty"`
	RetryMax      int    `mapstructure:"retry_max" json:"retry_max"`
}

type Config struct {
	Network     string          `mapstructure:"network" json:"network,omitempty"`
	LogLevel    string          `mapstructure:"log_level" json:"log_level,omitempty"`
	CachePath   string          `mapstructure:"cache_path" json:"cache_path,omitempty"`
	MetricsFile string          `mapstructure:"metrics_file" json:"metrics_file,omitempty"`
	Analytics   AnalyticsConfig `mapstructure:"analytics" json:"analytics"`
}

func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".safeops"
	}
	return filepath.Join(home, ".safeops")
}

// NewViper returns a viper instance with the defaults and environment
// binding every command shares. Keys map to SAFEOPS_<KEY> with dots
// replaced by underscores, e.g. SAFEOPS_ANALYTICS_ENABLED.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("network", "mainnet")
	v.SetDefault("log_level", "info")
	v.SetDefault("cache_path", cache.DefaultPath())
	v.SetDefault("metrics_file", "")
	v.SetDefault("analytics.enabled", false)
	v.SetDefault("analytics.environment", "development")
	v.SetDefault("analytics.measurement_id", "")
	v.SetDefault("analytics.api_secret", "")
	v.SetDefault("analytics.endpoint", "https://www.google-analytics.com/mp/collect")
	v.SetDefault("analytics.retry_max", 0)
	return v
}

// Load reads file into v, or config.yaml in DefaultDir when file is empty.
// Only an explicitly given file has to exist.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("fail to read config file, %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &cfg, nil
}
