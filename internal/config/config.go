// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Warm   WarmConfig   `yaml:"warm" mapstructure:"warm"`
	Source SourceConfig `yaml:"source" mapstructure:"source"`
	Redis  RedisConfig  `yaml:"redis" mapstructure:"redis"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// CacheConfig configures the tiered profile cache.
type CacheConfig struct {
	TTLMinutes   int    `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
	L1MaxEntries int    `yaml:"l1_max_entries" mapstructure:"l1_max_entries"`
	L2MaxEntries int    `yaml:"l2_max_entries" mapstructure:"l2_max_entries"`
	Store        string `yaml:"store" mapstructure:"store"` // memory | redis (L2 tier backend)
}

// TTL returns the configured entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// WarmConfig configures batch and scheduled pre-warming.
type WarmConfig struct {
	BatchSize       int    `yaml:"batch_size" mapstructure:"batch_size"`
	ParallelWorkers int    `yaml:"parallel_workers" mapstructure:"parallel_workers"`
	RetryFailed     bool   `yaml:"retry_failed" mapstructure:"retry_failed"`
	MaxRetries      int    `yaml:"max_retries" mapstructure:"max_retries"`
	IntervalMinutes int    `yaml:"interval_minutes" mapstructure:"interval_minutes"`
	KeysFile        string `yaml:"keys_file" mapstructure:"keys_file"`
}

// Interval returns the scheduled warming period.
func (c WarmConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// SourceConfig configures the upstream record source.
type SourceConfig struct {
	Driver      string  `yaml:"driver" mapstructure:"driver"` // postgres | sqlite
	DatabaseURL string  `yaml:"database_url" mapstructure:"database_url"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst   int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// RedisConfig configures the optional Redis L2 tier.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TILORES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("cache.ttl_minutes", 60)
	v.SetDefault("cache.l1_max_entries", 500)
	v.SetDefault("cache.l2_max_entries", 5000)
	v.SetDefault("cache.store", "memory")
	v.SetDefault("warm.batch_size", 25)
	v.SetDefault("warm.parallel_workers", 4)
	v.SetDefault("warm.retry_failed", true)
	v.SetDefault("warm.max_retries", 1)
	v.SetDefault("warm.interval_minutes", 30)
	v.SetDefault("warm.keys_file", "warm_keys.yaml")
	v.SetDefault("source.driver", "postgres")
	v.SetDefault("source.rate_per_sec", 10)
	v.SetDefault("source.rate_burst", 5)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// warmKeysFile is the on-disk shape of the hot customer key list.
type warmKeysFile struct {
	Keys []string `yaml:"keys"`
}

// WarmKeysFromFile reads the scheduled-warming key list from a YAML file
// of the form `keys: [id1, id2, ...]`.
func WarmKeysFromFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read warm keys %s", path)
	}
	var f warmKeysFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "config: parse warm keys %s", path)
	}
	return f.Keys, nil
}
