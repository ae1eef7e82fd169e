// Package config loads marketmood configuration from YAML files and
// environment variables using viper.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the pipeline.
type Config struct {
	Symbols []string      `mapstructure:"symbols" yaml:"symbols"`
	DataDir string        `mapstructure:"data_dir" yaml:"data_dir"`
	DBPath  string        `mapstructure:"db_path" yaml:"db_path"`
	News    NewsConfig    `mapstructure:"news" yaml:"news"`
	Stock   StockConfig   `mapstructure:"stock" yaml:"stock"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// NewsConfig configures the news collectors.
type NewsConfig struct {
	APIKey   string `mapstructure:"api_key" yaml:"api_key"`
	Language string `mapstructure:"language" yaml:"language"`
	Limit    int    `mapstructure:"limit" yaml:"limit"`
	UseRSS   bool   `mapstructure:"use_rss" yaml:"use_rss"`
}

// StockConfig configures the price history collector.
type StockConfig struct {
	Range    string `mapstructure:"range" yaml:"range"`
	Interval string `mapstructure:"interval" yaml:"interval"`
}

// StoreConfig configures persistence behavior.
type StoreConfig struct {
	LinkUnmatchedToAll bool `mapstructure:"link_unmatched_to_all" yaml:"link_unmatched_to_all"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads configuration from the default search paths. A missing
// config file is not an error; defaults and environment variables apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if home := homeDir(); home != "" {
		v.AddConfigPath(filepath.Join(home, ".marketmood"))
	}
	v.AddConfigPath("/etc/marketmood")
	return load(v)
}

// LoadFromFile reads configuration from an explicit path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := bindEnv(v); err != nil {
		return nil, err
	}
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return unmarshal(v)
}

func load(v *viper.Viper) (*Config, error) {
	if err := bindEnv(v); err != nil {
		return nil, err
	}
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	overrideFromEnv(&cfg)
	return &cfg, nil
}

func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix("MARKETMOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("symbols", []string{"AAPL", "MSFT", "GOOGL"})
	v.SetDefault("data_dir", "data")
	v.SetDefault("db_path", "data/marketmood.db")

	v.SetDefault("news.language", "en")
	v.SetDefault("news.limit", 50)
	v.SetDefault("news.use_rss", false)

	v.SetDefault("stock.range", "3mo")
	v.SetDefault("stock.interval", "1d")

	v.SetDefault("store.link_unmatched_to_all", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// overrideFromEnv applies secrets that should never live in a config file.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("MARKETMOOD_NEWS_API_KEY"); key != "" {
		cfg.News.APIKey = key
	}
	if key := os.Getenv("MARKETAUX_API_KEY"); key != "" && cfg.News.APIKey == "" {
		cfg.News.APIKey = key
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
