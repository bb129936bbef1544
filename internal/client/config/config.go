// Package config loads the CLI client's settings from an optional yaml
// file and XSJ_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"xianshiji/pkg/inventory"
)

const EnvPrefix = "XSJ"

type Config struct {
	APIBaseURL     string        `mapstructure:"api_base_url"`
	BarcodeBaseURL string        `mapstructure:"barcode_base_url"`
	DataDir        string        `mapstructure:"data_dir"`
	NearExpiryDays int           `mapstructure:"near_expiry_days"`
	Timeout        time.Duration `mapstructure:"timeout"`
	LogLevel       string        `mapstructure:"log_level"`
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".xianshiji"
	}
	return filepath.Join(home, ".xianshiji")
}

// Load reads path when it is non-empty, otherwise xsj.yaml from the working
// directory or the data directory if one exists. Environment variables such
// as XSJ_API_BASE_URL override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("api_base_url", "http://localhost:8080")
	v.SetDefault("barcode_base_url", "https://world.openfoodfacts.org")
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("near_expiry_days", inventory.DefaultNearExpiryDays)
	// zero leaves requests without a deadline
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("xsj")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(defaultDataDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.BarcodeBaseURL = strings.TrimRight(cfg.BarcodeBaseURL, "/")
	cfg.DataDir = expandHome(cfg.DataDir)
	if cfg.NearExpiryDays < 0 {
		cfg.NearExpiryDays = inventory.DefaultNearExpiryDays
	}
	return &cfg, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "client.db")
}

func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "logs", "xsj.log")
}
