// Package config loads client configuration from a .env file and the
// environment. No package-level singleton: callers hold the struct.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	APIBaseURL     string        `mapstructure:"API_BASE_URL"`
	InitData       string        `mapstructure:"TMA_INIT_DATA"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	QuietWindow    time.Duration `mapstructure:"PRICING_QUIET_WINDOW"`
}

// Load reads the given .env file, letting real environment variables
// override it. A missing file is not an error; the environment and
// defaults still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("API_BASE_URL", "http://127.0.0.1:8000/api")
	v.SetDefault("TMA_INIT_DATA", "")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("PRICING_QUIET_WINDOW", "300ms")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
