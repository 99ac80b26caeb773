// Package config loads daemon configuration from an optional YAML file
// and CAPTCHAD_-prefixed environment variables, with .env support.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"mathcaptcha/captcha"
)

// Redis configures the optional Redis-backed challenge store. When
// disabled the daemon falls back to the in-memory store.
type Redis struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Config is the full daemon configuration.
type Config struct {
	Addr      string          `mapstructure:"addr"`
	LogLevel  string          `mapstructure:"log_level"`
	LogFormat string          `mapstructure:"log_format"`
	Redis     Redis           `mapstructure:"redis"`
	Captcha   captcha.Options `mapstructure:"captcha"`
}

// Load reads configuration from path (or config.yml in the working
// directory when path is empty), layered under environment variables.
// A .env file is applied first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CAPTCHAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{Captcha: captcha.DefaultOptions()}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Captcha.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
