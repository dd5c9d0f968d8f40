package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional config file and from
// environment variables. Environment variables use the LEITNER_ prefix with
// underscores for nesting (LEITNER_SESSION_SIDES) and take precedence over
// file values. Returns a populated, validated Config.
func Load() (*Config, error) {
	return load("")
}

// LoadFile behaves like Load but reads the given config file, which must
// exist.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path cannot be empty")
	}
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigName("leitner")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/leitner")

		// A missing file is fine, defaults and env vars carry the config.
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("LEITNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("session.sides", "normal")
	v.SetDefault("session.amount_to_test_front", 1)
	v.SetDefault("session.amount_to_test_back", 1)
	v.SetDefault("session.schedule_preset", "linear")
	v.SetDefault("session.fixed_expiration", "")
	v.SetDefault("session.card_limit", 0)
	v.SetDefault("session.time_limit_minutes", 0)
	v.SetDefault("session.retest_failed_cards", true)
	v.SetDefault("session.group_by_category", false)
	v.SetDefault("session.category_order", "fixed")
	v.SetDefault("session.shuffle_ratio", 0.0)
}
