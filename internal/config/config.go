package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/corentings/movetree"
)

type Config struct {
	Locale            string `mapstructure:"LOCALE"`
	LocalesDir        string `mapstructure:"LOCALES_DIR"`
	MaxVariationDepth int    `mapstructure:"MAX_VARIATION_DEPTH"`
	StartFEN          string `mapstructure:"START_FEN"`
}

// Setup reads the configuration from cfgPath, when given, and from
// MOVETREE_ prefixed environment variables, which take precedence.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault("LOCALE", "en")
	v.SetDefault("LOCALES_DIR", "")
	v.SetDefault("MAX_VARIATION_DEPTH", movetree.DefaultMaxVariationDepth)
	v.SetDefault("START_FEN", "")
	v.SetEnvPrefix("MOVETREE")
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		err := v.ReadInConfig()
		if err != nil {
			return nil, err
		}
	}

	var cfg Config

	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	if cfg.MaxVariationDepth <= 0 {
		return nil, fmt.Errorf("config: MAX_VARIATION_DEPTH must be positive, got %d", cfg.MaxVariationDepth)
	}
	if cfg.StartFEN != "" {
		if err := movetree.ValidateFEN(cfg.StartFEN); err != nil {
			return nil, fmt.Errorf("config: START_FEN: %w", err)
		}
	}

	return &cfg, nil
}
