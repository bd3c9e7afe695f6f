package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

// EnvPrefix prefixes every environment override, e.g. FORMSTATE_OUTPUT.
const EnvPrefix = "FORMSTATE"

// Config holds the CLI settings resolved from flags, environment and the
// optional config file.
type Config struct {
	Output              string `mapstructure:"output"`
	Sanitize            bool   `mapstructure:"sanitize"`
	ValidateAllOnChange bool   `mapstructure:"validate_all_on_change"`
	Data                string `mapstructure:"data"`
	Verbose             bool   `mapstructure:"verbose"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		Output:   string(tui.OutputFormatJSON),
		Sanitize: true,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("output", defaults.Output)
	v.SetDefault("sanitize", defaults.Sanitize)
	v.SetDefault("validate_all_on_change", defaults.ValidateAllOnChange)
	v.SetDefault("data", defaults.Data)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// loadConfig reads path (when set) into v and decodes the result.
func loadConfig(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if _, ok := tui.ParseOutputFormat(cfg.Output); !ok {
		return Config{}, fmt.Errorf("%w: %q", tui.ErrUnknownFormat, cfg.Output)
	}
	return cfg, nil
}

// loadData reads the initial form values from a YAML file.
func loadData(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data %s: %w", path, err)
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse data %s: %w", path, err)
	}
	return data, nil
}
