// Package config handles application configuration and setup
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/viper"
)

// Frontends that the start command knows how to drive.
const (
	FrontendWindow   = "window"
	FrontendTerminal = "terminal"
	FrontendHeadless = "headless"
)

// EnvPrefix is prepended to every environment variable that viper reads.
const EnvPrefix = "CHYP8"

var errInvalid = errors.New("invalid configuration")

// Config holds the emulator settings merged from flags, environment and the
// config file.
type Config struct {
	Refresh   int    `mapstructure:"refresh"`
	Speed     int    `mapstructure:"speed"`
	Frontend  string `mapstructure:"frontend"`
	Scale     int    `mapstructure:"scale"`
	Beep      string `mapstructure:"beep"`
	Mute      bool   `mapstructure:"mute"`
	Seed      int64  `mapstructure:"seed"`
	Trace     bool   `mapstructure:"trace"`
	Statsview string `mapstructure:"statsview"`
	Debug     bool   `mapstructure:"debug"`
	Quiet     bool   `mapstructure:"quiet"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Refresh:  60,
		Speed:    10,
		Frontend: FrontendWindow,
		Scale:    10,
	}
}

// SetDefaults registers the default values and the environment binding on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("refresh", d.Refresh)
	v.SetDefault("speed", d.Speed)
	v.SetDefault("frontend", d.Frontend)
	v.SetDefault("scale", d.Scale)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that all values are usable by the driver.
func (c Config) Validate() error {
	switch {
	case c.Refresh <= 0:
		return fmt.Errorf("%w: refresh rate must be positive, got %d", errInvalid, c.Refresh)
	case c.Speed <= 0:
		return fmt.Errorf("%w: speed must be positive, got %d", errInvalid, c.Speed)
	case c.Scale <= 0:
		return fmt.Errorf("%w: scale must be positive, got %d", errInvalid, c.Scale)
	}

	switch c.Frontend {
	case FrontendWindow, FrontendTerminal, FrontendHeadless:
		return nil
	default:
		return fmt.Errorf("%w: unknown frontend '%s'", errInvalid, c.Frontend)
	}
}

// IsInvalid reports whether err was caused by a rejected setting.
func IsInvalid(err error) bool {
	return errors.Is(err, errInvalid)
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
