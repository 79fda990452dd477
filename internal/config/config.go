// Package config loads fontgrab settings from defaults, an optional JSON
// config file, FONTGRAB_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. FONTGRAB_OUTPUT_DIR
	EnvPrefix = "FONTGRAB"

	// DefaultFile is read from the working directory when no --config is given
	DefaultFile = "config.json"

	// GoogleFontsKeyEnv is the conventional variable for the Google Fonts key
	GoogleFontsKeyEnv = "GOOGLE_FONTS_API_KEY"

	KeyOutputDir         = "output_dir"
	KeyGoogleFontsAPIKey = "api_keys.google_fonts"
	KeyLogLevel          = "log_level"
	KeyFontsourceEnabled = "sources.fontsource.enabled"
)

// Config is the resolved configuration
type Config struct {
	OutputDir         string
	GoogleFontsAPIKey string
	LogLevel          string
	FontsourceEnabled bool

	v *viper.Viper
}

// Load resolves the configuration. path may be empty, in which case
// DefaultFile is used if it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyOutputDir, "./fonts")
	v.SetDefault(KeyGoogleFontsAPIKey, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyFontsourceEnabled, true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("json")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if _, err := os.Stat(DefaultFile); err == nil {
		v.SetConfigFile(DefaultFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", DefaultFile, err)
		}
	} else {
		// Save without --config writes here
		v.SetConfigFile(DefaultFile)
	}

	if flags != nil {
		if f := flags.Lookup("output"); f != nil {
			if err := v.BindPFlag(KeyOutputDir, f); err != nil {
				return nil, fmt.Errorf("binding output flag: %w", err)
			}
		}
		if f := flags.Lookup("log-level"); f != nil {
			if err := v.BindPFlag(KeyLogLevel, f); err != nil {
				return nil, fmt.Errorf("binding log-level flag: %w", err)
			}
		}
	}

	cfg := &Config{
		OutputDir:         v.GetString(KeyOutputDir),
		GoogleFontsAPIKey: v.GetString(KeyGoogleFontsAPIKey),
		LogLevel:          v.GetString(KeyLogLevel),
		FontsourceEnabled: v.GetBool(KeyFontsourceEnabled),
		v:                 v,
	}
	if cfg.GoogleFontsAPIKey == "" {
		cfg.GoogleFontsAPIKey = os.Getenv(GoogleFontsKeyEnv)
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("output_dir must not be empty")
	}
	return cfg, nil
}

// Set stores a value under one of the known keys and writes it to the
// config file. Only the file's own settings are written back, so values
// coming from the environment or flags are never persisted.
func (c *Config) Set(key, value string) error {
	var stored any = value
	switch key {
	case KeyOutputDir:
		if value == "" {
			return errors.New("output_dir must not be empty")
		}
		c.OutputDir = value
	case KeyGoogleFontsAPIKey:
		c.GoogleFontsAPIKey = value
	case KeyLogLevel:
		c.LogLevel = value
	case KeyFontsourceEnabled:
		enabled := value == "true" || value == "1" || value == "yes"
		c.FontsourceEnabled = enabled
		stored = enabled
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	c.v.Set(key, stored)

	file, err := c.fileLayer()
	if err != nil {
		return err
	}
	file.Set(key, stored)
	if err := file.WriteConfig(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// fileLayer loads the config file on its own, without defaults,
// environment or flags
func (c *Config) fileLayer() (*viper.Viper, error) {
	path := c.v.ConfigFileUsed()

	file := viper.New()
	file.SetConfigType("json")
	file.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return file, nil
}

// File returns the path Set writes to
func (c *Config) File() string {
	return c.v.ConfigFileUsed()
}
