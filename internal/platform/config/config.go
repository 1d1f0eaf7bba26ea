package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the recipient intake tools.
type Config struct {
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"` // json or text

	NumberingPlanFile string `mapstructure:"NUMBERING_PLAN_FILE"` // Empty uses the built-in plan
	DefaultRegion     string `mapstructure:"DEFAULT_REGION"`
	StrictValidation  bool   `mapstructure:"STRICT_VALIDATION"`

	ExportPath      string `mapstructure:"EXPORT_PATH"`
	PricePerSegment int64  `mapstructure:"PRICE_PER_SEGMENT"` // Smallest currency unit
	Currency        string `mapstructure:"CURRENCY"`
	MaxImportBytes  int64  `mapstructure:"MAX_IMPORT_BYTES"` // 0 disables the limit
}

// Load reads config.defaults.yaml from the standard config paths, merges an
// optional <serviceName>.yaml on top, then applies APP_ environment variables.
// A .env file in the working directory is loaded into the environment first.
func Load(serviceName string) (*Config, error) {
	return LoadFrom(serviceName,
		"./configs",        // Repo root
		"../configs",       // cmd/ directory
		"../../configs",    // cmd/<tool>/ directory
		"../../../configs", // Tests within a service's internal package
		".",
	)
}

// LoadFrom is Load with explicit config search paths.
func LoadFrom(serviceName string, paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config.defaults")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix("APP") // APP_LOG_LEVEL, APP_EXPORT_PATH etc.

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("NUMBERING_PLAN_FILE", "")
	v.SetDefault("DEFAULT_REGION", "CM")
	v.SetDefault("STRICT_VALIDATION", false)
	v.SetDefault("EXPORT_PATH", "./exports")
	v.SetDefault("PRICE_PER_SEGMENT", 25)
	v.SetDefault("CURRENCY", "XAF")
	v.SetDefault("MAX_IMPORT_BYTES", 10<<20)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Printf("Base configuration file ('config.defaults.yaml') not found; using defaults and environment variables.")
		} else {
			return nil, fmt.Errorf("reading base config: %w", err)
		}
	}

	if serviceName != "" {
		v.SetConfigName(serviceName)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("merging %s config: %w", serviceName, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("config: LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	c.DefaultRegion = strings.ToUpper(strings.TrimSpace(c.DefaultRegion))
	if c.PricePerSegment < 0 {
		return fmt.Errorf("config: PRICE_PER_SEGMENT must not be negative, got %d", c.PricePerSegment)
	}
	if c.MaxImportBytes < 0 {
		return fmt.Errorf("config: MAX_IMPORT_BYTES must not be negative, got %d", c.MaxImportBytes)
	}
	return nil
}
