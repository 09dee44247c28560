// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/csvcodec"
	"fjacquet/format-converter/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration,
// e.g. FORMAT_CONVERTER_CSV_DELIMITER.
const EnvPrefix = "FORMAT_CONVERTER"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
		IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers"`
	} `mapstructure:"csv" yaml:"csv"`

	XML struct {
		RootElement   string `mapstructure:"root_element" yaml:"root_element"`
		ItemElement   string `mapstructure:"item_element" yaml:"item_element"`
		UseAttributes bool   `mapstructure:"use_attributes" yaml:"use_attributes"`
		PreserveRoot  bool   `mapstructure:"preserve_root" yaml:"preserve_root"`
	} `mapstructure:"xml" yaml:"xml"`

	Templates struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"templates" yaml:"templates"`

	Batch struct {
		Workers  int `mapstructure:"workers" yaml:"workers"`
		MaxFiles int `mapstructure:"max_files" yaml:"max_files"`
	} `mapstructure:"batch" yaml:"batch"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile loads configuration like InitializeConfig, but
// reads configFile instead of searching the standard locations when it is
// not empty. An explicit file that cannot be read is an error.
func InitializeConfigFromFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.format-converter")
		v.AddConfigPath(".format-converter")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.include_headers", true)

	v.SetDefault("xml.root_element", "root")
	v.SetDefault("xml.item_element", "item")
	v.SetDefault("xml.use_attributes", true)
	v.SetDefault("xml.preserve_root", false)

	v.SetDefault("templates.directory", "")

	v.SetDefault("batch.workers", 0)
	v.SetDefault("batch.max_files", 0)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %q", config.CSV.Delimiter)
	}
	if err := csvcodec.ValidateDelimiter(config.Delimiter()); err != nil {
		return fmt.Errorf("CSV delimiter %q: %w", config.CSV.Delimiter, err)
	}

	if strings.TrimSpace(config.XML.RootElement) == "" {
		return fmt.Errorf("xml.root_element must not be empty")
	}
	if strings.TrimSpace(config.XML.ItemElement) == "" {
		return fmt.Errorf("xml.item_element must not be empty")
	}

	if config.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must be zero or positive, got: %d", config.Batch.Workers)
	}
	if config.Batch.MaxFiles < 0 {
		return fmt.Errorf("batch.max_files must be zero or positive, got: %d", config.Batch.MaxFiles)
	}

	return nil
}

// Validate checks the configuration after it was changed in code, for
// example by command-line flags.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// CodecOptions returns the format options described by the configuration.
func (c *Config) CodecOptions() codec.Options {
	opts := codec.DefaultOptions()
	opts.CSV.Delimiter = c.Delimiter()
	opts.CSV.IncludeHeaders = c.CSV.IncludeHeaders
	opts.XML.RootElement = c.XML.RootElement
	opts.XML.ItemElement = c.XML.ItemElement
	opts.XML.UseAttributes = c.XML.UseAttributes
	opts.XML.PreserveRoot = c.XML.PreserveRoot
	return opts
}

// ConfigureLoggingFromConfig returns a logger using the configured level
// and format.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), config.Log.Format)
}
