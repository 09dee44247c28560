// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/format-converter/internal/config"
	"fjacquet/format-converter/internal/container"
	"fjacquet/format-converter/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Validate bool
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("", "text")

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "format-converter",
		Short: "A CLI tool to convert documents between XML, JSON, YAML and CSV.",
		Long: `format-converter converts structured documents between XML, JSON, YAML and CSV.
Every conversion goes through a mapping table of source paths and target paths that
can be edited, saved and reused.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to format-converter!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Setup()
		},
		SilenceUsage: true,
	}

	// SharedFlags are the flags accessible to all commands
	SharedFlags = CommonFlags{}

	// ConfigFile is an explicit configuration file
	ConfigFile string
	// LogLevel overrides log.level when set
	LogLevel string
	// LogFormat overrides log.format when set
	LogFormat string
	// CSVDelimiter overrides csv.delimiter when set
	CSVDelimiter string

	// AppConfig is the loaded configuration
	AppConfig *config.Config

	appContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Validate the input before conversion")

	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default is $HOME/.format-converter/config.yaml)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&LogFormat, "log-format", "", "Log format (text, json)")
	Cmd.PersistentFlags().StringVar(&CSVDelimiter, "csv-delimiter", "", "CSV delimiter character")
}

// Setup loads the configuration, applies flag overrides and builds the
// container used by the subcommands.
func Setup() error {
	config.LoadEnv(Log)

	cfg, err := config.InitializeConfigFromFile(ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := applyFlagOverrides(cfg); err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}

	AppConfig = cfg
	SetContainer(c)
	return nil
}

func applyFlagOverrides(cfg *config.Config) error {
	if LogLevel != "" {
		cfg.Log.Level = LogLevel
	}
	if LogFormat != "" {
		cfg.Log.Format = LogFormat
	}
	if CSVDelimiter != "" {
		cfg.CSV.Delimiter = CSVDelimiter
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// GetLogrusAdapter returns the logger used by the commands.
func GetLogrusAdapter() logging.Logger {
	return Log
}

// GetConfig returns the configuration loaded by Setup, or nil before it ran.
func GetConfig() *config.Config {
	return AppConfig
}

// GetContainer returns the container built by Setup, or nil before it ran.
func GetContainer() *container.Container {
	return appContainer
}

// SetContainer replaces the container and the command logger. Tests use it
// to inject a container built with NewContainerWith.
func SetContainer(c *container.Container) {
	appContainer = c
	if c != nil {
		Log = c.GetLogger()
	}
}
