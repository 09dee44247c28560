package main

import (
	"os"
	"path/filepath"
	"strings"

	"fjacquet/format-converter/cmd/batch"
	"fjacquet/format-converter/cmd/convert"
	"fjacquet/format-converter/cmd/format"
	"fjacquet/format-converter/cmd/inspect"
	"fjacquet/format-converter/cmd/mapping"
	"fjacquet/format-converter/cmd/paths"
	"fjacquet/format-converter/cmd/root"
	"fjacquet/format-converter/cmd/template"
	"fjacquet/format-converter/internal/logging"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// 2. Set the level every logger starts with, before any logging happens
	logging.SetAllLogLevels(configureLogLevelDirectly())

	// 3. Initialize root command and add all subcommands
	root.Init()
	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(paths.Cmd)
	root.Cmd.AddCommand(mapping.Cmd)
	root.Cmd.AddCommand(format.Cmd)
	root.Cmd.AddCommand(inspect.Cmd)
	root.Cmd.AddCommand(template.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly reads FORMAT_CONVERTER_LOG_LEVEL and returns the
// level, defaulting to info.
func configureLogLevelDirectly() logrus.Level {
	logLevel, err := logrus.ParseLevel(strings.ToLower(os.Getenv("FORMAT_CONVERTER_LOG_LEVEL")))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	return logLevel
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
