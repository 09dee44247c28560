// Package container provides dependency injection for the format-converter
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/config"
	"fjacquet/format-converter/internal/factory"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/session"
	"fjacquet/format-converter/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation. All fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	registry  *codec.Registry
	templates store.Templates
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	registry := factory.NewRegistry(logger)
	templates := store.NewTemplateStore(cfg.Templates.Directory, logger)

	logger.Info("Container initialized successfully",
		logging.F("formats_count", len(registry.Formats())),
		logging.F("templates_dir", templates.Dir))

	return &Container{
		logger:    logger,
		config:    cfg,
		registry:  registry,
		templates: templates,
	}, nil
}

// NewContainerWith builds a container around existing dependencies. Tests
// use it to inject a mock logger or template store.
func NewContainerWith(cfg *config.Config, logger logging.Logger, templates store.Templates) *Container {
	return &Container{
		logger:    logger,
		config:    cfg,
		registry:  factory.NewRegistry(logger),
		templates: templates,
	}
}

// GetCodec returns the codec registered for format.
func (c *Container) GetCodec(format codec.Format) (codec.Codec, error) {
	return c.registry.Get(format)
}

// GetRegistry returns the codec registry.
func (c *Container) GetRegistry() *codec.Registry {
	return c.registry
}

// NewSession starts a conversion session using the configured format options.
func (c *Container) NewSession(source, target codec.Format) *session.Session {
	return session.New(c.registry, c.logger, source, target, c.Options())
}

// Options returns the format options described by the configuration.
func (c *Container) Options() codec.Options {
	if c.config == nil {
		return codec.DefaultOptions()
	}
	return c.config.CodecOptions()
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetTemplates returns the template store.
func (c *Container) GetTemplates() store.Templates {
	return c.templates
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Info("Container closed")
	return nil
}
