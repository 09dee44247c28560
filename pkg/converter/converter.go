// Package converter is the library entry point for converting documents
// between XML, JSON, YAML and CSV without going through the CLI.
//
//	c, err := converter.New("csv", "json")
//	out, err := c.Convert("id,name\n1,Jan")
//
// A Converter remembers the mapping built by its first conversion, so later
// documents with the same shape are projected the same way. Use one
// Converter per goroutine.
package converter

import (
	"fmt"

	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/factory"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/mapping"
	"fjacquet/format-converter/internal/session"
)

// Rule maps one source path to a target path.
type Rule = mapping.Rule

// Options holds the format options shared by all codecs.
type Options = codec.Options

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options { return codec.DefaultOptions() }

// Converter converts documents from one format to another.
type Converter struct {
	session *session.Session
}

// Option customizes a Converter.
type Option func(*settings)

type settings struct {
	options Options
	logger  logging.Logger
	rules   []Rule
}

// WithOptions sets the format options.
func WithOptions(opts Options) Option {
	return func(s *settings) { s.options = opts }
}

// WithLogger sets the logger used by the codecs.
func WithLogger(logger logging.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithRules starts the Converter with a mapping instead of building one from
// the first document.
func WithRules(rules []Rule) Option {
	return func(s *settings) { s.rules = rules }
}

// New returns a Converter from the source format to the target format. Format
// names are case-insensitive; "yml" is accepted for YAML.
func New(from, to string, options ...Option) (*Converter, error) {
	source, err := codec.ParseFormat(from)
	if err != nil {
		return nil, fmt.Errorf("source format: %w", err)
	}
	target, err := codec.ParseFormat(to)
	if err != nil {
		return nil, fmt.Errorf("target format: %w", err)
	}

	cfg := settings{options: codec.DefaultOptions()}
	for _, o := range options {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewLogrusAdapter("warn", "text")
	}

	s := session.New(factory.NewRegistry(cfg.logger), cfg.logger, source, target, cfg.options)
	if cfg.rules != nil {
		if err := s.LoadRules(cfg.rules); err != nil {
			return nil, err
		}
	}
	return &Converter{session: s}, nil
}

// Convert converts text and returns the document in the target format.
func (c *Converter) Convert(text string) (string, error) {
	return c.session.Convert(text)
}

// Paths lists the paths found in text.
func (c *Converter) Paths(text string) ([]string, error) {
	return c.session.Discover(text)
}

// Rules returns a copy of the current mapping. It is empty until the first
// successful conversion unless rules were given to New.
func (c *Converter) Rules() []Rule {
	return c.session.Mapping()
}

// Convert converts a single document with default options.
func Convert(text, from, to string) (string, error) {
	c, err := New(from, to)
	if err != nil {
		return "", err
	}
	return c.Convert(text)
}
