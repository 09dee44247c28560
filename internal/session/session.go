// Package session holds the state of one interactive conversion: the source
// and target formats, the format options and the editable mapping table.
//
// A Session is not safe for concurrent use. Callers converting several
// documents at once create one Session per document.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/mapping"
	"fjacquet/format-converter/internal/tree"
)

var (
	// ErrEmptySource is returned when the source text holds only whitespace.
	ErrEmptySource = errors.New("source document is empty")
	// ErrNoMapping is returned when a rule is edited before a mapping exists.
	ErrNoMapping = errors.New("no mapping: convert a document or load rules first")
)

// Session converts documents from one format to another through a mapping
// table that is built on the first conversion and kept for the next ones.
type Session struct {
	source   codec.Format
	target   codec.Format
	options  codec.Options
	table    *mapping.Table
	registry *codec.Registry
	logger   logging.Logger
}

// New returns a session converting source documents to target.
func New(registry *codec.Registry, logger logging.Logger, source, target codec.Format, opts codec.Options) *Session {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Session{
		source:   source,
		target:   target,
		options:  opts,
		registry: registry,
		logger:   logger,
	}
}

// SourceFormat returns the format of the documents given to Convert.
func (s *Session) SourceFormat() codec.Format { return s.source }

// TargetFormat returns the format Convert produces.
func (s *Session) TargetFormat() codec.Format { return s.target }

// Options returns the format options.
func (s *Session) Options() codec.Options { return s.options }

// SetOptions replaces the format options. The mapping is kept.
func (s *Session) SetOptions(opts codec.Options) { s.options = opts }

// Convert parses text, builds the identity mapping if none exists yet,
// projects the tree and serializes the result.
//
// A freshly built mapping is only kept when the whole conversion succeeds.
func (s *Session) Convert(text string) (string, error) {
	start := time.Now()
	n, err := s.parse(text)
	if err != nil {
		return "", err
	}

	table := s.table
	built := false
	if table == nil {
		table = mapping.FromTree(n)
		built = true
		s.logger.Debug("Built mapping from source document", logging.F(logging.FieldRules, table.Len()))
	}

	out, err := s.render(n, table.Rules())
	if err != nil {
		return "", err
	}
	if built {
		s.table = table
	}

	s.logger.Info("Converted document",
		logging.F(logging.FieldSourceFormat, s.source),
		logging.F(logging.FieldTargetFormat, s.target),
		logging.F(logging.FieldRules, table.Len()),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return out, nil
}

// Preview converts text with the current mapping, or with an identity
// mapping when none exists, without changing the session.
func (s *Session) Preview(text string) (string, error) {
	n, err := s.parse(text)
	if err != nil {
		return "", err
	}
	table := s.table
	if table == nil {
		table = mapping.FromTree(n)
	}
	return s.render(n, table.Rules())
}

// Validate parses text in the source format without converting it.
func (s *Session) Validate(text string) error {
	_, err := s.parse(text)
	return err
}

// Discover returns the paths found in text, in discovery order.
func (s *Session) Discover(text string) ([]string, error) {
	n, err := s.parse(text)
	if err != nil {
		return nil, err
	}
	return mapping.Discover(n), nil
}

func (s *Session) parse(text string) (tree.Node, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptySource
	}
	n, err := s.registry.Parse(text, s.source, s.options)
	if err != nil {
		s.logger.WithError(err).Debug("Failed to parse source document", logging.F(logging.FieldFormat, s.source))
		return nil, err
	}
	return n, nil
}

func (s *Session) render(n tree.Node, rules []mapping.Rule) (string, error) {
	projected, err := mapping.Project(n, rules)
	if err != nil {
		return "", fmt.Errorf("failed to project document: %w", err)
	}
	return s.registry.Serialize(projected, s.target, s.options)
}

// Mapping returns a copy of the current rules, or nil when no mapping has
// been built or loaded.
func (s *Session) Mapping() []mapping.Rule {
	if s.table == nil {
		return nil
	}
	return s.table.Rules()
}

// HasMapping reports whether a mapping exists.
func (s *Session) HasMapping() bool { return s.table != nil }

// SetTarget changes the target path of rule i.
func (s *Session) SetTarget(i int, target string) error {
	if s.table == nil {
		return ErrNoMapping
	}
	return s.table.SetTarget(i, target)
}

// SetEnabled sets whether rule i takes part in the projection.
func (s *Session) SetEnabled(i int, enabled bool) error {
	if s.table == nil {
		return ErrNoMapping
	}
	return s.table.SetEnabled(i, enabled)
}

// Toggle flips the enabled flag of rule i and returns the new value.
func (s *Session) Toggle(i int) (bool, error) {
	if s.table == nil {
		return false, ErrNoMapping
	}
	return s.table.Toggle(i)
}

// ResetMapping discards the mapping. The next Convert builds a new one.
func (s *Session) ResetMapping() {
	s.table = nil
}

// LoadRules replaces the mapping with rules. Nothing changes when a rule
// path does not parse.
func (s *Session) LoadRules(rules []mapping.Rule) error {
	if err := mapping.ValidateRules(rules); err != nil {
		return err
	}
	s.table = mapping.NewTable(rules)
	s.logger.Debug("Loaded mapping rules", logging.F(logging.FieldRules, s.table.Len()))
	return nil
}

// SetFormats changes the source and target formats. The mapping is
// discarded when the source format changes, because its paths were
// discovered in a document of the old format.
func (s *Session) SetFormats(source, target codec.Format) {
	if source != s.source {
		s.table = nil
	}
	s.source, s.target = source, target
}

// Swap exchanges the source and target formats and discards the mapping.
func (s *Session) Swap() {
	s.source, s.target = s.target, s.source
	s.table = nil
}
