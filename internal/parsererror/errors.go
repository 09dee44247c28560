// Package parsererror defines the typed errors returned by the codecs, the
// path engine and the file-level validation.
package parsererror

import "fmt"

// ParseError represents malformed source text for the declared format
type ParseError struct {
	Format  string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Message == "" && e.Err != nil {
		return fmt.Sprintf("invalid %s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError represents a format name that no codec handles
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %q (expected xml, json, yaml or csv)", e.Format)
}

// SerializeError wraps any failure while rendering a tree
type SerializeError struct {
	Format string
	Err    error
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("failed to serialize %s: %v", e.Format, e.Err)
}

func (e *SerializeError) Unwrap() error {
	return e.Err
}

// UnsupportedPathError represents a path string that cannot be parsed
type UnsupportedPathError struct {
	Path   string
	Reason string
}

func (e *UnsupportedPathError) Error() string {
	return fmt.Sprintf("unsupported path %q: %s", e.Path, e.Reason)
}

// ValidationError represents a validation failure
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// TemplateNotFoundError is returned when no stored or built-in template has the id.
type TemplateNotFoundError struct {
	ID string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.ID)
}
