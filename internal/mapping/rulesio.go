package mapping

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/format-converter/internal/treepath"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// ReadYAML reads rules from YAML. Both a top-level "rules:" key and a bare
// list are accepted.
func ReadYAML(r io.Reader) ([]Rule, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading rules: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing rules YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return []Rule{}, nil
	}

	rules := []Rule{}
	root := doc.Content[0]
	switch root.Kind {
	case yaml.MappingNode:
		var file rulesFile
		if err := root.Decode(&file); err != nil {
			return nil, fmt.Errorf("error parsing rules YAML: %w", err)
		}
		if file.Rules != nil {
			rules = file.Rules
		}
	case yaml.SequenceNode:
		if err := root.Decode(&rules); err != nil {
			return nil, fmt.Errorf("error parsing rules YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("error parsing rules YAML: line %d: expected a rules list or a mapping with a rules key", root.Line)
	}
	return rules, ValidateRules(rules)
}

// WriteYAML writes rules under a top-level "rules:" key.
func WriteYAML(w io.Writer, rules []Rule) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rulesFile{Rules: rules}); err != nil {
		return fmt.Errorf("error writing rules YAML: %w", err)
	}
	return enc.Close()
}

// ReadCSV reads rules from CSV with a source,target,enabled header.
func ReadCSV(r io.Reader, delimiter rune) ([]Rule, error) {
	var rules []Rule
	err := gocsv.UnmarshalCSV(newCSVReader(r, delimiter), &rules)
	if err != nil && err != gocsv.ErrEmptyCSVFile {
		return nil, fmt.Errorf("error parsing rules CSV: %w", err)
	}
	return rules, ValidateRules(rules)
}

// WriteCSV writes rules as CSV with a header row.
func WriteCSV(w io.Writer, rules []Rule, delimiter rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter
	if err := gocsv.MarshalCSV(rules, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing rules CSV: %w", err)
	}
	return nil
}

// LoadFile reads a rules file. Files ending in .csv are read as CSV,
// everything else as YAML.
func LoadFile(path string, delimiter rune) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}
	if isCSV(path) {
		return ReadCSV(bytes.NewReader(data), delimiter)
	}
	return ReadYAML(bytes.NewReader(data))
}

// SaveFile writes a rules file, choosing the encoding from the extension.
func SaveFile(path string, rules []Rule, delimiter rune) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	var buf bytes.Buffer
	var err error
	if isCSV(path) {
		err = WriteCSV(&buf, rules, delimiter)
	} else {
		err = WriteYAML(&buf, rules)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("error writing rules file: %w", err)
	}
	return nil
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

func newCSVReader(r io.Reader, delimiter rune) gocsv.CSVReader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true
	return reader
}

// ValidateRules checks that every source and target path parses.
func ValidateRules(rules []Rule) error {
	for i, r := range rules {
		if err := treepath.Validate(r.Source); err != nil {
			return fmt.Errorf("rule %d source: %w", i, err)
		}
		if err := treepath.Validate(r.Target); err != nil {
			return fmt.Errorf("rule %d target: %w", i, err)
		}
	}
	return nil
}
