// Package store persists conversion templates: a source document together
// with its formats and, optionally, the mapping rules to apply to it.
package store

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/mapping"
	"fjacquet/format-converter/internal/parsererror"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var builtinFS embed.FS

// ErrBuiltIn is returned when a built-in template would be overwritten or
// deleted.
var ErrBuiltIn = errors.New("built-in templates cannot be modified")

var idPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// Template is a stored conversion setup.
type Template struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	SourceFormat codec.Format   `yaml:"source_format"`
	TargetFormat codec.Format   `yaml:"target_format"`
	SourceText   string         `yaml:"source_text"`
	Rules        []mapping.Rule `yaml:"rules,omitempty"`
	BuiltIn      bool           `yaml:"-"`
}

// Templates is implemented by TemplateStore and MockTemplateStore.
type Templates interface {
	List() ([]Template, error)
	Load(id string) (Template, error)
	Save(t Template) error
	Delete(id string) error
}

// TemplateStore keeps user templates as <Dir>/<id>.yaml next to the
// built-in ones compiled into the binary.
type TemplateStore struct {
	Dir    string
	logger logging.Logger
}

// NewTemplateStore creates a store rooted at dir. An empty dir resolves to
// the default templates directory.
func NewTemplateStore(dir string, logger logging.Logger) *TemplateStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &TemplateStore{Dir: ResolveDir(dir), logger: logger}
}

// ResolveDir returns dir, or $HOME/.format-converter/templates when dir is
// empty. It falls back to ./templates when the home directory is unknown.
func ResolveDir(dir string) string {
	if dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "templates"
	}
	return filepath.Join(home, ".format-converter", "templates")
}

// List returns the built-in templates followed by the user templates, each
// group sorted by id. Unreadable user files are skipped with a warning.
func (s *TemplateStore) List() ([]Template, error) {
	templates, err := builtins()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return templates, nil
		}
		return nil, fmt.Errorf("error reading templates directory: %w", err)
	}

	var user []Template
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		if isBuiltIn(templates, id) {
			continue
		}
		t, err := s.readFile(filepath.Join(s.Dir, entry.Name()))
		if err != nil {
			s.logger.WithError(err).Warn("Skipping unreadable template", logging.F(logging.FieldFile, entry.Name()))
			continue
		}
		user = append(user, t)
	}
	sort.Slice(user, func(i, j int) bool { return user[i].ID < user[j].ID })

	s.logger.Debug("Listed templates", logging.F(logging.FieldCount, len(templates)+len(user)))
	return append(templates, user...), nil
}

// Load returns the template with the given id.
func (s *TemplateStore) Load(id string) (Template, error) {
	templates, err := builtins()
	if err != nil {
		return Template{}, err
	}
	for _, t := range templates {
		if t.ID == id {
			return t, nil
		}
	}

	if !idPattern.MatchString(id) {
		return Template{}, &parsererror.TemplateNotFoundError{ID: id}
	}
	t, err := s.readFile(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Template{}, &parsererror.TemplateNotFoundError{ID: id}
		}
		return Template{}, err
	}
	return t, nil
}

// Save writes t to the templates directory, replacing a user template with
// the same id.
func (s *TemplateStore) Save(t Template) error {
	if err := Validate(t); err != nil {
		return err
	}
	templates, err := builtins()
	if err != nil {
		return err
	}
	if isBuiltIn(templates, t.ID) {
		return fmt.Errorf("template %q: %w", t.ID, ErrBuiltIn)
	}

	if err := os.MkdirAll(s.Dir, 0750); err != nil {
		return fmt.Errorf("error creating templates directory: %w", err)
	}

	t.BuiltIn = false
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("error marshaling template: %w", err)
	}
	if err := os.WriteFile(s.path(t.ID), data, 0600); err != nil {
		return fmt.Errorf("error writing template: %w", err)
	}

	s.logger.Info("Saved template",
		logging.F(logging.FieldTemplate, t.ID),
		logging.F(logging.FieldRules, len(t.Rules)))
	return nil
}

// Delete removes a user template.
func (s *TemplateStore) Delete(id string) error {
	templates, err := builtins()
	if err != nil {
		return err
	}
	if isBuiltIn(templates, id) {
		return fmt.Errorf("template %q: %w", id, ErrBuiltIn)
	}
	if !idPattern.MatchString(id) {
		return &parsererror.TemplateNotFoundError{ID: id}
	}

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return &parsererror.TemplateNotFoundError{ID: id}
		}
		return fmt.Errorf("error deleting template: %w", err)
	}
	s.logger.Info("Deleted template", logging.F(logging.FieldTemplate, id))
	return nil
}

// Validate checks the id, both formats and the rule paths of t.
func Validate(t Template) error {
	if !idPattern.MatchString(t.ID) {
		return fmt.Errorf("invalid template id %q: use lowercase letters, digits, '-' and '_'", t.ID)
	}
	if _, err := codec.ParseFormat(string(t.SourceFormat)); err != nil {
		return err
	}
	if _, err := codec.ParseFormat(string(t.TargetFormat)); err != nil {
		return err
	}
	return mapping.ValidateRules(t.Rules)
}

var slugReplacer = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a template id from a display name.
func Slugify(name string) string {
	return strings.Trim(slugReplacer.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

func (s *TemplateStore) path(id string) string {
	return filepath.Join(s.Dir, id+".yaml")
}

func (s *TemplateStore) readFile(path string) (Template, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is built from a validated id
	if err != nil {
		return Template{}, err
	}
	return decode(data, path)
}

func decode(data []byte, source string) (Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("error parsing template %s: %w", source, err)
	}
	if err := Validate(t); err != nil {
		return Template{}, fmt.Errorf("template %s: %w", source, err)
	}
	return t, nil
}

func builtins() ([]Template, error) {
	entries, err := builtinFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	templates := make([]Template, 0, len(entries))
	for _, entry := range entries {
		data, err := builtinFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return nil, err
		}
		t, err := decode(data, entry.Name())
		if err != nil {
			return nil, err
		}
		t.BuiltIn = true
		templates = append(templates, t)
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
	return templates, nil
}

func isBuiltIn(templates []Template, id string) bool {
	for _, t := range templates {
		if t.BuiltIn && t.ID == id {
			return true
		}
	}
	return false
}
