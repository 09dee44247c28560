package store

import (
	"fmt"
	"sort"

	"fjacquet/format-converter/internal/parsererror"
)

// MockTemplateStore is an in-memory Templates implementation for tests.
type MockTemplateStore struct {
	Templates map[string]Template

	// Error flags for testing error conditions
	ListError   error
	LoadError   error
	SaveError   error
	DeleteError error
}

// NewMockTemplateStore returns a mock holding templates.
func NewMockTemplateStore(templates ...Template) *MockTemplateStore {
	m := &MockTemplateStore{Templates: make(map[string]Template, len(templates))}
	for _, t := range templates {
		m.Templates[t.ID] = t
	}
	return m
}

// List returns the templates sorted by id.
func (m *MockTemplateStore) List() ([]Template, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := make([]Template, 0, len(m.Templates))
	for _, t := range m.Templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Load returns the template with the given id.
func (m *MockTemplateStore) Load(id string) (Template, error) {
	if m.LoadError != nil {
		return Template{}, m.LoadError
	}
	t, ok := m.Templates[id]
	if !ok {
		return Template{}, &parsererror.TemplateNotFoundError{ID: id}
	}
	return t, nil
}

// Save stores t after validating it.
func (m *MockTemplateStore) Save(t Template) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	if err := Validate(t); err != nil {
		return err
	}
	if existing, ok := m.Templates[t.ID]; ok && existing.BuiltIn {
		return fmt.Errorf("template %q: %w", t.ID, ErrBuiltIn)
	}
	if m.Templates == nil {
		m.Templates = make(map[string]Template)
	}
	m.Templates[t.ID] = t
	return nil
}

// Delete removes the template with the given id.
func (m *MockTemplateStore) Delete(id string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.Templates[id]; !ok {
		return &parsererror.TemplateNotFoundError{ID: id}
	}
	delete(m.Templates, id)
	return nil
}
