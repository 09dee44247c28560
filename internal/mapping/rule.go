package mapping

import (
	"fmt"
	"strings"

	"fjacquet/format-converter/internal/tree"
	"fjacquet/format-converter/internal/treepath"
)

// Rule copies the value found at Source to Target when Enabled.
type Rule struct {
	Source  string `yaml:"source" csv:"source"`
	Target  string `yaml:"target" csv:"target"`
	Enabled bool   `yaml:"enabled" csv:"enabled"`
}

// Build returns an enabled identity rule for every path that does not
// reference @attributes.
func Build(paths []string) []Rule {
	rules := make([]Rule, 0, len(paths))
	for _, p := range paths {
		if strings.Contains(p, tree.AttributesKey) {
			continue
		}
		rules = append(rules, Rule{Source: p, Target: p, Enabled: true})
	}
	return rules
}

// Table is the editable rule list of one conversion session. Sources are
// fixed once built; only targets and the enabled flags change.
type Table struct {
	rules []Rule
}

// NewTable returns a table holding a copy of rules.
func NewTable(rules []Rule) *Table {
	t := &Table{rules: make([]Rule, len(rules))}
	copy(t.rules, rules)
	return t
}

// FromTree discovers the paths of root and builds the identity table.
func FromTree(root tree.Node) *Table {
	return NewTable(Build(Discover(root)))
}

// Len returns the number of rules.
func (t *Table) Len() int { return len(t.rules) }

// Rules returns a copy of the rules in table order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Rule returns the rule at index i.
func (t *Table) Rule(i int) (Rule, error) {
	if err := t.checkIndex(i); err != nil {
		return Rule{}, err
	}
	return t.rules[i], nil
}

// SetTarget changes the target path of rule i. The path must parse.
func (t *Table) SetTarget(i int, target string) error {
	if err := t.checkIndex(i); err != nil {
		return err
	}
	if err := treepath.Validate(target); err != nil {
		return err
	}
	t.rules[i].Target = target
	return nil
}

// SetEnabled sets the enabled flag of rule i.
func (t *Table) SetEnabled(i int, enabled bool) error {
	if err := t.checkIndex(i); err != nil {
		return err
	}
	t.rules[i].Enabled = enabled
	return nil
}

// Toggle flips the enabled flag of rule i and returns the new value.
func (t *Table) Toggle(i int) (bool, error) {
	if err := t.checkIndex(i); err != nil {
		return false, err
	}
	t.rules[i].Enabled = !t.rules[i].Enabled
	return t.rules[i].Enabled, nil
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	return NewTable(t.rules)
}

func (t *Table) checkIndex(i int) error {
	if i < 0 || i >= len(t.rules) {
		return fmt.Errorf("rule index %d out of range (table has %d rules)", i, len(t.rules))
	}
	return nil
}
