package mapping

import (
	"fmt"

	"fjacquet/format-converter/internal/tree"
	"fjacquet/format-converter/internal/treepath"
)

// Project builds a new tree from src by applying every enabled rule in
// order. A rule whose source is missing is skipped. Rules writing the same
// target overwrite each other, so the last one wins.
//
// src is never modified. The only error is a rule path that does not parse,
// in which case nothing is returned.
func Project(src tree.Node, rules []Rule) (tree.Node, error) {
	type compiled struct {
		source, target treepath.Path
	}

	plan := make([]compiled, 0, len(rules))
	for i, r := range rules {
		if !r.Enabled {
			continue
		}
		source, err := treepath.Parse(r.Source)
		if err != nil {
			return nil, fmt.Errorf("rule %d source: %w", i, err)
		}
		target, err := treepath.Parse(r.Target)
		if err != nil {
			return nil, fmt.Errorf("rule %d target: %w", i, err)
		}
		plan = append(plan, compiled{source: source, target: target})
	}

	var result tree.Node = tree.NewMapping()
	for _, c := range plan {
		value, ok := treepath.Get(src, c.source)
		if !ok {
			continue
		}
		result = treepath.Set(result, c.target, value)
	}
	return result, nil
}
