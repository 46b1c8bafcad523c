// Package normalize rewrites documents ahead of comparison so known noise
// (volatile fields, renamed keys, empty-vs-null mismatches) does not show
// up as changes.
package normalize

import (
	"slices"
	"strconv"

	"github.com/structdiff/structdiff/diff"
)

// Apply runs the rules over both documents and returns rewritten copies
// plus the applied-rule log. The inputs are never mutated: every container
// along the walk is rebuilt.
func Apply(first, second any, rules []Rule) (Result, error) {
	if err := Validate(rules); err != nil {
		return Result{}, err
	}
	n := &normalizer{rules: rules}
	return Result{
		First:   n.rewrite(first, nil, "first"),
		Second:  n.rewrite(second, nil, "second"),
		Applied: n.applied,
	}, nil
}

type normalizer struct {
	rules   []Rule
	applied []Applied
}

func (n *normalizer) match(path diff.Path) (Rule, bool) {
	formatted := path.String()
	for _, r := range n.rules {
		if r.Match == "*" || r.Match == formatted {
			return r, true
		}
	}
	return Rule{}, false
}

func (n *normalizer) rewrite(v any, path diff.Path, side string) any {
	out := v
	switch val := v.(type) {
	case map[string]any:
		out = n.rewriteMapping(val, path, side)
	case []any:
		out = n.rewriteSequence(val, path, side)
	}
	if rule, ok := n.match(path); ok && rule.Action == ActionCoerceNull {
		if coerced, empty := nullify(out); empty {
			n.log(rule, path, side)
			return coerced
		}
	}
	return out
}

func (n *normalizer) rewriteMapping(val map[string]any, path diff.Path, side string) map[string]any {
	out := make(map[string]any, len(val))
	keys := make([]string, 0, len(val))
	for key := range val {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		childPath := append(path, key)
		child := val[key]
		if rule, ok := n.match(childPath); ok {
			switch rule.Action {
			case ActionExclude:
				n.log(rule, childPath, side)
				continue
			case ActionRename:
				n.log(rule, childPath, side)
				out[rule.To] = n.rewrite(child, childPath, side)
				continue
			}
		}
		out[key] = n.rewrite(child, childPath, side)
	}
	return out
}

func (n *normalizer) rewriteSequence(val []any, path diff.Path, side string) []any {
	out := make([]any, len(val))
	for i, child := range val {
		childPath := append(path, strconv.Itoa(i))
		if rule, ok := n.match(childPath); ok && rule.Action == ActionExclude {
			n.log(rule, childPath, side)
			out[i] = nil
			continue
		}
		out[i] = n.rewrite(child, childPath, side)
	}
	return out
}

// nullify reports whether the value counts as empty and returns its null
// replacement. Null itself is not re-coerced.
func nullify(v any) (any, bool) {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil, true
		}
	case []any:
		if len(val) == 0 {
			return nil, true
		}
	case map[string]any:
		if len(val) == 0 {
			return nil, true
		}
	}
	return v, false
}

func (n *normalizer) log(rule Rule, path diff.Path, side string) {
	n.applied = append(n.applied, Applied{
		Match:  rule.Match,
		Action: rule.Action,
		Path:   path.String(),
		Side:   side,
	})
}
