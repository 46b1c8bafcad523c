// Package filter selects diff entries with expr-lang expressions, e.g.
//
//	Changed() && PathHas("spec")
//	Type == "Modified" && Depth <= 2
package filter

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/structdiff/structdiff/diff"
)

// EntryEnv is the expression environment for a single entry. Its fields
// and methods form the filter language.
type EntryEnv struct {
	Type     string
	Path     string
	Segments []string
	Depth    int
}

func (e EntryEnv) All() bool  { return true }
func (e EntryEnv) None() bool { return false }

func (e EntryEnv) Added() bool     { return e.Type == string(diff.Added) }
func (e EntryEnv) Removed() bool   { return e.Type == string(diff.Removed) }
func (e EntryEnv) Modified() bool  { return e.Type == string(diff.Modified) }
func (e EntryEnv) Unchanged() bool { return e.Type == string(diff.Unchanged) }
func (e EntryEnv) Changed() bool   { return !e.Unchanged() }

// PathHas reports whether any path segment equals one of the given values.
func (e EntryEnv) PathHas(vals ...string) bool {
	if len(vals) == 0 {
		return true
	}
	for _, val := range vals {
		for _, seg := range e.Segments {
			if seg == val {
				return true
			}
		}
	}
	return false
}

// PathUnder reports whether the formatted path starts with the given
// prefix.
func (e EntryEnv) PathUnder(prefix string) bool {
	return strings.HasPrefix(e.Path, prefix)
}

// Filter applies one compiled expression to entries.
type Filter struct {
	program *vm.Program
}

// Compile builds a filter from a boolean expression over EntryEnv.
func Compile(src string) (*Filter, error) {
	program, err := expr.Compile(src, expr.Env(EntryEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", src, err)
	}
	return &Filter{program: program}, nil
}

// Match reports whether a single entry passes the filter.
func (f *Filter) Match(e diff.Entry) (bool, error) {
	env := EntryEnv{
		Type:     string(e.Type),
		Path:     e.Path.String(),
		Segments: e.Path,
		Depth:    len(e.Path),
	}
	pass, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("run filter: %w", err)
	}
	return pass.(bool), nil
}

// Apply keeps the entries that match. Nested children are filtered too; a
// parent survives when it matches or any of its children do.
func (f *Filter) Apply(entries []diff.Entry) ([]diff.Entry, error) {
	var kept []diff.Entry
	for _, e := range entries {
		match, err := f.Match(e)
		if err != nil {
			return nil, err
		}
		if len(e.Children) == 0 {
			if match {
				kept = append(kept, e)
			}
			continue
		}
		children, err := f.Apply(e.Children)
		if err != nil {
			return nil, err
		}
		if !match && len(children) == 0 {
			continue
		}
		e.Children = children
		kept = append(kept, e)
	}
	return kept, nil
}
