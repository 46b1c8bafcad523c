package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structdiff/structdiff/diff"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		expression string
		entry      diff.Entry
		want       bool
	}{
		{"All()", diff.Entry{Type: diff.Unchanged}, true},
		{"None()", diff.Entry{Type: diff.Added}, false},
		{"Added()", diff.Entry{Type: diff.Added}, true},
		{"Added()", diff.Entry{Type: diff.Modified}, false},
		{"Changed()", diff.Entry{Type: diff.Unchanged}, false},
		{"Changed()", diff.Entry{Type: diff.Removed}, true},
		{`Type == "Modified"`, diff.Entry{Type: diff.Modified}, true},
		{`PathHas("spec")`, diff.Entry{Path: diff.Path{"spec", "replicas"}}, true},
		{`PathHas("spec")`, diff.Entry{Path: diff.Path{"metadata", "name"}}, false},
		{`PathHas("a", "b")`, diff.Entry{Path: diff.Path{"x", "b"}}, true},
		{`PathUnder("spec.containers")`, diff.Entry{Path: diff.Path{"spec", "containers", "0", "image"}}, true},
		{`PathUnder("spec.containers")`, diff.Entry{Path: diff.Path{"spec", "template"}}, false},
		{"Depth <= 1", diff.Entry{Path: diff.Path{"a"}}, true},
		{"Depth <= 1", diff.Entry{Path: diff.Path{"a", "b"}}, false},
		{`Path == "root"`, diff.Entry{}, true},
	}

	for _, c := range cases {
		t.Run(c.expression, func(t *testing.T) {
			f, err := Compile(c.expression)
			require.NoError(t, err)

			got, err := f.Match(c.entry)
			require.NoError(t, err)
			assert.Equal(t, c.want, got, "entry %+v", c.entry)
		})
	}
}

func TestCompileRejectsBadExpressions(t *testing.T) {
	_, err := Compile("Changed(")
	assert.ErrorContains(t, err, "compile filter")

	// The program must produce a boolean.
	_, err = Compile("1 + 2")
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	f, err := Compile("Changed()")
	require.NoError(t, err)

	entries := []diff.Entry{
		{Path: diff.Path{"a"}, Type: diff.Unchanged},
		{Path: diff.Path{"b"}, Type: diff.Modified},
		{Path: diff.Path{"c"}, Type: diff.Added},
	}

	got, err := f.Apply(entries)
	require.NoError(t, err)
	assert.Equal(t, []diff.Entry{
		{Path: diff.Path{"b"}, Type: diff.Modified},
		{Path: diff.Path{"c"}, Type: diff.Added},
	}, got)
}

func TestApplyFiltersChildren(t *testing.T) {
	f, err := Compile("Changed()")
	require.NoError(t, err)

	entries := []diff.Entry{
		{
			Path: diff.Path{"app.json"},
			Type: diff.Modified,
			Children: []diff.Entry{
				{Path: diff.Path{"replicas"}, Type: diff.Modified},
				{Path: diff.Path{"name"}, Type: diff.Unchanged},
			},
		},
		{
			Path: diff.Path{"stable.json"},
			Type: diff.Unchanged,
			Children: []diff.Entry{
				{Path: diff.Path{"name"}, Type: diff.Unchanged},
			},
		},
	}

	got, err := f.Apply(entries)
	require.NoError(t, err)
	assert.Equal(t, []diff.Entry{
		{
			Path: diff.Path{"app.json"},
			Type: diff.Modified,
			Children: []diff.Entry{
				{Path: diff.Path{"replicas"}, Type: diff.Modified},
			},
		},
	}, got)
}

func TestApplyKeepsParentsOfMatches(t *testing.T) {
	f, err := Compile("Added()")
	require.NoError(t, err)

	entries := []diff.Entry{
		{
			Path: diff.Path{"meta.json"},
			Type: diff.Unchanged,
			Children: []diff.Entry{
				{Path: diff.Path{"label"}, Type: diff.Added},
			},
		},
	}

	got, err := f.Apply(entries)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, diff.Path{"meta.json"}, got[0].Path)
	assert.Equal(t, []diff.Entry{{Path: diff.Path{"label"}, Type: diff.Added}}, got[0].Children)
}
