package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structdiff/structdiff/diff"
	"github.com/structdiff/structdiff/internal/source"
	"github.com/structdiff/structdiff/internal/store"
	bboltStore "github.com/structdiff/structdiff/internal/store/bbolt"
)

func writeDocument(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func defaultDiffOptions() diffOptions {
	return diffOptions{
		format:     formatText,
		filterExpr: "All()",
		maxChanges: -1,
	}
}

func TestRunDiffText(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	dir := t.TempDir()
	oldPath := writeDocument(t, dir, "old.json", `{"name": "app", "replicas": 1}`)
	newPath := writeDocument(t, dir, "new.json", `{"name": "app", "replicas": 2}`)

	var buf bytes.Buffer
	require.NoError(t, runDiff(context.Background(), &buf, oldPath, newPath, defaultDiffOptions()))

	assert.Equal(t, "Found 1 change:\n\n- = name \"app\"\n- ~ replicas changed from 1 to 2\n", buf.String())
}

func TestRunDiffChangesOnly(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	dir := t.TempDir()
	oldPath := writeDocument(t, dir, "old.json", `{"name": "app", "replicas": 1}`)
	newPath := writeDocument(t, dir, "new.json", `{"name": "app", "replicas": 2}`)

	opts := defaultDiffOptions()
	opts.changesOnly = true

	var buf bytes.Buffer
	require.NoError(t, runDiff(context.Background(), &buf, oldPath, newPath, opts))

	assert.Equal(t, "Found 1 change:\n\n- ~ replicas changed from 1 to 2\n", buf.String())
}

func TestRunDiffJSON(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeDocument(t, dir, "old.json", `{"replicas": 1}`)
	newPath := writeDocument(t, dir, "new.json", `{"replicas": 2}`)

	opts := defaultDiffOptions()
	opts.format = formatJSON

	var buf bytes.Buffer
	require.NoError(t, runDiff(context.Background(), &buf, oldPath, newPath, opts))

	assert.Equal(t, `[
  {
    "path": [
      "replicas"
    ],
    "type": "Modified",
    "oldValue": 1,
    "newValue": 2
  }
]
`, buf.String())
}

func TestRunDiffSummary(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeDocument(t, dir, "old.json", `{"a": 1, "b": 2}`)
	newPath := writeDocument(t, dir, "new.json", `{"a": 1, "b": 3}`)

	opts := defaultDiffOptions()
	opts.format = formatSummary

	var buf bytes.Buffer
	require.NoError(t, runDiff(context.Background(), &buf, oldPath, newPath, opts))

	assert.Equal(t, "0 additions, 0 removals, 1 modification, 1 unchanged entry (2 total).\n", buf.String())
}

func TestRunDiffFilter(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	dir := t.TempDir()
	oldPath := writeDocument(t, dir, "old.json", `{"image": "a", "replicas": 1}`)
	newPath := writeDocument(t, dir, "new.json", `{"image": "b", "replicas": 2}`)

	opts := defaultDiffOptions()
	opts.filterExpr = `PathHas("replicas")`

	var buf bytes.Buffer
	require.NoError(t, runDiff(context.Background(), &buf, oldPath, newPath, opts))

	assert.Equal(t, "Found 1 change:\n\n- ~ replicas changed from 1 to 2\n", buf.String())
}

func TestRunDiffBadFilter(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeDocument(t, dir, "old.json", `{}`)
	newPath := writeDocument(t, dir, "new.json", `{}`)

	opts := defaultDiffOptions()
	opts.filterExpr = "Changed("

	err := runDiff(context.Background(), &bytes.Buffer{}, oldPath, newPath, opts)
	assert.ErrorContains(t, err, "compile filter")
}

func TestRunDiffRules(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	dir := t.TempDir()
	oldPath := writeDocument(t, dir, "old.json", `{"metadata": {"generation": 1, "name": "x"}}`)
	newPath := writeDocument(t, dir, "new.json", `{"metadata": {"generation": 2, "name": "x"}}`)
	rulesPath := writeDocument(t, dir, "rules.yaml", "- match: metadata.generation\n  action: exclude\n")

	opts := defaultDiffOptions()
	opts.rulesFile = rulesPath
	opts.changesOnly = true

	var buf bytes.Buffer
	require.NoError(t, runDiff(context.Background(), &buf, oldPath, newPath, opts))

	assert.Equal(t, "No changes found.\n", buf.String())
}

func TestRunDiffDocs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	oldDir := t.TempDir()
	newDir := t.TempDir()
	writeDocument(t, oldDir, "app.json", `{"replicas": 1}`)
	writeDocument(t, oldDir, "removed.json", `{"old": true}`)
	writeDocument(t, newDir, "app.json", `{"replicas": 2}`)
	writeDocument(t, newDir, "added.json", `{"replicas": 9}`)

	opts := defaultDiffOptions()
	opts.docs = true

	var buf bytes.Buffer
	require.NoError(t, runDiff(context.Background(), &buf, oldDir, newDir, opts))

	want := `Found 4 changes:

- + "added.json" added {"replicas":9}
- ~ "app.json":
  - ~ replicas changed from 1 to 2
- - "removed.json" removed {"old":true}
`
	assert.Equal(t, want, buf.String())
}

func TestRenderEntriesUnknownFormat(t *testing.T) {
	err := renderEntries(&bytes.Buffer{}, nil, "xml", -1)
	assert.EqualError(t, err, `unknown format "xml", expected text, json or summary`)
}

func TestDropUnchanged(t *testing.T) {
	entries := []diff.Entry{
		{Path: diff.Path{"a"}, Type: diff.Unchanged},
		{Path: diff.Path{"b"}, Type: diff.Modified},
		{
			Path: diff.Path{"docs"},
			Type: diff.Modified,
			Children: []diff.Entry{
				{Path: diff.Path{"x"}, Type: diff.Unchanged},
				{Path: diff.Path{"y"}, Type: diff.Added},
			},
		},
		{
			Path: diff.Path{"stale"},
			Type: diff.Unchanged,
			Children: []diff.Entry{
				{Path: diff.Path{"z"}, Type: diff.Unchanged},
			},
		},
	}

	assert.Equal(t, []diff.Entry{
		{Path: diff.Path{"b"}, Type: diff.Modified},
		{
			Path: diff.Path{"docs"},
			Type: diff.Modified,
			Children: []diff.Entry{
				{Path: diff.Path{"y"}, Type: diff.Added},
			},
		},
	}, dropUnchanged(entries))
}

func TestResolveTarget(t *testing.T) {
	ctx := context.Background()
	st, err := bboltStore.New(filepath.Join(t.TempDir(), "snap.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	stored := map[string]any{"replicas": 2.0}
	require.NoError(t, st.Save(ctx, &store.Snapshot{
		Name:     "base",
		TakenAt:  time.Now().UTC(),
		Document: stored,
	}))

	doc, err := resolveTarget(ctx, st, "snap:base", source.Options{})
	require.NoError(t, err)
	assert.Equal(t, stored, doc)

	_, err = resolveTarget(ctx, st, "snap:missing", source.Options{})
	assert.EqualError(t, err, `snapshot "missing": not found`)
	assert.ErrorIs(t, err, store.ErrNotFound)

	path := writeDocument(t, t.TempDir(), "live.json", `{"replicas": 3}`)
	doc, err = resolveTarget(ctx, st, path, source.Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"replicas": 3.0}, doc)
}
