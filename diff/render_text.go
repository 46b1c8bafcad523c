package diff

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/structdiff/structdiff/internal/util/difftree"
)

// TextOptions configures RenderText.
type TextOptions struct {
	// MaxChanges caps the number of rendered lines; -1 renders everything.
	MaxChanges int
	Theme      Theme
	// InlineStrings renders Modified string pairs as one inline diff
	// instead of a from/to pair.
	InlineStrings bool
}

// RenderText writes the human-readable report: a headline with the change
// count, then the entries grouped along their paths.
func RenderText(out io.Writer, entries []Entry, opts TextOptions) {
	switch changes := Aggregate(entries).Changes(); changes {
	case 0:
		fmt.Fprintln(out, "No changes found.")
	case 1:
		fmt.Fprintln(out, "Found 1 change:")
	default:
		fmt.Fprintf(out, "Found %d changes:\n", changes)
	}

	tree := buildTree(entries, opts)
	tree.Prune()
	tree.Display(out, opts.MaxChanges)
}

func buildTree(entries []Entry, opts TextOptions) *difftree.Node {
	root := &difftree.Node{}
	addEntries(root, entries, opts)
	return root
}

func addEntries(parent *difftree.Node, entries []Entry, opts TextOptions) {
	for _, e := range entries {
		node := parent
		for _, seg := range e.Path {
			node = segmentNode(node, seg)
		}
		marker := difftree.NewMarker(opts.Theme.Marker(e.Type))
		if len(e.Children) > 0 {
			node.SetDescription(marker, "")
			addEntries(node, e.Children, opts)
			continue
		}
		node.SetDescription(marker, "%s", describeEntry(e, opts))
	}
}

// segmentNode mirrors the Path.String segment classes so the tree reads
// like the formatted paths.
func segmentNode(parent *difftree.Node, seg string) *difftree.Node {
	switch {
	case indexSegment.MatchString(seg):
		return parent.Label("[" + seg + "]")
	case identSegment.MatchString(seg):
		return parent.Label(seg)
	default:
		return parent.Value(seg)
	}
}

func describeEntry(e Entry, opts TextOptions) string {
	switch e.Type {
	case Added:
		return "added " + renderValue(e.New, opts.Theme)
	case Removed:
		return "removed " + renderValue(e.Old, opts.Theme)
	case Modified:
		if opts.InlineStrings {
			if from, ok := e.Old.(string); ok {
				if to, ok := e.New.(string); ok {
					return "changed " + inlineStringDiff(opts.Theme, from, to)
				}
			}
		}
		return fmt.Sprintf("changed from %s to %s",
			renderValue(e.Old, opts.Theme), renderValue(e.New, opts.Theme))
	default:
		return renderValue(e.Old, opts.Theme)
	}
}

func renderValue(v any, theme Theme) string {
	data, err := json.Marshal(v)
	if err != nil {
		return theme.ValueStyle.Render(fmt.Sprintf("%v", v))
	}
	return theme.ValueStyle.Render(string(data))
}

func inlineStringDiff(theme Theme, from, to string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, false))
	var sb strings.Builder
	sb.WriteString(`"`)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			sb.WriteString(theme.AddedStyle.Render(d.Text))
		case diffmatchpatch.DiffDelete:
			sb.WriteString(theme.RemovedStyle.Render(d.Text))
		default:
			sb.WriteString(d.Text)
		}
	}
	sb.WriteString(`"`)
	return sb.String()
}
