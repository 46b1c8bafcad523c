package diff

// EntryType labels the outcome recorded by a single entry.
type EntryType string

const (
	Added     EntryType = "Added"
	Removed   EntryType = "Removed"
	Modified  EntryType = "Modified"
	Unchanged EntryType = "Unchanged"
)

// Changed reports whether the type denotes an actual difference.
func (t EntryType) Changed() bool {
	return t != Unchanged
}

// Entry records the comparison outcome at a single path. Old is set for
// Removed, Modified and Unchanged entries, New for Added, Modified and
// Unchanged ones. Compare never populates Children; grouping producers such
// as CompareDocs nest per-document results there and Aggregate folds them
// into its totals.
type Entry struct {
	Path     Path      `json:"path"`
	Type     EntryType `json:"type"`
	Old      any       `json:"oldValue,omitempty"`
	New      any       `json:"newValue,omitempty"`
	Children []Entry   `json:"children,omitempty"`
}
