package diff

import (
	"slices"

	"github.com/structdiff/structdiff/internal/util/set"
)

// CompareDocs compares two keyed document collections and produces one
// entry per document key (sorted union). A document present on only one
// side reports as Added or Removed carrying the whole document. A document
// present on both sides becomes a parent entry whose Children hold its
// Compare output (paths relative to the document root) and whose type is
// Unchanged only when every child is.
func CompareDocs(first, second map[string]any) []Entry {
	keys := set.FromKeys(first).Union(set.FromKeys(second)).Values()
	slices.Sort(keys)
	var entries []Entry
	for _, key := range keys {
		firstDoc, inFirst := first[key]
		secondDoc, inSecond := second[key]
		switch {
		case !inFirst:
			entries = append(entries, Entry{Path: Path{key}, Type: Added, New: secondDoc})
		case !inSecond:
			entries = append(entries, Entry{Path: Path{key}, Type: Removed, Old: firstDoc})
		default:
			children := Compare(firstDoc, secondDoc)
			entries = append(entries, Entry{
				Path:     Path{key},
				Type:     docEntryType(children),
				Old:      firstDoc,
				New:      secondDoc,
				Children: children,
			})
		}
	}
	return entries
}

func docEntryType(children []Entry) EntryType {
	for _, child := range children {
		if child.Type.Changed() {
			return Modified
		}
	}
	return Unchanged
}
