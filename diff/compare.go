// Package diff computes structural differences between JSON-shaped document
// values and renders them for terminals, pipelines and aggregation.
package diff

import (
	"reflect"
	"slices"
	"strconv"

	"github.com/structdiff/structdiff/internal/util/set"
)

// Compare walks first and second together and returns one entry per leaf
// position, per added or removed element and per scalar replacement.
// Containers produce no entries of their own. Output order is
// deterministic: mapping keys sorted, sequence indices ascending.
//
// Compare is total and never fails. Cyclic inputs are not detected and
// recurse without bound. Returned entries alias the input values, so inputs
// must not be mutated while results are held.
func Compare(first, second any) []Entry {
	return CompareAt(first, second, nil)
}

// CompareAt is Compare with every produced path prefixed by at.
func CompareAt(first, second any, at Path) []Entry {
	return walk(nil, clonePath(at), first, second)
}

func walk(entries []Entry, path Path, first, second any) []Entry {
	firstKind, secondKind := KindOf(first), KindOf(second)
	switch {
	case firstKind == Null && secondKind == Null:
		return append(entries, Entry{Path: clonePath(path), Type: Unchanged, Old: first, New: second})
	case firstKind == Null:
		return append(entries, Entry{Path: clonePath(path), Type: Added, New: second})
	case secondKind == Null:
		return append(entries, Entry{Path: clonePath(path), Type: Removed, Old: first})
	case !firstKind.Container() || !secondKind.Container():
		if reflect.DeepEqual(first, second) {
			return append(entries, Entry{Path: clonePath(path), Type: Unchanged, Old: first, New: second})
		}
		return append(entries, Entry{Path: clonePath(path), Type: Modified, Old: first, New: second})
	case firstKind != secondKind:
		// Sequence on one side, Mapping on the other: scalar replacement.
		return append(entries, Entry{Path: clonePath(path), Type: Modified, Old: first, New: second})
	case firstKind == Sequence:
		return walkSequence(entries, path, first.([]any), second.([]any))
	default:
		return walkMapping(entries, path, first.(map[string]any), second.(map[string]any))
	}
}

// walkSequence pairs elements strictly by position. Indices past the end of
// one side report as Added or Removed; there is no alignment heuristic, so
// an insertion at the front reports every following index as Modified.
func walkSequence(entries []Entry, path Path, first, second []any) []Entry {
	for i := 0; i < len(first) || i < len(second); i++ {
		at := append(path, strconv.Itoa(i))
		switch {
		case i >= len(first):
			entries = append(entries, Entry{Path: clonePath(at), Type: Added, New: second[i]})
		case i >= len(second):
			entries = append(entries, Entry{Path: clonePath(at), Type: Removed, Old: first[i]})
		default:
			entries = walk(entries, at, first[i], second[i])
		}
	}
	return entries
}

func walkMapping(entries []Entry, path Path, first, second map[string]any) []Entry {
	keys := set.FromKeys(first).Union(set.FromKeys(second)).Values()
	slices.Sort(keys)
	for _, key := range keys {
		at := append(path, key)
		firstVal, inFirst := first[key]
		secondVal, inSecond := second[key]
		switch {
		case !inFirst:
			entries = append(entries, Entry{Path: clonePath(at), Type: Added, New: secondVal})
		case !inSecond:
			entries = append(entries, Entry{Path: clonePath(at), Type: Removed, Old: firstVal})
		default:
			entries = walk(entries, at, firstVal, secondVal)
		}
	}
	return entries
}

// clonePath snapshots the shared recursion buffer before it is stored on an
// entry or handed across an API boundary.
func clonePath(p Path) Path {
	if len(p) == 0 {
		return nil
	}
	return slices.Clone(p)
}
