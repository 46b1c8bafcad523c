package set

import (
	"sort"
	"testing"
)

func TestFromKeysUnion(t *testing.T) {
	first := FromKeys(map[string]int{"a": 1, "b": 2})
	second := FromSlice([]string{"b", "c"})

	union := first.Union(second)
	for _, e := range []string{"a", "b", "c"} {
		if !union.Has(e) {
			t.Fatalf("union is missing %q", e)
		}
	}
	if union.Has("d") {
		t.Fatal("union contains an element nobody added")
	}

	got := union.Values()
	sort.Strings(got)
	if len(got) != 3 {
		t.Fatalf("unexpected values %v", got)
	}
}

func TestZeroValue(t *testing.T) {
	var zero Set[string]
	if zero.Has("a") {
		t.Fatal("zero set claims membership")
	}
	if got := zero.Values(); got != nil {
		t.Fatalf("zero set has values %v", got)
	}

	union := zero.Union(FromSlice([]string{"a"}))
	if !union.Has("a") {
		t.Fatal("union with the zero set lost an element")
	}
}
