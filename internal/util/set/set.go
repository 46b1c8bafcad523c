package set

import mapset "github.com/deckarep/golang-set/v2"

// Set is a thin wrapper keeping call sites terse. The zero value is an
// empty set.
type Set[T comparable] struct{ s mapset.Set[T] }

func FromSlice[T comparable](slice []T) Set[T] {
	return Set[T]{mapset.NewThreadUnsafeSet(slice...)}
}

func FromKeys[T comparable, V any](m map[T]V) Set[T] {
	s := mapset.NewThreadUnsafeSetWithSize[T](len(m))
	for k := range m {
		s.Add(k)
	}
	return Set[T]{s}
}

func (s Set[T]) Has(e T) bool {
	if s.s == nil {
		return false
	}
	return s.s.Contains(e)
}

func (s Set[T]) Union(other Set[T]) Set[T] {
	switch {
	case s.s == nil:
		return other
	case other.s == nil:
		return s
	}
	return Set[T]{s.s.Union(other.s)}
}

// Values returns the elements in unspecified order.
func (s Set[T]) Values() []T {
	if s.s == nil {
		return nil
	}
	return s.s.ToSlice()
}
