package serial

// Pair is an ordered 2-tuple of heterogeneous sub-values. On the wire it
// is first followed by second, unconditionally.
type Pair[F, S any] struct {
	First  F
	Second S
}

func (Pair[F, S]) pairMarker() {}

// Set is a duplicate-free collection. It is encoded in ascending element
// order regardless of insertion order, so re-serializing a decoded Set is
// deterministic.
type Set[E comparable] map[E]struct{}

func (Set[E]) setMarker() {}

// NewSet builds a Set from elems, dropping duplicates.
func NewSet[E comparable](elems ...E) Set[E] {
	s := make(Set[E], len(elems))
	for _, e := range elems {
		s[e] = struct{}{}
	}
	return s
}

// Add inserts e into the set.
func (s Set[E]) Add(e E) { s[e] = struct{}{} }

// Has reports whether e is in the set.
func (s Set[E]) Has(e E) bool {
	_, ok := s[e]
	return ok
}
