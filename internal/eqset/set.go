package eqset

import (
	"errors"
	"math/rand"
	"time"
)

// ErrEmptySet is returned when drawing from a set that has no elements.
var ErrEmptySet = errors.New("cannot draw from an empty set")

// Comparator defines the total order used to bucket elements into
// equivalence classes. It returns a negative value if a sorts before b,
// zero if a and b belong to the same class, and a positive value otherwise.
type Comparator[T comparable] func(a, b T) int

// class is one equivalence bucket. All members compare equal to each other
// under the set's comparator. pending holds the members that have not yet
// been offered in the current draw pass, in draw order.
type class[T comparable] struct {
	members []T
	pending []T
}

// Set is a partitioned random-draw set. Elements are grouped into ordered
// equivalence classes by the comparator; membership lookups use element
// identity. The zero value is not usable, use New.
type Set[T comparable] struct {
	cmp     Comparator[T]
	classes []*class[T]
	index   map[T]*class[T]
	rng     *rand.Rand
}

// New creates an empty set ordered by cmp, seeded from the current time.
func New[T comparable](cmp Comparator[T]) *Set[T] {
	return NewWithRand(cmp, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates an empty set ordered by cmp that uses rng for all
// in-class shuffling. Injecting the source keeps draw order reproducible
// in tests.
func NewWithRand[T comparable](cmp Comparator[T], rng *rand.Rand) *Set[T] {
	return &Set[T]{
		cmp:   cmp,
		index: make(map[T]*class[T]),
		rng:   rng,
	}
}

// Comparator returns the ordering function used to bucket elements.
func (s *Set[T]) Comparator() Comparator[T] {
	return s.cmp
}

// Size returns the number of elements in the set.
func (s *Set[T]) Size() int {
	return len(s.index)
}

// IsEmpty reports whether the set holds no elements.
func (s *Set[T]) IsEmpty() bool {
	return len(s.index) == 0
}

// Contains reports whether elem is a member of the set.
func (s *Set[T]) Contains(elem T) bool {
	_, ok := s.index[elem]
	return ok
}

// Elements returns a snapshot of all members in class order. The in-class
// order is unspecified.
func (s *Set[T]) Elements() []T {
	out := make([]T, 0, len(s.index))
	for _, c := range s.classes {
		out = append(out, c.members...)
	}
	return out
}

// Add inserts elem into its equivalence class. The element becomes eligible
// for drawing in the current pass. Adding an element that is already a
// member is a no-op.
func (s *Set[T]) Add(elem T) {
	if s.Contains(elem) {
		return
	}
	c := s.classFor(elem)
	c.members = append(c.members, elem)
	// Splice into a random position of the pending order so a freshly added
	// element does not always come last in the pass.
	i := 0
	if n := len(c.pending); n > 0 {
		i = s.rng.Intn(n + 1)
	}
	c.pending = append(c.pending, elem)
	copy(c.pending[i+1:], c.pending[i:])
	c.pending[i] = elem
	s.index[elem] = c
}

// AddAll inserts every element of elems.
func (s *Set[T]) AddAll(elems []T) {
	for _, e := range elems {
		s.Add(e)
	}
}

// AddExpired re-inserts a previously drawn element but keeps it out of the
// current draw pass: it will only become drawable once every class has been
// exhausted and the pass restarts. Models "just shown, don't show again
// immediately".
func (s *Set[T]) AddExpired(elem T) {
	if s.Contains(elem) {
		return
	}
	c := s.classFor(elem)
	c.members = append(c.members, elem)
	s.index[elem] = c
}

// Remove deletes elem from the set and from any pending draw order.
// Removing a non-member is a no-op and returns false.
func (s *Set[T]) Remove(elem T) bool {
	c, ok := s.index[elem]
	if !ok {
		return false
	}
	delete(s.index, elem)
	c.members = deleteElem(c.members, elem)
	c.pending = deleteElem(c.pending, elem)
	if len(c.members) == 0 {
		s.dropClass(c)
	}
	return true
}

// ResetEquivalenceClass relocates elem after its ordering key has changed.
// The element stays a member throughout and re-enters the draw order of its
// new class, so a reclassified element can be drawn again in the current
// pass. Calling it on a non-member is a no-op.
func (s *Set[T]) ResetEquivalenceClass(elem T) {
	if !s.Contains(elem) {
		return
	}
	s.Remove(elem)
	s.Add(elem)
}

// Partition removes up to n elements from the set, drawn from the lowest
// classes first in draw order, and returns them as a new set sharing the
// same comparator and random source. If n is at least the set's size the
// whole content moves and the receiver is left empty.
func (s *Set[T]) Partition(n int) *Set[T] {
	out := NewWithRand(s.cmp, s.rng)
	for n > 0 && !s.IsEmpty() {
		c := s.classes[0]
		var elem T
		if len(c.pending) > 0 {
			elem = c.pending[0]
		} else {
			elem = c.members[0]
		}
		s.Remove(elem)
		out.Add(elem)
		n--
	}
	return out
}

// classFor finds the equivalence class elem belongs to, creating and
// inserting a new class at the right position if none exists.
func (s *Set[T]) classFor(elem T) *class[T] {
	lo, hi := 0, len(s.classes)
	for lo < hi {
		mid := (lo + hi) / 2
		switch r := s.cmp(elem, s.classes[mid].members[0]); {
		case r == 0:
			return s.classes[mid]
		case r < 0:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	c := &class[T]{}
	s.classes = append(s.classes, nil)
	copy(s.classes[lo+1:], s.classes[lo:])
	s.classes[lo] = c
	return c
}

func (s *Set[T]) dropClass(c *class[T]) {
	for i, have := range s.classes {
		if have == c {
			s.classes = append(s.classes[:i], s.classes[i+1:]...)
			return
		}
	}
}

func deleteElem[T comparable](slice []T, elem T) []T {
	for i, have := range slice {
		if have == elem {
			return append(slice[:i], slice[i+1:]...)
		}
	}
	return slice
}
