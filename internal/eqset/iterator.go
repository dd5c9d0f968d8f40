package eqset

// LoopIterator is a cyclic draw sequence over a set. Next draws from the
// lowest non-empty class until that class has offered every member once,
// then advances to the next class; once every class is exhausted the pass
// restarts from the lowest class with a freshly randomized order. The
// sequence never terminates as long as the set is non-empty.
//
// The iterator is a view: it shares draw state with the set, so mutations
// between draws (Add, Remove, ResetEquivalenceClass) are picked up
// immediately and all iterators of one set advance the same pass.
type LoopIterator[T comparable] struct {
	set *Set[T]
}

// LoopIterator returns the cyclic draw sequence for the set.
func (s *Set[T]) LoopIterator() *LoopIterator[T] {
	return &LoopIterator[T]{set: s}
}

// Next draws the next element. Returns ErrEmptySet if the set is empty.
func (it *LoopIterator[T]) Next() (T, error) {
	s := it.set

	var zero T
	if s.IsEmpty() {
		return zero, ErrEmptySet
	}

	c := s.lowestPending()
	if c == nil {
		s.restartPass()
		c = s.lowestPending()
	}

	elem := c.pending[0]
	c.pending = c.pending[1:]
	return elem, nil
}

// lowestPending returns the lowest class that still has undrawn members in
// the current pass, or nil if the pass is exhausted.
func (s *Set[T]) lowestPending() *class[T] {
	for _, c := range s.classes {
		if len(c.pending) > 0 {
			return c
		}
	}
	return nil
}

// restartPass begins a new draw pass: every class refills its pending order
// with all members, shuffled. Elements added with AddExpired become
// drawable again here.
func (s *Set[T]) restartPass() {
	for _, c := range s.classes {
		c.pending = append(c.pending[:0], c.members...)
		s.rng.Shuffle(len(c.pending), func(i, j int) {
			c.pending[i], c.pending[j] = c.pending[j], c.pending[i]
		})
	}
}
