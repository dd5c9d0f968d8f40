// Package eqset provides a partitioned random-draw set: a container that
// buckets its elements into ordered equivalence classes using a caller
// supplied comparator, and draws elements preferentially from the lowest
// non-empty class without repeating an element before the whole class has
// been offered once.
//
// The container tolerates element keys changing after insertion. Membership
// is tracked by element identity, so a key change only requires an explicit
// call to ResetEquivalenceClass to relocate the element.
package eqset
