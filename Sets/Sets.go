package Sets

import "iter"

type Set[E any] interface {
	Put(E) bool
	Has(E) bool
	Remove(E) bool
	Size() uint
	Take() E
	Range(func(E) bool)
}

type ExtendedSet[E any] interface {
	PutAll(Set[E]) uint
	RemoveAll(Set[E]) uint
	Eq(Set[E]) bool
	Union(Set[E])
	Intersect(Set[E])
	Filter(func(E) bool) ExtendedSet[E]
}

// OrderedSet keeps its elements sorted and knows the position of each of them.
type OrderedSet[E any] interface {
	Set[E]
	// Rank is the number of elements less than e.
	Rank(E) uint
	// At returns the element at position i, false if i>=Size().
	At(i uint) (E, bool)
	// Pop removes the smallest element.
	Pop() (E, bool)
	Floor(E) (E, bool)
	Ceiling(E) (E, bool)
	// Between returns the elements in [lo, hi] in ascending order.
	Between(lo, hi E) iter.Seq[E]
}
