package TreeSet

import (
	"cmp"
	"iter"
	"slices"

	"github.com/g-m-twostay/go-ostree/Sets"
	"github.com/g-m-twostay/go-ostree/Trees"
)

// TreeSet is an ordered set stored as the keys of a Trees.Tree.
type TreeSet[E any] struct {
	t   Trees.Tree[E, struct{}]
	cmp func(E, E) int
}

// New empty TreeSet ordered by cmp.Compare and balanced by b.
func New[E cmp.Ordered](b Trees.Balance) *TreeSet[E] {
	return NewFunc[E](b, cmp.Compare[E])
}

// NewFunc is New with a caller supplied ordering.
func NewFunc[E any](b Trees.Balance, cmp func(E, E) int) *TreeSet[E] {
	return &TreeSet[E]{Trees.New[E, struct{}](b, cmp, uint(0)), cmp}
}

// Of returns a TreeSet holding es, which don't need to be sorted or distinct.
// Time: O(n*log(n))
func Of[E cmp.Ordered](b Trees.Balance, es ...E) *TreeSet[E] {
	s := New[E](b)
	es = slices.Compact(slices.Sorted(slices.Values(es)))
	if err := s.t.Load(es, nil); err != nil {
		panic(err)
	}
	return s
}

// Put e into the set. Returns true if e wasn't present.
func (u *TreeSet[E]) Put(e E) bool {
	_, added := u.t.Set(e, struct{}{})
	return added
}

func (u *TreeSet[E]) Has(e E) bool {
	return u.t.Has(e)
}

// Remove e from the set. Returns true if e was present.
func (u *TreeSet[E]) Remove(e E) bool {
	return u.t.Delete(e)
}

func (u *TreeSet[E]) Size() uint {
	return uint(u.t.Size())
}

// Take the smallest element without removing it. Returns zero value if the set is empty.
func (u *TreeSet[E]) Take() (e E) {
	e, _, _ = u.t.Min()
	return
}

// Pop removes and returns the smallest element.
func (u *TreeSet[E]) Pop() (E, bool) {
	e, _, err := u.t.DeleteMin()
	return e, err == nil
}

// Range calls f on the elements in ascending order until f returns false.
// The set must not be modified by f.
func (u *TreeSet[E]) Range(f func(E) bool) {
	for e := range u.t.All() {
		if !f(e) {
			return
		}
	}
}

func (u *TreeSet[E]) Rank(e E) uint {
	return uint(u.t.Rank(e))
}

// At returns the element at zero-based position i.
func (u *TreeSet[E]) At(i uint) (e E, ok bool) {
	if i >= u.Size() {
		return e, false
	}
	e, _, _ = u.t.Select(int(i))
	return e, true
}

func (u *TreeSet[E]) Floor(e E) (E, bool) {
	f, _, ok := u.t.Floor(e)
	return f, ok
}

func (u *TreeSet[E]) Ceiling(e E) (E, bool) {
	c, _, ok := u.t.Ceiling(e)
	return c, ok
}

// Between returns the elements in [lo, hi] in ascending order.
func (u *TreeSet[E]) Between(lo, hi E) iter.Seq[E] {
	return func(yield func(E) bool) {
		for e := range u.t.Range(lo, hi) {
			if !yield(e) {
				return
			}
		}
	}
}

// PutAll elements of s. Returns the number of elements added.
func (u *TreeSet[E]) PutAll(s Sets.Set[E]) (n uint) {
	s.Range(func(e E) bool {
		if u.Put(e) {
			n++
		}
		return true
	})
	return
}

// RemoveAll elements of s. Returns the number of elements removed.
func (u *TreeSet[E]) RemoveAll(s Sets.Set[E]) (n uint) {
	s.Range(func(e E) bool {
		if u.Remove(e) {
			n++
		}
		return true
	})
	return
}

// Eq tells whether u and s hold the same elements.
func (u *TreeSet[E]) Eq(s Sets.Set[E]) bool {
	if u.Size() != s.Size() {
		return false
	}
	eq := true
	s.Range(func(e E) bool {
		eq = u.Has(e)
		return eq
	})
	return eq
}

func (u *TreeSet[E]) Union(s Sets.Set[E]) {
	u.PutAll(s)
}

// Intersect keeps only the elements that are also in s.
func (u *TreeSet[E]) Intersect(s Sets.Set[E]) {
	var drop []E
	u.Range(func(e E) bool {
		if !s.Has(e) {
			drop = append(drop, e)
		}
		return true
	})
	for _, e := range drop {
		u.Remove(e)
	}
}

// Filter returns a new TreeSet with the same balance holding the elements for which f is true.
// Time: O(n)
func (u *TreeSet[E]) Filter(f func(E) bool) Sets.ExtendedSet[E] {
	var keep []E
	u.Range(func(e E) bool {
		if f(e) {
			keep = append(keep, e)
		}
		return true
	})
	s := NewFunc[E](u.t.Balance(), u.cmp)
	if err := s.t.Load(keep, nil); err != nil {
		panic(err)
	}
	return s
}

var (
	_ Sets.OrderedSet[int]  = (*TreeSet[int])(nil)
	_ Sets.ExtendedSet[int] = (*TreeSet[int])(nil)
)
