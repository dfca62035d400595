package Trees

import (
	"cmp"

	"golang.org/x/exp/constraints"
)

// AATree is an ordered map balanced by node levels (Andersson trees), a
// red-black tree in which only right children may be red. Leaves are on
// level 1, a left child is one level below its parent, a right child is on
// the same level or one below, a right grandchild is always below, and a node
// above level 1 has two children. The height D is at most 2*log2(n+1).
// Every node also carries the size of its subtree.
// Insertion and removal are recursive and restore the levels on the way back
// to the root using skew and split, which are single rotations.
type AATree[K, V any, S constraints.Unsigned] struct {
	base[K, V, S]
}

// NewAA returns an empty AATree ordered by cmp.Compare.
func NewAA[K cmp.Ordered, V any, S constraints.Unsigned](hint S) *AATree[K, V, S] {
	return NewAAFunc[K, V](cmp.Compare[K], hint)
}

// NewAAFunc is NewAA with a caller supplied ordering.
func NewAAFunc[K, V any, S constraints.Unsigned](cmp func(K, K) int, hint S) *AATree[K, V, S] {
	u := new(AATree[K, V, S])
	u.init(cmp, hint)
	return u
}

func (u *AATree[K, V, S]) Balance() Balance {
	return AA
}

func (u *AATree[K, V, S]) level(i S) uint8 {
	return u.ns[i].tag
}

// skew removes a left horizontal link below *ni by rotating right.
func (u *AATree[K, V, S]) skew(ni *S) {
	if n := u.at(*ni); *ni != 0 && n.l != 0 && u.level(n.l) == n.tag {
		u.rotateRight(ni)
	}
}

// split removes two consecutive right horizontal links below *ni by rotating
// left and raising the new subtree root one level.
func (u *AATree[K, V, S]) split(ni *S) {
	if *ni == 0 {
		return
	}
	if n := u.at(*ni); n.r != 0 && u.level(u.ns[n.r].r) == n.tag {
		u.rotateLeft(ni)
		u.at(*ni).tag++
	}
}

func (u *AATree[K, V, S]) insert(ni *S, k K, v V) (old V, added bool) {
	if *ni == 0 {
		*ni = u.popFree(k, v, 1)
		return old, true
	}
	n := u.at(*ni)
	if c := u.cmp(k, n.k); c < 0 {
		old, added = u.insert(&n.l, k, v)
	} else if c > 0 {
		old, added = u.insert(&n.r, k, v)
	} else {
		old, n.v = n.v, v
		return old, false
	}
	if added {
		n.sz++
		u.skew(ni)
		u.split(ni)
	}
	return old, added
}

// Set the value of k to v. If k was already present, its old value is
// returned with added==false; otherwise a node is inserted on level 1. Recursive.
// Time: O(D)
func (u *AATree[K, V, S]) Set(k K, v V) (old V, added bool) {
	if !u.reserve() {
		return u.replace(k, v), false
	}
	return u.insert(&u.root, k, v)
}

// rebalance the subtree stored in *ni after one node was removed below it.
func (u *AATree[K, V, S]) rebalance(ni *S) {
	u.resize(*ni)
	n := u.at(*ni)
	if want := min(u.level(n.l), u.level(n.r)) + 1; want < n.tag {
		n.tag = want
		if rn := u.at(n.r); want < rn.tag {
			rn.tag = want
		}
	}
	u.skew(ni)
	n = u.at(*ni)
	u.skew(&n.r)
	if n.r != 0 {
		u.skew(&u.at(n.r).r)
	}
	u.split(ni)
	u.split(&u.at(*ni).r)
}

func (u *AATree[K, V, S]) popMin(ni *S) S {
	n := u.at(*ni)
	if n.l == 0 {
		i := *ni
		*ni = n.r
		return i
	}
	i := u.popMin(&n.l)
	u.rebalance(ni)
	return i
}

func (u *AATree[K, V, S]) popMax(ni *S) S {
	n := u.at(*ni)
	if n.r == 0 {
		i := *ni
		*ni = n.l
		return i
	}
	i := u.popMax(&n.r)
	u.rebalance(ni)
	return i
}

func (u *AATree[K, V, S]) delete(ni *S, k K) bool {
	if *ni == 0 {
		return false
	}
	n := u.at(*ni)
	if c := u.cmp(k, n.k); c < 0 {
		if !u.delete(&n.l, k) {
			return false
		}
	} else if c > 0 {
		if !u.delete(&n.r, k) {
			return false
		}
	} else if n.l == 0 || n.r == 0 {
		i := *ni
		if n.l == 0 {
			*ni = n.r
		} else {
			*ni = n.l
		}
		u.addFree(i)
		return true
	} else {
		s := u.popMin(&n.r)
		n.k, n.v = u.ns[s].k, u.ns[s].v
		u.addFree(s)
	}
	u.rebalance(ni)
	return true
}

// Delete k. Returns false if k isn't in the tree, in which case nothing changes.
// Recursive.
// Time: O(D)
func (u *AATree[K, V, S]) Delete(k K) bool {
	return u.delete(&u.root, k)
}

// DeleteMin removes and returns the smallest entry. Fails with ErrEmpty on an empty tree.
// Time: O(D)
func (u *AATree[K, V, S]) DeleteMin() (k K, v V, err error) {
	if u.root == 0 {
		return k, v, ErrEmpty
	}
	i := u.popMin(&u.root)
	k, v = u.ns[i].k, u.ns[i].v
	u.addFree(i)
	return k, v, nil
}

// DeleteMax removes and returns the greatest entry. Fails with ErrEmpty on an empty tree.
// Time: O(D)
func (u *AATree[K, V, S]) DeleteMax() (k K, v V, err error) {
	if u.root == 0 {
		return k, v, ErrEmpty
	}
	i := u.popMax(&u.root)
	k, v = u.ns[i].k, u.ns[i].v
	u.addFree(i)
	return k, v, nil
}

// Load replaces the content of u with the strictly ascending ks and their values vs (may be nil).
// Time: O(n)
func (u *AATree[K, V, S]) Load(ks []K, vs []V) error {
	if err := u.load(ks, vs); err != nil {
		errorf("AATree.Load(): %v\n", err)
		return err
	}
	debugf("AATree.Load(): %d entries, height %d\n", u.Size(), u.Height())
	return nil
}

func (u *AATree[K, V, S]) Clear() {
	u.base.Clear()
	debugf("AATree.Clear()\n")
}

func (u *AATree[K, V, S]) Stats() map[string]any {
	stats := u.stats()
	stats["balance"] = AA.String()
	return stats
}
