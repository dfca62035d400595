package Trees

import (
	"cmp"

	"golang.org/x/exp/constraints"
)

// AVLTree is an ordered map balanced by subtree heights: the heights of the two
// children of any node differ by at most 1, so the height D of the tree is
// less than 1.44*log2(n+2). Every node also carries the size of its subtree,
// which makes Rank and Select O(D).
// K is the key type, V the value type, S the unsigned type used both for node
// indexes and subtree sizes. S must be able to hold Size()+1.
// Insertion and removal are recursive and rebalance on the way back to the root.
type AVLTree[K, V any, S constraints.Unsigned] struct {
	base[K, V, S]
}

// NewAVL returns an empty AVLTree ordered by cmp.Compare. hint is the
// number of nodes to allocate room for.
func NewAVL[K cmp.Ordered, V any, S constraints.Unsigned](hint S) *AVLTree[K, V, S] {
	return NewAVLFunc[K, V](cmp.Compare[K], hint)
}

// NewAVLFunc is NewAVL with a caller supplied ordering. cmp(a, b) must be
// negative when a<b, positive when a>b and 0 when they are the same key.
func NewAVLFunc[K, V any, S constraints.Unsigned](cmp func(K, K) int, hint S) *AVLTree[K, V, S] {
	u := new(AVLTree[K, V, S])
	u.init(cmp, hint)
	return u
}

func (u *AVLTree[K, V, S]) Balance() Balance {
	return AVL
}

// height of i; the sentinel has height 0 and a leaf height 1.
func (u *AVLTree[K, V, S]) height(i S) uint8 {
	return u.ns[i].tag
}

// update recomputes size and height of i from its children.
func (u *AVLTree[K, V, S]) update(i S) {
	n := u.at(i)
	l, r := u.at(n.l), u.at(n.r)
	n.sz = l.sz + r.sz + 1
	n.tag = max(l.tag, r.tag) + 1
}

func (u *AVLTree[K, V, S]) rotateLeft(ni *S) {
	d := *ni
	u.base.rotateLeft(ni)
	u.update(d)
	u.update(*ni)
}

func (u *AVLTree[K, V, S]) rotateRight(ni *S) {
	d := *ni
	u.base.rotateRight(ni)
	u.update(d)
	u.update(*ni)
}

// rebalance the subtree stored in *ni, whose children are both balanced and
// differ in height by at most 2.
func (u *AVLTree[K, V, S]) rebalance(ni *S) {
	u.update(*ni)
	n := u.at(*ni)
	switch bf := int(u.height(n.l)) - int(u.height(n.r)); {
	case bf > 1:
		if lc := u.at(n.l); u.height(lc.l) < u.height(lc.r) {
			u.rotateLeft(&n.l)
		}
		u.rotateRight(ni)
	case bf < -1:
		if rc := u.at(n.r); u.height(rc.r) < u.height(rc.l) {
			u.rotateRight(&n.r)
		}
		u.rotateLeft(ni)
	}
}

func (u *AVLTree[K, V, S]) insert(ni *S, k K, v V) (old V, added bool) {
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
		u.rebalance(ni)
	}
	return old, added
}

// Set the value of k to v. If k was already present, its old value is
// returned with added==false; otherwise a node is inserted. Recursive.
// Time: O(D)
func (u *AVLTree[K, V, S]) Set(k K, v V) (old V, added bool) {
	if !u.reserve() {
		return u.replace(k, v), false
	}
	return u.insert(&u.root, k, v)
}

// popMin detaches the minimum of the subtree stored in *ni and returns its index.
// The subtree must not be empty.
func (u *AVLTree[K, V, S]) popMin(ni *S) S {
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

func (u *AVLTree[K, V, S]) popMax(ni *S) S {
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

func (u *AVLTree[K, V, S]) delete(ni *S, k K) bool {
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
// A node with two children takes the entry of its in-order successor,
// whose node is removed instead. Recursive.
// Time: O(D)
func (u *AVLTree[K, V, S]) Delete(k K) bool {
	return u.delete(&u.root, k)
}

// DeleteMin removes and returns the smallest entry. Fails with ErrEmpty on an empty tree.
// Time: O(D)
func (u *AVLTree[K, V, S]) DeleteMin() (k K, v V, err error) {
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
func (u *AVLTree[K, V, S]) DeleteMax() (k K, v V, err error) {
	if u.root == 0 {
		return k, v, ErrEmpty
	}
	i := u.popMax(&u.root)
	k, v = u.ns[i].k, u.ns[i].v
	u.addFree(i)
	return k, v, nil
}

// Height of the tree, read from the root.
// Time: O(1)
func (u *AVLTree[K, V, S]) Height() int {
	return int(u.height(u.root))
}

// Load replaces the content of u with the strictly ascending ks and their values vs (may be nil).
// Time: O(n)
func (u *AVLTree[K, V, S]) Load(ks []K, vs []V) error {
	if err := u.load(ks, vs); err != nil {
		errorf("AVLTree.Load(): %v\n", err)
		return err
	}
	var heights func(S)
	heights = func(i S) {
		if i == 0 {
			return
		}
		heights(u.ns[i].l)
		heights(u.ns[i].r)
		u.update(i)
	}
	heights(u.root)
	debugf("AVLTree.Load(): %d entries, height %d\n", u.Size(), u.Height())
	return nil
}

func (u *AVLTree[K, V, S]) Clear() {
	u.base.Clear()
	debugf("AVLTree.Clear()\n")
}

func (u *AVLTree[K, V, S]) Stats() map[string]any {
	stats := u.stats()
	stats["balance"] = AVL.String()
	return stats
}
