package Trees

import (
	"cmp"

	"golang.org/x/exp/constraints"
)

// RBTree is an ordered map balanced by node colors: the root is black, no red
// node has a red child, and every path from a node down to an absent child
// passes through the same number of black nodes. The height D of the tree is
// at most 2*log2(n+1). Every node also carries the size of its subtree.
// Insertion and removal are iterative and fix colors bottom-up, walking parent
// links kept in ps; ps[i] is the parent of node i, 0 for the root. ps is a cache
// rewritten by every rotation and splice, it doesn't own anything.
type RBTree[K, V any, S constraints.Unsigned] struct {
	base[K, V, S]
	ps []S
}

// NewRB returns an empty RBTree ordered by cmp.Compare.
func NewRB[K cmp.Ordered, V any, S constraints.Unsigned](hint S) *RBTree[K, V, S] {
	return NewRBFunc[K, V](cmp.Compare[K], hint)
}

// NewRBFunc is NewRB with a caller supplied ordering.
func NewRBFunc[K, V any, S constraints.Unsigned](cmp func(K, K) int, hint S) *RBTree[K, V, S] {
	u := new(RBTree[K, V, S])
	u.init(cmp, hint)
	u.ps = make([]S, 1, int(hint)+1)
	return u
}

func (u *RBTree[K, V, S]) Balance() Balance {
	return RedBlack
}

func (u *RBTree[K, V, S]) color(i S) uint8 {
	return u.ns[i].tag
}

// slot returns the child field of i's parent that holds i, or the root.
func (u *RBTree[K, V, S]) slot(i S) *S {
	if p := u.ps[i]; p == 0 {
		return &u.root
	} else if pn := u.at(p); pn.l == i {
		return &pn.l
	} else {
		return &pn.r
	}
}

func (u *RBTree[K, V, S]) rotateLeft(x S) {
	s := u.slot(x)
	u.base.rotateLeft(s)
	y := *s
	u.ps[y], u.ps[x] = u.ps[x], y
	if b := u.ns[x].r; b != 0 {
		u.ps[b] = x
	}
}

func (u *RBTree[K, V, S]) rotateRight(x S) {
	s := u.slot(x)
	u.base.rotateRight(s)
	y := *s
	u.ps[y], u.ps[x] = u.ps[x], y
	if b := u.ns[x].l; b != 0 {
		u.ps[b] = x
	}
}

// newNode returns a red node holding k and v, with parent p.
func (u *RBTree[K, V, S]) newNode(k K, v V, p S) S {
	i := u.popFree(k, v, red)
	if int(i) == len(u.ps) {
		u.ps = append(u.ps, p)
	} else {
		u.ps[i] = p
	}
	return i
}

// Set the value of k to v. If k was already present, its old value is
// returned with added==false; otherwise a red node is linked in and the
// sizes along its parent chain grow by one before colors are fixed.
// Time: O(D)
func (u *RBTree[K, V, S]) Set(k K, v V) (old V, added bool) {
	if !u.reserve() {
		return u.replace(k, v), false
	}
	p, ni := S(0), &u.root
	for *ni != 0 {
		n := u.at(*ni)
		c := u.cmp(k, n.k)
		if c == 0 {
			old, n.v = n.v, v
			return old, false
		}
		p = *ni
		if c < 0 {
			ni = &n.l
		} else {
			ni = &n.r
		}
	}
	z := u.newNode(k, v, p)
	*ni = z
	for a := p; a != 0; a = u.ps[a] {
		u.ns[a].sz++
	}
	u.insertFixup(z)
	return old, true
}

// insertFixup removes the red-red edge between z and its parent, if any.
// A red uncle is resolved by recoloring and moving up to the grandparent;
// a black uncle by at most two rotations, after which the walk stops.
func (u *RBTree[K, V, S]) insertFixup(z S) {
	for u.color(u.ps[z]) == red {
		p := u.ps[z]
		g := u.ps[p]
		if p == u.ns[g].l {
			if y := u.ns[g].r; u.color(y) == red {
				u.ns[p].tag, u.ns[y].tag, u.ns[g].tag = black, black, red
				z = g
				continue
			}
			if z == u.ns[p].r {
				z, p = p, z
				u.rotateLeft(z)
			}
			u.ns[p].tag, u.ns[g].tag = black, red
			u.rotateRight(g)
		} else {
			if y := u.ns[g].l; u.color(y) == red {
				u.ns[p].tag, u.ns[y].tag, u.ns[g].tag = black, black, red
				z = g
				continue
			}
			if z == u.ns[p].l {
				z, p = p, z
				u.rotateRight(z)
			}
			u.ns[p].tag, u.ns[g].tag = black, red
			u.rotateLeft(g)
		}
	}
	u.ns[u.root].tag = black
}

// remove node z. If z has two children it takes the entry of its in-order
// successor y and y is removed instead, so the node spliced out always has at
// most one child x, which takes its place.
func (u *RBTree[K, V, S]) remove(z S) {
	y := z
	if zn := u.at(z); zn.l != 0 && zn.r != 0 {
		y = u.minOf(zn.r)
		zn.k, zn.v = u.ns[y].k, u.ns[y].v
	}
	yn := u.at(y)
	x := yn.l
	if x == 0 {
		x = yn.r
	}
	p := u.ps[y]
	*u.slot(y) = x
	if x != 0 {
		u.ps[x] = p
	}
	for a := p; a != 0; a = u.ps[a] {
		u.ns[a].sz--
	}
	if yn.tag == black {
		u.deleteFixup(x, p)
	}
	u.addFree(y)
	u.ps[y] = 0
}

// deleteFixup resolves the extra black carried by x, a child of p (x may be absent).
func (u *RBTree[K, V, S]) deleteFixup(x, p S) {
	for x != u.root && u.color(x) == black {
		if x == u.ns[p].l {
			w := u.ns[p].r
			if u.color(w) == red {
				u.ns[w].tag, u.ns[p].tag = black, red
				u.rotateLeft(p)
				w = u.ns[p].r
			}
			wn := u.at(w)
			if u.color(wn.l) == black && u.color(wn.r) == black {
				wn.tag = red
				x, p = p, u.ps[p]
				continue
			}
			if u.color(wn.r) == black {
				u.ns[wn.l].tag, wn.tag = black, red
				u.rotateRight(w)
				w = u.ns[p].r
				wn = u.at(w)
			}
			wn.tag, u.ns[p].tag = u.ns[p].tag, black
			u.ns[wn.r].tag = black
			u.rotateLeft(p)
			x = u.root
		} else {
			w := u.ns[p].l
			if u.color(w) == red {
				u.ns[w].tag, u.ns[p].tag = black, red
				u.rotateRight(p)
				w = u.ns[p].l
			}
			wn := u.at(w)
			if u.color(wn.l) == black && u.color(wn.r) == black {
				wn.tag = red
				x, p = p, u.ps[p]
				continue
			}
			if u.color(wn.l) == black {
				u.ns[wn.r].tag, wn.tag = black, red
				u.rotateLeft(w)
				w = u.ns[p].l
				wn = u.at(w)
			}
			wn.tag, u.ns[p].tag = u.ns[p].tag, black
			u.ns[wn.l].tag = black
			u.rotateRight(p)
			x = u.root
		}
	}
	if x != 0 {
		u.ns[x].tag = black
	}
}

// Delete k. Returns false if k isn't in the tree, in which case nothing changes.
// Time: O(D)
func (u *RBTree[K, V, S]) Delete(k K) bool {
	z := u.get(k)
	if z == 0 {
		return false
	}
	u.remove(z)
	return true
}

// DeleteMin removes and returns the smallest entry. Fails with ErrEmpty on an empty tree.
// Time: O(D)
func (u *RBTree[K, V, S]) DeleteMin() (k K, v V, err error) {
	if u.root == 0 {
		return k, v, ErrEmpty
	}
	i := u.minOf(u.root)
	k, v = u.ns[i].k, u.ns[i].v
	u.remove(i)
	return k, v, nil
}

// DeleteMax removes and returns the greatest entry. Fails with ErrEmpty on an empty tree.
// Time: O(D)
func (u *RBTree[K, V, S]) DeleteMax() (k K, v V, err error) {
	if u.root == 0 {
		return k, v, ErrEmpty
	}
	i := u.maxOf(u.root)
	k, v = u.ns[i].k, u.ns[i].v
	u.remove(i)
	return k, v, nil
}

// Load replaces the content of u with the strictly ascending ks and their values vs (may be nil).
// A node is red exactly when it sits on the same level as its parent in the
// complete layout, which gives every path the same number of black nodes.
// Time: O(n)
func (u *RBTree[K, V, S]) Load(ks []K, vs []V) error {
	if err := u.load(ks, vs); err != nil {
		errorf("RBTree.Load(): %v\n", err)
		return err
	}
	u.ps = append(u.ps[:0], make([]S, len(u.ns))...)
	var paint func(i, p S, level uint8)
	paint = func(i, p S, level uint8) {
		if i == 0 {
			return
		}
		n := u.at(i)
		lv := n.tag
		n.tag = black
		if lv == level {
			n.tag = red
		}
		u.ps[i] = p
		paint(n.l, i, lv)
		paint(n.r, i, lv)
	}
	paint(u.root, 0, 0)
	debugf("RBTree.Load(): %d entries, height %d\n", u.Size(), u.Height())
	return nil
}

func (u *RBTree[K, V, S]) Clear() {
	u.base.Clear()
	clear(u.ps)
	u.ps = u.ps[:1]
	debugf("RBTree.Clear()\n")
}

func (u *RBTree[K, V, S]) Stats() map[string]any {
	stats := u.stats()
	stats["balance"] = RedBlack.String()
	return stats
}
