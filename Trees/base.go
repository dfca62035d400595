package Trees

import (
	"iter"
	"math/bits"
	"slices"

	"golang.org/x/exp/constraints"
)

// base is the node arena shared by every balancing strategy, together with
// the read-only queries that only depend on the BST order and the subtree sizes.
// ns[0] is the sentinel used in place of an absent child; its sz stays 0.
// Removed slots form a linked list starting at free, node.l representing next.
type base[K, V any, S constraints.Unsigned] struct {
	ns         []node[K, V, S]
	root, free S
	nFree      S
	cmp        func(K, K) int
}

func (u *base[K, V, S]) init(cmp func(K, K) int, hint S) {
	u.ns = make([]node[K, V, S], 1, int(hint)+1)
	u.cmp = cmp
}

func (u *base[K, V, S]) at(i S) *node[K, V, S] {
	return &u.ns[i]
}

// reserve room for one more node, so that the next popFree doesn't move ns.
// Every insertion calls it first and may then keep pointers into ns until it
// returns. False if S can't index another node.
func (u *base[K, V, S]) reserve() bool {
	if u.free == 0 {
		if int(S(len(u.ns)+1)) != len(u.ns)+1 {
			return false
		}
		u.ns = slices.Grow(u.ns, 1)
	}
	return true
}

// replace the value of k in a full tree. Panics with ErrCapacity if k is absent.
func (u *base[K, V, S]) replace(k K, v V) (old V) {
	i := u.get(k)
	if i == 0 {
		panic(ErrCapacity)
	}
	n := u.at(i)
	old, n.v = n.v, v
	return old
}

// popFree returns the index of a new node holding k and v.
func (u *base[K, V, S]) popFree(k K, v V, tag uint8) S {
	i := u.free
	if i != 0 {
		u.free = u.ns[i].l
		u.nFree--
	} else {
		i = S(len(u.ns))
		u.ns = append(u.ns, node[K, V, S]{})
	}
	u.ns[i] = node[K, V, S]{k: k, v: v, sz: 1, tag: tag}
	return i
}

// addFree index once. The key and value are dropped so they can be collected.
func (u *base[K, V, S]) addFree(i S) {
	u.ns[i] = node[K, V, S]{l: u.free}
	u.free = i
	u.nFree++
}

// resize recomputes the size of i from its children.
func (u *base[K, V, S]) resize(i S) {
	n := u.at(i)
	n.sz = u.ns[n.l].sz + u.ns[n.r].sz + 1
}

// rotateLeft the subtree whose root is stored in *ni. The right child must exist.
// The demoted node gets its size recomputed, the promoted one takes the old size of the subtree.
// Time: O(1); Space: O(1)
func (u *base[K, V, S]) rotateLeft(ni *S) {
	n := u.at(*ni)
	rci := n.r
	rc := u.at(rci)
	n.r = rc.l
	rc.l, rc.sz = *ni, n.sz
	n.sz = u.ns[n.l].sz + u.ns[n.r].sz + 1
	*ni = rci
}

// rotateRight is the mirror of rotateLeft. The left child must exist.
// Time: O(1); Space: O(1)
func (u *base[K, V, S]) rotateRight(ni *S) {
	n := u.at(*ni)
	lci := n.l
	lc := u.at(lci)
	n.l = lc.r
	lc.r, lc.sz = *ni, n.sz
	n.sz = u.ns[n.l].sz + u.ns[n.r].sz + 1
	*ni = lci
}

func (u *base[K, V, S]) get(k K) S {
	for cur := u.root; cur != 0; {
		n := u.at(cur)
		if c := u.cmp(k, n.k); c < 0 {
			cur = n.l
		} else if c > 0 {
			cur = n.r
		} else {
			return cur
		}
	}
	return 0
}

func (u *base[K, V, S]) entry(i S) (K, V, bool) {
	n := u.at(i)
	return n.k, n.v, i != 0
}

func (u *base[K, V, S]) minOf(i S) S {
	for i != 0 && u.ns[i].l != 0 {
		i = u.ns[i].l
	}
	return i
}

func (u *base[K, V, S]) maxOf(i S) S {
	for i != 0 && u.ns[i].r != 0 {
		i = u.ns[i].r
	}
	return i
}

// Get the value stored with k.
// Time: O(D); Space: O(1)
func (u *base[K, V, S]) Get(k K) (V, bool) {
	i := u.get(k)
	return u.ns[i].v, i != 0
}

// Has key k.
// Time: O(D); Space: O(1)
func (u *base[K, V, S]) Has(k K) bool {
	return u.get(k) != 0
}

// Size of the tree, read from the root's subtree size.
// Time: O(1); Space: O(1)
func (u *base[K, V, S]) Size() int {
	return int(u.ns[u.root].sz)
}

// Rank returns the number of keys strictly less than k, whether k is present or not.
// Time: O(D); Space: O(1)
func (u *base[K, V, S]) Rank(k K) int {
	var ra S
	for cur := u.root; cur != 0; {
		n := u.at(cur)
		if c := u.cmp(k, n.k); c < 0 {
			cur = n.l
		} else if c > 0 {
			ra += u.ns[n.l].sz + 1
			cur = n.r
		} else {
			return int(ra + u.ns[n.l].sz)
		}
	}
	return int(ra)
}

// Select the entry at zero-based position i of the in-order sequence.
// Fails with a *RankError when i is outside [0, Size()).
// Time: O(D); Space: O(1)
func (u *base[K, V, S]) Select(i int) (k K, v V, err error) {
	if sz := u.Size(); i < 0 || i >= sz {
		return k, v, &RankError{Rank: i, Size: sz}
	}
	for cur, r := u.root, S(i); ; {
		n := u.at(cur)
		if ls := u.ns[n.l].sz; r < ls {
			cur = n.l
		} else if r > ls {
			r -= ls + 1
			cur = n.r
		} else {
			return n.k, n.v, nil
		}
	}
}

// floor is the greatest node whose key is less than k, or equal to k if inclusive.
func (u *base[K, V, S]) floor(k K, inclusive bool) S {
	best := S(0)
	for cur := u.root; cur != 0; {
		n := u.at(cur)
		c := u.cmp(k, n.k)
		if c == 0 && inclusive {
			return cur
		}
		if c > 0 {
			best = cur
			cur = n.r
		} else {
			cur = n.l
		}
	}
	return best
}

// ceiling is the mirror of floor.
func (u *base[K, V, S]) ceiling(k K, inclusive bool) S {
	best := S(0)
	for cur := u.root; cur != 0; {
		n := u.at(cur)
		c := u.cmp(k, n.k)
		if c == 0 && inclusive {
			return cur
		}
		if c < 0 {
			best = cur
			cur = n.l
		} else {
			cur = n.r
		}
	}
	return best
}

// Floor returns the entry with the greatest key <= k.
// Time: O(D); Space: O(1)
func (u *base[K, V, S]) Floor(k K) (K, V, bool) {
	return u.entry(u.floor(k, true))
}

// Ceiling returns the entry with the smallest key >= k.
// Time: O(D); Space: O(1)
func (u *base[K, V, S]) Ceiling(k K) (K, V, bool) {
	return u.entry(u.ceiling(k, true))
}

// Predecessor returns the entry with the greatest key < k.
// Time: O(D); Space: O(1)
func (u *base[K, V, S]) Predecessor(k K) (K, V, bool) {
	return u.entry(u.floor(k, false))
}

// Successor returns the entry with the smallest key > k.
// Time: O(D); Space: O(1)
func (u *base[K, V, S]) Successor(k K) (K, V, bool) {
	return u.entry(u.ceiling(k, false))
}

// Min entry of the tree.
func (u *base[K, V, S]) Min() (K, V, bool) {
	return u.entry(u.minOf(u.root))
}

// Max entry of the tree.
func (u *base[K, V, S]) Max() (K, V, bool) {
	return u.entry(u.maxOf(u.root))
}

// stack returns an empty slice large enough for iterating a balanced tree without growing.
func (u *base[K, V, S]) stack() []S {
	return make([]S, 0, 2*bits.Len(uint(u.Size()))+1)
}

// All entries in ascending order.
// The tree must not be modified while ranging; start over instead.
func (u *base[K, V, S]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		st := u.stack()
		for cur := u.root; ; {
			for ; cur != 0; cur = u.ns[cur].l {
				st = append(st, cur)
			}
			if len(st) == 0 {
				return
			}
			cur, st = st[len(st)-1], st[:len(st)-1]
			if n := u.at(cur); !yield(n.k, n.v) {
				return
			} else {
				cur = n.r
			}
		}
	}
}

// Backward returns all entries in descending order.
func (u *base[K, V, S]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		st := u.stack()
		for cur := u.root; ; {
			for ; cur != 0; cur = u.ns[cur].r {
				st = append(st, cur)
			}
			if len(st) == 0 {
				return
			}
			cur, st = st[len(st)-1], st[:len(st)-1]
			if n := u.at(cur); !yield(n.k, n.v) {
				return
			} else {
				cur = n.l
			}
		}
	}
}

// Range returns the entries with keys in [lo, hi] in ascending order. Subtrees
// that can't hold such keys are skipped. Every call starts again from the root.
// Time: O(D+k) for k yielded entries.
func (u *base[K, V, S]) Range(lo, hi K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if u.cmp(lo, hi) <= 0 {
			u.ascend(u.root, lo, hi, yield)
		}
	}
}

func (u *base[K, V, S]) ascend(i S, lo, hi K, yield func(K, V) bool) bool {
	if i == 0 {
		return true
	}
	n := u.at(i)
	cl, ch := u.cmp(n.k, lo), u.cmp(n.k, hi)
	if cl > 0 && !u.ascend(n.l, lo, hi, yield) {
		return false
	}
	if cl >= 0 && ch <= 0 && !yield(n.k, n.v) {
		return false
	}
	if ch < 0 {
		return u.ascend(n.r, lo, hi, yield)
	}
	return true
}

// Keys in ascending order.
func (u *base[K, V, S]) Keys() []K {
	ks := make([]K, 0, u.Size())
	for k := range u.All() {
		ks = append(ks, k)
	}
	return ks
}

// Clear the tree. The arena keeps its capacity.
// Time: O(n)
func (u *base[K, V, S]) Clear() {
	clear(u.ns[1:])
	u.ns = u.ns[:1]
	u.root, u.free, u.nFree = 0, 0, 0
}

func (u *base[K, V, S]) maxDepth(i S) int {
	if i == 0 {
		return 0
	}
	return 1 + max(u.maxDepth(u.ns[i].l), u.maxDepth(u.ns[i].r))
}

func (u *base[K, V, S]) minDepth(i S) int {
	if i == 0 {
		return 0
	}
	return 1 + min(u.minDepth(u.ns[i].l), u.minDepth(u.ns[i].r))
}

// Height counts the nodes on the longest path from the root, 0 when empty.
// Time: O(n)
func (u *base[K, V, S]) Height() int {
	return u.maxDepth(u.root)
}

func (u *base[K, V, S]) stats() map[string]any {
	var leaves, depths int
	var walk func(S, int)
	walk = func(i S, d int) {
		n := u.at(i)
		if n.l == 0 && n.r == 0 {
			leaves++
			depths += d
			return
		}
		if n.l != 0 {
			walk(n.l, d+1)
		}
		if n.r != 0 {
			walk(n.r, d+1)
		}
	}
	avg := 0.0
	if u.root != 0 {
		walk(u.root, 1)
		avg = float64(depths) / float64(leaves)
	}
	return map[string]any{
		"n_count":    int64(u.Size()),
		"height":     int64(u.maxDepth(u.root)),
		"min_depth":  int64(u.minDepth(u.root)),
		"avg_depth":  avg,
		"arena.cap":  int64(cap(u.ns) - 1),
		"arena.free": int64(u.nFree),
	}
}

// load replaces the content with ks and vs, laid out as a complete tree by
// splitting every range at its lower middle. ks must be strictly ascending; vs
// may be nil, otherwise it must be as long as ks. Every tag is set to the AA
// level of the node, floor(log2(sz+1)), which the strategies convert from.
// Time: O(n)
func (u *base[K, V, S]) load(ks []K, vs []V) error {
	if vs != nil && len(vs) != len(ks) {
		return &InvalidSliceError{Index: min(len(ks), len(vs)), Reason: "keys and values differ in length"}
	}
	for i := 1; i < len(ks); i++ {
		if u.cmp(ks[i-1], ks[i]) >= 0 {
			return &InvalidSliceError{Index: i, Reason: "keys not strictly ascending"}
		}
	}
	if int(S(len(ks)+1)) != len(ks)+1 {
		return ErrCapacity
	}
	u.Clear()
	u.ns = slices.Grow(u.ns, len(ks))
	for i, k := range ks {
		nd := node[K, V, S]{k: k}
		if vs != nil {
			nd.v = vs[i]
		}
		u.ns = append(u.ns, nd)
	}
	u.root = u.build(1, S(len(ks)))
	return nil
}

func (u *base[K, V, S]) build(lo, hi S) S {
	if lo > hi {
		return 0
	}
	mid := lo + (hi-lo)>>1
	n := u.at(mid)
	n.l, n.r = u.build(lo, mid-1), u.build(mid+1, hi)
	n.sz = hi - lo + 1
	n.tag = uint8(bits.Len64(uint64(n.sz)+1) - 1)
	return mid
}
