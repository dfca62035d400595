package Trees

import (
	"fmt"

	"github.com/cespare/xxhash"
)

// verifyBase checks the BST order and the subtree sizes of every node and
// returns the keys in order.
func (u *base[K, V, S]) verifyBase() error {
	if n := u.ns[0]; n.sz != 0 || n.l != 0 || n.r != 0 || n.tag != 0 {
		return fmt.Errorf("sentinel modified: %+v", n)
	}
	var walk func(i S, lo, hi *K) (S, error)
	walk = func(i S, lo, hi *K) (S, error) {
		if i == 0 {
			return 0, nil
		}
		n := u.at(i)
		if lo != nil && u.cmp(*lo, n.k) >= 0 {
			return 0, fmt.Errorf("node %d key %v not greater than %v", i, n.k, *lo)
		}
		if hi != nil && u.cmp(n.k, *hi) >= 0 {
			return 0, fmt.Errorf("node %d key %v not less than %v", i, n.k, *hi)
		}
		ls, err := walk(n.l, lo, &n.k)
		if err != nil {
			return 0, err
		}
		rs, err := walk(n.r, &n.k, hi)
		if err != nil {
			return 0, err
		}
		if n.sz != ls+rs+1 {
			return 0, fmt.Errorf("node %d key %v has size %d, children %d+%d", i, n.k, n.sz, ls, rs)
		}
		return n.sz, nil
	}
	sz, err := walk(u.root, nil, nil)
	if err != nil {
		return err
	}
	if free := S(len(u.ns)) - 1 - u.nFree; sz != free {
		return fmt.Errorf("tree holds %d nodes, arena has %d in use", sz, free)
	}
	return nil
}

func (u *AVLTree[K, V, S]) verify() error {
	if err := u.verifyBase(); err != nil {
		return err
	}
	var walk func(S) (uint8, error)
	walk = func(i S) (uint8, error) {
		if i == 0 {
			return 0, nil
		}
		n := u.at(i)
		lh, err := walk(n.l)
		if err != nil {
			return 0, err
		}
		rh, err := walk(n.r)
		if err != nil {
			return 0, err
		}
		if h := max(lh, rh) + 1; n.tag != h {
			return 0, fmt.Errorf("node %v has height %d, want %d", n.k, n.tag, h)
		}
		if bf := int(lh) - int(rh); bf < -1 || bf > 1 {
			return 0, fmt.Errorf("node %v has balance factor %d", n.k, bf)
		}
		return n.tag, nil
	}
	_, err := walk(u.root)
	return err
}

func (u *RBTree[K, V, S]) verify() error {
	if err := u.verifyBase(); err != nil {
		return err
	}
	if len(u.ps) != len(u.ns) {
		return fmt.Errorf("%d parent links for %d nodes", len(u.ps), len(u.ns))
	}
	if u.color(u.root) != black {
		return fmt.Errorf("red root")
	}
	if u.ps[u.root] != 0 {
		return fmt.Errorf("root has parent %d", u.ps[u.root])
	}
	var walk func(S) (int, error)
	walk = func(i S) (int, error) {
		if i == 0 {
			return 0, nil
		}
		n := u.at(i)
		for _, c := range [2]S{n.l, n.r} {
			if c == 0 {
				continue
			}
			if u.ps[c] != i {
				return 0, fmt.Errorf("node %v has parent %d, want %d", u.ns[c].k, u.ps[c], i)
			}
			if n.tag == red && u.color(c) == red {
				return 0, fmt.Errorf("red node %v has red child %v", n.k, u.ns[c].k)
			}
		}
		if n.tag != red && n.tag != black {
			return 0, fmt.Errorf("node %v has color %d", n.k, n.tag)
		}
		lb, err := walk(n.l)
		if err != nil {
			return 0, err
		}
		rb, err := walk(n.r)
		if err != nil {
			return 0, err
		}
		if lb != rb {
			return 0, fmt.Errorf("node %v has black heights %d and %d", n.k, lb, rb)
		}
		if n.tag == black {
			lb++
		}
		return lb, nil
	}
	_, err := walk(u.root)
	return err
}

func (u *AATree[K, V, S]) verify() error {
	if err := u.verifyBase(); err != nil {
		return err
	}
	var walk func(S) error
	walk = func(i S) error {
		if i == 0 {
			return nil
		}
		n := u.at(i)
		switch lv, ll, rl := n.tag, u.level(n.l), u.level(n.r); {
		case n.l == 0 && n.r == 0 && lv != 1:
			return fmt.Errorf("leaf %v on level %d", n.k, lv)
		case lv > 1 && (n.l == 0 || n.r == 0):
			return fmt.Errorf("node %v on level %d lacks a child", n.k, lv)
		case n.l != 0 && ll+1 != lv:
			return fmt.Errorf("node %v on level %d has left child on level %d", n.k, lv, ll)
		case n.r != 0 && rl != lv && rl+1 != lv:
			return fmt.Errorf("node %v on level %d has right child on level %d", n.k, lv, rl)
		case n.r != 0 && u.level(u.ns[n.r].r) >= lv:
			return fmt.Errorf("node %v on level %d has right grandchild on its level", n.k, lv)
		}
		if err := walk(n.l); err != nil {
			return err
		}
		return walk(n.r)
	}
	return walk(u.root)
}

// fingerprint hashes the whole arena, including free slots, so that two
// equal fingerprints mean the same shape, tags, sizes and entries.
func (u *base[K, V, S]) fingerprint() uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "root=%d free=%d nfree=%d;", u.root, u.free, u.nFree)
	for i, n := range u.ns {
		fmt.Fprintf(h, "%d:%v=%v,%d,%d,%d,%d;", i, n.k, n.v, n.l, n.r, n.sz, n.tag)
	}
	return h.Sum64()
}

func (u *RBTree[K, V, S]) fingerprint() uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "%x;%v", u.base.fingerprint(), u.ps)
	return h.Sum64()
}
