package Trees

import (
	"fmt"
	"iter"
	"strings"

	"golang.org/x/exp/constraints"
)

// Tree represents an ordered map whose nodes know the sizes of their subtrees.
// Receivers that have a bool as the last return value use it to tell whether
// the other return values are defined. For example, calling Min on an empty
// tree returns (k K, v V, false bool), in which case k and v are zero values
// and shouldn't be used. Receivers that can fail because of the state of the
// tree or of the argument return an error instead.
// A Tree is not safe for concurrent use, see Synced.
// D below is the height of the tree, which every implementation keeps O(log n).
type Tree[K, V any] interface {
	//Set k to v. Returns the previous value and false if k was already
	//present, in which case the number of nodes doesn't change.
	Set(k K, v V) (V, bool)
	//Delete k. Returns false, leaving the tree untouched, if k isn't present.
	Delete(k K) bool
	//DeleteMin removes the smallest entry. ErrEmpty on an empty tree.
	DeleteMin() (K, V, error)
	//DeleteMax removes the greatest entry. ErrEmpty on an empty tree.
	DeleteMax() (K, V, error)
	//Get the value of k.
	Get(k K) (V, bool)
	//Has k. Cheaper than Get when only membership matters.
	Has(k K) bool
	//Rank is the number of keys less than k. k doesn't need to be present,
	//in which case Rank is the position k would be inserted at.
	Rank(k K) int
	//Select the entry at zero-based position i in ascending order.
	//0<=i<Size(), otherwise the error wraps ErrOutOfRange.
	Select(i int) (K, V, error)
	//Floor returns the greatest entry whose key is <= k.
	Floor(k K) (K, V, bool)
	//Ceiling returns the smallest entry whose key is >= k.
	Ceiling(k K) (K, V, bool)
	//Predecessor returns the greatest entry whose key is < k.
	Predecessor(k K) (K, V, bool)
	//Successor returns the smallest entry whose key is > k.
	Successor(k K) (K, V, bool)
	//Min entry of the tree.
	Min() (K, V, bool)
	//Max entry of the tree.
	Max() (K, V, bool)
	//Range returns the entries whose keys are in [lo, hi] in ascending order.
	//Nothing is yielded if lo>hi. The sequence can be ranged over again, each
	//time starting from the root; the tree must not be modified while ranging.
	Range(lo, hi K) iter.Seq2[K, V]
	//All entries in ascending order.
	All() iter.Seq2[K, V]
	//Backward returns all entries in descending order.
	Backward() iter.Seq2[K, V]
	//Keys in ascending order.
	Keys() []K
	//Size of the tree. O(1).
	Size() int
	//Height is the number of nodes on the longest path from the root.
	Height() int
	//Clear all entries.
	Clear()
	//Load replaces all entries with the strictly ascending ks and their
	//values vs, which may be nil. O(n).
	Load(ks []K, vs []V) error
	//Balance tells the strategy keeping the tree balanced.
	Balance() Balance
	//Stats about the shape of the tree and its arena.
	Stats() map[string]any
}

// Balance selects how a Tree keeps itself balanced.
type Balance uint8

const (
	// AVL trees keep subtree heights within 1 of each other.
	AVL Balance = iota
	// RedBlack trees color nodes and keep black heights equal.
	RedBlack
	// AA trees are red-black trees whose red links all lean right.
	AA
)

var balanceNames = [...]string{AVL: "avl", RedBlack: "redblack", AA: "aa"}

func (b Balance) String() string {
	if int(b) < len(balanceNames) {
		return balanceNames[b]
	}
	return fmt.Sprintf("Balance(%d)", uint8(b))
}

// ParseBalance accepts the names returned by String, case insensitive, as well
// as "rb" and "red-black".
func ParseBalance(s string) (Balance, error) {
	switch s = strings.ToLower(s); s {
	case "rb", "red-black":
		return RedBlack, nil
	}
	for i, name := range balanceNames {
		if s == name {
			return Balance(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBalance, s)
}

func (b Balance) MarshalText() ([]byte, error) {
	if int(b) >= len(balanceNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBalance, uint8(b))
	}
	return []byte(b.String()), nil
}

func (b *Balance) UnmarshalText(text []byte) (err error) {
	*b, err = ParseBalance(string(text))
	return err
}

// Config for NewWithConfig.
type Config struct {
	Balance Balance `yaml:"balance"`
	// Hint is the number of nodes to allocate room for.
	Hint int `yaml:"hint"`
}

// DefaultConfig is an AVL tree with no preallocation.
func DefaultConfig() Config {
	return Config{Balance: AVL}
}

// New returns an empty Tree balanced by b and ordered by cmp.
// Panics if b isn't one of the defined strategies.
func New[K, V any, S constraints.Unsigned](b Balance, cmp func(K, K) int, hint S) Tree[K, V] {
	infof("Trees.New(): balance %v, hint %d\n", b, hint)
	switch b {
	case AVL:
		return NewAVLFunc[K, V](cmp, hint)
	case RedBlack:
		return NewRBFunc[K, V](cmp, hint)
	case AA:
		return NewAAFunc[K, V](cmp, hint)
	}
	panic(fmt.Errorf("%w: %d", ErrUnknownBalance, uint8(b)))
}

// NewWithConfig is New taking its parameters from cfg. A negative Hint is 0,
// one above the number of nodes S can index is lowered to that number.
func NewWithConfig[K, V any, S constraints.Unsigned](cmp func(K, K) int, cfg Config) Tree[K, V] {
	return New[K, V](cfg.Balance, cmp, clampHint[S](cfg.Hint))
}

// clampHint converts hint to S, saturating at the most nodes S can index.
func clampHint[S constraints.Unsigned](hint int) S {
	if hint <= 0 {
		return 0
	}
	if top := ^S(0) - 1; uint64(hint) > uint64(top) {
		return top
	}
	return S(hint)
}

// From returns a Tree balanced by b holding the strictly ascending ks with
// their values vs (may be nil). It is faster than repeatedly calling Set.
// Time: O(n)
func From[K, V any, S constraints.Unsigned](b Balance, cmp func(K, K) int, ks []K, vs []V) (Tree[K, V], error) {
	t := New[K, V](b, cmp, S(0))
	if err := t.Load(ks, vs); err != nil {
		return nil, err
	}
	return t, nil
}

var (
	_ Tree[int, int] = (*AVLTree[int, int, uint])(nil)
	_ Tree[int, int] = (*RBTree[int, int, uint])(nil)
	_ Tree[int, int] = (*AATree[int, int, uint])(nil)
	_ Tree[int, int] = (*Synced[int, int])(nil)
)
