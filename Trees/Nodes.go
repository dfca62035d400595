package Trees

import "golang.org/x/exp/constraints"

// A node in the arena.
// l and r are indexes of the children in the same arena, 0 meaning absent.
// tag is interpreted by the owning tree: height for AVLTree, color for
// RBTree, level for AATree.
// The zero value is the sentinel: sz=0, tag=0, no children.
type node[K, V any, S constraints.Unsigned] struct {
	k    K
	v    V
	l, r S
	sz   S
	tag  uint8
}

const (
	black uint8 = iota
	red
)
