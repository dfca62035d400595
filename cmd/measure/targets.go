package main

import (
	"cmp"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/g-m-twostay/go-ostree/Trees"
	"github.com/google/btree"
	"github.com/petar/GoLLRB/llrb"
)

// ordered is the part of an ordered set the workload touches.
type ordered interface {
	set(int)
	del(int)
	has(int) bool
	size() int
}

// target names an ordered set and builds empty ones.
type target struct {
	name string
	make func(hint uint32) ordered
}

type treeSet struct{ t Trees.Tree[int, struct{}] }

func (s treeSet) set(k int)      { s.t.Set(k, struct{}{}) }
func (s treeSet) del(k int)      { s.t.Delete(k) }
func (s treeSet) has(k int) bool { return s.t.Has(k) }
func (s treeSet) size() int      { return s.t.Size() }

type llrbSet struct{ t *llrb.LLRB }

func (s llrbSet) set(k int)      { s.t.ReplaceOrInsert(llrb.Int(k)) }
func (s llrbSet) del(k int)      { s.t.Delete(llrb.Int(k)) }
func (s llrbSet) has(k int) bool { return s.t.Has(llrb.Int(k)) }
func (s llrbSet) size() int      { return s.t.Len() }

type btreeSet struct{ t *btree.BTreeG[int] }

func (s btreeSet) set(k int)      { s.t.ReplaceOrInsert(k) }
func (s btreeSet) del(k int)      { s.t.Delete(k) }
func (s btreeSet) has(k int) bool { return s.t.Has(k) }
func (s btreeSet) size() int      { return s.t.Len() }

type godsSet struct{ t *redblacktree.Tree }

func (s godsSet) set(k int) { s.t.Put(k, nil) }
func (s godsSet) del(k int) { s.t.Remove(k) }
func (s godsSet) has(k int) bool {
	_, ok := s.t.Get(k)
	return ok
}
func (s godsSet) size() int { return s.t.Size() }

func targets(w Workload) []target {
	var ts []target
	for _, b := range w.Balances {
		ts = append(ts, target{b.String(), func(hint uint32) ordered {
			return treeSet{Trees.New[int, struct{}](b, cmp.Compare[int], hint)}
		}})
	}
	for _, name := range w.Baselines {
		switch name {
		case "llrb":
			ts = append(ts, target{name, func(uint32) ordered { return llrbSet{llrb.New()} }})
		case "btree":
			ts = append(ts, target{name, func(uint32) ordered { return btreeSet{btree.NewOrderedG[int](32)} }})
		case "gods":
			ts = append(ts, target{name, func(uint32) ordered { return godsSet{redblacktree.NewWithIntComparator()} }})
		}
	}
	return ts
}
