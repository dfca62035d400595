package Trees

import (
	"iter"

	"github.com/puzpuzpuz/xsync/v3"
)

// Synced makes a Tree safe for concurrent use. Mutations hold the write lock
// for their whole duration; queries share a reader-biased lock, so readers
// never observe a tree in the middle of a rebalance.
// Sequences returned by Range, All and Backward take the read lock when
// ranging starts and release it when ranging stops. The loop body must not
// call mutating methods of the same Synced, that would deadlock.
type Synced[K, V any] struct {
	mu *xsync.RBMutex
	t  Tree[K, V]
}

// NewSynced wraps t, which must not be used directly afterwards.
func NewSynced[K, V any](t Tree[K, V]) *Synced[K, V] {
	return &Synced[K, V]{xsync.NewRBMutex(), t}
}

func (u *Synced[K, V]) Set(k K, v V) (V, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.t.Set(k, v)
}

func (u *Synced[K, V]) Delete(k K) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.t.Delete(k)
}

func (u *Synced[K, V]) DeleteMin() (K, V, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.t.DeleteMin()
}

func (u *Synced[K, V]) DeleteMax() (K, V, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.t.DeleteMax()
}

func (u *Synced[K, V]) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.t.Clear()
}

func (u *Synced[K, V]) Load(ks []K, vs []V) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.t.Load(ks, vs)
}

func (u *Synced[K, V]) Get(k K) (V, bool) {
	tk := u.mu.RLock()
	defer u.mu.RUnlock(tk)
	return u.t.Get(k)
}

func (u *Synced[K, V]) Has(k K) bool {
	tk := u.mu.RLock()
	defer u.mu.RUnlock(tk)
	return u.t.Has(k)
}

func (u *Synced[K, V]) Rank(k K) int {
	tk := u.mu.RLock()
	defer u.mu.RUnlock(tk)
	return u.t.Rank(k)
}

func (u *Synced[K, V]) Select(i int) (K, V, error) {
	tk := u.mu.RLock()
	defer u.mu.RUnlock(tk)
	return u.t.Select(i)
}

func (u *Synced[K, V]) Floor(k K) (K, V, bool) {
	tk := u.mu.RLock()
	defer u.mu.RUnlock(tk)
	return u.t.Floor(k)
}

func (u *Synced[K, V]) Ceiling(k K) (K, V, bool) {
	tk := u.mu.RLock()
	defer u.mu.RUnlock(tk)
	return u.t.Ceiling(k)
}

func (u *Synced[K, V]) Predecessor(k K) (K, V, bool) {
	tk := u.mu.RLock()
	defer u.mu.RUnlock(tk)
	return u.t.Predecessor(k)
}

func (u *Synced[K, V]) Successor(k K) (K, V, bool) {
	tk := u.mu.RLock()
	defer u.mu.RUnlock(tk)
	return u.t.Successor(k)
}

func (u *Synced[K, V]) Min() (K, V, bool) {
	tk := u.mu.RLock()
	defer u.mu.RUnlock(tk)
	return u.t.Min()
}

func (u *Synced[K, V]) Max() (K, V, bool) {
	tk := u.mu.RLock()
	defer u.mu.RUnlock(tk)
	return u.t.Max()
}

func (u *Synced[K, V]) Size() int {
	tk := u.mu.RLock()
	defer u.mu.RUnlock(tk)
	return u.t.Size()
}

func (u *Synced[K, V]) Height() int {
	tk := u.mu.RLock()
	defer u.mu.RUnlock(tk)
	return u.t.Height()
}

func (u *Synced[K, V]) Keys() []K {
	tk := u.mu.RLock()
	defer u.mu.RUnlock(tk)
	return u.t.Keys()
}

func (u *Synced[K, V]) Stats() map[string]any {
	tk := u.mu.RLock()
	defer u.mu.RUnlock(tk)
	return u.t.Stats()
}

func (u *Synced[K, V]) Balance() Balance {
	return u.t.Balance()
}

// locked wraps seq so the read lock is held while it yields.
func (u *Synced[K, V]) locked(seq iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		tk := u.mu.RLock()
		defer u.mu.RUnlock(tk)
		seq(yield)
	}
}

func (u *Synced[K, V]) Range(lo, hi K) iter.Seq2[K, V] {
	return u.locked(u.t.Range(lo, hi))
}

func (u *Synced[K, V]) All() iter.Seq2[K, V] {
	return u.locked(u.t.All())
}

func (u *Synced[K, V]) Backward() iter.Seq2[K, V] {
	return u.locked(u.t.Backward())
}
