package Trees

import (
	"cmp"
	"errors"
	"iter"
	"maps"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tOpN      = 4000
	tAddN     = 2000
	tValRange = 3000
)

// checked is a Tree whose invariants can be verified by walking it.
type checked interface {
	Tree[int, int]
	verify() error
	fingerprint() uint64
}

// makers cover every strategy, each with a different index type.
var makers = []struct {
	name string
	mk   func() checked
}{
	{"AVL", func() checked { return NewAVL[int, int](uint32(0)) }},
	{"RedBlack", func() checked { return NewRB[int, int](uint16(1)) }},
	{"AA", func() checked { return NewAA[int, int](uint(8)) }},
}

func test(t *testing.T, f func(*testing.T, func() checked)) {
	for _, m := range makers {
		t.Run(m.name, func(t *testing.T) {
			f(t, m.mk)
		})
	}
}

func collect[K, V any](seq iter.Seq2[K, V]) []K {
	var ks []K
	for k := range seq {
		ks = append(ks, k)
	}
	return ks
}

// randTree fills a tree with tAddN random keys and returns the sorted distinct keys.
func randTree(t *testing.T, tree checked, rg *rand.Rand) []int {
	t.Helper()
	content := make(map[int]struct{})
	for range tAddN {
		k := rg.Intn(tValRange)
		_, in := content[k]
		if _, added := tree.Set(k, -k); added == in {
			t.Fatalf("Set(%d) added=%v, key present=%v", k, added, in)
		}
		content[k] = struct{}{}
	}
	require.NoError(t, tree.verify())
	return slices.Sorted(maps.Keys(content))
}

func TestScenario(t *testing.T) {
	test(t, func(t *testing.T, mk func() checked) {
		tree := mk()
		for _, k := range []int{5, 12, 18, 37, 48, 60, 80} {
			tree.Set(k, k*10)
			require.NoError(t, tree.verify())
		}
		assert.Equal(t, 7, tree.Size())
		k, v, err := tree.Select(0)
		require.NoError(t, err)
		assert.Equal(t, 5, k)
		assert.Equal(t, 50, v)
		k, _, err = tree.Select(6)
		require.NoError(t, err)
		assert.Equal(t, 80, k)
		assert.Equal(t, 3, tree.Rank(37))
		k, _, ok := tree.Floor(50)
		assert.True(t, ok)
		assert.Equal(t, 48, k)
		k, _, ok = tree.Ceiling(50)
		assert.True(t, ok)
		assert.Equal(t, 60, k)
		assert.Equal(t, []int{12, 18, 37, 48, 60}, collect(tree.Range(12, 60)))

		require.True(t, tree.Delete(37))
		require.NoError(t, tree.verify())
		assert.Equal(t, 3, tree.Rank(48))
		assert.Equal(t, []int{5, 12, 18, 48, 60, 80}, tree.Keys())
		assert.False(t, tree.Has(37))
		assert.Equal(t, 6, tree.Size())
	})
}

func TestTree_Random(t *testing.T) {
	test(t, func(t *testing.T, mk func() checked) {
		for seed := range int64(4) {
			randomOps(t, mk(), rand.New(rand.NewSource(seed)))
		}
	})
}

// randomOps applies tOpN random Set, Delete, DeleteMin and DeleteMax calls to
// tree, checking it against a map after every one of them.
func randomOps(t *testing.T, tree checked, rg *rand.Rand) {
	t.Helper()
	content := make(map[int]int)
	for k, v := range tree.All() {
		content[k] = v
	}
	for i := range tOpN {
		k := rg.Intn(tValRange)
		ov, in := content[k]
		switch op := rg.Intn(5); op {
		case 0, 1:
			old, added := tree.Set(k, i)
			if added == in || (in && old != ov) {
				t.Fatalf("op %d: Set(%d) = (%d, %v), had (%d, %v)", i, k, old, added, ov, in)
			}
			content[k] = i
		case 2:
			if got := tree.Delete(k); got != in {
				t.Fatalf("op %d: Delete(%d) = %v, present %v", i, k, got, in)
			}
			delete(content, k)
		default:
			var dk, dv int
			var err error
			if op == 4 {
				dk, dv, err = tree.DeleteMax()
			} else {
				dk, dv, err = tree.DeleteMin()
			}
			if len(content) == 0 {
				if !errors.Is(err, ErrEmpty) {
					t.Fatalf("op %d: removing from empty tree gave %v", i, err)
				}
				break
			}
			want := slices.Min(slices.Collect(maps.Keys(content)))
			if op == 4 {
				want = slices.Max(slices.Collect(maps.Keys(content)))
			}
			if err != nil || dk != want || dv != content[want] {
				t.Fatalf("op %d: removed (%d, %d, %v), want key %d", i, dk, dv, err, want)
			}
			delete(content, want)
		}
		if err := tree.verify(); err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
		if tree.Size() != len(content) {
			t.Fatalf("op %d: size is %d, want %d", i, tree.Size(), len(content))
		}
	}
	for k, v := range content {
		if got, ok := tree.Get(k); !ok || got != v {
			t.Errorf("Get(%d) = (%d, %v), want %d", k, got, ok, v)
		}
	}
	assert.Equal(t, slices.Sorted(maps.Keys(content)), tree.Keys())
	for i, k := range tree.Keys() {
		if got, _, err := tree.Select(tree.Rank(k)); err != nil || got != k || tree.Rank(k) != i {
			t.Fatalf("Rank(%d) = %d, Select of it gave %d, %v", k, tree.Rank(k), got, err)
		}
	}
	t.Logf("size: %d, height: %d, stats: %v", tree.Size(), tree.Height(), tree.Stats())
}

func TestTree_RandomAfterLoad(t *testing.T) {
	test(t, func(t *testing.T, mk func() checked) {
		ks := make([]int, tAddN/2)
		for i := range ks {
			ks[i] = 2 * i
		}
		for seed := range int64(2) {
			tree := mk()
			require.NoError(t, tree.Load(ks, ks))
			randomOps(t, tree, rand.New(rand.NewSource(100+seed)))
		}
	})
}

func TestTree_OrderStatistics(t *testing.T) {
	test(t, func(t *testing.T, mk func() checked) {
		rg := rand.New(rand.NewSource(2))
		tree := mk()
		ref := randTree(t, tree, rg)
		require.Equal(t, len(ref), tree.Size())
		require.Equal(t, ref, tree.Keys())
		for i, want := range ref {
			k, v, err := tree.Select(i)
			require.NoError(t, err)
			require.Equal(t, want, k)
			require.Equal(t, -want, v)
			require.Equal(t, i, tree.Rank(k))
		}
		for range 1000 {
			q := rg.Intn(tValRange+2) - 1
			r, found := slices.BinarySearch(ref, q)
			assert.Equal(t, r, tree.Rank(q), "Rank(%d)", q)
			assert.Equal(t, found, tree.Has(q), "Has(%d)", q)

			k, _, ok := tree.Floor(q)
			switch {
			case found:
				assert.True(t, ok && k == q, "Floor(%d) = %d, %v", q, k, ok)
			case r > 0:
				assert.True(t, ok && k == ref[r-1], "Floor(%d) = %d, %v", q, k, ok)
			default:
				assert.False(t, ok, "Floor(%d)", q)
			}
			k, _, ok = tree.Ceiling(q)
			if r < len(ref) {
				assert.True(t, ok && k == ref[r], "Ceiling(%d) = %d, %v", q, k, ok)
			} else {
				assert.False(t, ok, "Ceiling(%d)", q)
			}
			k, _, ok = tree.Predecessor(q)
			if r > 0 {
				assert.True(t, ok && k == ref[r-1], "Predecessor(%d) = %d, %v", q, k, ok)
			} else {
				assert.False(t, ok, "Predecessor(%d)", q)
			}
			s := r
			if found {
				s++
			}
			k, _, ok = tree.Successor(q)
			if s < len(ref) {
				assert.True(t, ok && k == ref[s], "Successor(%d) = %d, %v", q, k, ok)
			} else {
				assert.False(t, ok, "Successor(%d)", q)
			}
		}
		k, _, ok := tree.Min()
		assert.True(t, ok)
		assert.Equal(t, ref[0], k)
		k, _, ok = tree.Max()
		assert.True(t, ok)
		assert.Equal(t, ref[len(ref)-1], k)
	})
}

func TestTree_Range(t *testing.T) {
	test(t, func(t *testing.T, mk func() checked) {
		rg := rand.New(rand.NewSource(3))
		tree := mk()
		ref := randTree(t, tree, rg)
		for range 300 {
			lo, hi := rg.Intn(tValRange+2)-1, rg.Intn(tValRange+2)-1
			i, _ := slices.BinarySearch(ref, lo)
			j, found := slices.BinarySearch(ref, hi)
			if found {
				j++
			}
			var want []int
			if lo <= hi {
				want = ref[i:j]
			}
			seq := tree.Range(lo, hi)
			got := collect(seq)
			if len(want) == 0 {
				assert.Empty(t, got, "Range(%d, %d)", lo, hi)
				continue
			}
			assert.Equal(t, want, got, "Range(%d, %d)", lo, hi)
			assert.Equal(t, got, collect(seq), "ranging twice over Range(%d, %d)", lo, hi)
		}
		var first []int
		for k := range tree.Range(ref[0], ref[len(ref)-1]) {
			if first = append(first, k); len(first) == 3 {
				break
			}
		}
		assert.Equal(t, ref[:3], first)
		assert.Empty(t, collect(tree.Range(10, 5)))
	})
}

func TestTree_Backward(t *testing.T) {
	test(t, func(t *testing.T, mk func() checked) {
		tree := mk()
		ref := randTree(t, tree, rand.New(rand.NewSource(4)))
		got := collect(tree.Backward())
		slices.Reverse(got)
		assert.Equal(t, ref, got)
		var n int
		for range tree.Backward() {
			if n++; n == 10 {
				break
			}
		}
		assert.Equal(t, 10, n)
	})
}

func TestTree_Idempotence(t *testing.T) {
	test(t, func(t *testing.T, mk func() checked) {
		tree := mk()
		ref := randTree(t, tree, rand.New(rand.NewSource(5)))
		sz := tree.Size()
		for _, k := range ref[:100] {
			old, added := tree.Set(k, k)
			require.False(t, added)
			require.Equal(t, -k, old)
			require.Equal(t, sz, tree.Size())
			v, _ := tree.Get(k)
			require.Equal(t, k, v)
		}
		require.NoError(t, tree.verify())

		fp := tree.fingerprint()
		for _, k := range []int{-1, tValRange, tValRange + 10} {
			require.False(t, tree.Delete(k))
			require.Equal(t, fp, tree.fingerprint(), "Delete(%d) of an absent key changed the tree", k)
		}
		for i := 1; i < len(ref); i++ {
			if ref[i]-ref[i-1] > 1 {
				require.False(t, tree.Delete(ref[i]-1))
			}
		}
		require.Equal(t, fp, tree.fingerprint())
	})
}

func TestTree_HeightBound(t *testing.T) {
	const n = 1 << 12
	bound := map[Balance]func(int) float64{
		AVL:      func(n int) float64 { return 1.44 * math.Log2(float64(n+2)) },
		RedBlack: func(n int) float64 { return 2 * math.Log2(float64(n+1)) },
		AA:       func(n int) float64 { return 2 * math.Log2(float64(n+1)) },
	}
	test(t, func(t *testing.T, mk func() checked) {
		ascending, descending, random := mk(), mk(), mk()
		rg := rand.New(rand.NewSource(6))
		for i := range n {
			ascending.Set(i, i)
			descending.Set(n-i, i)
			random.Set(rg.Int(), i)
		}
		for _, tree := range []checked{ascending, descending, random} {
			require.NoError(t, tree.verify())
			h, b := tree.Height(), bound[tree.Balance()](tree.Size())
			assert.LessOrEqual(t, float64(h), b, "height %d with %d nodes", h, tree.Size())
			assert.Equal(t, int64(h), tree.Stats()["height"])
		}
		for i := range n - 1 {
			ascending.Delete(i)
			if i%512 == 0 {
				require.NoError(t, ascending.verify())
				h, b := ascending.Height(), bound[ascending.Balance()](ascending.Size())
				assert.LessOrEqual(t, float64(h), b)
			}
		}
		assert.Equal(t, 1, ascending.Size())
	})
}

func TestTree_Empty(t *testing.T) {
	test(t, func(t *testing.T, mk func() checked) {
		tree := mk()
		require.NoError(t, tree.verify())
		assert.Equal(t, 0, tree.Size())
		assert.Equal(t, 0, tree.Height())
		_, _, err := tree.DeleteMin()
		assert.ErrorIs(t, err, ErrEmpty)
		_, _, err = tree.DeleteMax()
		assert.ErrorIs(t, err, ErrEmpty)
		_, _, ok := tree.Min()
		assert.False(t, ok)
		_, _, ok = tree.Max()
		assert.False(t, ok)
		_, _, ok = tree.Floor(1)
		assert.False(t, ok)
		_, ok = tree.Get(1)
		assert.False(t, ok)
		assert.False(t, tree.Delete(1))
		assert.Equal(t, 0, tree.Rank(1))
		assert.Empty(t, collect(tree.All()))
		assert.Empty(t, collect(tree.Range(0, 10)))
		assert.Empty(t, tree.Keys())
		require.NoError(t, tree.verify())
	})
}

func TestTree_SelectOutOfRange(t *testing.T) {
	test(t, func(t *testing.T, mk func() checked) {
		tree := mk()
		for i := range 10 {
			tree.Set(i, i)
		}
		for _, i := range []int{-1, 10, 11, math.MaxInt} {
			_, _, err := tree.Select(i)
			require.ErrorIs(t, err, ErrOutOfRange)
			var re *RankError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, i, re.Rank)
			assert.Equal(t, 10, re.Size)
		}
	})
}

func TestTree_Drain(t *testing.T) {
	test(t, func(t *testing.T, mk func() checked) {
		rg := rand.New(rand.NewSource(7))
		asc, desc := mk(), mk()
		ref := randTree(t, asc, rg)
		for _, k := range ref {
			desc.Set(k, -k)
		}
		for i := range ref {
			k, v, err := asc.DeleteMin()
			require.NoError(t, err)
			require.Equal(t, ref[i], k)
			require.Equal(t, -k, v)
			k, _, err = desc.DeleteMax()
			require.NoError(t, err)
			require.Equal(t, ref[len(ref)-1-i], k)
			if i%97 == 0 {
				require.NoError(t, asc.verify())
				require.NoError(t, desc.verify())
			}
		}
		require.NoError(t, asc.verify())
		require.NoError(t, desc.verify())
		assert.Equal(t, int64(len(ref)), asc.Stats()["arena.free"])
		_, _, err := asc.DeleteMin()
		assert.ErrorIs(t, err, ErrEmpty)
	})
}

func TestTree_FreeList(t *testing.T) {
	test(t, func(t *testing.T, mk func() checked) {
		tree := mk()
		for i := range 100 {
			tree.Set(i, i)
		}
		for i := 0; i < 100; i += 2 {
			require.True(t, tree.Delete(i))
		}
		require.NoError(t, tree.verify())
		assert.Equal(t, int64(50), tree.Stats()["arena.free"])
		for i := 0; i < 100; i += 2 {
			tree.Set(i+1000, i)
			require.NoError(t, tree.verify())
		}
		assert.Equal(t, int64(0), tree.Stats()["arena.free"])
		assert.Equal(t, 100, tree.Size())
	})
}

func TestTree_Clear(t *testing.T) {
	test(t, func(t *testing.T, mk func() checked) {
		tree := mk()
		randTree(t, tree, rand.New(rand.NewSource(8)))
		tree.Delete(tValRange / 2)
		tree.Clear()
		require.NoError(t, tree.verify())
		assert.Equal(t, 0, tree.Size())
		assert.Empty(t, tree.Keys())
		for i := range 50 {
			tree.Set(i, i)
		}
		require.NoError(t, tree.verify())
		assert.Equal(t, 50, tree.Size())
	})
}

func TestTree_Load(t *testing.T) {
	test(t, func(t *testing.T, mk func() checked) {
		rg := rand.New(rand.NewSource(9))
		for _, n := range []int{0, 1, 2, 3, 4, 7, 8, 100, 1000, 1023, 1025} {
			ks, vs := make([]int, n), make([]int, n)
			for i := range ks {
				ks[i], vs[i] = 3*i, i
			}
			tree := mk()
			tree.Set(-5, 0)
			require.NoError(t, tree.Load(ks, vs))
			require.NoError(t, tree.verify(), "after loading %d keys", n)
			require.Equal(t, n, tree.Size())
			require.Equal(t, ks, tree.Keys())
			for i := range n {
				if v, ok := tree.Get(3 * i); !ok || v != i {
					t.Fatalf("Get(%d) = %d, %v after loading %d keys", 3*i, v, ok, n)
				}
			}
			for i := range 2 * n {
				if k := rg.Intn(3*n + 1); i&1 == 0 {
					tree.Set(k, k)
				} else {
					tree.Delete(k)
				}
				if err := tree.verify(); err != nil {
					t.Fatalf("op %d after loading %d keys: %v", i, n, err)
				}
			}
		}
		tree := mk()
		require.NoError(t, tree.Load([]int{1, 2, 3}, nil))
		v, ok := tree.Get(2)
		assert.True(t, ok)
		assert.Equal(t, 0, v)
	})
}

func TestTree_LoadInvalid(t *testing.T) {
	test(t, func(t *testing.T, mk func() checked) {
		tree := mk()
		for i := range 20 {
			tree.Set(i, i)
		}
		fp := tree.fingerprint()
		for _, c := range []struct {
			ks, vs []int
			index  int
		}{
			{[]int{1, 2, 2, 3}, nil, 2},
			{[]int{1, 3, 2}, nil, 2},
			{[]int{1, 2, 3}, []int{1, 2}, 2},
			{[]int{1}, []int{1, 2}, 1},
		} {
			err := tree.Load(c.ks, c.vs)
			var ise *InvalidSliceError
			require.ErrorAs(t, err, &ise, "Load(%v, %v)", c.ks, c.vs)
			assert.Equal(t, c.index, ise.Index)
			require.Equal(t, fp, tree.fingerprint(), "failed Load changed the tree")
		}
	})
}

func TestTree_Capacity(t *testing.T) {
	for _, b := range []Balance{AVL, RedBlack, AA} {
		t.Run(b.String(), func(t *testing.T) {
			tree := New[int, int](b, cmp.Compare[int], uint8(0))
			for i := range math.MaxUint8 - 1 {
				tree.Set(i, i)
			}
			assert.Equal(t, math.MaxUint8-1, tree.Size())
			require.PanicsWithValue(t, ErrCapacity, func() { tree.Set(1000, 0) })
			assert.Equal(t, math.MaxUint8-1, tree.Size())
			_, added := tree.Set(3, 3)
			assert.False(t, added)
			require.True(t, tree.Delete(3))
			_, added = tree.Set(1000, 0)
			assert.True(t, added)

			ks := make([]int, math.MaxUint8)
			for i := range ks {
				ks[i] = i
			}
			assert.ErrorIs(t, tree.Load(ks, nil), ErrCapacity)
			assert.NoError(t, tree.Load(ks[1:], nil))
		})
	}
}

func TestTree_CustomOrder(t *testing.T) {
	desc := func(a, b string) int { return cmp.Compare(b, a) }
	words := []string{"pear", "apple", "fig", "kiwi", "banana", "cherry", "date"}
	for _, b := range []Balance{AVL, RedBlack, AA} {
		t.Run(b.String(), func(t *testing.T) {
			tree := New[string, int](b, desc, uint16(len(words)))
			for i, w := range words {
				tree.Set(w, i)
			}
			want := slices.Clone(words)
			slices.SortFunc(want, desc)
			assert.Equal(t, want, tree.Keys())
			assert.Equal(t, 0, tree.Rank("pear"))
			k, _, ok := tree.Floor("coconut")
			assert.True(t, ok)
			assert.Equal(t, "date", k)
			assert.Equal(t, []string{"cherry", "banana", "apple"}, collect(tree.Range("cherry", "apple")))
		})
	}
}

func TestFrom(t *testing.T) {
	ks := []int{2, 4, 6, 8, 10}
	vs := []string{"b", "d", "f", "h", "j"}
	for _, b := range []Balance{AVL, RedBlack, AA} {
		tree, err := From[int, string, uint32](b, cmp.Compare[int], ks, vs)
		require.NoError(t, err)
		assert.Equal(t, b, tree.Balance())
		k, v, err := tree.Select(3)
		require.NoError(t, err)
		assert.Equal(t, 8, k)
		assert.Equal(t, "h", v)
		_, err = From[int, string, uint32](b, cmp.Compare[int], []int{2, 1}, nil)
		var ise *InvalidSliceError
		assert.ErrorAs(t, err, &ise)
	}
}
