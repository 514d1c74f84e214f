package index

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/btree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keys collects every key of t in walk order.
func keys[K int64 | string, V any](t *Tree[K, V]) []K {
	var out []K
	t.Ascend(func(k K, _ *V) bool {
		out = append(out, k)
		return true
	})
	return out
}

// balancedOrder returns lo..hi in an order that builds a perfectly
// balanced tree when inserted sequentially.
func balancedOrder(lo, hi int64) []int64 {
	if lo > hi {
		return nil
	}
	mid := lo + (hi-lo)/2
	out := []int64{mid}
	out = append(out, balancedOrder(lo, mid-1)...)
	return append(out, balancedOrder(mid+1, hi)...)
}

// -------------------------------------------------------------------------
// Insert / Find / Erase
// -------------------------------------------------------------------------

func TestTree_InsertAndFind(t *testing.T) {
	tr := New[int64, int]()
	require.True(t, tr.Insert(10, 1))
	require.True(t, tr.Insert(20, 2))
	require.True(t, tr.Insert(5, 3))

	for key, want := range map[int64]int{10: 1, 20: 2, 5: 3} {
		v, ok := tr.Find(key)
		require.True(t, ok, "find %d", key)
		assert.Equal(t, want, *v)
	}

	v, ok := tr.Find(99)
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, 3, tr.Len())
}

func TestTree_InsertReplacesValue(t *testing.T) {
	tr := New[string, int]()
	require.True(t, tr.Insert("smith", 1))
	assert.False(t, tr.Insert("smith", 2), "duplicate key must not add a node")

	v, ok := tr.Find("smith")
	require.True(t, ok)
	assert.Equal(t, 2, *v)
	assert.Equal(t, 1, tr.Len())
}

func TestTree_FindReturnsMutableValue(t *testing.T) {
	tr := New[string, []int64]()
	tr.Insert("jones", []int64{1})

	ids, ok := tr.Find("jones")
	require.True(t, ok)
	*ids = append(*ids, 2, 3)

	again, _ := tr.Find("jones")
	assert.Equal(t, []int64{1, 2, 3}, *again)
}

func TestTree_EraseLeaf(t *testing.T) {
	tr := New[int64, int]()
	for _, k := range []int64{10, 5, 20} {
		tr.Insert(k, 0)
	}
	require.True(t, tr.Erase(5))
	assert.Equal(t, []int64{10, 20}, keys(tr))
	assert.Equal(t, 2, tr.Len())
}

func TestTree_EraseOneChild(t *testing.T) {
	tr := New[int64, int]()
	for _, k := range []int64{10, 5, 3, 20, 25} {
		tr.Insert(k, 0)
	}
	require.True(t, tr.Erase(5))
	require.True(t, tr.Erase(20))
	assert.Equal(t, []int64{3, 10, 25}, keys(tr))
}

func TestTree_EraseTwoChildrenUsesSuccessor(t *testing.T) {
	tr := New[int64, string]()
	for _, k := range balancedOrder(1, 7) {
		tr.Insert(k, "v")
	}
	// Root is 4; its in-order successor 5 takes its place.
	require.True(t, tr.Erase(4))
	assert.Equal(t, int64(5), tr.root.key)
	assert.Equal(t, []int64{1, 2, 3, 5, 6, 7}, keys(tr))

	// Node 2 has children 1 and 3; the successor is its direct right child.
	require.True(t, tr.Erase(2))
	assert.Equal(t, int64(3), tr.root.left.key)
	assert.Equal(t, []int64{1, 3, 5, 6, 7}, keys(tr))
	assert.Equal(t, 5, tr.Len())
}

func TestTree_EraseMissing(t *testing.T) {
	tr := New[int64, int]()
	assert.False(t, tr.Erase(1), "erase on empty tree")
	tr.Insert(1, 1)
	assert.False(t, tr.Erase(2))
	assert.Equal(t, 1, tr.Len())
}

func TestTree_EraseAllThenReinsert(t *testing.T) {
	tr := New[int64, int]()
	tr.Insert(1, 1)
	require.True(t, tr.Erase(1))
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 0, tr.Height())

	require.True(t, tr.Insert(1, 2))
	v, ok := tr.Find(1)
	require.True(t, ok)
	assert.Equal(t, 2, *v)
}

// -------------------------------------------------------------------------
// Comparison instrumentation
// -------------------------------------------------------------------------

func TestTree_SortedInsertDegradesToChain(t *testing.T) {
	const n = 100
	tr := New[int64, int]()
	for i := int64(1); i <= n; i++ {
		tr.Insert(i, int(i))
	}
	assert.Equal(t, n, tr.Height())

	tr.ResetMetrics()
	_, ok := tr.Find(n)
	require.True(t, ok)
	assert.Equal(t, n, tr.Comparisons())
}

func TestTree_BalancedFindIsLogarithmic(t *testing.T) {
	const n = 1023
	tr := New[int64, int]()
	for _, k := range balancedOrder(1, n) {
		tr.Insert(k, 0)
	}
	bound := int(math.Ceil(math.Log2(n + 1)))
	assert.Equal(t, bound, tr.Height())

	for k := int64(1); k <= n; k++ {
		tr.ResetMetrics()
		_, ok := tr.Find(k)
		require.True(t, ok)
		require.LessOrEqual(t, tr.Comparisons(), bound, "find %d", k)
	}
}

func TestTree_ResetMetricsIsolatesOperations(t *testing.T) {
	tr := New[int64, int]()
	for _, k := range []int64{50, 25, 75} {
		tr.Insert(k, 0)
	}
	// Inserts compared against existing nodes: 0 + 1 + 1.
	assert.Equal(t, 2, tr.Comparisons())

	tr.ResetMetrics()
	assert.Equal(t, 0, tr.Comparisons())
	tr.Find(75)
	assert.Equal(t, 2, tr.Comparisons())

	tr.ResetMetrics()
	tr.Find(60) // 50 -> 75 -> nil
	assert.Equal(t, 2, tr.Comparisons())
}

func TestTree_FindOnEmptyTreeCostsNothing(t *testing.T) {
	tr := New[string, int]()
	_, ok := tr.Find("x")
	assert.False(t, ok)
	assert.Equal(t, 0, tr.Comparisons())
}

// -------------------------------------------------------------------------
// Ordered walks
// -------------------------------------------------------------------------

func TestTree_AscendClosed(t *testing.T) {
	tr := New[int64, int]()
	for _, k := range []int64{10, 1, 20, 5, 15} {
		tr.Insert(k, int(k))
	}
	var got []int64
	tr.AscendClosed(5, 15, func(k int64, v *int) bool {
		assert.Equal(t, int(k), *v)
		got = append(got, k)
		return true
	})
	assert.Equal(t, []int64{5, 10, 15}, got)
}

func TestTree_AscendRangeExcludesUpperBound(t *testing.T) {
	tr := New[string, int]()
	for _, k := range []string{"smith", "jones", "smyth", "sn", "sm"} {
		tr.Insert(k, 0)
	}
	var got []string
	tr.AscendRange("sm", "sn", func(k string, _ *int) bool {
		got = append(got, k)
		return true
	})
	assert.Equal(t, []string{"sm", "smith", "smyth"}, got)
}

func TestTree_AscendGreaterOrEqual(t *testing.T) {
	tr := New[int64, int]()
	for _, k := range balancedOrder(1, 9) {
		tr.Insert(k, 0)
	}
	var got []int64
	tr.AscendGreaterOrEqual(7, func(k int64, _ *int) bool {
		got = append(got, k)
		return true
	})
	assert.Equal(t, []int64{7, 8, 9}, got)
}

func TestTree_AscendStopsEarly(t *testing.T) {
	tr := New[int64, int]()
	for _, k := range balancedOrder(1, 31) {
		tr.Insert(k, 0)
	}
	var got []int64
	tr.AscendClosed(3, 20, func(k int64, _ *int) bool {
		got = append(got, k)
		return len(got) < 4
	})
	assert.Equal(t, []int64{3, 4, 5, 6}, got)
}

func TestTree_AscendPrunesOnChain(t *testing.T) {
	tr := New[int64, int]()
	for i := int64(1); i <= 100; i++ {
		tr.Insert(i, 0)
	}
	tr.ResetMetrics()
	n := 0
	tr.AscendClosed(5, 15, func(int64, *int) bool {
		n++
		return true
	})
	assert.Equal(t, 11, n)
	// Nodes 1..15 are visited, two bound comparisons each; nothing past 15.
	assert.Equal(t, 30, tr.Comparisons())
}

func TestTree_AscendPrunesBalanced(t *testing.T) {
	tr := New[int64, int]()
	for _, k := range balancedOrder(1, 15) {
		tr.Insert(k, 0)
	}
	tr.ResetMetrics()
	var got []int64
	tr.AscendClosed(1, 3, func(k int64, _ *int) bool {
		got = append(got, k)
		return true
	})
	assert.Equal(t, []int64{1, 2, 3}, got)
	// Visits 8, 4, 2, 1, 3 only.
	assert.Equal(t, 10, tr.Comparisons())
}

func TestTree_AscendEmptyInterval(t *testing.T) {
	tr := New[int64, int]()
	for _, k := range []int64{1, 2, 3} {
		tr.Insert(k, 0)
	}
	called := false
	tr.AscendRange(2, 2, func(int64, *int) bool {
		called = true
		return true
	})
	assert.False(t, called)
}

// -------------------------------------------------------------------------
// Randomized comparison against an ordered map
// -------------------------------------------------------------------------

type entry struct {
	key int64
	val int
}

func TestTree_MatchesBTree(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	tr := New[int64, int]()
	oracle := btree.NewG(8, func(a, b entry) bool { return a.key < b.key })

	for step := range 5000 {
		key := int64(rng.IntN(500))
		switch rng.IntN(3) {
		case 0, 1:
			_, replaced := oracle.ReplaceOrInsert(entry{key, step})
			require.Equal(t, !replaced, tr.Insert(key, step), "insert %d", key)
		case 2:
			_, removed := oracle.Delete(entry{key: key})
			require.Equal(t, removed, tr.Erase(key), "erase %d", key)
		}
		require.Equal(t, oracle.Len(), tr.Len())
	}

	var want []entry
	oracle.Ascend(func(e entry) bool {
		want = append(want, e)
		return true
	})
	var got []entry
	tr.Ascend(func(k int64, v *int) bool {
		got = append(got, entry{k, *v})
		return true
	})
	require.Equal(t, want, got)

	for range 200 {
		lo := int64(rng.IntN(520)) - 10
		hi := lo + int64(rng.IntN(80))

		var wantKeys, gotKeys []int64
		oracle.AscendRange(entry{key: lo}, entry{key: hi + 1}, func(e entry) bool {
			wantKeys = append(wantKeys, e.key)
			return true
		})
		tr.AscendClosed(lo, hi, func(k int64, _ *int) bool {
			gotKeys = append(gotKeys, k)
			return true
		})
		require.Equal(t, wantKeys, gotKeys, "range [%d, %d]", lo, hi)
	}
}

func TestTree_Size(t *testing.T) {
	tr := New[string, []int64]()
	assert.Equal(t, int64(0), tr.Size())

	tr.Insert("jones", []int64{1, 2})
	one := tr.Size()
	assert.Positive(t, one)

	tr.Insert("smith", []int64{3})
	assert.Greater(t, tr.Size(), one)
}
