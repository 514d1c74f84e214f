package index

import "cmp"

// Visitor is called for each key in ascending order during a walk. The
// value pointer may be used to update the value in place. Returning false
// stops the walk.
type Visitor[K cmp.Ordered, V any] func(key K, val *V) bool

// bounds describes the key interval of a walk. A nil bound is open.
type bounds[K cmp.Ordered] struct {
	lo, hi      *K
	hiInclusive bool
}

// Ascend calls fn for every key in ascending order.
func (t *Tree[K, V]) Ascend(fn Visitor[K, V]) {
	t.ascend(t.root, bounds[K]{}, fn)
}

// AscendRange calls fn for every key in [lo, hi) in ascending order.
func (t *Tree[K, V]) AscendRange(lo, hi K, fn Visitor[K, V]) {
	t.ascend(t.root, bounds[K]{lo: &lo, hi: &hi}, fn)
}

// AscendClosed calls fn for every key in [lo, hi] in ascending order.
func (t *Tree[K, V]) AscendClosed(lo, hi K, fn Visitor[K, V]) {
	t.ascend(t.root, bounds[K]{lo: &lo, hi: &hi, hiInclusive: true}, fn)
}

// AscendGreaterOrEqual calls fn for every key >= lo in ascending order.
func (t *Tree[K, V]) AscendGreaterOrEqual(lo K, fn Visitor[K, V]) {
	t.ascend(t.root, bounds[K]{lo: &lo}, fn)
}

// ascend performs an in-order walk of the subtree rooted at n, skipping
// subtrees that lie entirely outside b. Each visited node costs one
// comparison per closed bound. Returns false once fn has asked to stop.
func (t *Tree[K, V]) ascend(n *node[K, V], b bounds[K], fn Visitor[K, V]) bool {
	if n == nil {
		return true
	}

	// Left keys are smaller than n.key and right keys larger, so the left
	// subtree can only match when n.key > lo and the right one when n.key < hi.
	goLeft, aboveLo := true, true
	if b.lo != nil {
		c := t.compare(n.key, *b.lo)
		goLeft = c > 0
		aboveLo = c >= 0
	}
	goRight, belowHi := true, true
	if b.hi != nil {
		c := t.compare(n.key, *b.hi)
		goRight = c < 0
		belowHi = c < 0 || (b.hiInclusive && c == 0)
	}

	if goLeft && !t.ascend(n.left, b, fn) {
		return false
	}
	if aboveLo && belowHi && !fn(n.key, &n.val) {
		return false
	}
	if goRight {
		return t.ascend(n.right, b, fn)
	}
	return true
}
