package index

import (
	"cmp"

	"rosterdb/deepsize"
)

// Tree is an unbalanced binary search tree mapping unique keys to values.
// It counts every key comparison it performs; callers reset the counter
// with ResetMetrics before an operation whose cost they want to report.
//
// Insertion order determines the shape. Keys inserted in sorted order
// produce a linear chain and every operation degrades to O(n). The tree
// never rebalances.
//
// A Tree is not safe for concurrent use.
type Tree[K cmp.Ordered, V any] struct {
	root        *node[K, V]
	count       int
	comparisons int
}

// node exclusively owns its children; there are no parent links because
// every traversal starts at the root.
type node[K cmp.Ordered, V any] struct {
	key         K
	val         V
	left, right *node[K, V]
}

// New returns an empty tree.
func New[K cmp.Ordered, V any]() *Tree[K, V] {
	return &Tree[K, V]{}
}

// compare is the only place keys are compared, so the counter sees all of them.
func (t *Tree[K, V]) compare(a, b K) int {
	t.comparisons++
	return cmp.Compare(a, b)
}

// ResetMetrics zeroes the comparison counter.
func (t *Tree[K, V]) ResetMetrics() {
	t.comparisons = 0
}

// Comparisons returns the number of key comparisons since the last reset.
func (t *Tree[K, V]) Comparisons() int {
	return t.comparisons
}

// Len returns the number of keys in the tree.
func (t *Tree[K, V]) Len() int {
	return t.count
}

// Insert stores val under key. An existing key has its value replaced.
// Returns true if a new node was created.
func (t *Tree[K, V]) Insert(key K, val V) bool {
	link := &t.root
	for *link != nil {
		n := *link
		switch c := t.compare(key, n.key); {
		case c < 0:
			link = &n.left
		case c > 0:
			link = &n.right
		default:
			n.val = val
			return false
		}
	}
	*link = &node[K, V]{key: key, val: val}
	t.count++
	return true
}

// Find returns a pointer to the value stored under key. The pointer stays
// valid until the key is erased, so callers may update the value in place.
func (t *Tree[K, V]) Find(key K) (*V, bool) {
	link := t.search(key)
	if *link == nil {
		return nil, false
	}
	return &(*link).val, true
}

// Erase removes key from the tree. Returns false if the key was not found.
// A node with two children is replaced by its in-order successor.
func (t *Tree[K, V]) Erase(key K) bool {
	link := t.search(key)
	n := *link
	if n == nil {
		return false
	}

	switch {
	case n.left == nil:
		*link = n.right
	case n.right == nil:
		*link = n.left
	default:
		// Detach the leftmost node of the right subtree and splice it in.
		succLink := &n.right
		for (*succLink).left != nil {
			succLink = &(*succLink).left
		}
		succ := *succLink
		*succLink = succ.right
		succ.left, succ.right = n.left, n.right
		*link = succ
	}
	t.count--
	return true
}

// search returns the link that holds key, or the nil link where key would
// be attached.
func (t *Tree[K, V]) search(key K) **node[K, V] {
	link := &t.root
	for *link != nil {
		n := *link
		c := t.compare(key, n.key)
		if c == 0 {
			break
		}
		if c < 0 {
			link = &n.left
		} else {
			link = &n.right
		}
	}
	return link
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree[K, V]) Height() int {
	return height(t.root)
}

func height[K cmp.Ordered, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return 1 + max(height(n.left), height(n.right))
}

// Size returns an estimate of the memory held by the tree's nodes, keys
// and values.
func (t *Tree[K, V]) Size() int64 {
	if t.root == nil {
		return 0
	}
	return deepsize.Of(t.root)
}
