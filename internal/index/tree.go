// Package index implements a height-balanced (AVL) binary search tree keyed
// by int64.
//
// The tree never allocates: callers embed a Node in their own records and the
// tree links and unlinks those nodes in place. Removing a node with two
// children relinks the in-order successor into its position instead of
// copying keys, so a Node stays attached to the record that owns it.
package index

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Node is an intrusive tree node. The zero value is an unlinked node.
type Node[V any] struct {
	Value V

	key    int64
	height int
	left   *Node[V]
	right  *Node[V]
	linked bool
}

// Key returns the key the node was inserted with.
func (n *Node[V]) Key() int64 { return n.key }

// Linked reports whether the node is currently part of a tree.
func (n *Node[V]) Linked() bool { return n.linked }

// Tree is an AVL tree of caller-owned nodes. It is not safe for concurrent
// use; owners serialize access themselves.
type Tree[V any] struct {
	root *Node[V]
	size int
}

// New returns an empty tree.
func New[V any]() *Tree[V] {
	return &Tree[V]{}
}

// Len returns the number of linked nodes.
func (t *Tree[V]) Len() int { return t.size }

// Height returns the height of the root, 0 for an empty tree.
func (t *Tree[V]) Height() int { return height(t.root) }

// Insert links node under key. It fails with ErrDuplicateKey when the key is
// present and with ErrNodeLinked when node already belongs to a tree.
func (t *Tree[V]) Insert(key int64, node *Node[V]) error {
	if node == nil {
		panic("index: nil node")
	}
	if node.linked {
		return ErrNodeLinked
	}
	if t.Search(key) != nil {
		return &DuplicateKeyError{Key: key}
	}

	node.key = key
	node.height = 1
	node.left = nil
	node.right = nil
	t.root = insert(t.root, node)
	node.linked = true
	t.size++
	return nil
}

// Delete unlinks the node stored under key and returns it.
func (t *Tree[V]) Delete(key int64) (*Node[V], error) {
	root, removed := remove(t.root, key)
	if removed == nil {
		return nil, fmt.Errorf("%w: %#x", ErrNotFound, key)
	}
	t.root = root
	t.size--

	removed.left = nil
	removed.right = nil
	removed.height = 0
	removed.linked = false
	return removed, nil
}

// Search returns the node stored under key, or nil.
func (t *Tree[V]) Search(key int64) *Node[V] {
	n := t.root
	for n != nil {
		switch {
		case key < n.key:
			n = n.left
		case key > n.key:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// All yields the nodes in ascending key order. Each call starts a fresh
// traversal. The tree must not be modified while a traversal is running.
func (t *Tree[V]) All() iter.Seq[*Node[V]] {
	return func(yield func(*Node[V]) bool) {
		var stack []*Node[V]
		n := t.root
		for n != nil || len(stack) > 0 {
			for n != nil {
				stack = append(stack, n)
				n = n.left
			}
			n = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			n = n.right
		}
	}
}

// Print writes the tree sideways, right subtree first, one node per line
// indented by depth. label may be nil.
func (t *Tree[V]) Print(w io.Writer, label func(V) string) error {
	if t.root == nil {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}
	return printNode(w, t.root, 0, label)
}

func printNode[V any](w io.Writer, n *Node[V], depth int, label func(V) string) error {
	if n == nil {
		return nil
	}
	if err := printNode(w, n.right, depth+1, label); err != nil {
		return err
	}
	line := fmt.Sprintf("%s%016x h=%d", strings.Repeat("    ", depth), uint64(n.key), n.height)
	if label != nil {
		line += " " + label(n.Value)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	return printNode(w, n.left, depth+1, label)
}

func insert[V any](n, node *Node[V]) *Node[V] {
	if n == nil {
		return node
	}
	if node.key < n.key {
		n.left = insert(n.left, node)
	} else {
		n.right = insert(n.right, node)
	}
	return rebalance(n)
}

// remove returns the new subtree root and the unlinked node, nil if key is
// absent.
func remove[V any](n *Node[V], key int64) (*Node[V], *Node[V]) {
	if n == nil {
		return nil, nil
	}

	var removed *Node[V]
	switch {
	case key < n.key:
		n.left, removed = remove(n.left, key)
	case key > n.key:
		n.right, removed = remove(n.right, key)
	default:
		removed = n
		if n.left == nil {
			return n.right, removed
		}
		if n.right == nil {
			return n.left, removed
		}
		right, successor := removeMin(n.right)
		successor.left = n.left
		successor.right = right
		n = successor
	}

	if removed == nil {
		return n, nil
	}
	return rebalance(n), removed
}

func removeMin[V any](n *Node[V]) (*Node[V], *Node[V]) {
	if n.left == nil {
		return n.right, n
	}
	var first *Node[V]
	n.left, first = removeMin(n.left)
	return rebalance(n), first
}

func rebalance[V any](n *Node[V]) *Node[V] {
	update(n)
	switch bf := balance(n); {
	case bf > 1:
		if balance(n.left) < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case bf < -1:
		if balance(n.right) > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

func rotateRight[V any](n *Node[V]) *Node[V] {
	l := n.left
	n.left = l.right
	l.right = n
	update(n)
	update(l)
	return l
}

func rotateLeft[V any](n *Node[V]) *Node[V] {
	r := n.right
	n.right = r.left
	r.left = n
	update(n)
	update(r)
	return r
}

func height[V any](n *Node[V]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func balance[V any](n *Node[V]) int {
	return height(n.left) - height(n.right)
}

func update[V any](n *Node[V]) {
	n.height = 1 + max(height(n.left), height(n.right))
}
