package index

import (
	"bytes"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	name string
	node Node[*record]
}

func newRecord(name string) *record {
	r := &record{name: name}
	r.node.Value = r
	return r
}

// checkInvariants walks the whole tree and verifies ordering, cached heights
// and the AVL balance bound. It returns the number of nodes visited.
func checkInvariants[V any](t *testing.T, tree *Tree[V]) int {
	t.Helper()
	var walk func(n *Node[V], lo, hi *int64) (int, int)
	walk = func(n *Node[V], lo, hi *int64) (int, int) {
		if n == nil {
			return 0, 0
		}
		require.True(t, n.linked, "node %#x not marked linked", n.key)
		if lo != nil {
			require.Greater(t, n.key, *lo)
		}
		if hi != nil {
			require.Less(t, n.key, *hi)
		}
		lh, lc := walk(n.left, lo, &n.key)
		rh, rc := walk(n.right, &n.key, hi)
		require.LessOrEqual(t, lh-rh, 1, "left heavy at %#x", n.key)
		require.GreaterOrEqual(t, lh-rh, -1, "right heavy at %#x", n.key)
		require.Equal(t, 1+max(lh, rh), n.height, "stale height at %#x", n.key)
		return n.height, lc + rc + 1
	}
	_, count := walk(tree.root, nil, nil)
	require.Equal(t, tree.Len(), count)
	return count
}

func keys[V any](tree *Tree[V]) []int64 {
	var out []int64
	for n := range tree.All() {
		out = append(out, n.Key())
	}
	return out
}

func TestInsertAndSearch(t *testing.T) {
	tree := New[*record]()
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		r := newRecord(name)
		require.NoError(t, tree.Insert(int64(i), &r.node))
		checkInvariants(t, tree)
	}

	assert.Equal(t, 7, tree.Len())
	assert.Equal(t, 3, tree.Height())

	n := tree.Search(4)
	require.NotNil(t, n)
	assert.Equal(t, "e", n.Value.name)
	assert.Nil(t, tree.Search(42))
}

func TestInsertDuplicateKey(t *testing.T) {
	tree := New[*record]()
	first := newRecord("first")
	second := newRecord("second")

	require.NoError(t, tree.Insert(10, &first.node))
	err := tree.Insert(10, &second.node)

	assert.ErrorIs(t, err, ErrDuplicateKey)
	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, int64(10), dup.Key)
	assert.False(t, second.node.Linked())
	assert.Equal(t, "first", tree.Search(10).Value.name)
	assert.Equal(t, 1, tree.Len())
}

func TestInsertLinkedNode(t *testing.T) {
	a := New[*record]()
	b := New[*record]()
	r := newRecord("r")

	require.NoError(t, a.Insert(1, &r.node))
	assert.ErrorIs(t, b.Insert(2, &r.node), ErrNodeLinked)
	assert.Equal(t, 0, b.Len())
}

func TestRotations(t *testing.T) {
	tests := []struct {
		name  string
		order []int64
		root  int64
	}{
		{name: "right right", order: []int64{1, 2, 3}, root: 2},
		{name: "left left", order: []int64{3, 2, 1}, root: 2},
		{name: "left right", order: []int64{3, 1, 2}, root: 2},
		{name: "right left", order: []int64{1, 3, 2}, root: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := New[*record]()
			for _, k := range tt.order {
				require.NoError(t, tree.Insert(k, &newRecord("").node))
			}
			checkInvariants(t, tree)
			assert.Equal(t, tt.root, tree.root.key)
			assert.Equal(t, 2, tree.Height())
		})
	}
}

func TestDeleteCases(t *testing.T) {
	build := func(t *testing.T) (*Tree[*record], map[int64]*record) {
		tree := New[*record]()
		records := map[int64]*record{}
		for _, k := range []int64{50, 30, 70, 20, 40, 60, 80, 35} {
			r := newRecord("")
			records[k] = r
			require.NoError(t, tree.Insert(k, &r.node))
		}
		return tree, records
	}

	tests := []struct {
		name string
		key  int64
	}{
		{name: "leaf", key: 80},
		{name: "one child", key: 40},
		{name: "two children", key: 30},
		{name: "root", key: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, records := build(t)

			removed, err := tree.Delete(tt.key)
			require.NoError(t, err)

			assert.Same(t, records[tt.key], removed.Value)
			assert.False(t, removed.Linked())
			assert.Nil(t, tree.Search(tt.key))
			checkInvariants(t, tree)

			for k, r := range records {
				if k == tt.key {
					continue
				}
				n := tree.Search(k)
				require.NotNil(t, n, "key %d lost", k)
				assert.Same(t, r, n.Value, "key %d moved to another record", k)
			}
		})
	}
}

func TestDeleteMissing(t *testing.T) {
	tree := New[*record]()
	_, err := tree.Delete(1)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, tree.Insert(2, &newRecord("").node))
	_, err = tree.Delete(1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, tree.Len())
}

func TestDeletedNodeCanBeReinserted(t *testing.T) {
	tree := New[*record]()
	r := newRecord("r")
	require.NoError(t, tree.Insert(5, &r.node))
	_, err := tree.Delete(5)
	require.NoError(t, err)

	require.NoError(t, tree.Insert(9, &r.node))
	assert.Equal(t, int64(9), r.node.Key())
	assert.Same(t, r, tree.Search(9).Value)
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	tree := New[*record]()
	present := map[int64]*record{}

	for i := 0; i < 2000; i++ {
		key := rng.Int64N(300) - 150
		if _, ok := present[key]; ok && rng.IntN(2) == 0 {
			_, err := tree.Delete(key)
			require.NoError(t, err)
			delete(present, key)
		} else if !ok {
			r := newRecord("")
			require.NoError(t, tree.Insert(key, &r.node))
			present[key] = r
		}
		if i%50 == 0 {
			checkInvariants(t, tree)
		}
	}
	checkInvariants(t, tree)

	want := make([]int64, 0, len(present))
	for k := range present {
		want = append(want, k)
	}
	slices.Sort(want)
	assert.Equal(t, want, keys(tree))
}

func TestAllIsRestartable(t *testing.T) {
	tree := New[*record]()
	for _, k := range []int64{5, 1, 9, 3} {
		require.NoError(t, tree.Insert(k, &newRecord("").node))
	}

	assert.Equal(t, []int64{1, 3, 5, 9}, keys(tree))
	assert.Equal(t, []int64{1, 3, 5, 9}, keys(tree))

	var firstTwo []int64
	for n := range tree.All() {
		firstTwo = append(firstTwo, n.Key())
		if len(firstTwo) == 2 {
			break
		}
	}
	assert.Equal(t, []int64{1, 3}, firstTwo)
}

func TestPrint(t *testing.T) {
	tree := New[*record]()
	var buf bytes.Buffer
	require.NoError(t, tree.Print(&buf, nil))
	assert.Equal(t, "(empty)\n", buf.String())

	for _, k := range []int64{2, 1, 3} {
		r := newRecord(string(rune('a' + k - 1)))
		require.NoError(t, tree.Insert(k, &r.node))
	}
	buf.Reset()
	require.NoError(t, tree.Print(&buf, func(r *record) string { return r.name }))
	assert.Equal(t,
		"    0000000000000003 h=1 c\n"+
			"0000000000000002 h=2 b\n"+
			"    0000000000000001 h=1 a\n",
		buf.String())
}
