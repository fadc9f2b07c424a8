package tree

import (
	"math"
	randv2 "math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildRandomTree(t *testing.T, size int) (*RBTree, map[uint64]*testItem) {
	t.Helper()
	keys := make([]uint64, 0, size)
	for _, i := range randv2.Perm(size) {
		keys = append(keys, uint64(i))
	}
	return insertSequence(t, keys)
}

func TestRBNodeInorderIdentities(t *testing.T) {
	tree, _ := buildRandomTree(t, 200)

	count := 0
	for aux := tree.First(); aux != nil; aux = aux.Next() {
		count++
		if next := aux.Next(); next != nil {
			require.Same(t, aux, next.Prev())
			require.Less(t, itemOf(aux).key, itemOf(next).key)
		} else {
			require.Same(t, aux, tree.Last())
		}
		if prev := aux.Prev(); prev != nil {
			require.Same(t, aux, prev.Next())
		} else {
			require.Same(t, aux, tree.First())
		}
	}
	require.Equal(t, 200, count)
}

func TestRBNodePostorderIdentities(t *testing.T) {
	tree, _ := buildRandomTree(t, 200)

	// Children are visited before their parents, and the walk is the exact
	// inverse of PrevPostorder.
	visited := make(map[*RBNode]bool, 200)
	count := 0
	for aux := tree.FirstPostorder(); aux != nil; aux = aux.NextPostorder() {
		if aux.Left != nil {
			require.True(t, visited[aux.Left])
		}
		if aux.Right != nil {
			require.True(t, visited[aux.Right])
		}
		if next := aux.NextPostorder(); next != nil {
			require.Same(t, aux, next.PrevPostorder())
		} else {
			require.Same(t, aux, tree.Root)
		}
		visited[aux] = true
		count++
	}
	require.Equal(t, 200, count)

	// The reverse walk is a right-to-left pre-order traversal: parents
	// before either child.
	seen := make(map[*RBNode]bool, 200)
	count = 0
	for aux := tree.LastPostorder(); aux != nil; aux = aux.PrevPostorder() {
		if aux != tree.Root {
			require.True(t, seen[aux.Parent()])
		}
		seen[aux] = true
		count++
	}
	require.Equal(t, 200, count)
}

func TestRBNodeDeepestWalks(t *testing.T) {
	tree, _ := buildRandomTree(t, 64)

	ld := tree.Root.LeftDeepest()
	require.Same(t, ld, tree.FirstPostorder())
	require.Nil(t, ld.Left)
	require.Nil(t, ld.Right)

	rd := tree.Root.RightDeepest()
	require.Nil(t, rd.Left)
	require.Nil(t, rd.Right)

	// Leftmost/Rightmost return the node itself when there is nothing to
	// descend into.
	require.Same(t, ld, ld.Leftmost())
	require.Same(t, ld, ld.Rightmost())
	require.Same(t, tree.First(), tree.Root.Leftmost())
	require.Same(t, tree.Last(), tree.Root.Rightmost())
}

func TestRBTreeHeightBound(t *testing.T) {
	for _, size := range []int{1, 7, 100, 1000} {
		tree, _ := buildRandomTree(t, size)
		bound := 2 * int(math.Floor(math.Log2(float64(size+1))))
		if bound < 1 {
			bound = 1
		}
		require.LessOrEqual(t, treeHeight(tree.Root), bound)
	}
}
