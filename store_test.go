// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package addcp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashConsDeduplicatesIdenticalStructure(t *testing.T) {
	s, err := NewADD(5)
	require.NoError(t, err)
	a, err := s.GetVarNode(1, 0, 1)
	require.NoError(t, err)
	b, err := s.GetVarNode(1, 0, 1)
	require.NoError(t, err)
	require.Equal(t, a, b, "identical (level,low,high) triples must share one identifier")
}

func TestGetInternalCollapsesRedundantNode(t *testing.T) {
	s, err := NewADD(5)
	require.NoError(t, err)
	three, err := s.GetConstantNode(3)
	require.NoError(t, err)
	id, err := s.getInternal(1, three, three, 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, three, id, "low == high must collapse to that child")
}

func TestFlushCachesReclaimsUnreachableNodes(t *testing.T) {
	s, err := NewADD(5)
	require.NoError(t, err)
	root, err := s.GetVarNode(1, 0, 1)
	require.NoError(t, err)
	s.AddSpecialNode(root)

	// an orphan node, never anchored.
	_, err = s.GetVarNode(2, 0, 7)
	require.NoError(t, err)

	before := s.size() - s.freenum
	s.FlushCaches(true)
	after := s.size() - s.freenum

	require.Less(t, after, before, "the orphan node must be reclaimed")
	require.Equal(t, int32(1), s.level(root), "the anchored root survives the flush")
}

func TestRemoveSpecialNodeWithoutAddPanics(t *testing.T) {
	s, err := NewADD(2)
	require.NoError(t, err)
	x, err := s.GetVarNode(1, 0, 1)
	require.NoError(t, err)
	require.Panics(t, func() {
		s.RemoveSpecialNode(x)
	})
}

// TestNodeTableResizeGrowsWithoutError exercises the store.go:resize path
// directly: with a minimal initial table (Nodesize pinned to 2*varnum+2),
// building enough distinct variable nodes to exhaust the free list forces
// reserveSlot to grow the arena. A successful resize must let the call that
// triggered it, and every call after it, keep succeeding -- resize() itself
// must report success as nil; kernel.go's errMemory is reserved for a table
// that cannot grow.
func TestNodeTableResizeGrowsWithoutError(t *testing.T) {
	varnum := 20
	s, err := NewADD(varnum, Nodesize(2*varnum+2))
	require.NoError(t, err)
	before := s.size()

	// each variable gets two freshly-valued terminal children, so the
	// number of newly allocated nodes (roughly 3 per variable: two
	// terminals plus the internal node) comfortably exceeds the minimal
	// initial table's free list and forces at least one resize.
	for v := 1; v <= varnum; v++ {
		id, err := s.GetVarNode(v, -float64(v), float64(v)+0.5)
		require.NoError(t, err, "variable %d must allocate even after the table grows", v)
		require.NotEqual(t, -1, id)
	}

	require.Greater(t, s.size(), before, "the node table must have grown")

	// the store must still be fully functional after the resize.
	last, err := s.GetVarNode(varnum, 0, 99)
	require.NoError(t, err)
	require.Equal(t, float64(99), s.value(s.high(last)))
}

func TestSpecialNodeIsReferenceCounted(t *testing.T) {
	s, err := NewADD(2)
	require.NoError(t, err)
	x, err := s.GetVarNode(1, 0, 1)
	require.NoError(t, err)
	s.AddSpecialNode(x)
	s.AddSpecialNode(x)
	s.RemoveSpecialNode(x)
	_, stillSpecial := s.special[x]
	require.True(t, stillSpecial, "one remaining reference keeps the node special")
	s.RemoveSpecialNode(x)
	_, stillSpecial = s.special[x]
	require.False(t, stillSpecial)
}
