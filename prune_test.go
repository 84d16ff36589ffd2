// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package addcp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSumOfFive(t *testing.T, s *Store) int {
	t.Helper()
	sum, err := s.GetConstantNode(0)
	require.NoError(t, err)
	for v := 1; v <= 5; v++ {
		x, err := s.GetVarNode(v, 0, 1)
		require.NoError(t, err)
		sum, err = s.ApplyInt(sum, x, Sum)
		require.NoError(t, err)
	}
	return sum
}

// TestPruneLowerBoundScenario implements end-to-end scenario 3.
func TestPruneLowerBoundScenario(t *testing.T) {
	s, err := NewADD(10)
	require.NoError(t, err)
	f := buildSumOfFive(t, s)
	lb, err := s.PruneNodes(f, PruneMin, 2)
	require.NoError(t, err)

	allOnes := lb
	for v := 1; v <= 5; v++ {
		allOnes, err = s.Restrict(allOnes, v, RestrictHigh)
		require.NoError(t, err)
	}
	require.LessOrEqual(t, s.value(allOnes), 5.0)

	allZeros := lb
	for v := 1; v <= 5; v++ {
		allZeros, err = s.Restrict(allZeros, v, RestrictLow)
		require.NoError(t, err)
	}
	require.GreaterOrEqual(t, s.value(allZeros), 0.0)
	require.LessOrEqual(t, s.value(allZeros), 0.0)
}

// TestOverRelaxedComparisonScenario implements end-to-end scenario 4.
func TestOverRelaxedComparisonScenario(t *testing.T) {
	s, err := NewADD(10)
	require.NoError(t, err)
	f := buildSumOfFive(t, s)
	ub, err := s.PruneNodes(f, PruneMax, 2)
	require.NoError(t, err)
	three, err := s.GetConstantNode(3)
	require.NoError(t, err)
	gOver, err := s.ApplyInt(ub, three, GreaterEq)
	require.NoError(t, err)

	allOnes := gOver
	for v := 1; v <= 5; v++ {
		allOnes, err = s.Restrict(allOnes, v, RestrictHigh)
		require.NoError(t, err)
	}
	require.Equal(t, 1.0, s.value(allOnes))
}

func TestPruneBoundsHoldPointwise(t *testing.T) {
	s, err := NewADD(10)
	require.NoError(t, err)
	f := buildSumOfFive(t, s)
	for _, mode := range []PruneMode{PruneMin, PruneMax, PruneAvg} {
		pruned, err := s.PruneNodes(f, mode, 1)
		require.NoError(t, err)
		lo, hi := s.Bounds(pruned)
		flo, fhi := s.Bounds(f)
		switch mode {
		case PruneMin:
			require.LessOrEqual(t, lo, flo)
			require.LessOrEqual(t, hi, fhi)
		case PruneMax:
			require.GreaterOrEqual(t, lo, flo)
			require.GreaterOrEqual(t, hi, fhi)
		case PruneAvg:
			require.InDelta(t, flo, lo, 1.0)
			require.InDelta(t, fhi, hi, 1.0)
		}
	}
}
