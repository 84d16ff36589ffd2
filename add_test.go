// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package addcp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

//********************************************************************************************

func TestApplyAlgebraicLaws(t *testing.T) {
	s, err := NewADD(5)
	require.NoError(t, err)
	f, err := s.GetVarNode(1, 0, 1)
	require.NoError(t, err)
	g, err := s.GetVarNode(2, 0, 1)
	require.NoError(t, err)
	h, err := s.GetVarNode(3, 0, 1)
	require.NoError(t, err)

	fg, err := s.ApplyInt(f, g, Sum)
	require.NoError(t, err)
	gf, err := s.ApplyInt(g, f, Sum)
	require.NoError(t, err)
	require.Equal(t, fg, gf, "sum must be commutative")

	gh, err := s.ApplyInt(g, h, Sum)
	require.NoError(t, err)
	left, err := s.ApplyInt(f, gh, Sum)
	require.NoError(t, err)
	right, err := s.ApplyInt(fg, h, Sum)
	require.NoError(t, err)
	require.Equal(t, left, right, "sum must be associative")

	zero, err := s.GetConstantNode(0)
	require.NoError(t, err)
	fz, err := s.ApplyInt(f, zero, Sum)
	require.NoError(t, err)
	require.Equal(t, f, fz, "f + 0 == f")

	one, err := s.GetConstantNode(1)
	require.NoError(t, err)
	fo, err := s.ApplyInt(f, one, Prod)
	require.NoError(t, err)
	require.Equal(t, f, fo, "f * 1 == f")
}

func TestRestrictCommutesWithApply(t *testing.T) {
	s, err := NewADD(5)
	require.NoError(t, err)
	f, err := s.GetVarNode(1, 0, 3)
	require.NoError(t, err)
	g, err := s.GetVarNode(2, 1, 4)
	require.NoError(t, err)

	fg, err := s.ApplyInt(f, g, Sum)
	require.NoError(t, err)
	left, err := s.Restrict(fg, 1, RestrictHigh)
	require.NoError(t, err)

	fr, err := s.Restrict(f, 1, RestrictHigh)
	require.NoError(t, err)
	gr, err := s.Restrict(g, 1, RestrictHigh)
	require.NoError(t, err)
	right, err := s.ApplyInt(fr, gr, Sum)
	require.NoError(t, err)

	require.Equal(t, left, right)
}

// TestSumIndicatorScenario implements end-to-end scenario 1: build the sum
// of five Boolean indicators and check its bounds and exact node count.
func TestSumIndicatorScenario(t *testing.T) {
	s, err := NewADD(10)
	require.NoError(t, err)
	sum, err := s.GetConstantNode(0)
	require.NoError(t, err)
	for v := 1; v <= 5; v++ {
		x, err := s.GetVarNode(v, 0, 1)
		require.NoError(t, err)
		sum, err = s.ApplyInt(sum, x, Sum)
		require.NoError(t, err)
	}
	require.Equal(t, 0.0, s.GetMinValue(sum))
	require.Equal(t, 5.0, s.GetMaxValue(sum))
	require.Equal(t, 16, s.CountExactNodes(sum))
}

// TestThresholdScenario implements end-to-end scenario 2.
func TestThresholdScenario(t *testing.T) {
	s, err := NewADD(10)
	require.NoError(t, err)
	sum, err := s.GetConstantNode(0)
	require.NoError(t, err)
	var xs [6]int
	for v := 1; v <= 5; v++ {
		x, err := s.GetVarNode(v, 0, 1)
		require.NoError(t, err)
		xs[v] = x
		sum, err = s.ApplyInt(sum, x, Sum)
		require.NoError(t, err)
	}
	three, err := s.GetConstantNode(3)
	require.NoError(t, err)
	g, err := s.ApplyInt(sum, three, GreaterEq)
	require.NoError(t, err)
	require.Equal(t, 0.0, s.GetMinValue(g))
	require.Equal(t, 1.0, s.GetMaxValue(g))

	// restrict to exactly two of x_1..x_5 set to 1: evaluates to 0.
	two := g
	for v, val := range map[int]RestrictMode{1: RestrictHigh, 2: RestrictHigh, 3: RestrictLow, 4: RestrictLow, 5: RestrictLow} {
		two, err = s.Restrict(two, v, val)
		require.NoError(t, err)
	}
	require.Equal(t, 0.0, s.value(two))

	// exactly three of x_1..x_5 set to 1: evaluates to 1.
	three_ := g
	for v, val := range map[int]RestrictMode{1: RestrictHigh, 2: RestrictHigh, 3: RestrictHigh, 4: RestrictLow, 5: RestrictLow} {
		three_, err = s.Restrict(three_, v, val)
		require.NoError(t, err)
	}
	require.Equal(t, 1.0, s.value(three_))
}

func TestDivisionByTerminalZeroIsFatal(t *testing.T) {
	s, err := NewADD(2)
	require.NoError(t, err)
	f, err := s.GetVarNode(1, 0, 1)
	require.NoError(t, err)
	zero, err := s.GetConstantNode(0)
	require.NoError(t, err)
	require.Panics(t, func() {
		_, _ = s.ApplyInt(f, zero, Div)
	})
}

func TestApplyRejectsUnknownIdentifier(t *testing.T) {
	s, err := NewADD(2)
	require.NoError(t, err)
	f, err := s.GetVarNode(1, 0, 1)
	require.NoError(t, err)
	require.Panics(t, func() {
		_, _ = s.ApplyInt(f, 99999, Sum)
	})
}

func TestEncodeBoundedSum(t *testing.T) {
	s, err := NewADD(3)
	require.NoError(t, err)
	id, err := EncodeBoundedSum(s, []int{1, 2, 3}, 1, 5)
	require.NoError(t, err)
	require.Equal(t, 1.0, s.GetMaxValue(id))
}
