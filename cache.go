// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package addcp

// opCache memoizes binary operations on plain node identifiers — the ADD
// engine's applyBinary (restrict has its own restrictCache, and min/max are
// memoized per call by Bounds). It follows the teacher's
// fixed-size, collision-evicting array cache (data4ncache/applycache in the
// BuDDy-derived original): a lookup recomputes the slot from the key via
// pairHash3 and only returns a hit if the stored key still matches, so a
// collision simply evicts the older entry instead of corrupting a result.
//
// For a commutative op, get/set first sort (left,right) into a canonical
// order so ApplyInt(f,g,op) and ApplyInt(g,f,op) resolve to the same slot
// (§4.2: "canonical imposes a deterministic ordering on commutative ops").
type opCache struct {
	table  []opEntry
	ratio  int
	hit    int
	miss   int
}

type opEntry struct {
	valid       bool
	op          int
	left, right int
	res         int
}

func newOpCache(size, ratio int) *opCache {
	if size <= 0 {
		size = 10000
	}
	c := &opCache{ratio: ratio}
	c.table = make([]opEntry, primeGte(size))
	return c
}

func (c *opCache) reset() {
	for i := range c.table {
		c.table[i].valid = false
	}
}

func (c *opCache) resize(nodesize int) {
	if c.ratio <= 0 {
		c.reset()
		return
	}
	size := primeGte((nodesize * c.ratio) / 100)
	c.table = make([]opEntry, size)
}

// canonicalOperands sorts (left,right) into a deterministic order when op is
// commutative, so both operand orderings hash to the same slot; a
// non-commutative op is left untouched.
func canonicalOperands(op Op, left, right int) (int, int) {
	if op.isCommutative() && left > right {
		return right, left
	}
	return left, right
}

func (c *opCache) get(op, left, right int) (int, bool) {
	left, right = canonicalOperands(Op(op), left, right)
	slot := &c.table[pairHash3(left, right, op, len(c.table))]
	if slot.valid && slot.op == op && slot.left == left && slot.right == right {
		c.hit++
		return slot.res, true
	}
	c.miss++
	return 0, false
}

func (c *opCache) set(op, left, right, res int) int {
	left, right = canonicalOperands(Op(op), left, right)
	c.table[pairHash3(left, right, op, len(c.table))] = opEntry{true, op, left, right, res}
	return res
}

// restrictKey identifies one restrictRec call: the node, the variable being
// fixed, and which branch is kept.
type restrictKey struct {
	f    int
	v    int32
	mode RestrictMode
}

type restrictCache struct {
	table map[restrictKey]int
}

func newRestrictCache() *restrictCache {
	return &restrictCache{table: make(map[restrictKey]int)}
}

func (c *restrictCache) reset() {
	c.table = make(map[restrictKey]int)
}

func (c *restrictCache) get(f int, v int32, mode RestrictMode) (int, bool) {
	id, ok := c.table[restrictKey{f, v, mode}]
	return id, ok
}

func (c *restrictCache) set(f int, v int32, mode RestrictMode, res int) int {
	c.table[restrictKey{f, v, mode}] = res
	return res
}

// affineOpKey is the memoization key for the AADD engine's apply: unlike the
// ADD cache, both operands are full references and so the key must fold in
// their affine factors (§4.4 — "keys include affine factors for AADD").
type affineOpKey struct {
	op                 Op
	leftC, leftB       float64
	left               int
	rightC, rightB     float64
	right              int
}

type affineOpCache struct {
	table map[affineOpKey]Ref
	hit   int
	miss  int
}

func newAffineOpCache() *affineOpCache {
	return &affineOpCache{table: make(map[affineOpKey]Ref)}
}

func (c *affineOpCache) reset() {
	c.table = make(map[affineOpKey]Ref)
}

// canonicalAffineOperands orders (left,right) by (Node,C,B) when op is
// commutative, the same deterministic-ordering guarantee canonicalOperands
// gives the plain-id ADD cache, folded over the full affine reference.
func canonicalAffineOperands(op Op, left, right Ref) (Ref, Ref) {
	if op.isCommutative() && refLess(right, left) {
		return right, left
	}
	return left, right
}

func refLess(a, b Ref) bool {
	if a.Node != b.Node {
		return a.Node < b.Node
	}
	if a.C != b.C {
		return a.C < b.C
	}
	return a.B < b.B
}

func (c *affineOpCache) get(op Op, left, right Ref) (Ref, bool) {
	left, right = canonicalAffineOperands(op, left, right)
	k := affineOpKey{op, left.C, left.B, left.Node, right.C, right.B, right.Node}
	v, ok := c.table[k]
	if ok {
		c.hit++
	} else {
		c.miss++
	}
	return v, ok
}

func (c *affineOpCache) set(op Op, left, right, res Ref) Ref {
	left, right = canonicalAffineOperands(op, left, right)
	k := affineOpKey{op, left.C, left.B, left.Node, right.C, right.B, right.Node}
	c.table[k] = res
	return res
}

// affineRestrictKey memoizes AADD restrict: the full reference being
// restricted (affine factors included, since two refs over the same node
// but different factors restrict to different results), the variable, and
// the branch kept.
type affineRestrictKey struct {
	c, b float64
	node int
	v    int32
	mode RestrictMode
}

type affineRestrictCache struct {
	table map[affineRestrictKey]Ref
}

func newAffineRestrictCache() *affineRestrictCache {
	return &affineRestrictCache{table: make(map[affineRestrictKey]Ref)}
}

func (c *affineRestrictCache) reset() {
	c.table = make(map[affineRestrictKey]Ref)
}

func (c *affineRestrictCache) get(ref Ref, v int32, mode RestrictMode) (Ref, bool) {
	k := affineRestrictKey{ref.C, ref.B, ref.Node, v, mode}
	r, ok := c.table[k]
	return r, ok
}

func (c *affineRestrictCache) set(ref Ref, v int32, mode RestrictMode, res Ref) Ref {
	k := affineRestrictKey{ref.C, ref.B, ref.Node, v, mode}
	c.table[k] = res
	return res
}
