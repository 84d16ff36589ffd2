// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package addcp

import (
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
)

// Store is the arena of internal and terminal nodes for one family of
// diagrams (ADD or AADD) built over a single fixed variable order. It owns
// structural canonicalization (hash-cons), the special-node root-anchoring
// set, and the operation caches; see §4.1 and §4.4 of the design.
//
// A Store is safe for use from a single goroutine at a time; the embedded
// mutex exists so a host can serialize access from multiple goroutines, not
// to support internal parallel propagation (a declared Non-goal).
type Store struct {
	sync.RWMutex

	kind   Kind
	varnum int32

	nodes       []node
	unique      map[nodeKey]int
	termval     []float64 // meaningful only at terminal indices
	constUnique map[int64]int

	freepos int
	freenum int
	next    []int // free-list chaining, parallel to nodes

	special map[int]int32 // id -> reference count, the "special-node" set

	produced int // total nodes ever allocated

	epsilon         float64
	minfreenodes    int
	maxnodesize     int
	maxnodeincrease int

	pruneMode  PruneMode
	pruneError float64

	applyCache    *opCache
	restrictCache *restrictCache
	affineCache   *affineOpCache
	affineRestrictCache *affineRestrictCache
	logger        *zap.Logger

	metrics *storeMetrics

	aaddTerminal int // the single canonical AADD terminal, KindAADD only
}

// NewADD creates a Store holding real-valued ADD terminals over varnum
// Boolean variables numbered 1..varnum.
func NewADD(varnum int, opts ...Option) (*Store, error) {
	return newStore(KindADD, varnum, opts...)
}

// NewAADD creates a Store holding affine-extended diagrams over varnum
// Boolean variables numbered 1..varnum.
func NewAADD(varnum int, opts ...Option) (*Store, error) {
	return newStore(KindAADD, varnum, opts...)
}

func newStore(kind Kind, varnum int, opts ...Option) (*Store, error) {
	if varnum < 1 || varnum > int(_MAXVAR) {
		return nil, fmt.Errorf("addcp: bad number of variables (%d)", varnum)
	}
	c := makeconfigs(varnum)
	for _, f := range opts {
		f(c)
	}
	s := &Store{
		kind:            kind,
		varnum:          int32(varnum),
		epsilon:         c.epsilon,
		minfreenodes:    c.minfreenodes,
		maxnodesize:     c.maxnodesize,
		maxnodeincrease: c.maxnodeincrease,
		pruneMode:       c.pruneMode,
		pruneError:      c.pruneError,
		logger:          c.logger,
	}
	size := primeGte(c.nodesize)
	s.nodes = make([]node, size)
	s.next = make([]int, size)
	s.termval = make([]float64, size)
	s.unique = make(map[nodeKey]int, size)
	s.constUnique = make(map[int64]int, size)
	s.special = make(map[int]int32)
	for i := 0; i < size-1; i++ {
		s.next[i] = i + 1
	}
	s.next[size-1] = 0
	s.freepos = 0
	s.freenum = size
	if kind == KindAADD {
		id, err := s.allocTerminal(1)
		if err != nil {
			return nil, err
		}
		s.aaddTerminal = id
		s.special[id] = _MAXSPECIAL
	} else {
		// reserve canonical 0.0 and 1.0 so the common Boolean-indicator case
		// is cheap and predictable.
		zero, err := s.allocTerminal(0)
		if err != nil {
			return nil, err
		}
		one, err := s.allocTerminal(1)
		if err != nil {
			return nil, err
		}
		s.special[zero] = _MAXSPECIAL
		s.special[one] = _MAXSPECIAL
	}
	s.applyCache = newOpCache(c.cachesize, c.cacheratio)
	s.restrictCache = newRestrictCache()
	s.affineCache = newAffineOpCache()
	s.affineRestrictCache = newAffineRestrictCache()
	s.metrics = newStoreMetrics()
	return s, nil
}

// Varnum returns the number of Boolean variables in the store's fixed order.
func (s *Store) Varnum() int {
	return int(s.varnum)
}

// Kind reports whether this store holds ADD or AADD diagrams.
func (s *Store) Kind() Kind {
	return s.kind
}

// CountExactNodes returns the number of distinct nodes reachable from id.
func (s *Store) CountExactNodes(id int) int {
	return s.countExactNodes(id)
}

// Size returns the current capacity of the node table.
func (s *Store) Size() int {
	return s.size()
}

// allocTerminal allocates a fresh terminal node for value v, bypassing
// hash-cons lookup (used only during construction for the reserved slots).
func (s *Store) allocTerminal(v float64) (int, error) {
	id, err := s.reserveSlot()
	if err != nil {
		return -1, err
	}
	s.nodes[id] = node{level: s.varnum + 1, low: id, high: id}
	s.termval[id] = v
	s.constUnique[s.terminalKey(v)] = id
	return id, nil
}

func (s *Store) terminalKey(v float64) int64 {
	if s.epsilon <= 0 {
		return int64(math.Float64bits(v))
	}
	return int64(math.Round(v / s.epsilon))
}

func (s *Store) reserveSlot() (int, error) {
	if s.freepos == 0 && s.freenum == 0 {
		if err := s.resize(); err != nil {
			return -1, err
		}
	}
	id := s.freepos
	s.freepos = s.next[id]
	s.freenum--
	s.produced++
	return id, nil
}

// getConstant returns the canonical terminal for value v, within the
// store's epsilon tolerance (data model invariant 5).
func (s *Store) getConstant(v float64) (int, error) {
	s.Lock()
	defer s.Unlock()
	if s.kind == KindAADD {
		// for AADD the constant v is never a raw node: it is represented by
		// the reference (0, v, aaddTerminal). Callers that need a bare
		// terminal id (e.g. internal plumbing) get the canonical terminal.
		return s.aaddTerminal, nil
	}
	key := s.terminalKey(v)
	if id, ok := s.constUnique[key]; ok {
		s.metrics.hashconsHit()
		return id, nil
	}
	s.metrics.hashconsMiss()
	id, err := s.reserveSlot()
	if err != nil {
		return -1, err
	}
	s.nodes[id] = node{level: s.varnum + 1, low: id, high: id}
	s.termval[id] = v
	s.constUnique[key] = id
	return id, nil
}

// getInternal returns the existing node for (level, low, high) if the
// reduction key is already registered, or allocates a fresh one. Both
// reduction rules of §3 are enforced here: low == high collapses to that
// child, and structural duplicates are never created.
func (s *Store) getInternal(level int32, low, high int, cLow, cHigh, bHigh float64) (int, error) {
	if low == high && cLow == cHigh && bHigh == 0 {
		return low, nil
	}
	s.Lock()
	defer s.Unlock()
	key := nodeKey{level, low, high, cLow, cHigh, bHigh}
	if id, ok := s.unique[key]; ok {
		s.metrics.hashconsHit()
		return id, nil
	}
	s.metrics.hashconsMiss()
	id, err := s.reserveSlot()
	if err != nil {
		return -1, err
	}
	s.nodes[id] = node{level: level, low: low, high: high, cLow: cLow, cHigh: cHigh, bHigh: bHigh}
	s.unique[key] = id
	return id, nil
}

// AddSpecialNode registers id as a root anchor, protecting it (and every
// node reachable from it) from FlushCaches. Registration is reference
// counted: the same id may be added N times and must be removed N times.
func (s *Store) AddSpecialNode(id int) {
	s.Lock()
	defer s.Unlock()
	s.special[id]++
}

// RemoveSpecialNode decrements id's special-node reference count, dropping
// the entry once it reaches zero. Removing an id that was never added, or
// removing it more times than it was added, is an invariant violation.
func (s *Store) RemoveSpecialNode(id int) {
	s.Lock()
	defer s.Unlock()
	n, ok := s.special[id]
	if !ok || n <= 0 {
		s.logger.Error("removeSpecialNode on an id with no special references", zap.Int("id", id))
		panic(fmt.Errorf("addcp: removeSpecialNode(%d): not a special node", id))
	}
	if n >= _MAXSPECIAL {
		return // reserved constants are pinned forever
	}
	if n == 1 {
		delete(s.special, id)
		return
	}
	s.special[id] = n - 1
}

// FlushCaches reclaims every node not reachable from a special node and
// empties the operation caches. When rebuildHashCons is true the hash-cons
// tables are rebuilt from the surviving nodes; otherwise they are kept and
// only the entries of collected nodes are removed. If less than minfreenodes
// percent of the table is free afterwards, the table is resized.
func (s *Store) FlushCaches(rebuildHashCons bool) {
	s.Lock()
	defer s.Unlock()
	s.applyCache.reset()
	s.restrictCache.reset()
	s.affineCache.reset()
	s.affineRestrictCache.reset()
	for id := range s.special {
		s.markrec(id)
	}
	s.freepos = 0
	s.freenum = 0
	newUnique := make(map[nodeKey]int, len(s.unique))
	newConst := make(map[int64]int, len(s.constUnique))
	for n := len(s.nodes) - 1; n >= 0; n-- {
		v := &s.nodes[n]
		if v.mark {
			v.mark = false
			if rebuildHashCons {
				if v.isTerminal() {
					newConst[s.terminalKey(s.termval[n])] = n
				} else {
					newUnique[v.key()] = n
				}
			}
		} else {
			if !rebuildHashCons {
				if v.isTerminal() {
					if k := s.terminalKey(s.termval[n]); s.constUnique[k] == n {
						delete(s.constUnique, k)
					}
				} else if k := v.key(); s.unique[k] == n {
					delete(s.unique, k)
				}
			}
			s.next[n] = s.freepos
			s.freepos = n
			s.freenum++
		}
	}
	if rebuildHashCons {
		s.unique = newUnique
		s.constUnique = newConst
	}
	if s.freenum*100 < len(s.nodes)*s.minfreenodes {
		_ = s.resize() // errMemory only means the table is already at its cap
	}
	s.metrics.gc()
	s.logger.Debug("flushCaches complete", zap.Int("free", s.freenum), zap.Int("total", len(s.nodes)))
}

func (s *Store) markrec(id int) {
	n := &s.nodes[id]
	if n.mark {
		return
	}
	n.mark = true
	if !n.isTerminal() {
		s.markrec(n.low)
		s.markrec(n.high)
	}
}

func (s *Store) resize() error {
	old := len(s.nodes)
	size := old << 1
	if s.maxnodeincrease > 0 && size > old+s.maxnodeincrease {
		size = old + s.maxnodeincrease
	}
	if s.maxnodesize > 0 {
		if old >= s.maxnodesize {
			return errMemory
		}
		if size > s.maxnodesize {
			size = s.maxnodesize
		}
	}
	size = primeGte(size)
	if size <= old {
		return errMemory
	}
	s.logger.Debug("resizing node table", zap.Int("from", old), zap.Int("to", size))
	nodes := make([]node, size)
	copy(nodes, s.nodes)
	next := make([]int, size)
	copy(next, s.next)
	termval := make([]float64, size)
	copy(termval, s.termval)
	for i := old; i < size-1; i++ {
		next[i] = i + 1
	}
	next[size-1] = s.freepos
	s.nodes = nodes
	s.next = next
	s.termval = termval
	s.freepos = old
	s.freenum += size - old
	if s.applyCache != nil {
		s.applyCache.resize(size)
	}
	return nil
}

func (s *Store) checkNode(id int) error {
	if id < 0 || id >= len(s.nodes) {
		s.fatal(errUnknownNode, "node %d", id)
	}
	return nil
}

func (s *Store) level(id int) int32 {
	return s.nodes[id].level
}

func (s *Store) low(id int) int {
	return s.nodes[id].low
}

func (s *Store) high(id int) int {
	return s.nodes[id].high
}

func (s *Store) isTerminal(id int) bool {
	return s.nodes[id].isTerminal()
}

func (s *Store) value(id int) float64 {
	return s.termval[id]
}

// size returns the current capacity of the node table.
func (s *Store) size() int {
	return len(s.nodes)
}

// countExactNodes returns the number of distinct, reachable nodes rooted at
// id (each node counted once even if reached through several paths).
func (s *Store) countExactNodes(id int) int {
	s.RLock()
	defer s.RUnlock()
	seen := make(map[int]bool)
	var walk func(int)
	walk = func(n int) {
		if seen[n] {
			return
		}
		seen[n] = true
		if !s.nodes[n].isTerminal() {
			walk(s.nodes[n].low)
			walk(s.nodes[n].high)
		}
	}
	walk(id)
	return len(seen)
}
