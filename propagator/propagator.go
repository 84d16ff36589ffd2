// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package propagator

import (
	"github.com/dalzilio/addcp"
	"go.uber.org/zap"
)

// AADDPropagator represents the constraint "root evaluates to 1" over an
// AADD store, multiplying root by the indicator reference of each newly
// instantiated host variable and shaving the remaining ones (§4.6).
type AADDPropagator struct {
	store  *addcp.Store
	vars   []BoolVar
	trail  Trail
	logger *zap.Logger

	root   addcp.Ref
	seen   []bool
	idX    []addcp.Ref
	idNotX []addcp.Ref

	state State
}

// NewAADDPropagator builds a propagator for root over the given host
// variables, in the same order as the AADD store's variable order.
func NewAADDPropagator(store *addcp.Store, root addcp.Ref, vars []BoolVar, trail Trail, logger *zap.Logger) *AADDPropagator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AADDPropagator{
		store:  store,
		vars:   vars,
		trail:  trail,
		logger: logger,
		root:   root,
		seen:   make([]bool, len(vars)),
		idX:    make([]addcp.Ref, len(vars)),
		idNotX: make([]addcp.Ref, len(vars)),
	}
}

// Post registers root as a special node, precomputes every variable's
// indicator references, and transitions to Idle. Posting is not trailed:
// it happens once, at the search root.
func (p *AADDPropagator) Post() error {
	p.store.AddSpecialNode(p.root.Node)
	one := p.store.ConstantRef(1)
	for k := range p.vars {
		xk, err := p.store.VarRef(k + 1)
		if err != nil {
			return err
		}
		notxk, err := p.store.ApplyAffine(one, xk, addcp.Minus)
		if err != nil {
			return err
		}
		p.idX[k] = xk
		p.idNotX[k] = notxk
		p.store.AddSpecialNode(xk.Node)
		p.store.AddSpecialNode(notxk.Node)
	}
	p.state = Idle
	return nil
}

// State returns the propagator's current lifecycle state.
func (p *AADDPropagator) State() State { return p.state }

// Root returns the propagator's current root reference.
func (p *AADDPropagator) Root() addcp.Ref { return p.root }

func (p *AADDPropagator) rootID() int { return p.root.Node }

func (p *AADDPropagator) trailed() bool {
	return p.trail.WorldIndex() > 1
}

// Propagate runs one acknowledge-then-shave pass (§4.6). It returns a
// *addcp.ContradictionError when the constraint is violated; an error
// returned by a host variable is passed through unchanged.
func (p *AADDPropagator) Propagate() error {
	p.state = Propagating
	if _, hi := p.store.BoundsAffine(p.root); hi == 0 {
		p.state = Failed
		return addcp.NewContradiction(p.rootID(), "violated before acknowledge")
	}
	for k, v := range p.vars {
		if p.seen[k] || !v.IsInstantiated() {
			continue
		}
		ind := p.idNotX[k]
		if v.Value() {
			ind = p.idX[k]
		}
		if err := p.acknowledge(k, ind); err != nil {
			return err
		}
		if _, hi := p.store.BoundsAffine(p.root); hi == 0 {
			p.state = Failed
			return addcp.NewContradiction(p.rootID(), "violated for variable %d", k)
		}
	}
	for k, v := range p.vars {
		if p.seen[k] {
			continue
		}
		t0, err := p.store.ApplyAffine(p.root, p.idNotX[k], addcp.Prod)
		if err != nil {
			return err
		}
		if _, hi := p.store.BoundsAffine(t0); hi == 0 {
			if err := v.InstantiateTo(true); err != nil {
				p.state = Failed
				return err
			}
			continue
		}
		t1, err := p.store.ApplyAffine(p.root, p.idX[k], addcp.Prod)
		if err != nil {
			return err
		}
		if _, hi := p.store.BoundsAffine(t1); hi == 0 {
			if err := v.InstantiateTo(false); err != nil {
				p.state = Failed
				return err
			}
		}
	}
	p.store.FlushCaches(false)
	if lo, _ := p.store.BoundsAffine(p.root); lo == 1 {
		p.state = Entailed
	} else {
		p.state = Idle
	}
	return nil
}

func (p *AADDPropagator) acknowledge(k int, ind addcp.Ref) error {
	old := p.root
	newRoot, err := p.store.ApplyAffine(p.root, ind, addcp.Prod)
	if err != nil {
		return err
	}
	if p.trailed() {
		p.store.AddSpecialNode(newRoot.Node)
		p.trail.Save(Restorer{Kind: RestoreRoot, RootRef: old})
		p.trail.Save(Restorer{Kind: ClearSeen, K: k})
		p.store.RemoveSpecialNode(old.Node)
	} else {
		p.store.AddSpecialNode(newRoot.Node)
		p.store.RemoveSpecialNode(old.Node)
	}
	p.root = newRoot
	p.seen[k] = true
	return nil
}

// Undo applies one restorer record popped off the trail during backtrack.
func (p *AADDPropagator) Undo(r Restorer) {
	switch r.Kind {
	case RestoreRoot:
		p.store.RemoveSpecialNode(p.root.Node)
		p.store.AddSpecialNode(r.RootRef.Node)
		p.root = r.RootRef
		p.state = Idle
	case ClearSeen:
		p.seen[r.K] = false
	}
}

// ADDPropagator is the alternative propagator of §4.6: same entailment
// contract as AADDPropagator, but it derives forced values with a single
// depth-first traversal under the current partial assignment instead of a
// double apply per unseen variable, and folds proven values back into root
// via Restrict rather than a product with an indicator.
type ADDPropagator struct {
	store *addcp.Store
	vars  []BoolVar
	trail Trail

	root int
	seen []bool

	state State
}

// NewADDPropagator builds an ADD-variant propagator for root.
func NewADDPropagator(store *addcp.Store, root int, vars []BoolVar, trail Trail) *ADDPropagator {
	return &ADDPropagator{
		store: store,
		vars:  vars,
		trail: trail,
		root:  root,
		seen:  make([]bool, len(vars)),
	}
}

// Post registers root as a special node and transitions to Idle.
func (p *ADDPropagator) Post() error {
	p.store.AddSpecialNode(p.root)
	p.state = Idle
	return nil
}

// State returns the propagator's current lifecycle state.
func (p *ADDPropagator) State() State { return p.state }

// Root returns the propagator's current root identifier.
func (p *ADDPropagator) Root() int { return p.root }

func (p *ADDPropagator) rootID() int { return p.root }

func (p *ADDPropagator) trailed() bool {
	return p.trail.WorldIndex() > 1
}

// support records, for a variable level, whether some path from the root
// reaches a nonzero terminal with that variable set to 0 (Low) or 1 (High).
type support struct {
	low, high bool
}

// Propagate runs the acknowledge step, then a single DFS marking pass that
// determines which (variable, value) pairs are supported by some path to a
// nonzero terminal, and finally folds any newly forced variable into root
// via Restrict (§4.6, "Alternative propagator").
func (p *ADDPropagator) Propagate() error {
	p.state = Propagating
	if p.store.GetMaxValue(p.root) == 0 {
		p.state = Failed
		return addcp.NewContradiction(p.rootID(), "violated before acknowledge")
	}
	for k, v := range p.vars {
		if p.seen[k] || !v.IsInstantiated() {
			continue
		}
		mode := addcp.RestrictLow
		if v.Value() {
			mode = addcp.RestrictHigh
		}
		if err := p.acknowledge(k, mode); err != nil {
			return err
		}
		if p.store.GetMaxValue(p.root) == 0 {
			p.state = Failed
			return addcp.NewContradiction(p.rootID(), "violated for variable %d", k)
		}
	}
	supp := make([]support, len(p.vars)+1)
	visited := make(map[int]bool)
	p.walk(p.root, supp, visited)
	for k, v := range p.vars {
		if p.seen[k] || v.IsInstantiated() {
			continue
		}
		s := supp[k+1]
		switch {
		case s.low && !s.high:
			if err := v.InstantiateTo(false); err != nil {
				p.state = Failed
				return err
			}
			if err := p.acknowledge(k, addcp.RestrictLow); err != nil {
				return err
			}
		case s.high && !s.low:
			if err := v.InstantiateTo(true); err != nil {
				p.state = Failed
				return err
			}
			if err := p.acknowledge(k, addcp.RestrictHigh); err != nil {
				return err
			}
		}
	}
	if p.store.GetMinValue(p.root) == 1 {
		p.state = Entailed
	} else {
		p.state = Idle
	}
	return nil
}

// walk explores id depth-first, recording for every level between a node
// and its children which values are supported by a path reaching a nonzero
// terminal. Skipped levels (an edge spanning more than one level in the
// order) support both values, since the function does not depend on them
// along that path. It returns whether id itself reaches a nonzero
// terminal, and memoizes per-id results in visited so shared sub-diagrams
// are walked once.
func (p *ADDPropagator) walk(id int, supp []support, visited map[int]bool) bool {
	if p.store.IsTerminalNode(id) {
		reaches := p.store.GetMaxValue(id) != 0
		visited[id] = reaches
		return reaches
	}
	if v, ok := visited[id]; ok {
		return v
	}
	level := int(p.store.Level(id))
	low := p.store.LowChild(id)
	high := p.store.HighChild(id)
	lowOK := p.walk(low, supp, visited)
	highOK := p.walk(high, supp, visited)
	if lowOK {
		supp[level].low = true
		for v := level + 1; v < int(p.store.Level(low)); v++ {
			supp[v].low = true
			supp[v].high = true
		}
	}
	if highOK {
		supp[level].high = true
		for v := level + 1; v < int(p.store.Level(high)); v++ {
			supp[v].low = true
			supp[v].high = true
		}
	}
	ok := lowOK || highOK
	visited[id] = ok
	return ok
}

func (p *ADDPropagator) acknowledge(k int, mode addcp.RestrictMode) error {
	old := p.root
	newRoot, err := p.store.Restrict(p.root, k+1, mode)
	if err != nil {
		return err
	}
	if p.trailed() {
		p.store.AddSpecialNode(newRoot)
		p.trail.Save(Restorer{Kind: RestoreRoot, Root: old})
		p.trail.Save(Restorer{Kind: ClearSeen, K: k})
		p.store.RemoveSpecialNode(old)
	} else {
		p.store.AddSpecialNode(newRoot)
		p.store.RemoveSpecialNode(old)
	}
	p.root = newRoot
	p.seen[k] = true
	return nil
}

// Undo applies one restorer record popped off the trail during backtrack.
func (p *ADDPropagator) Undo(r Restorer) {
	switch r.Kind {
	case RestoreRoot:
		p.store.RemoveSpecialNode(p.root)
		p.store.AddSpecialNode(r.Root)
		p.root = r.Root
		p.state = Idle
	case ClearSeen:
		p.seen[r.K] = false
	}
}
