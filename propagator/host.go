// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package propagator implements a decision-diagram-based constraint
// propagator on top of addcp.Store: it represents the constraint "the
// diagram rooted at r evaluates to 1" and keeps r synchronized with a host
// solver's trail as Boolean search variables are instantiated and undone.
package propagator

import "github.com/dalzilio/addcp"

// BoolVar is the Boolean variable abstraction a host CP solver must offer
// the propagator (§6). Every method may, in a real host, raise a
// host-specific contradiction; here that surfaces as a plain error.
type BoolVar interface {
	// IsInstantiated reports whether the variable already has a value.
	IsInstantiated() bool
	// Value returns the variable's current value. Only meaningful once
	// IsInstantiated reports true.
	Value() bool
	// RemoveValue removes v from the variable's domain, failing the host
	// search if the domain becomes empty.
	RemoveValue(v bool) error
	// InstantiateTo fixes the variable to v, failing if v is not in its
	// current domain.
	InstantiateTo(v bool) error
}

// RestorerKind tags the payload of a Restorer record (§9 design note: a
// small tagged record replaces a language-specific closure).
type RestorerKind int

const (
	// RestoreRoot restores the propagator's root. For the plain-id ADD
	// propagator the value lives in Root; for the affine AADD propagator it
	// lives in RootRef.
	RestoreRoot RestorerKind = iota
	// ClearSeen clears the "seen" bit for variable index K.
	ClearSeen
)

func (k RestorerKind) String() string {
	if k == ClearSeen {
		return "ClearSeen"
	}
	return "RestoreRoot"
}

// Restorer is one undo record scheduled on the host Trail. Applying it is a
// pure function of the propagator's current state and the record itself,
// with no captured closure state. Only the field matching Kind is
// meaningful: K for ClearSeen, Root/RootRef for RestoreRoot (whichever the
// owning propagator type uses).
type Restorer struct {
	Kind    RestorerKind
	K       int
	Root    int
	RootRef addcp.Ref
}

// Trail is the host's backtracking log. Save schedules r to run, in
// reverse order, when the host undoes back past the current search depth.
// WorldIndex returns the current search depth; a value greater than 1
// means "not at the root" (the initial propagation, run at the root, is
// never trailed, per §5).
type Trail interface {
	Save(r Restorer)
	WorldIndex() int
}
