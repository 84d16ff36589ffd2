// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package addcp

import (
	"errors"
)

// _MINFREENODES is the minimal number of nodes (%) that has to be left after a
// flush unless a resize should be done.
const _MINFREENODES int = 20

// _MAXVAR is the maximal number of levels in a diagram. We use only the first
// 21 bits for encoding levels (so also the max number of variables); terminals
// sit one level beyond the last variable.
const _MAXVAR int32 = 0x1FFFFF

// _MAXSPECIAL is the maximal value of a special-node reference count.
const _MAXSPECIAL int32 = 0x3FFFFFFF

// _DEFAULTMAXNODEINC is the default value for the maximal increase in the
// number of nodes during a resize. It is approx. one million nodes.
const _DEFAULTMAXNODEINC int = 1 << 20

// _DEFAULTEPSILON is the default absolute tolerance used when canonicalizing
// terminal values (ADD) and when testing affine factors for near-zero
// collapse (AADD). See invariant 5 in the data model.
const _DEFAULTEPSILON float64 = 1e-10

var errMemory = errors.New("addcp: unable to free memory or resize the node table")

// errUnknownNode marks an invariant violation: the caller used an identifier
// that the store never produced. This is always a bug in the caller's root
// management, never a recoverable condition.
var errUnknownNode = errors.New("addcp: unknown node identifier")

// errForeignStore marks an invariant violation: an operation mixed node
// identifiers coming from two different stores.
var errForeignStore = errors.New("addcp: operands belong to different stores")

// errDivByZero is raised when dividing by a diagram that contains a terminal
// zero on some branch.
var errDivByZero = errors.New("addcp: division by a diagram containing terminal zero")
