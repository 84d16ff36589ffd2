// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package addcp implements reduced, ordered decision diagrams over a fixed
Boolean variable order: an Algebraic Decision Diagram (ADD, real-valued
terminals) and an Affine ADD (AADD, edges carry an affine transform so that
isomorphic sub-functions canonicalize modulo a scale and an offset).

Basics

Each diagram is built against a Store, which owns the arena of nodes, the
hash-cons ("unicity") table used to guarantee that equal sub-functions share
the same identifier, and the operation caches used to memoize apply and
restrict. A Store is created with NewADD or NewAADD, giving the number of
Boolean variables in the fixed order; nodes are referred to by opaque int
identifiers, with the convention that the canonical constant terminals are
allocated once and shared by every later construction within tolerance
epsilon.

Two kinds of diagram share the same Store type. The ADD engine (ApplyInt,
Restrict, GetMinValue/GetMaxValue) operates on bare node identifiers; the
AADD engine (ApplyAffine, RestrictAffine, BoundsAffine) operates on Ref
values, the (scale, offset, node) triple a caller must carry alongside a
bare node id to denote the full affine-extended function. The AADD variant
additionally guarantees that algebraically related functions (one a
positive affine rescaling of the other) are represented by the very same
node, at the cost of carrying an affine pair on every edge.

Root lifetime

There is no tracing collector. A node produced by a construction primitive or
by ApplyInt/ApplyAffine/Restrict survives only as long as it is reachable from a
"special" node: callers must call AddSpecialNode on every root they mean to
keep across a FlushCaches and RemoveSpecialNode when they are done with it.
Special-node registration is reference counted: the same id may be
registered N times and must be unregistered N times before it becomes
eligible for collection.

Propagation

Package addcp/propagator builds on top of a Store to implement a
constraint-programming propagator: it represents the constraint "the DD
rooted at r evaluates to 1" and keeps r synchronized with a host solver's
trail as Boolean search variables are instantiated and undone.
*/
package addcp
