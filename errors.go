// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package addcp

import (
	"fmt"

	"go.uber.org/zap"
)

// ContradictionError is the "propagator-level" error kind of §7: the
// constraint represented by a diagram has become unsatisfiable (its maximum
// value dropped to zero) or a host domain has emptied. It is a normal,
// expected outcome of propagation and must never be treated as a bug; hosts
// typically use it to trigger backtracking.
type ContradictionError struct {
	Root   int
	Reason string
}

func (e *ContradictionError) Error() string {
	return fmt.Sprintf("addcp: contradiction at node %d: %s", e.Root, e.Reason)
}

func newContradiction(root int, format string, a ...interface{}) *ContradictionError {
	return &ContradictionError{Root: root, Reason: fmt.Sprintf(format, a...)}
}

// NewContradiction builds a ContradictionError, for use by a propagator
// when it detects that its root has become unsatisfiable.
func NewContradiction(root int, format string, a ...interface{}) *ContradictionError {
	return newContradiction(root, format, a...)
}

// fatal reports an invariant violation (§7): an unknown node id, a
// non-canonical insertion, division by a terminal-zero diagram. These always
// indicate a bug in the caller's root management or in the engine itself, so
// we log at error level and panic rather than trying to recover.
func (s *Store) fatal(err error, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	s.logger.Error(msg, zap.Error(err))
	panic(fmt.Errorf("%s: %w", msg, err))
}
