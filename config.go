// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package addcp

import "go.uber.org/zap"

// configs stores the values of the different tunable parameters of a Store.
type configs struct {
	varnum          int     // number of Boolean variables
	nodesize        int     // initial number of nodes in the table
	cachesize       int     // initial cache size (general)
	cacheratio      int     // initial ratio (%) between cache size and node table, 0 if constant
	maxnodesize     int     // maximum total number of nodes (0 if no limit)
	maxnodeincrease int     // maximum number of nodes added at each resize (0 if no limit)
	minfreenodes    int     // minimum % of nodes that must remain free after a flush before resizing
	epsilon         float64 // absolute tolerance used for terminal/affine-factor canonicalization
	pruneMode       PruneMode
	pruneError      float64
	logger          *zap.Logger
}

func makeconfigs(varnum int) *configs {
	c := &configs{varnum: varnum}
	c.minfreenodes = _MINFREENODES
	c.maxnodeincrease = _DEFAULTMAXNODEINC
	// enough nodes for the two constants and the variables themselves
	c.nodesize = 2*varnum + 2
	c.epsilon = _DEFAULTEPSILON
	c.pruneMode = PruneAvg
	c.logger = zap.NewNop()
	return c
}

// Option configures a Store created with NewADD or NewAADD.
type Option func(*configs)

// Nodesize sets a preferred initial size for the node table. The table grows
// during computation; this only affects the initial allocation.
func Nodesize(size int) Option {
	return func(c *configs) {
		if size >= 2*c.varnum+2 {
			c.nodesize = size
		}
	}
}

// Maxnodesize sets a limit on the number of nodes in the store. The default,
// zero, means no limit (allocation can fail once memory is exhausted).
func Maxnodesize(size int) Option {
	return func(c *configs) {
		c.maxnodesize = size
	}
}

// Maxnodeincrease sets a limit on the increase in size of the node table at
// each resize. The default is about a million nodes; zero removes the limit.
func Maxnodeincrease(size int) Option {
	return func(c *configs) {
		c.maxnodeincrease = size
	}
}

// Minfreenodes sets the ratio (%) of free nodes that must remain after a
// flush before a resize is triggered. The default is 20%.
func Minfreenodes(ratio int) Option {
	return func(c *configs) {
		c.minfreenodes = ratio
	}
}

// Cachesize sets the initial number of entries in the ADD apply cache (the
// other operation caches are maps and are not sized). The default is 10 000.
func Cachesize(size int) Option {
	return func(c *configs) {
		c.cachesize = size
	}
}

// Cacheratio sets a ratio (%) between the cache size and the node table size
// so caches grow on resize. Zero (the default) keeps caches at a fixed size.
func Cacheratio(ratio int) Option {
	return func(c *configs) {
		c.cacheratio = ratio
	}
}

// Epsilon sets the tolerance used when canonicalizing terminal values and
// when testing an AADD edge's scale for near-zero collapse (data model
// invariant 5). The tolerance is absolute, not relative: terminal values are
// grouped by rounding v/epsilon to an integer. The default is 1e-10.
func Epsilon(eps float64) Option {
	return func(c *configs) {
		if eps >= 0 {
			c.epsilon = eps
		}
	}
}

// WithLogger attaches a zap logger used for resize/flush/fatal diagnostics.
// The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *configs) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPruneInfo sets the default pruning mode and bound used by PruneDefault
// (see setPruneInfo in §4.5/§6).
func WithPruneInfo(mode PruneMode, maxError float64) Option {
	return func(c *configs) {
		c.pruneMode = mode
		c.pruneError = maxError
	}
}
