// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package addcp

import (
	"fmt"
	"io"
	"strconv"

	"github.com/emicklei/dot"
)

// GetGraph renders the diagram rooted at id as a Graphviz graph: one node
// per distinct reachable identifier, dashed edges for the false branch and
// solid edges for the true branch, terminals drawn as boxes with their
// value.
func (s *Store) GetGraph(id int) *dot.Graph {
	s.RLock()
	defer s.RUnlock()
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "TB")
	seen := make(map[int]dot.Node)
	var walk func(int) dot.Node
	walk = func(n int) dot.Node {
		if gn, ok := seen[n]; ok {
			return gn
		}
		gn := g.Node(strconv.Itoa(n))
		if s.isTerminal(n) {
			label := strconv.FormatFloat(s.value(n), 'g', -1, 64)
			if s.kind == KindAADD {
				label = "1"
			}
			gn = gn.Box().Label(label)
		} else {
			node := &s.nodes[n]
			gn = gn.Label(fmt.Sprintf("x%d", node.level))
		}
		seen[n] = gn
		if !s.isTerminal(n) {
			node := &s.nodes[n]
			lowNode := walk(node.low)
			highNode := walk(node.high)
			g.Edge(gn, lowNode).Attr("style", "dashed")
			if s.kind == KindAADD {
				g.Edge(gn, highNode).
					Attr("label", fmt.Sprintf("%g,%g", node.cHigh, node.bHigh))
			} else {
				g.Edge(gn, highNode)
			}
		}
		return gn
	}
	walk(id)
	return g
}

// PrintNode writes a short human-readable description of id and every node
// it reaches to w, one line per node, for interactive debugging.
func (s *Store) PrintNode(w io.Writer, id int) error {
	s.RLock()
	defer s.RUnlock()
	seen := make(map[int]bool)
	var walk func(int) error
	walk = func(n int) error {
		if seen[n] {
			return nil
		}
		seen[n] = true
		if s.isTerminal(n) {
			_, err := fmt.Fprintf(w, "%d: terminal %g\n", n, s.value(n))
			return err
		}
		node := &s.nodes[n]
		var err error
		if s.kind == KindAADD {
			_, err = fmt.Fprintf(w, "%d: var x%d low=%d(c=%g) high=%d(c=%g,b=%g)\n",
				n, node.level, node.low, node.cLow, node.high, node.cHigh, node.bHigh)
		} else {
			_, err = fmt.Fprintf(w, "%d: var x%d low=%d high=%d\n", n, node.level, node.low, node.high)
		}
		if err != nil {
			return err
		}
		if err := walk(node.low); err != nil {
			return err
		}
		return walk(node.high)
	}
	return walk(id)
}
