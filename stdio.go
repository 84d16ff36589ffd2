// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package addcp

import (
	"bufio"
	"fmt"
	"os"
)

// Stats returns a short human-readable report on the store's node table and
// hash-cons occupancy, in the teacher's "label: value" block style.
func (s *Store) Stats() string {
	s.RLock()
	defer s.RUnlock()
	res := fmt.Sprintf("Kind:       %s\n", s.kind)
	res += fmt.Sprintf("Varnum:     %d\n", s.varnum)
	res += fmt.Sprintf("Allocated:  %d\n", len(s.nodes))
	res += fmt.Sprintf("Produced:   %d\n", s.produced)
	r := (float64(s.freenum) / float64(len(s.nodes))) * 100
	res += fmt.Sprintf("Free:       %d  (%.3g %%)\n", s.freenum, r)
	res += fmt.Sprintf("Used:       %d  (%.3g %%)\n", len(s.nodes)-s.freenum, 100.0-r)
	res += fmt.Sprintf("Special:    %d\n", len(s.special))
	return res
}

// WriteDot writes the graph rooted at id to filename in the DOT format ("-"
// means standard output).
func (s *Store) WriteDot(filename string, id int) error {
	var out *os.File
	var err error
	if filename == "-" {
		out = os.Stdout
	} else {
		out, err = os.Create(filename)
		if err != nil {
			return err
		}
		defer out.Close()
	}
	w := bufio.NewWriter(out)
	if _, err := w.WriteString(s.GetGraph(id).String()); err != nil {
		return err
	}
	return w.Flush()
}
