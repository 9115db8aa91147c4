package machine

import (
	"fmt"
	"io"
	"sort"
)

// WriteDOT renders the transition table as a Graphviz digraph. This is a
// reporting feature only: parsing never reads the rendered form, so the
// export stays decoupled from the driver loop.
func (d *Driver) WriteDOT(w io.Writer) error {
	type edge struct {
		from, to State
		label    string
	}

	edges := make([]edge, 0, len(d.table))
	for key, tr := range d.table {
		edges = append(edges, edge{from: key.state, to: tr.next, label: string(key.class)})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		if edges[i].to != edges[j].to {
			return edges[i].to < edges[j].to
		}
		return edges[i].label < edges[j].label
	})

	if _, err := fmt.Fprintln(w, "digraph statement_parser {"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "  rankdir=LR;"); err != nil {
		return err
	}
	for _, e := range edges {
		if _, err := fmt.Fprintf(w, "  %s -> %s [label=%q];\n", e.from, e.to, e.label); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
