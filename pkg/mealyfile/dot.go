// Package mealyfile renders and parses Mealy machines in interchange
// formats: Graphviz DOT for visualization and JSON for snapshotting a
// learned hypothesis.
package mealyfile

import (
	"fmt"
	"strings"

	"github.com/gbossert/pylstar/pkg/mealy"
)

// DOT renders m as a Graphviz digraph, grouping parallel edges between
// the same pair of states into one label.
func DOT(m *mealy.Machine, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph Mealy {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11, shape=circle];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		fmt.Fprintf(&sb, "    label=\"%s\";\n\n", escapeDOT(title))
	}

	if m.Initial() != mealy.None {
		sb.WriteString("    __start [shape=none, label=\"\", width=0, height=0];\n")
		fmt.Fprintf(&sb, "    __start -> \"%s\";\n\n", escapeDOT(m.Name(m.Initial())))
	}

	for s := 0; s < m.NumStates(); s++ {
		shape := "circle"
		if mealy.StateIndex(s) == m.Initial() {
			shape = "doublecircle"
		}
		fmt.Fprintf(&sb, "    \"%s\" [shape=%s];\n", escapeDOT(m.Name(mealy.StateIndex(s))), shape)
	}
	sb.WriteString("\n")

	type key struct{ from, to string }
	edgeLabels := make(map[key][]string)
	var order []key
	for _, e := range m.AllEdges() {
		k := key{from: m.Name(e.From), to: m.Name(e.To)}
		if _, seen := edgeLabels[k]; !seen {
			order = append(order, k)
		}
		edgeLabels[k] = append(edgeLabels[k], fmt.Sprintf("%s/%s", e.Input, e.Output))
	}
	for _, k := range order {
		label := strings.Join(edgeLabels[k], ", ")
		fmt.Fprintf(&sb, "    \"%s\" -> \"%s\" [label=\"%s\"];\n", escapeDOT(k.from), escapeDOT(k.to), escapeDOT(label))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
