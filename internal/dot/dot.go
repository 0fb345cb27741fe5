// Package dot renders parse trees and ACTION tables as Graphviz DOT source
// for visual inspection (spec §6, component C8). Grounded on
// tree_drawer.py's generate_dot and actiontodot.py's action_table_to_dot.
package dot

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/corvidlabs/yalp/internal/ictiobus/parse"
	"github.com/corvidlabs/yalp/internal/ictiobus/ptree"
)

// WriteTree renders root as a "digraph ParseTree" to w: one node per tree
// node, labeled with its symbol (plus lexeme for leaves), and one edge per
// parent-child link.
func WriteTree(w io.Writer, root *ptree.Node) error {
	var sb strings.Builder
	sb.WriteString("digraph ParseTree {\n")
	sb.WriteString("  node [shape=plain];\n")

	counter := 0
	var walk func(n *ptree.Node) int
	walk = func(n *ptree.Node) int {
		id := counter
		counter++

		label := n.Symbol
		if n.Terminal {
			label = fmt.Sprintf("%s\n'%s'", n.Symbol, escapeLabel(n.Source.Lexeme()))
		}
		fmt.Fprintf(&sb, "  n%d [label=%q];\n", id, label)

		for _, child := range n.Children {
			childID := walk(child)
			fmt.Fprintf(&sb, "  n%d -> n%d;\n", id, childID)
		}
		return id
	}
	walk(root)

	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

var nonDotIdent = regexp.MustCompile(`[^A-Za-z0-9_]`)

// WriteActionTable renders t as a "digraph ACTION_TABLE": a root node, one
// child node per state, and one leaf per non-error ACTION cell in that
// state describing the shift/reduce/accept it holds.
func WriteActionTable(w io.Writer, t *parse.Table, terminals []string) error {
	var sb strings.Builder
	sb.WriteString("digraph ACTION_TABLE {\n")
	sb.WriteString("  node [shape=box];\n")
	sb.WriteString(`  root [label="ACTION"];` + "\n")

	allSymbols := append(append([]string{}, terminals...), "$")

	for _, state := range t.States() {
		stateID := fmt.Sprintf("state%s", state)
		fmt.Fprintf(&sb, "  %q [label=\"State %s\"];\n", stateID, state)
		fmt.Fprintf(&sb, "  root -> %q;\n", stateID)

		for _, term := range allSymbols {
			act := t.Action(state, term)

			var desc string
			switch act.Type {
			case parse.LRShift:
				desc = fmt.Sprintf("on '%s' -> shift %s", term, act.State)
			case parse.LRReduce:
				desc = fmt.Sprintf("on '%s' -> reduce by prod %d", term, act.ProductionIndex)
			case parse.LRAccept:
				desc = fmt.Sprintf("on '%s' -> accept", term)
			default:
				continue
			}

			rawID := fmt.Sprintf("%s_%s", stateID, term)
			nodeID := nonDotIdent.ReplaceAllString(rawID, "_")

			fmt.Fprintf(&sb, "  %q [label=%q];\n", nodeID, desc)
			fmt.Fprintf(&sb, "  %q -> %q;\n", stateID, nodeID)
		}
	}

	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
