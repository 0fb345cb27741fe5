// Package ptree is the concrete parse tree the driver (C6) builds while
// shift-reducing a token stream. A Node is either a leaf carrying the token
// a shift consumed, or an interior node labeled with the nonterminal a
// reduction produced, with one child per symbol on the right-hand side of
// that production, in left-to-right order.
package ptree

import (
	"fmt"
	"strings"

	"github.com/corvidlabs/yalp/internal/ictiobus/lex"
)

// Node is one node of a parse tree.
type Node struct {
	// Symbol is the grammar symbol this node represents: the token's class
	// ID for a leaf, the nonterminal name for an interior node.
	Symbol string

	// Terminal is true for a leaf node created by a shift.
	Terminal bool

	// Source is the token a leaf node was created from. It is the zero
	// value for interior nodes.
	Source lex.Token

	// Children holds one entry per RHS symbol of the production an interior
	// node was reduced from, in left-to-right order. Always empty for leaf
	// nodes.
	Children []*Node
}

// NewLeaf builds a leaf node for a shifted token.
func NewLeaf(tok lex.Token) *Node {
	return &Node{Symbol: tok.Class().ID(), Terminal: true, Source: tok}
}

// NewInterior builds an interior node labeled nonTerm with the given
// children, already in left-to-right order.
func NewInterior(nonTerm string, children []*Node) *Node {
	return &Node{Symbol: nonTerm, Children: children}
}

// Equal reports whether o is a Node with the same shape: same symbol,
// terminal-ness, source lexeme (for leaves), and recursively-equal
// children.
func (n *Node) Equal(o any) bool {
	other, ok := o.(*Node)
	if !ok || other == nil || n == nil {
		return ok && n == nil && other == nil
	}
	if n.Symbol != other.Symbol || n.Terminal != other.Terminal {
		return false
	}
	if n.Terminal && n.Source.Lexeme() != other.Source.Lexeme() {
		return false
	}
	if len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// String renders the tree as a parenthesized s-expression, e.g.
// "(E (E (id \"x\")) (+ \"+\") (E (id \"y\")))", with each leaf's lexeme
// quoted as by %q.
func (n *Node) String() string {
	if n == nil {
		return "()"
	}
	if n.Terminal {
		return fmt.Sprintf("(%s %q)", n.Symbol, n.Source.Lexeme())
	}

	var sb strings.Builder
	sb.WriteRune('(')
	sb.WriteString(n.Symbol)
	for _, c := range n.Children {
		sb.WriteRune(' ')
		sb.WriteString(c.String())
	}
	sb.WriteRune(')')
	return sb.String()
}

// Walk calls fn for n and every descendant, in pre-order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
