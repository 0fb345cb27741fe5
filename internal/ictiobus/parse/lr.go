package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corvidlabs/yalp/internal/ictiobus/grammar"
	"github.com/corvidlabs/yalp/internal/ictiobus/lex"
	"github.com/corvidlabs/yalp/internal/ictiobus/ptree"
	"github.com/corvidlabs/yalp/internal/util"
	"github.com/corvidlabs/yalp/internal/yalperr"
)

// Driver runs a built Table over a token stream, shift-reducing it into a
// concrete parse tree (spec §4.6). It never mutates the table or the
// grammar it was built from.
type Driver struct {
	table *Table
	gram  grammar.Grammar
	trace func(string)
}

// NewDriver returns a Driver for the given table and the grammar it was
// built from. The grammar maps token classes to its terminal names, tells
// terminals from nonterminals when a reduce assembles a node's children, and
// supplies the "expected token" diagnostics.
func NewDriver(table *Table, g grammar.Grammar) *Driver {
	return &Driver{table: table, gram: g}
}

// OnTrace registers fn to be called with a line of trace output for every
// shift, reduce, and state-stack transition during Parse. Pass nil to
// disable tracing.
func (d *Driver) OnTrace(fn func(string)) {
	d.trace = fn
}

func (d *Driver) tracef(format string, a ...interface{}) {
	if d.trace != nil {
		d.trace(fmt.Sprintf(format, a...))
	}
}

// Parse runs the shift-reduce algorithm (purple dragon book, algorithm
// 4.44) over stream and returns the single root node of the resulting
// parse tree. stream must not be pre-terminated with a synthetic "$": Parse
// appends that token itself once stream is exhausted (spec §4.6, §4.7),
// synthesizing its source position from the last token actually consumed
// (line/column 0 if the stream yielded no tokens at all).
func (d *Driver) Parse(stream lex.TokenStream) (*ptree.Node, error) {
	stateStack := util.Stack[string]{Of: []string{d.table.Initial()}}
	tokenBuffer := util.Stack[lex.Token]{}
	subtrees := util.Stack[*ptree.Node]{}

	var lastLine, lastCol int
	next := func() lex.Token {
		if stream.HasNext() {
			t := stream.Next()
			lastLine, lastCol = t.Line(), t.Column()
			return t
		}
		return lex.EOF(lastLine, lastCol)
	}

	// lookahead names the grammar terminal a token's class stands for; the
	// synthetic "$" and classes the grammar doesn't declare keep their ID.
	lookahead := func(t lex.Token) string {
		for _, id := range d.gram.Terminals() {
			if c := d.gram.Term(id); c != nil && c.Equal(t.Class()) {
				return id
			}
		}
		return t.Class().ID()
	}

	a := next()
	d.tracef("next token: %s", a)

	for {
		s := stateStack.Peek()
		act := d.table.Action(s, lookahead(a))
		d.tracef("state %s, lookahead %s -> %s", s, lookahead(a), act)

		switch act.Type {
		case LRShift:
			tokenBuffer.Push(a)
			stateStack.Push(act.State)
			a = next()
			d.tracef("next token: %s", a)

		case LRReduce:
			A := act.Symbol
			beta := act.Production

			node := ptree.NewInterior(A, make([]*ptree.Node, len(beta)))
			for i := len(beta) - 1; i >= 0; i-- {
				sym := beta[i]
				if d.gram.IsTerminal(sym) {
					node.Children[i] = ptree.NewLeaf(tokenBuffer.Pop())
				} else {
					node.Children[i] = subtrees.Pop()
				}
				stateStack.Pop()
			}
			subtrees.Push(node)

			t := stateStack.Peek()
			toPush, err := d.table.Goto(t, A)
			if err != nil {
				stateNum, _ := strconv.Atoi(t)
				return nil, yalperr.NewNoGotoError(stateNum, A)
			}
			stateStack.Push(toPush)

		case LRAccept:
			if subtrees.Len() != 1 {
				return nil, yalperr.NewStackInvariantError(subtrees.Len())
			}
			return subtrees.Pop(), nil

		default: // LRError
			stateNum, _ := strconv.Atoi(s)
			return nil, yalperr.NewUnexpectedTokenError(stateNum, lookahead(a), a.Line(), a.Column())
		}
	}
}

// ExpectedTokens returns the TokenClasses that have a non-error ACTION entry
// in the given state, for building "expected X, Y, or Z" diagnostics.
func (d *Driver) ExpectedTokens(state string) []lex.TokenClass {
	terms := d.gram.Terminals()
	classes := make([]lex.TokenClass, 0, len(terms))
	for _, id := range terms {
		if d.table.Action(state, id).Type != LRError {
			classes = append(classes, d.gram.Term(id))
		}
	}
	return classes
}

// ExpectedString renders ExpectedTokens as "expected a NUMBER, IDENT, or
// PLUS": the "a"/"an" article goes before the first item only.
func (d *Driver) ExpectedString(state string) string {
	expected := d.ExpectedTokens(state)

	var sb strings.Builder
	sb.WriteString("expected ")

	finalOr := len(expected) > 1
	commas := len(expected) > 2

	for i, t := range expected {
		if i == 0 {
			sb.WriteString(util.ArticleFor(t.Human(), false))
			sb.WriteRune(' ')
		}
		if finalOr && i+1 == len(expected) {
			sb.WriteString("or ")
		}
		sb.WriteString(t.Human())
		if commas && i+1 < len(expected) {
			sb.WriteString(", ")
		} else if i+1 < len(expected) {
			sb.WriteRune(' ')
		}
	}

	return sb.String()
}
