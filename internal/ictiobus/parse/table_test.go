package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvidlabs/yalp/internal/ictiobus/grammar"
	"github.com/corvidlabs/yalp/internal/ictiobus/lex"
)

// exprGrammar builds the classic unambiguous arithmetic-expression grammar
// used throughout the purple dragon book's SLR(1) examples:
//
//	E -> E + T | T
//	T -> T * F | F
//	F -> ( E ) | id
func exprGrammar() grammar.Grammar {
	var g grammar.Grammar
	for _, id := range []string{"+", "*", "(", ")", "id"} {
		g.AddTerm(id, lex.NewClass(id))
	}
	g.AddRule("E", grammar.Production{"E", "+", "T"})
	g.AddRule("E", grammar.Production{"T"})
	g.AddRule("T", grammar.Production{"T", "*", "F"})
	g.AddRule("T", grammar.Production{"F"})
	g.AddRule("F", grammar.Production{"(", "E", ")"})
	g.AddRule("F", grammar.Production{"id"})
	return g
}

func Test_BuildSLRTable_NoConflicts(t *testing.T) {
	assert := assert.New(t)
	g := exprGrammar()

	table, conflicts, err := BuildSLRTable(g, ResolveAndWarn)
	assert.NoError(err)
	assert.Empty(conflicts, "the classic expression grammar is unambiguous under SLR(1)")
	assert.NotEmpty(table.States())
}

func Test_BuildSLRTable_NonSLRGrammarConflicts(t *testing.T) {
	assert := assert.New(t)

	// the dragon book's canonical non-SLR(1) grammar (4.48): FOLLOW(R) ends
	// up including "=" via L -> * R, so the state reached after shifting L
	// has a genuine shift/reduce conflict on "=" between S -> L . = R and
	// the complete item R -> L .
	var g grammar.Grammar
	g.AddTerm("=", lex.NewClass("="))
	g.AddTerm("*", lex.NewClass("*"))
	g.AddTerm("id", lex.NewClass("id"))
	g.AddRule("S", grammar.Production{"L", "=", "R"})
	g.AddRule("S", grammar.Production{"R"})
	g.AddRule("L", grammar.Production{"*", "R"})
	g.AddRule("L", grammar.Production{"id"})
	g.AddRule("R", grammar.Production{"L"})

	table, conflicts, err := BuildSLRTable(g, ResolveAndWarn)
	assert.NoError(err)
	assert.NotEmpty(conflicts)
	assert.NotNil(table)

	_, _, err = BuildSLRTable(g, FailOnConflict)
	assert.Error(err)
}

func Test_Table_ActionAndGoto(t *testing.T) {
	assert := assert.New(t)
	g := exprGrammar()

	table, _, err := BuildSLRTable(g, ResolveAndWarn)
	assert.NoError(err)

	start := table.Initial()
	act := table.Action(start, "id")
	assert.Equal(LRShift, act.Type)

	_, err = table.Goto("nonexistent-state", "E")
	assert.Error(err)
}

func Test_Table_String_RendersAllStates(t *testing.T) {
	assert := assert.New(t)
	g := exprGrammar()

	table, _, err := BuildSLRTable(g, ResolveAndWarn)
	assert.NoError(err)

	out := table.String()
	assert.Contains(out, "A:id")
	assert.Contains(out, "G:E")
}
