package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvidlabs/yalp/internal/ictiobus/grammar"
	"github.com/corvidlabs/yalp/internal/ictiobus/lex"
)

// S -> a S | a, a minimal grammar whose canonical collection is small enough
// to reason about by hand.
func smallGrammar() grammar.Grammar {
	var g grammar.Grammar
	g.AddTerm("a", lex.NewClass("a"))
	g.AddRule("S", grammar.Production{"a", "S"})
	g.AddRule("S", grammar.Production{"a"})
	return g
}

func Test_NewLR0ViablePrefixNFA_ToDFA_ProducesDeterministicCollection(t *testing.T) {
	assert := assert.New(t)
	g := smallGrammar()

	nfa := NewLR0ViablePrefixNFA(g)
	dfa := nfa.ToDFA()
	dfa.NumberStates()

	assert.NoError(dfa.Validate())
	assert.NotEmpty(dfa.States().Elements())

	// from the start state, shifting "a" must lead to exactly one
	// deterministic successor state.
	start := dfa.Start
	next := dfa.Next(start, "a")
	assert.NotEmpty(next)

	// shifting a terminal that can't occur from the start state is an error
	// transition (empty state name).
	assert.Empty(dfa.Next(start, "nonexistent"))
}

func Test_DFA_GetValue_CarriesLR0Items(t *testing.T) {
	assert := assert.New(t)
	g := smallGrammar()

	dfa := NewLR0ViablePrefixNFA(g).ToDFA()
	dfa.NumberStates()

	items := dfa.GetValue(dfa.Start)
	assert.True(items.Len() > 0)

	// the start state's closure must contain the augmented start item with
	// the dot at position 0.
	found := false
	for _, k := range items.Elements() {
		item := items.Get(k)
		if item.NonTerminal == g.StartSymbol()+"'" && len(item.Left) == 0 {
			found = true
		}
	}
	assert.True(found, "expected augmented start item S' -> . S in the initial state")
}
