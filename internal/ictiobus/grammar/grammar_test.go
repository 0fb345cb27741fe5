package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvidlabs/yalp/internal/ictiobus/lex"
)

func buildExprGrammar() Grammar {
	// E -> E + T | T
	// T -> T * F | F
	// F -> ( E ) | id
	var g Grammar
	for _, id := range []string{"+", "*", "(", ")", "id"} {
		g.AddTerm(id, lex.NewClass(id))
	}
	g.AddRule("E", Production{"E", "+", "T"})
	g.AddRule("E", Production{"T"})
	g.AddRule("T", Production{"T", "*", "F"})
	g.AddRule("T", Production{"F"})
	g.AddRule("F", Production{"(", "E", ")"})
	g.AddRule("F", Production{"id"})
	return g
}

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		build     func() Grammar
		expectErr bool
	}{
		{
			name:      "empty grammar",
			build:     func() Grammar { return Grammar{} },
			expectErr: true,
		},
		{
			name: "no terminals",
			build: func() Grammar {
				var g Grammar
				g.AddRule("S", Production{"S"})
				return g
			},
			expectErr: true,
		},
		{
			name: "no rules",
			build: func() Grammar {
				var g Grammar
				g.AddTerm("a", lex.NewClass("a"))
				return g
			},
			expectErr: true,
		},
		{
			name: "undeclared symbol in production",
			build: func() Grammar {
				var g Grammar
				g.AddTerm("a", lex.NewClass("a"))
				g.AddRule("S", Production{"b"})
				return g
			},
			expectErr: true,
		},
		{
			name: "symbol declared as both terminal and nonterminal",
			build: func() Grammar {
				var g Grammar
				g.AddTerm("S", lex.NewClass("S"))
				g.AddRule("S", Production{"S"})
				return g
			},
			expectErr: true,
		},
		{
			name:      "valid expression grammar",
			build:     buildExprGrammar,
			expectErr: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			g := tc.build()
			actual := g.Validate()
			if tc.expectErr {
				assert.Error(actual)
			} else {
				assert.NoError(actual)
			}
		})
	}
}

func Test_Grammar_AddRule_StableIndices(t *testing.T) {
	assert := assert.New(t)
	g := buildExprGrammar()

	nt, prod, ok := g.ProductionAt(0)
	assert.True(ok)
	assert.Equal("E", nt)
	assert.Equal(Production{"E", "+", "T"}, prod)

	idx, ok := g.ProductionIndex("F", Production{"id"})
	assert.True(ok)
	assert.Equal(5, idx)

	assert.Equal(6, g.NumProductions())
}

func Test_Grammar_Augmented(t *testing.T) {
	assert := assert.New(t)
	g := buildExprGrammar()

	aug := g.Augmented()

	nt, prod, ok := aug.ProductionAt(0)
	assert.True(ok)
	assert.Equal("E'", nt)
	assert.Equal(Production{"E"}, prod)

	// every original production index shifts up by one
	nt, prod, ok = aug.ProductionAt(1)
	assert.True(ok)
	assert.Equal("E", nt)
	assert.Equal(Production{"E", "+", "T"}, prod)

	assert.Equal(7, aug.NumProductions())
	assert.Equal("E'", aug.StartSymbol())

	// calling Augmented twice is a no-op
	aug2 := aug.Augmented()
	assert.Equal(aug.NumProductions(), aug2.NumProductions())
}

func Test_Grammar_FIRST(t *testing.T) {
	assert := assert.New(t)
	g := buildExprGrammar()

	assert.ElementsMatch([]string{"(", "id"}, g.FIRST("F"))
	assert.ElementsMatch([]string{"(", "id"}, g.FIRST("T"))
	assert.ElementsMatch([]string{"(", "id"}, g.FIRST("E"))
	assert.Equal([]string{"+"}, g.FIRST("+"))
}

func Test_Grammar_FOLLOW(t *testing.T) {
	assert := assert.New(t)
	g := buildExprGrammar()

	assert.ElementsMatch([]string{"$", "+", ")"}, g.FOLLOW("E"))
	assert.ElementsMatch([]string{"$", "+", ")", "*"}, g.FOLLOW("T"))
	assert.ElementsMatch([]string{"$", "+", ")", "*"}, g.FOLLOW("F"))
}

func Test_Grammar_LR0Items(t *testing.T) {
	assert := assert.New(t)
	var g Grammar
	g.AddTerm("a", lex.NewClass("a"))
	g.AddRule("S", Production{"a", "a"})

	items := g.LR0Items()
	assert.Len(items, 3)
	assert.True(items[0].Equal(LR0Item{NonTerminal: "S", Left: []string{}, Right: []string{"a", "a"}}))
	assert.True(items[2].Equal(LR0Item{NonTerminal: "S", Left: []string{"a", "a"}, Right: []string{}}))
}
