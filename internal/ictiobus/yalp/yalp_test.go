package yalp

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvidlabs/yalp/internal/yalperr"
)

const exprYalp = `
%token PLUS STAR LPAREN RPAREN ID
%%
E : E PLUS T | T ;
T : T STAR F | F ;
F : LPAREN E RPAREN | ID ;
`

func Test_Parse_ValidGrammar(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(strings.NewReader(exprYalp))
	assert.NoError(err)
	assert.NoError(g.Validate())

	assert.True(g.IsTerminal("PLUS"))
	assert.True(g.IsNonTerminal("E"))
	assert.Equal("E", g.StartSymbol())
}

func Test_Parse_InfersUndeclaredTerminals(t *testing.T) {
	assert := assert.New(t)

	// no %token line at all: every RHS symbol that's never an LHS is
	// inferred as a terminal.
	src := `
%%
S : A B ;
A : x ;
B : y ;
`
	g, err := Parse(strings.NewReader(src))
	assert.NoError(err)
	assert.True(g.IsTerminal("x"))
	assert.True(g.IsTerminal("y"))
	assert.True(g.IsNonTerminal("A"))
	assert.True(g.IsNonTerminal("B"))
}

func Test_Parse_MissingSeparator(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse(strings.NewReader("%token X\nS : X ;"))
	assert.Error(err)

	var gerr *yalperr.GrammarError
	assert.True(errors.As(err, &gerr))
	assert.Equal(yalperr.MissingBody, gerr.Kind)
}

func Test_Parse_MalformedProductionBlock(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse(strings.NewReader("%%\nS x y ;"))
	assert.Error(err)

	var gerr *yalperr.GrammarError
	assert.True(errors.As(err, &gerr))
	assert.Equal(yalperr.MalformedProduction, gerr.Kind)
}

func Test_Parse_TerminalNonTerminalOverlap(t *testing.T) {
	assert := assert.New(t)

	// "S" is both declared as a %token and used as an LHS.
	src := `
%token S
%%
S : S ;
`
	_, err := Parse(strings.NewReader(src))
	assert.Error(err)

	var gerr *yalperr.GrammarError
	assert.True(errors.As(err, &gerr))
	assert.Equal(yalperr.Overlap, gerr.Kind)
}
