package parse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvidlabs/yalp/internal/ictiobus/lex"
	"github.com/corvidlabs/yalp/internal/yalperr"
)

// tokenList is a fixed lex.TokenStream over a pre-built slice, standing in
// for tokenfile.ReadUnits' output without pulling in that package. It is
// never pre-terminated with a synthetic "$": Driver.Parse appends that
// itself once HasNext reports false (spec §4.6, §4.7).
type tokenList struct {
	toks []lex.Token
	pos  int
}

func (l *tokenList) Next() lex.Token {
	t := l.toks[l.pos]
	l.pos++
	return t
}

func (l *tokenList) Peek() lex.Token {
	return l.toks[l.pos]
}

func (l *tokenList) HasNext() bool { return l.pos < len(l.toks) }

func streamOf(kinds ...string) *tokenList {
	toks := make([]lex.Token, 0, len(kinds))
	for i, k := range kinds {
		toks = append(toks, lex.NewToken(lex.NewClass(k), k, 1, i+1))
	}
	return &tokenList{toks: toks}
}

func Test_Driver_Parse_AcceptsValidExpression(t *testing.T) {
	assert := assert.New(t)
	g := exprGrammar()

	table, conflicts, err := BuildSLRTable(g, ResolveAndWarn)
	assert.NoError(err)
	assert.Empty(conflicts)

	driver := NewDriver(table, g)

	// id + id * id
	root, err := driver.Parse(streamOf("id", "+", "id", "*", "id"))
	assert.NoError(err)
	assert.NotNil(root)
	assert.Equal("E", root.Symbol)
	assert.False(root.Terminal)
}

func Test_Driver_Parse_RejectsInvalidExpression(t *testing.T) {
	assert := assert.New(t)
	g := exprGrammar()

	table, _, err := BuildSLRTable(g, ResolveAndWarn)
	assert.NoError(err)

	driver := NewDriver(table, g)

	// "id +" with nothing after the operator is a syntax error
	_, err = driver.Parse(streamOf("id", "+"))
	assert.Error(err)
}

func Test_Driver_Parse_EmptyStreamFailsUnexpectedAtOrigin(t *testing.T) {
	assert := assert.New(t)
	g := exprGrammar()

	table, _, err := BuildSLRTable(g, ResolveAndWarn)
	assert.NoError(err)

	driver := NewDriver(table, g)

	// spec's named boundary case: an empty token stream must fail with
	// Unexpected('$', 0) rather than accept or panic. Since Driver.Parse now
	// owns appending "$", the stream passed in here carries zero tokens.
	_, err = driver.Parse(streamOf())

	var perr *yalperr.ParseError
	assert.True(errors.As(err, &perr))
	assert.Equal(yalperr.Unexpected, perr.Kind)
	assert.Equal(0, perr.Line)
	assert.Equal(0, perr.Column)
}

func Test_Driver_ExpectedString(t *testing.T) {
	assert := assert.New(t)
	g := exprGrammar()

	table, _, err := BuildSLRTable(g, ResolveAndWarn)
	assert.NoError(err)

	driver := NewDriver(table, g)
	msg := driver.ExpectedString(table.Initial())
	assert.Contains(msg, "expected")
}
