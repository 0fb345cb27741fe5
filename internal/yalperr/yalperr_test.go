package yalperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_GrammarError_Fields(t *testing.T) {
	assert := assert.New(t)

	err := NewGrammarError(MalformedProduction, 4, "X", "production %q is bad", "X : ;")

	var gerr *GrammarError
	assert.True(errors.As(err, &gerr))
	assert.Equal(MalformedProduction, gerr.Kind)
	assert.Equal(4, gerr.Line)
	assert.Equal("X", gerr.Symbol)
	assert.Contains(err.Error(), "production")
}

func Test_TableBuildError_MessageNamesConflictKind(t *testing.T) {
	assert := assert.New(t)

	err := NewTableBuildError(ShiftReduceConflict, 3, "+", 1, 2)
	assert.Contains(err.Error(), "shift/reduce")
	assert.Contains(err.Error(), "state 3")

	var tberr *TableBuildError
	assert.True(errors.As(err, &tberr))
	assert.Equal(ShiftReduceConflict, tberr.Kind)
	assert.Equal(1, tberr.Production)
	assert.Equal(2, tberr.Other)
}

func Test_ParseError_Variants(t *testing.T) {
	assert := assert.New(t)

	unexpected := NewUnexpectedTokenError(5, "id", 2, 7)
	var perr *ParseError
	assert.True(errors.As(unexpected, &perr))
	assert.Equal(Unexpected, perr.Kind)
	assert.Equal(2, perr.Line)
	assert.Equal(7, perr.Column)

	noGoto := NewNoGotoError(5, "E")
	assert.True(errors.As(noGoto, &perr))
	assert.Equal(NoGoto, perr.Kind)
	assert.Equal("E", perr.Symbol)

	stackErr := NewStackInvariantError(3)
	assert.True(errors.As(stackErr, &perr))
	assert.Equal(StackInvariant, perr.Kind)
}
