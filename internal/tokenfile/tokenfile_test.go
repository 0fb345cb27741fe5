package tokenfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ReadUnits_SingleUnitNoDelimiter(t *testing.T) {
	assert := assert.New(t)

	src := "ID x\nPLUS +\nID y\n"
	units, err := ReadUnits(strings.NewReader(src))
	assert.NoError(err)
	assert.Len(units, 1)

	u := units[0]
	assert.Equal("id", u.Next().Class().ID())
	assert.True(u.HasNext())
	assert.Equal("plus", u.Next().Class().ID())
	assert.Equal("id", u.Next().Class().ID())
	// ReadUnits never appends the synthetic "$": that is parse.Driver.Parse's
	// job, once the stream reports HasNext() == false.
	assert.False(u.HasNext())
}

func Test_ReadUnits_SplitsOnDelimiterLines(t *testing.T) {
	assert := assert.New(t)

	src := "ID x\nWHITESPACE\nID y\nSEMICOLON\nID z\n"
	units, err := ReadUnits(strings.NewReader(src))
	assert.NoError(err)
	assert.Len(units, 3)

	assert.Equal("x", units[0].Next().Lexeme())
	assert.Equal("y", units[1].Next().Lexeme())
	assert.Equal("z", units[2].Next().Lexeme())
}

func Test_ReadUnits_MalformedLine(t *testing.T) {
	assert := assert.New(t)

	_, err := ReadUnits(strings.NewReader("NOTAKINDWITHNOLEXEME\n"))
	assert.Error(err)
}

func Test_ReadUnits_EmptyInput(t *testing.T) {
	assert := assert.New(t)

	units, err := ReadUnits(strings.NewReader(""))
	assert.NoError(err)
	assert.Empty(units)
}
