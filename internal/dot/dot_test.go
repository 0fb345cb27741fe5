package dot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvidlabs/yalp/internal/ictiobus/grammar"
	"github.com/corvidlabs/yalp/internal/ictiobus/lex"
	"github.com/corvidlabs/yalp/internal/ictiobus/parse"
	"github.com/corvidlabs/yalp/internal/ictiobus/ptree"
)

func Test_WriteTree_RendersNodesAndEdges(t *testing.T) {
	assert := assert.New(t)

	leaf := ptree.NewLeaf(lex.NewToken(lex.NewClass("id"), "x", 1, 1))
	root := ptree.NewInterior("E", []*ptree.Node{leaf})

	var sb strings.Builder
	assert.NoError(WriteTree(&sb, root))

	out := sb.String()
	assert.Contains(out, "digraph ParseTree")
	assert.Contains(out, "n0 [label=\"E\"]")
	assert.Contains(out, "n1 [label=\"id\\n'x'\"]")
	assert.Contains(out, "n0 -> n1;")
}

func Test_WriteActionTable_RendersStatesAndLeaves(t *testing.T) {
	assert := assert.New(t)

	var g grammar.Grammar
	g.AddTerm("a", lex.NewClass("a"))
	g.AddRule("S", grammar.Production{"a"})

	table, _, err := parse.BuildSLRTable(g, parse.ResolveAndWarn)
	assert.NoError(err)

	var sb strings.Builder
	assert.NoError(WriteActionTable(&sb, table, g.Terminals()))

	out := sb.String()
	assert.Contains(out, "digraph ACTION_TABLE")
	assert.Contains(out, `root [label="ACTION"];`)
	assert.Contains(out, "shift")
}

func Test_WriteActionTable_SanitizesNodeIDs(t *testing.T) {
	assert := assert.New(t)

	var g grammar.Grammar
	g.AddTerm("+", lex.NewClass("+"))
	g.AddRule("S", grammar.Production{"+"})

	table, _, err := parse.BuildSLRTable(g, parse.ResolveAndWarn)
	assert.NoError(err)

	var sb strings.Builder
	assert.NoError(WriteActionTable(&sb, table, g.Terminals()))

	assert.NotContains(sb.String(), "state0_+")
}
