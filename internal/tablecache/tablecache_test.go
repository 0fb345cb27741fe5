package tablecache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvidlabs/yalp/internal/ictiobus/grammar"
	"github.com/corvidlabs/yalp/internal/ictiobus/lex"
	"github.com/corvidlabs/yalp/internal/ictiobus/parse"
)

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

func Test_KeyFor_StableForSameText(t *testing.T) {
	assert := assert.New(t)

	k1 := KeyFor([]byte("%% S : a ;"))
	k2 := KeyFor([]byte("%% S : a ;"))
	k3 := KeyFor([]byte("%% S : b ;"))

	assert.Equal(k1, k2)
	assert.NotEqual(k1, k3)
}

func Test_Load_CacheMiss(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	table, ok, err := Load(dir, "nonexistent-key")
	assert.NoError(err)
	assert.False(ok)
	assert.Nil(table)
}

func Test_StoreThenLoad_RoundTrips(t *testing.T) {
	assert := assert.New(t)

	g := exprGrammar()
	table, conflicts, err := parse.BuildSLRTable(g, parse.ResolveAndWarn)
	assert.NoError(err)
	assert.Empty(conflicts)

	dir := filepath.Join(t.TempDir(), "cache")
	key := KeyFor([]byte("some grammar text"))

	assert.NoError(Store(dir, key, g.Augmented(), table))

	reloaded, ok, err := Load(dir, key)
	assert.NoError(err)
	assert.True(ok)
	assert.NotNil(reloaded)

	for _, s := range table.States() {
		for _, term := range append(g.Terminals(), "$") {
			orig := table.Action(s, term)
			got := reloaded.Action(s, term)
			assert.True(orig.Equal(got), "state %s symbol %s: want %s got %s", s, term, orig, got)
		}
		for _, nt := range g.NonTerminals() {
			origJ, origErr := table.Goto(s, nt)
			gotJ, gotErr := reloaded.Goto(s, nt)
			if origErr == nil {
				assert.NoError(gotErr)
				assert.Equal(origJ, gotJ)
			} else {
				assert.Error(gotErr)
			}
		}
	}

	// a table rebuilt from a cached snapshot carries no backing DFA.
	assert.Nil(reloaded.Items(table.Initial()))
}
