package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Load_MissingFileReturnsZeroValue(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.NoError(err)
	assert.Equal(Config{}, cfg)
}

func Test_Load_ParsesTOML(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "yalpc.toml")
	contents := `
grammar_file = "expr.yalp"
token_file = "input.tok"
fail_on_conflict = true
`
	assert.NoError(os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal(Config{
		GrammarFile:    "expr.yalp",
		TokenFile:      "input.tok",
		FailOnConflict: true,
	}, cfg)
}

func Test_Load_MalformedTOML(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "bad.toml")
	assert.NoError(os.WriteFile(path, []byte("not = [valid toml"), 0o644))

	_, err := Load(path)
	assert.Error(err)
}
