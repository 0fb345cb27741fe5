// Package config loads the optional "yalpc.toml" file a session checks for
// at startup: default paths for the grammar and token files plus the
// conflict-resolution policy to build tables with, so a repeat session
// doesn't have to retype them. Grounded on internal/tqw's use of
// github.com/BurntSushi/toml to decode resource-bundle manifests.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the decoded contents of a yalpc.toml file.
type Config struct {
	// GrammarFile is the default .yalp grammar path offered when loading a
	// grammar (menu option 1).
	GrammarFile string `toml:"grammar_file"`

	// TokenFile is the default token file path offered when parsing a token
	// file (menu option 3).
	TokenFile string `toml:"token_file"`

	// FailOnConflict selects the table-build conflict policy: true means
	// BuildSLRTable returns an error on the first conflict instead of
	// resolving and warning.
	FailOnConflict bool `toml:"fail_on_conflict"`
}

// Load reads and decodes the TOML file at path. A missing file is not an
// error: it returns the zero Config, since every field has a sensible
// empty/false default.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	return cfg, nil
}
