// Package tokenfile reads the line-oriented pre-tokenized input format this
// toolkit accepts in place of a real lexer (spec §6, §4.7's "secondary
// convention"). Each non-blank line is either "KIND LEXEME" or a bare
// delimiter keyword (WHITESPACE, SEMICOLON, CARACTER_NO_DEFINIDO); a
// delimiter line ends the current unit and starts a new one, letting a
// single file hold several independent token streams to parse in sequence.
// Grounded on main_app.py's REPL option 6.
package tokenfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/corvidlabs/yalp/internal/ictiobus/lex"
)

// delimiterKinds are the bare keywords that split a token file into
// independent units instead of naming a terminal.
var delimiterKinds = map[string]bool{
	"WHITESPACE":          true,
	"SEMICOLON":            true,
	"CARACTER_NO_DEFINIDO": true,
}

type unit struct {
	tokens []lex.Token
	pos    int
}

func (u *unit) Next() lex.Token {
	t := u.tokens[u.pos]
	u.pos++
	return t
}

func (u *unit) Peek() lex.Token {
	if u.pos >= len(u.tokens) {
		return u.tokens[len(u.tokens)-1]
	}
	return u.tokens[u.pos]
}

func (u *unit) HasNext() bool {
	return u.pos < len(u.tokens)
}

// ReadUnits reads r as a token file and returns one lex.TokenStream per
// delimiter-separated unit. Each returned stream holds only the tokens read
// from the file: per spec §4.7 it is not pre-terminated with a synthetic
// "$", since that is parse.Driver.Parse's job.
func ReadUnits(r io.Reader) ([]lex.TokenStream, error) {
	scanner := bufio.NewScanner(r)

	var chunks [][]lex.Token
	var current []lex.Token
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		kind := parts[0]

		if len(parts) == 1 && delimiterKinds[kind] {
			if len(current) > 0 {
				chunks = append(chunks, current)
				current = nil
			}
			continue
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("tokenfile: malformed line %d: %q", lineNo, line)
		}

		lexeme := strings.TrimSpace(parts[1])
		current = append(current, lex.NewToken(lex.NewClass(kind), lexeme, lineNo, 1))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("tokenfile: %w", err)
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}

	streams := make([]lex.TokenStream, len(chunks))
	for i, chunk := range chunks {
		streams[i] = &unit{tokens: chunk}
	}
	return streams, nil
}
