// Package yalp reads the ".yalp" grammar-specification format (spec §6): a
// series of "%token NAME..." declaration lines, a "%%" separator, then a
// body of "LHS : ALT1 | ALT2 | ... ;" production blocks. Terminals not named
// by a %token line are inferred from whatever symbol shows up on some RHS
// and is never the LHS of a rule. Grounded on grammar_reader.py's
// _parse_yalp/_infer_terminals_from_rhs.
package yalp

import (
	"io"
	"regexp"
	"strings"

	"github.com/corvidlabs/yalp/internal/ictiobus/grammar"
	"github.com/corvidlabs/yalp/internal/ictiobus/lex"
	"github.com/corvidlabs/yalp/internal/yalperr"
)

var tokenLineRE = regexp.MustCompile(`(?m)^%token\s+(.+)$`)

type rawProduction struct {
	lhs string
	rhs []string
}

// Parse reads a .yalp document from r and builds the Grammar it describes.
// Terminals inferred from an RHS are backed by a lex.TokenClass built with
// lex.NewClass(id); declared %token symbols get the same treatment, since
// this format carries no separate lexical rule for them.
func Parse(r io.Reader) (grammar.Grammar, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return grammar.Grammar{}, err
	}
	text := string(raw)

	declared := map[string]bool{}
	for _, m := range tokenLineRE.FindAllStringSubmatch(text, -1) {
		for _, id := range strings.Fields(m[1]) {
			declared[id] = true
		}
	}

	parts := strings.SplitN(text, "%%", 2)
	if len(parts) < 2 {
		return grammar.Grammar{}, yalperr.NewGrammarError(yalperr.MissingBody, 0, "",
			"no '%%' separator found in grammar file")
	}
	body := parts[1]

	var prods []rawProduction
	nonTerms := map[string]bool{}
	var nonTermOrder []string

	line := strings.Count(parts[0], "\n") + 1
	for _, block := range strings.Split(body, ";") {
		blockLines := strings.Count(block, "\n")
		trimmed := strings.TrimSpace(block)
		if trimmed == "" {
			line += blockLines
			continue
		}

		lhsSplit := strings.SplitN(trimmed, ":", 2)
		if len(lhsSplit) != 2 {
			return grammar.Grammar{}, yalperr.NewGrammarError(yalperr.MalformedProduction, line, "",
				"production block %q has no ':'", trimmed)
		}

		lhs := strings.TrimSpace(lhsSplit[0])
		if lhs == "" {
			return grammar.Grammar{}, yalperr.NewGrammarError(yalperr.MalformedProduction, line, "",
				"production block %q has an empty left-hand side", trimmed)
		}

		if !nonTerms[lhs] {
			nonTerms[lhs] = true
			nonTermOrder = append(nonTermOrder, lhs)
		}

		for _, alt := range strings.Split(lhsSplit[1], "|") {
			alt = strings.TrimSpace(alt)
			if alt == "" {
				continue
			}
			symbols := strings.Fields(alt)
			prods = append(prods, rawProduction{lhs: lhs, rhs: symbols})
		}

		line += blockLines
	}

	if len(prods) == 0 {
		return grammar.Grammar{}, yalperr.NewGrammarError(yalperr.MalformedProduction, line, "",
			"grammar body contains no productions")
	}

	allRHSSymbols := map[string]bool{}
	for _, p := range prods {
		for _, sym := range p.rhs {
			allRHSSymbols[sym] = true
		}
	}

	terms := map[string]bool{}
	for id := range declared {
		terms[id] = true
	}
	for sym := range allRHSSymbols {
		if !nonTerms[sym] {
			terms[sym] = true
		}
	}

	for nt := range nonTerms {
		if terms[nt] {
			return grammar.Grammar{}, yalperr.NewGrammarError(yalperr.Overlap, 0, nt,
				"symbol %q cannot be both a terminal and a nonterminal", nt)
		}
	}

	var g grammar.Grammar
	termOrder := make([]string, 0, len(terms))
	for id := range declared {
		termOrder = append(termOrder, id)
	}
	for sym := range allRHSSymbols {
		if terms[sym] && !declared[sym] {
			termOrder = append(termOrder, sym)
		}
	}
	for _, id := range termOrder {
		g.AddTerm(id, lex.NewClass(id))
	}
	for _, p := range prods {
		g.AddRule(p.lhs, grammar.Production(p.rhs))
	}

	if err := g.Validate(); err != nil {
		return grammar.Grammar{}, yalperr.NewGrammarError(yalperr.Overlap, 0, "", "%s", err)
	}

	return g, nil
}
