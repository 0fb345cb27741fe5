// Package grammar models a context-free grammar restricted to the subset
// this core actually needs: no ε-productions, a single start symbol, and a
// stable integer index assigned to every production the moment it's added.
// That index is what the SLR parse table calls a production by (spec §3,
// §4.5): the reduce action for a state simply carries "reduce using
// production k". Augmented() prepends the synthetic S' -> S production as
// index 0 and shifts every other production's index up by one; the indices
// of the augmented grammar are the ones the parse table uses.
package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corvidlabs/yalp/internal/ictiobus/lex"
	"github.com/corvidlabs/yalp/internal/util"
)

// Production is the right-hand side of a rule: an ordered list of terminal
// and nonterminal symbols. The empty production (ε) is not supported; every
// Production added to a Grammar must have at least one symbol.
type Production []string

// String renders the production as space-separated symbols.
func (p Production) String() string {
	return strings.Join([]string(p), " ")
}

// Equal reports whether o is a Production with the same symbols in the same
// order.
func (p Production) Equal(o any) bool {
	other, ok := o.(Production)
	if !ok {
		return false
	}
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Rule is every production for a single nonterminal, in the order they were
// added.
type Rule struct {
	NonTerminal string
	Productions []Production
}

func (r Rule) String() string {
	alts := make([]string, len(r.Productions))
	for i, p := range r.Productions {
		alts[i] = p.String()
	}
	return fmt.Sprintf("%s -> %s", r.NonTerminal, strings.Join(alts, " | "))
}

// indexedProduction pairs a production with its rule and the stable index it
// was assigned.
type indexedProduction struct {
	index       int
	nonTerminal string
	production  Production
}

// Grammar is a context-free grammar: a set of terminals (each backed by a
// lex.TokenClass so the parse driver can match tokens against it), a set of
// nonterminals in the order rules were declared, and a flat ordered list of
// productions carrying the stable indices described above.
type Grammar struct {
	terms      map[string]lex.TokenClass
	termOrder  []string
	nonTerms   []string
	rules      map[string]Rule
	start      string
	prods      []indexedProduction
	augmented  bool
}

// AddTerm declares a terminal symbol identified by id, backed by class. It
// is idempotent: re-adding the same id is a no-op.
func (g *Grammar) AddTerm(id string, class lex.TokenClass) {
	if g.terms == nil {
		g.terms = map[string]lex.TokenClass{}
	}
	if _, ok := g.terms[id]; ok {
		return
	}
	g.terms[id] = class
	g.termOrder = append(g.termOrder, id)
}

// AddRule adds production as an alternative for nonTerm, declaring nonTerm
// as a nonterminal if this is its first production and assigning the new
// production the next available stable index. The first nonterminal ever
// added to the grammar becomes its start symbol.
func (g *Grammar) AddRule(nonTerm string, production Production) {
	if g.rules == nil {
		g.rules = map[string]Rule{}
	}
	if _, ok := g.rules[nonTerm]; !ok {
		g.nonTerms = append(g.nonTerms, nonTerm)
		g.rules[nonTerm] = Rule{NonTerminal: nonTerm}
		if g.start == "" {
			g.start = nonTerm
		}
	}

	prod := make(Production, len(production))
	copy(prod, production)

	r := g.rules[nonTerm]
	r.Productions = append(r.Productions, prod)
	g.rules[nonTerm] = r

	g.prods = append(g.prods, indexedProduction{
		index:       len(g.prods),
		nonTerminal: nonTerm,
		production:  prod,
	})
}

// StartSymbol returns the grammar's start nonterminal: the first one passed
// to AddRule.
func (g Grammar) StartSymbol() string {
	return g.start
}

// IsTerminal reports whether sym was declared via AddTerm.
func (g Grammar) IsTerminal(sym string) bool {
	_, ok := g.terms[sym]
	return ok
}

// IsNonTerminal reports whether sym has at least one rule.
func (g Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.rules[sym]
	return ok
}

// Term returns the TokenClass backing terminal id, or nil if id was never
// declared.
func (g Grammar) Term(id string) lex.TokenClass {
	return g.terms[id]
}

// Terminals returns all declared terminal IDs in declaration order.
func (g Grammar) Terminals() []string {
	out := make([]string, len(g.termOrder))
	copy(out, g.termOrder)
	return out
}

// NonTerminals returns all nonterminals in declaration order.
func (g Grammar) NonTerminals() []string {
	out := make([]string, len(g.nonTerms))
	copy(out, g.nonTerms)
	return out
}

// Rule returns the accumulated productions for nonTerm.
func (g Grammar) Rule(nonTerm string) Rule {
	return g.rules[nonTerm]
}

// Productions returns every production in the grammar in stable-index order
// (index i of the returned slice is production i).
func (g Grammar) Productions() []Rule {
	out := make([]Rule, len(g.prods))
	for i, ip := range g.prods {
		out[i] = Rule{NonTerminal: ip.nonTerminal, Productions: []Production{ip.production}}
	}
	return out
}

// ProductionAt returns the nonterminal and production registered under the
// given stable index. ok is false if no production has that index.
func (g Grammar) ProductionAt(index int) (nonTerminal string, production Production, ok bool) {
	if index < 0 || index >= len(g.prods) {
		return "", nil, false
	}
	ip := g.prods[index]
	return ip.nonTerminal, ip.production, true
}

// ProductionIndex returns the stable index of nonTerm -> production, and
// whether that exact production was found.
func (g Grammar) ProductionIndex(nonTerm string, production Production) (int, bool) {
	for _, ip := range g.prods {
		if ip.nonTerminal == nonTerm && ip.production.Equal(production) {
			return ip.index, true
		}
	}
	return 0, false
}

// NumProductions returns the total number of productions in the grammar,
// including the augmenting production if Augmented has been called.
func (g Grammar) NumProductions() int {
	return len(g.prods)
}

// Validate reports the grammar's first structural problem: no terminals, no
// rules, a symbol declared as both terminal and nonterminal, or a
// production referencing a symbol that's neither.
func (g Grammar) Validate() error {
	if len(g.terms) == 0 {
		return fmt.Errorf("grammar has no terminals")
	}
	if len(g.rules) == 0 {
		return fmt.Errorf("grammar has no rules")
	}

	for _, id := range g.termOrder {
		if g.IsNonTerminal(id) {
			return fmt.Errorf("symbol %q cannot be both a terminal and a nonterminal", id)
		}
	}

	for _, nt := range g.nonTerms {
		for _, prod := range g.rules[nt].Productions {
			if len(prod) == 0 {
				return fmt.Errorf("production for %q is empty; epsilon productions are not supported", nt)
			}
			for _, sym := range prod {
				if !g.IsTerminal(sym) && !g.IsNonTerminal(sym) {
					return fmt.Errorf("production %q -> %q references undeclared symbol %q", nt, prod, sym)
				}
			}
		}
	}

	return nil
}

// Augmented returns a copy of g with a synthetic start production S' -> S
// prepended, where S is g's current start symbol and S' is a fresh
// nonterminal name not already in use. The augmenting production is always
// assigned stable index 0; every other production's index is shifted up by
// one to make room. Calling Augmented on an already-augmented grammar
// returns g unchanged.
func (g Grammar) Augmented() Grammar {
	if g.augmented {
		return g
	}

	newStart := g.start + "'"
	for g.IsNonTerminal(newStart) || g.IsTerminal(newStart) {
		newStart += "'"
	}

	aug := Grammar{
		terms:     g.terms,
		termOrder: g.termOrder,
		nonTerms:  append([]string{newStart}, g.nonTerms...),
		rules:     make(map[string]Rule, len(g.rules)+1),
		start:     newStart,
		augmented: true,
	}

	startProd := Production{g.start}
	aug.rules[newStart] = Rule{NonTerminal: newStart, Productions: []Production{startProd}}
	aug.prods = append(aug.prods, indexedProduction{index: 0, nonTerminal: newStart, production: startProd})

	for _, ip := range g.prods {
		aug.prods = append(aug.prods, indexedProduction{
			index:       ip.index + 1,
			nonTerminal: ip.nonTerminal,
			production:  ip.production,
		})
	}
	for nt, r := range g.rules {
		aug.rules[nt] = r
	}

	return aug
}

// LR0Items returns the LR0Item for every position of the dot in every
// production of the grammar (spec §3, Item): for a production of length n
// there are n+1 items, one for each dot position 0..n.
func (g Grammar) LR0Items() []LR0Item {
	var items []LR0Item
	for _, nt := range g.nonTerms {
		for _, prod := range g.rules[nt].Productions {
			for dot := 0; dot <= len(prod); dot++ {
				left := make([]string, dot)
				copy(left, prod[:dot])
				right := make([]string, len(prod)-dot)
				copy(right, prod[dot:])
				items = append(items, LR0Item{NonTerminal: nt, Left: left, Right: right})
			}
		}
	}
	return items
}

// FIRST computes FIRST(sym): the set of terminals that can begin some string
// derived from sym. If sym is a terminal, the result is {sym}. This core
// never sees ε-productions, so FIRST never needs to account for a
// nonterminal deriving the empty string (purple dragon book §4.1 minus the
// ε case).
func (g Grammar) FIRST(sym string) []string {
	if g.IsTerminal(sym) {
		return []string{sym}
	}

	first := map[string]util.StringSet{}
	for _, nt := range g.nonTerms {
		first[nt] = util.NewStringSet()
	}

	changed := true
	for changed {
		changed = false
		for _, nt := range g.nonTerms {
			for _, prod := range g.rules[nt].Productions {
				if len(prod) == 0 {
					continue
				}
				firstSym := prod[0]
				before := first[nt].Len()

				if g.IsTerminal(firstSym) {
					first[nt].Add(firstSym)
				} else {
					first[nt].AddAll(first[firstSym])
				}

				if first[nt].Len() != before {
					changed = true
				}
			}
		}
	}

	return util.Alphabetized(first[sym].Elements())
}

// FOLLOW computes FOLLOW(nonTerm): the set of terminals that can appear
// immediately to the right of nonTerm in some derivation, including "$" if
// nonTerm can be followed by end-of-input (purple dragon book §4.1 rules
// 1-2; rule 3, the ε-propagation rule, never applies since this grammar has
// no ε-productions).
func (g Grammar) FOLLOW(nonTerm string) []string {
	follow := map[string]util.StringSet{}
	for _, nt := range g.nonTerms {
		follow[nt] = util.NewStringSet()
	}
	follow[g.start].Add("$")

	changed := true
	for changed {
		changed = false
		for _, nt := range g.nonTerms {
			for _, prod := range g.rules[nt].Productions {
				trailer := util.NewStringSet(follow[nt])

				for i := len(prod) - 1; i >= 0; i-- {
					sym := prod[i]
					if g.IsNonTerminal(sym) {
						before := follow[sym].Len()
						follow[sym].AddAll(trailer)
						if follow[sym].Len() != before {
							changed = true
						}
						trailer = util.NewStringSet(trailer)
						for _, f := range g.FIRST(sym) {
							trailer.Add(f)
						}
					} else {
						trailer = util.StringSetOf(g.FIRST(sym))
					}
				}
			}
		}
	}

	return util.Alphabetized(follow[nonTerm].Elements())
}

func (g Grammar) String() string {
	names := make([]string, len(g.nonTerms))
	copy(names, g.nonTerms)
	sort.Strings(names)

	var sb strings.Builder
	for i, nt := range names {
		sb.WriteString(g.rules[nt].String())
		if i+1 < len(names) {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}
