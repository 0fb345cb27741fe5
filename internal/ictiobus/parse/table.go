// Package parse builds an SLR(1) ACTION/GOTO table from a grammar's
// canonical LR(0) collection and drives a shift-reduce parse over a token
// stream, producing a concrete parse tree (spec §4.5, §4.6).
package parse

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dekarrin/rosed"
	"github.com/corvidlabs/yalp/internal/ictiobus/automaton"
	"github.com/corvidlabs/yalp/internal/ictiobus/grammar"
	"github.com/corvidlabs/yalp/internal/util"
	"github.com/corvidlabs/yalp/internal/yalperr"
)

// ConflictPolicy selects what BuildSLRTable does when an ACTION entry would
// be overwritten (spec §4.5's "configurable flag").
type ConflictPolicy int

const (
	// ResolveAndWarn applies the deterministic resolution table and
	// accumulates a Conflict record for each one (the default).
	ResolveAndWarn ConflictPolicy = iota
	// FailOnConflict returns a *yalperr.TableBuildError on the first
	// conflict instead of resolving it.
	FailOnConflict
)

// Conflict is one resolved (or, under FailOnConflict, fatal) ACTION-table
// conflict, carrying everything spec §4.5 requires a diagnostic to expose.
type Conflict struct {
	State    string
	Symbol   string
	Existing LRAction
	Proposed LRAction
	Winner   LRAction
	Items    []string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s conflict in state %s on %q: %s vs %s (resolved: %s)",
		conflictKind(c.Existing, c.Proposed), c.State, c.Symbol, c.Existing, c.Proposed, c.Winner)
}

// Table is the built ACTION/GOTO table plus the canonical collection it was
// derived from.
type Table struct {
	action map[string]map[string]LRAction
	goTo   map[string]map[string]string
	start  string

	gPrime    grammar.Grammar
	gStart    string
	gTerms    []string
	gNonTerms []string
	dfa       automaton.DFA[util.SVSet[grammar.LR0Item]]
	hasDFA    bool
}

// BuildSLRTable implements algorithm 4.46 of the purple dragon book,
// "Constructing an SLR-parsing table": it takes the canonical LR(0)
// collection of the augmented grammar (spec §4.3/§4.4) and projects it into
// ACTION and GOTO, applying the conflict-resolution policy of spec §4.5
// whenever an entry would be overwritten.
func BuildSLRTable(g grammar.Grammar, policy ConflictPolicy) (*Table, []Conflict, error) {
	gPrime := g.Augmented()

	dfa := automaton.NewLR0ViablePrefixNFA(g).ToDFA()
	dfa.NumberStates()

	t := &Table{
		action:    map[string]map[string]LRAction{},
		goTo:      map[string]map[string]string{},
		start:     dfa.Start,
		gPrime:    gPrime,
		gStart:    g.StartSymbol(),
		gTerms:    g.Terminals(),
		gNonTerms: g.NonTerminals(),
		dfa:       dfa,
		hasDFA:    true,
	}

	var conflicts []Conflict

	for _, i := range dfa.States().Elements() {
		itemSet := dfa.GetValue(i)

		for _, itemStr := range itemSet.Elements() {
			item := itemSet.Get(itemStr)
			A := item.NonTerminal

			if len(item.Right) > 0 {
				// [A -> alpha . X beta]: if X is a terminal, shift.
				X := item.Right[0]
				if gPrime.IsTerminal(X) {
					j := dfa.Next(i, X)
					if j != "" {
						proposed := LRAction{Type: LRShift, State: j}
						c, err := t.set(i, X, proposed, itemSet, policy)
						if err != nil {
							return nil, conflicts, err
						}
						if c != nil {
							conflicts = append(conflicts, *c)
						}
					}
				}
				continue
			}

			// item is complete: [A -> alpha .]
			if A == gPrime.StartSymbol() {
				proposed := LRAction{Type: LRAccept}
				c, err := t.set(i, "$", proposed, itemSet, policy)
				if err != nil {
					return nil, conflicts, err
				}
				if c != nil {
					conflicts = append(conflicts, *c)
				}
				continue
			}

			idx, ok := gPrime.ProductionIndex(A, grammar.Production(item.Left))
			if !ok {
				return nil, conflicts, fmt.Errorf("internal error: item %q has no matching production", itemStr)
			}
			for _, b := range gPrime.FOLLOW(A) {
				proposed := LRAction{
					Type:            LRReduce,
					ProductionIndex: idx,
					Production:      grammar.Production(item.Left),
					Symbol:          A,
				}
				c, err := t.set(i, b, proposed, itemSet, policy)
				if err != nil {
					return nil, conflicts, err
				}
				if c != nil {
					conflicts = append(conflicts, *c)
				}
			}
		}

		for _, nt := range t.gNonTerms {
			j := dfa.Next(i, nt)
			if j != "" {
				if t.goTo[i] == nil {
					t.goTo[i] = map[string]string{}
				}
				t.goTo[i][nt] = j
			}
		}
	}

	return t, conflicts, nil
}

func (t *Table) set(state, symbol string, proposed LRAction, itemSet util.SVSet[grammar.LR0Item], policy ConflictPolicy) (*Conflict, error) {
	if t.action[state] == nil {
		t.action[state] = map[string]LRAction{}
	}
	existing, has := t.action[state][symbol]
	if !has {
		t.action[state][symbol] = proposed
		return nil, nil
	}
	if existing.Equal(proposed) {
		return nil, nil
	}

	winner, _ := resolveConflict(existing, proposed)

	if policy == FailOnConflict {
		stateNum, _ := strconv.Atoi(state)
		kind := yalperr.ShiftReduceConflict
		switch conflictKind(existing, proposed) {
		case "reduce/reduce":
			kind = yalperr.ReduceReduceConflict
		case "shift/shift":
			kind = yalperr.ShiftShiftConflict
		}
		return nil, yalperr.NewTableBuildError(kind, stateNum, symbol, proposed.ProductionIndex, existing.ProductionIndex)
	}

	t.action[state][symbol] = winner

	items := make([]string, 0, itemSet.Len())
	for _, k := range util.Alphabetized(itemSet.Elements()) {
		items = append(items, k)
	}

	return &Conflict{
		State:    state,
		Symbol:   symbol,
		Existing: existing,
		Proposed: proposed,
		Winner:   winner,
		Items:    items,
	}, nil
}

// NewTableFromSnapshot rebuilds a Table from a previously cached ACTION/GOTO
// projection (internal/tablecache), bypassing BuildSLRTable's canonical
// collection construction entirely. The returned Table has no backing DFA:
// Items is unavailable, but Action, Goto, and States work exactly as for a
// freshly built table. String lays out its columns from terms and nonTerms
// as given here, so it lists every nonterminal passed in.
func NewTableFromSnapshot(start string, terms, nonTerms []string, action map[string]map[string]LRAction, goTo map[string]map[string]string) *Table {
	return &Table{
		action:    action,
		goTo:      goTo,
		start:     start,
		gTerms:    terms,
		gNonTerms: nonTerms,
	}
}

// Initial returns the DFA's start state.
func (t *Table) Initial() string {
	return t.start
}

// Action returns ACTION[state, symbol], or an action of type LRError if no
// entry exists.
func (t *Table) Action(state, symbol string) LRAction {
	row, ok := t.action[state]
	if !ok {
		return LRAction{Type: LRError}
	}
	act, ok := row[symbol]
	if !ok {
		return LRAction{Type: LRError}
	}
	return act
}

// Goto returns GOTO[state, symbol], or an error if no entry exists.
func (t *Table) Goto(state, symbol string) (string, error) {
	row, ok := t.goTo[state]
	if !ok {
		return "", fmt.Errorf("GOTO[%s, %s] is an error entry", state, symbol)
	}
	j, ok := row[symbol]
	if !ok {
		return "", fmt.Errorf("GOTO[%s, %s] is an error entry", state, symbol)
	}
	return j, nil
}

// States returns the ordinals of every state in the table, sorted
// numerically. For a table rebuilt from a cache (NewTableFromSnapshot) this
// is derived from the ACTION/GOTO maps rather than a backing DFA.
func (t *Table) States() []string {
	var names []string
	if t.hasDFA {
		names = t.dfa.States().Elements()
	} else {
		seen := map[string]bool{}
		for s := range t.action {
			seen[s] = true
		}
		for s := range t.goTo {
			seen[s] = true
		}
		for s := range seen {
			names = append(names, s)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		a, _ := strconv.Atoi(names[i])
		b, _ := strconv.Atoi(names[j])
		return a < b
	})
	return names
}

// Items returns the set of LR0Items represented by the given state. It is
// only available on a table built by BuildSLRTable; a table rebuilt from a
// cache returns nil, since the cached snapshot doesn't carry item sets.
func (t *Table) Items(state string) []grammar.LR0Item {
	if !t.hasDFA {
		return nil
	}
	set := t.dfa.GetValue(state)
	out := make([]grammar.LR0Item, 0, set.Len())
	for _, k := range util.Alphabetized(set.Elements()) {
		out = append(out, set.Get(k))
	}
	return out
}

// String renders the ACTION/GOTO table via rosed, one row per state and one
// column per terminal/nonterminal, mirroring the teacher's console table
// layout.
func (t *Table) String() string {
	stateNames := t.States()

	allTerms := append(append([]string{}, t.gTerms...), "$")

	headers := []string{"S", "|"}
	for _, term := range allTerms {
		headers = append(headers, fmt.Sprintf("A:%s", term))
	}
	headers = append(headers, "|")
	for _, nt := range t.gNonTerms {
		headers = append(headers, fmt.Sprintf("G:%s", nt))
	}

	data := [][]string{headers}

	for _, i := range stateNames {
		row := []string{i, "|"}
		for _, term := range allTerms {
			act := t.Action(i, term)
			cell := ""
			switch act.Type {
			case LRAccept:
				cell = "acc"
			case LRReduce:
				cell = fmt.Sprintf("r%d", act.ProductionIndex)
			case LRShift:
				cell = fmt.Sprintf("s%s", act.State)
			}
			row = append(row, cell)
		}
		row = append(row, "|")
		for _, nt := range t.gNonTerms {
			cell := ""
			if j, err := t.Goto(i, nt); err == nil {
				cell = j
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
