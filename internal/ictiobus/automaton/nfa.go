package automaton

import (
	"fmt"
	"strings"

	"github.com/corvidlabs/yalp/internal/ictiobus/grammar"
	"github.com/corvidlabs/yalp/internal/util"
)

// NFA is a non-deterministic finite automaton whose states each carry a
// value of type E.
type NFA[E any] struct {
	states map[string]NFAState[E]
	Start  string
}

// NFATransitionTo names one edge of the NFA that leads to a particular
// state, identified by its source state, input symbol, and position within
// that state's transition list for the symbol (needed to rewrite it without
// touching sibling transitions on the same symbol).
type NFATransitionTo struct {
	from  string
	input string
	index int
}

// AllTransitionsTo returns every transition that leads to toState.
func (nfa NFA[E]) AllTransitionsTo(toState string) []NFATransitionTo {
	if _, ok := nfa.states[toState]; !ok {
		return nil
	}
	var transitions []NFATransitionTo
	for _, sName := range util.OrderedKeys(nfa.states) {
		state := nfa.states[sName]
		for k := range state.transitions {
			for i, t := range state.transitions[k] {
				if t.next == toState {
					transitions = append(transitions, NFATransitionTo{from: sName, input: k, index: i})
				}
			}
		}
	}
	return transitions
}

// Copy returns a duplicate of this NFA.
func (nfa NFA[E]) Copy() NFA[E] {
	copied := NFA[E]{Start: nfa.Start, states: make(map[string]NFAState[E], len(nfa.states))}
	for k := range nfa.states {
		copied.states[k] = nfa.states[k].Copy()
	}
	return copied
}

// States returns all states in the NFA.
func (nfa NFA[E]) States() util.StringSet {
	states := util.NewStringSet()
	for k := range nfa.states {
		states.Add(k)
	}
	return states
}

// ToDFA converts the NFA into a deterministic finite automaton accepting the
// same viable prefixes, via the subset construction (purple dragon book,
// algorithm 3.20): each DFA state is the ε-closure of a set of NFA states,
// carried as the value so callers can recover which LR0Items it represents.
func (nfa NFA[E]) ToDFA() DFA[util.SVSet[E]] {
	inputSymbols := nfa.InputSymbols()

	Dstart := nfa.EpsilonClosure(nfa.Start)

	markedStates := util.NewStringSet()
	Dstates := map[string]util.StringSet{}
	Dstates[Dstart.StringOrdered()] = Dstart

	dfa := DFA[util.SVSet[E]]{states: map[string]DFAState[util.SVSet[E]]{}}

	for {
		DstateNames := util.StringSetOf(util.OrderedKeys(Dstates))
		unmarkedStates := DstateNames.Difference(markedStates)
		if unmarkedStates.Len() < 1 {
			break
		}

		for _, Tname := range unmarkedStates.Elements() {
			T := Dstates[Tname]
			markedStates.Add(Tname)

			stateValues := util.NewSVSet[E]()
			for nfaStateName := range T {
				stateValues.Set(nfaStateName, nfa.GetValue(nfaStateName))
			}

			newDFAState := DFAState[util.SVSet[E]]{name: Tname, value: stateValues, transitions: map[string]FATransition{}}
			if T.Any(func(v string) bool { return nfa.states[v].accepting }) {
				newDFAState.accepting = true
			}

			for _, a := range inputSymbols.Elements() {
				U := nfa.EpsilonClosureOfSet(nfa.MOVE(T, a))
				if U.Empty() {
					continue
				}

				if !DstateNames.Has(U.StringOrdered()) {
					DstateNames.Add(U.StringOrdered())
					Dstates[U.StringOrdered()] = U
				}

				newDFAState.transitions[a] = FATransition{input: a, next: U.StringOrdered()}
			}

			dfa.states[Tname] = newDFAState
			if dfa.Start == "" {
				dfa.Start = Tname
			}
		}
	}
	return dfa
}

// InputSymbols returns the set of all input symbols any transition in the
// NFA is labeled with (excluding ε).
func (nfa NFA[E]) InputSymbols() util.StringSet {
	symbols := util.NewStringSet()
	for sName := range nfa.states {
		for a := range nfa.states[sName].transitions {
			if a != "" {
				symbols.Add(a)
			}
		}
	}
	return symbols
}

// MOVE returns the set of states reachable with one transition from some
// state in X on input a (purple dragon book, MOVE(T, a), algorithm 3.20).
func (nfa NFA[E]) MOVE(X util.ISet[string], a string) util.StringSet {
	moves := util.NewStringSet()
	for _, s := range X.Elements() {
		stateItem, ok := nfa.states[s]
		if !ok {
			continue
		}
		for _, t := range stateItem.transitions[a] {
			moves.Add(t.next)
		}
	}
	return moves
}

// EpsilonClosureOfSet gives the set of states reachable from some state in X
// using zero or more ε-moves.
func (nfa NFA[E]) EpsilonClosureOfSet(X util.ISet[string]) util.StringSet {
	allClosures := util.NewStringSet()
	for _, s := range X.Elements() {
		allClosures.AddAll(nfa.EpsilonClosure(s))
	}
	return allClosures
}

// EpsilonClosure gives the set of states reachable from s using zero or more
// ε-moves.
func (nfa NFA[E]) EpsilonClosure(s string) util.StringSet {
	stateItem, ok := nfa.states[s]
	if !ok {
		return nil
	}

	closure := util.NewStringSet()
	checkingStates := util.Stack[NFAState[E]]{}
	checkingStates.Push(stateItem)

	for checkingStates.Len() > 0 {
		checking := checkingStates.Pop()
		if closure.Has(checking.name) {
			continue
		}
		closure.Add(checking.name)

		for _, move := range checking.transitions[""] {
			state, ok := nfa.states[move.next]
			if !ok {
				panic(fmt.Sprintf("points to invalid state: %q", move.next))
			}
			checkingStates.Push(state)
		}
	}
	return closure
}

func (nfa NFA[E]) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<START: %q, STATES:", nfa.Start))

	orderedStates := util.OrderedKeys(nfa.states)
	for i := range orderedStates {
		sb.WriteString("\n\t")
		sb.WriteString(nfa.states[orderedStates[i]].String())
		if i+1 < len(orderedStates) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}
	sb.WriteRune('>')
	return sb.String()
}

// NumberStates renames all states to an increasing number sequence, with the
// start state numbered 0 and the rest in alphabetical order of prior name.
func (nfa *NFA[E]) NumberStates() {
	if _, ok := nfa.states[nfa.Start]; !ok {
		panic("can't number states of NFA with no start state set")
	}
	origStateNames := util.OrderedKeys(nfa.States())

	startIdx := -1
	for i := range origStateNames {
		if origStateNames[i] == nfa.Start {
			startIdx = i
			break
		}
	}
	origStateNames = append(origStateNames[:startIdx], origStateNames[startIdx+1:]...)
	origStateNames = append([]string{nfa.Start}, origStateNames...)

	numMapping := map[string]string{}
	for i, name := range origStateNames {
		numMapping[name] = fmt.Sprintf("%d", i)
	}

	newNfa := NFA[E]{states: make(map[string]NFAState[E]), Start: numMapping[nfa.Start]}
	for _, name := range origStateNames {
		st := nfa.states[name]
		newName := numMapping[name]
		newNfa.AddState(newName, st.accepting)
		newNfa.SetValue(newName, st.value)
	}
	for _, name := range origStateNames {
		st := nfa.states[name]
		from := numMapping[name]
		for sym, symTrans := range st.transitions {
			for _, t := range symTrans {
				newNfa.AddTransition(from, sym, numMapping[t.next])
			}
		}
	}

	nfa.states = newNfa.states
	nfa.Start = newNfa.Start
}

func (nfa *NFA[E]) AddState(state string, accepting bool) {
	if _, ok := nfa.states[state]; ok {
		return
	}
	if nfa.states == nil {
		nfa.states = map[string]NFAState[E]{}
	}
	nfa.states[state] = NFAState[E]{name: state, transitions: make(map[string][]FATransition), accepting: accepting}
}

func (nfa *NFA[E]) SetValue(state string, v E) {
	s, ok := nfa.states[state]
	if !ok {
		panic(fmt.Sprintf("setting value on non-existing state: %q", state))
	}
	s.value = v
	nfa.states[state] = s
}

func (nfa *NFA[E]) GetValue(state string) E {
	s, ok := nfa.states[state]
	if !ok {
		panic(fmt.Sprintf("getting value on non-existing state: %q", state))
	}
	return s.value
}

func (nfa *NFA[E]) AddTransition(fromState string, input string, toState string) {
	curFromState, ok := nfa.states[fromState]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", fromState))
	}
	if _, ok := nfa.states[toState]; !ok {
		panic(fmt.Sprintf("add transition to non-existent state %q", toState))
	}

	curFromState.transitions[input] = append(curFromState.transitions[input], FATransition{input: input, next: toState})
	nfa.states[fromState] = curFromState
}

// NewLR0ViablePrefixNFA builds the NFA of all LR0Items of the augmented
// grammar g' (purple dragon book §4.6): g' adds production S' -> S, and a
// state's ε-transitions expand a nonterminal immediately after the dot into
// the dotted start of each of its productions. Calling ToDFA on the result
// and grouping by ε-closure yields the canonical LR(0) collection (spec §3).
func NewLR0ViablePrefixNFA(g grammar.Grammar) NFA[grammar.LR0Item] {
	oldStart := g.StartSymbol()
	g = g.Augmented()

	nfa := NFA[grammar.LR0Item]{}
	nfa.Start = grammar.LR0Item{NonTerminal: g.StartSymbol(), Right: []string{oldStart}}.String()

	items := g.LR0Items()
	for i := range items {
		nfa.AddState(items[i].String(), true)
		nfa.SetValue(items[i].String(), items[i])
	}

	for i := range items {
		item := items[i]
		if len(item.Right) < 1 {
			continue
		}

		alpha := item.Left
		X := item.Right[0]
		beta := item.Right[1:]

		toItem := grammar.LR0Item{
			NonTerminal: item.NonTerminal,
			Left:        append(append([]string{}, alpha...), X),
			Right:       beta,
		}
		nfa.AddTransition(item.String(), X, toItem.String())

		if g.IsNonTerminal(X) {
			for _, gamma := range g.Rule(X).Productions {
				prodState := grammar.LR0Item{NonTerminal: X, Right: gamma}
				nfa.AddTransition(item.String(), "", prodState.String())
			}
		}
	}

	return nfa
}
