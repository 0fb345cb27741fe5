package automaton

import (
	"fmt"
	"strings"

	"github.com/corvidlabs/yalp/internal/util"
)

// DFA is a deterministic finite automaton whose states each carry a value of
// type E. For this core, E is the set of LR0Items a canonical state
// represents (spec §3, State).
type DFA[E any] struct {
	states map[string]DFAState[E]
	Start  string
}

// Copy returns a duplicate of this DFA.
func (dfa DFA[E]) Copy() DFA[E] {
	copied := DFA[E]{
		Start:  dfa.Start,
		states: make(map[string]DFAState[E]),
	}
	for k := range dfa.states {
		copied.states[k] = dfa.states[k].Copy()
	}
	return copied
}

// TransformDFA builds a new DFA with the same shape as dfa but with every
// state's value passed through transform. Used to go from a DFA keyed by raw
// LR0Item sets to one keyed by whatever table-construction payload the
// caller needs (spec §4.3, canonical collection).
func TransformDFA[E1, E2 any](dfa DFA[E1], transform func(old E1) E2) DFA[E2] {
	copied := DFA[E2]{
		states: make(map[string]DFAState[E2], len(dfa.states)),
		Start:  dfa.Start,
	}
	for k := range dfa.states {
		oldState := dfa.states[k]
		newState := DFAState[E2]{
			name:        oldState.name,
			value:       transform(oldState.value),
			transitions: make(map[string]FATransition, len(oldState.transitions)),
			accepting:   oldState.accepting,
		}
		for sym := range oldState.transitions {
			newState.transitions[sym] = oldState.transitions[sym]
		}
		copied.states[k] = newState
	}
	return copied
}

// DFAToNFA converts the DFA into an equivalent NFA type. The result is still
// deterministic in practice; the type change merely allows non-deterministic
// transitions to be added afterward.
func DFAToNFA[E any](dfa DFA[E]) NFA[E] {
	nfa := NFA[E]{
		Start:  dfa.Start,
		states: make(map[string]NFAState[E], len(dfa.states)),
	}
	for sName := range dfa.states {
		dState := dfa.states[sName]
		nState := NFAState[E]{
			name:        dState.name,
			value:       dState.value,
			transitions: make(map[string][]FATransition, len(dState.transitions)),
			accepting:   dState.accepting,
		}
		for sym, dTrans := range dState.transitions {
			nState.transitions[sym] = []FATransition{{input: dTrans.input, next: dTrans.next}}
		}
		nfa.states[sName] = nState
	}
	return nfa
}

// NumberStates renames all states to an increasing number sequence. The
// starting state is guaranteed to be numbered 0; beyond that, states are
// numbered in alphabetical order of their prior names, giving deterministic
// state numbering for ACTION/GOTO table output (spec §4.4).
func (dfa *DFA[E]) NumberStates() {
	if _, ok := dfa.states[dfa.Start]; !ok {
		panic("can't number states of DFA with no start state set")
	}
	origStateNames := util.OrderedKeys(dfa.States())

	startIdx := -1
	for i := range origStateNames {
		if origStateNames[i] == dfa.Start {
			startIdx = i
			break
		}
	}
	if startIdx == -1 {
		panic("couldn't find starting state; should never happen")
	}
	origStateNames = append(origStateNames[:startIdx], origStateNames[startIdx+1:]...)
	origStateNames = append([]string{dfa.Start}, origStateNames...)

	numMapping := map[string]string{}
	for i, name := range origStateNames {
		numMapping[name] = fmt.Sprintf("%d", i)
	}

	newDfa := &DFA[E]{
		states: make(map[string]DFAState[E]),
		Start:  numMapping[dfa.Start],
	}

	for _, name := range origStateNames {
		st := dfa.states[name]
		newName := numMapping[name]
		newDfa.AddState(newName, st.accepting)
		newDfa.SetValue(newName, st.value)
	}
	for _, name := range origStateNames {
		st := dfa.states[name]
		from := numMapping[name]
		for sym, t := range st.transitions {
			newDfa.AddTransition(from, sym, numMapping[t.next])
		}
	}

	dfa.states = newDfa.states
	dfa.Start = newDfa.Start
}

func (dfa *DFA[E]) SetValue(state string, v E) {
	s, ok := dfa.states[state]
	if !ok {
		panic(fmt.Sprintf("setting value on non-existing state: %q", state))
	}
	s.value = v
	dfa.states[state] = s
}

func (dfa *DFA[E]) GetValue(state string) E {
	s, ok := dfa.states[state]
	if !ok {
		panic(fmt.Sprintf("getting value on non-existing state: %q", state))
	}
	return s.value
}

// IsAccepting returns whether the given state is an accepting state. Returns
// false if the state does not exist.
func (dfa DFA[E]) IsAccepting(state string) bool {
	s, ok := dfa.states[state]
	return ok && s.accepting
}

// Validate reports any state unreachable from the start, any transition to a
// state that doesn't exist, or a Start that isn't itself a known state.
func (dfa DFA[E]) Validate() error {
	var errs []string

	for sName := range dfa.states {
		if sName == dfa.Start {
			continue
		}
		reachable := false
		for otherName, st := range dfa.states {
			if otherName == sName {
				continue
			}
			for _, t := range st.transitions {
				if t.next == sName {
					reachable = true
					break
				}
			}
			if reachable {
				break
			}
		}
		if !reachable {
			errs = append(errs, fmt.Sprintf("no transitions to non-start state %q", sName))
		}
	}

	for sName, st := range dfa.states {
		for symbol, t := range st.transitions {
			if _, ok := dfa.states[t.next]; !ok {
				errs = append(errs, fmt.Sprintf("state %q transitions to non-existing state on %q: %q", sName, symbol, t.next))
			}
		}
	}

	if _, ok := dfa.states[dfa.Start]; !ok {
		errs = append(errs, fmt.Sprintf("start state does not exist: %q", dfa.Start))
	}

	if len(errs) > 0 {
		return fmt.Errorf(strings.Join(errs, "\n"))
	}
	return nil
}

// States returns all states in the DFA.
func (dfa DFA[E]) States() util.StringSet {
	states := util.NewStringSet()
	for k := range dfa.states {
		states.Add(k)
	}
	return states
}

// Next returns the state reached from fromState on input, or "" if fromState
// doesn't exist or has no transition on input.
func (dfa DFA[E]) Next(fromState string, input string) string {
	state, ok := dfa.states[fromState]
	if !ok {
		return ""
	}
	return state.transitions[input].next
}

func (dfa *DFA[E]) AddState(state string, accepting bool) {
	if _, ok := dfa.states[state]; ok {
		return
	}
	if dfa.states == nil {
		dfa.states = map[string]DFAState[E]{}
	}
	dfa.states[state] = DFAState[E]{
		name:        state,
		transitions: make(map[string]FATransition),
		accepting:   accepting,
	}
}

func (dfa *DFA[E]) AddTransition(fromState string, input string, toState string) {
	curFromState, ok := dfa.states[fromState]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", fromState))
	}
	if _, ok := dfa.states[toState]; !ok {
		panic(fmt.Sprintf("add transition to non-existent state %q", toState))
	}
	curFromState.transitions[input] = FATransition{input: input, next: toState}
	dfa.states[fromState] = curFromState
}

func (dfa DFA[E]) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<START: %q, STATES:", dfa.Start))

	orderedStates := util.OrderedKeys(dfa.states)
	for i := range orderedStates {
		sb.WriteString("\n\t")
		sb.WriteString(dfa.states[orderedStates[i]].String())
		if i+1 < len(orderedStates) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}
	sb.WriteRune('>')
	return sb.String()
}
