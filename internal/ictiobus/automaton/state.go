package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corvidlabs/yalp/internal/util"
)

// FATransition is a single labeled edge of a finite automaton: on seeing
// input (the empty string denotes an ε-move), go to next.
type FATransition struct {
	input string
	next  string
}

func (t FATransition) String() string {
	inp := t.input
	if inp == "" {
		inp = "ε"
	}
	return fmt.Sprintf("=(%s)=> %s", inp, t.next)
}

// DFAState is one state of a DFA[E]: a name, a value of type E (the payload
// this package attaches, e.g. the set of LR0Items the state represents),
// its deterministic transition table, and whether it's accepting.
type DFAState[E any] struct {
	name        string
	value       E
	transitions map[string]FATransition
	accepting   bool
}

func (ns DFAState[E]) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)
	for i, input := range inputs {
		moves.WriteString(ns.transitions[input].String())
		if i+1 < len(inputs) {
			moves.WriteString(", ")
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())
	if ns.accepting {
		str = "(" + str + ")"
	}
	return str
}

// Copy returns a duplicate of this state with its own transition map.
func (ns DFAState[E]) Copy() DFAState[E] {
	copied := DFAState[E]{
		name:        ns.name,
		value:       ns.value,
		accepting:   ns.accepting,
		transitions: make(map[string]FATransition, len(ns.transitions)),
	}
	for k, v := range ns.transitions {
		copied.transitions[k] = v
	}
	return copied
}

// NFAState is one state of an NFA[E]; unlike DFAState, each input symbol
// (including ε, keyed by "") may map to more than one destination.
type NFAState[E any] struct {
	name        string
	value       E
	transitions map[string][]FATransition
	accepting   bool
}

func (ns NFAState[E]) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)
	for i, input := range inputs {
		var tStrings []string
		for _, t := range ns.transitions[input] {
			tStrings = append(tStrings, t.String())
		}
		sort.Strings(tStrings)

		for tIdx, t := range tStrings {
			moves.WriteString(t)
			if tIdx+1 < len(tStrings) || i+1 < len(inputs) {
				moves.WriteString(", ")
			}
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())
	if ns.accepting {
		str = "(" + str + ")"
	}
	return str
}

// Copy returns a duplicate of this state with its own transition map.
func (ns NFAState[E]) Copy() NFAState[E] {
	copied := NFAState[E]{
		name:        ns.name,
		value:       ns.value,
		accepting:   ns.accepting,
		transitions: make(map[string][]FATransition, len(ns.transitions)),
	}
	for k, v := range ns.transitions {
		dup := make([]FATransition, len(v))
		copy(dup, v)
		copied.transitions[k] = dup
	}
	return copied
}
