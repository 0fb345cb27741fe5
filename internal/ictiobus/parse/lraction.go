package parse

import (
	"fmt"

	"github.com/corvidlabs/yalp/internal/ictiobus/grammar"
)

// LRActionType tags the kind of entry an ACTION table cell holds (spec
// §4.5's "tagged variant {Shift(state), Reduce(prod-idx), Accept}").
type LRActionType int

const (
	LRShift LRActionType = iota
	LRReduce
	LRAccept
	LRError
)

// LRAction is one ACTION-table entry.
type LRAction struct {
	Type LRActionType

	// ProductionIndex is the stable grammar.Grammar production index to
	// reduce by; used only when Type is LRReduce. This is the exact payload
	// spec §4.5 calls "the stable production index of A -> α".
	ProductionIndex int

	// Production is the RHS of the production being reduced; used only when
	// Type is LRReduce, to tell the driver how many stack entries to pop.
	Production grammar.Production

	// Symbol is the LHS nonterminal of the production being reduced; used
	// only when Type is LRReduce.
	Symbol string

	// State is the ordinal (as the automaton's state name) to shift to;
	// used only when Type is LRShift.
	State string
}

func (act LRAction) String() string {
	switch act.Type {
	case LRAccept:
		return "ACTION<accept>"
	case LRError:
		return "ACTION<error>"
	case LRReduce:
		return fmt.Sprintf("ACTION<reduce %d: %s -> %s>", act.ProductionIndex, act.Symbol, act.Production.String())
	case LRShift:
		return fmt.Sprintf("ACTION<shift %s>", act.State)
	default:
		return "ACTION<unknown>"
	}
}

// Equal reports whether o is an LRAction describing the same entry.
func (act LRAction) Equal(o any) bool {
	other, ok := o.(LRAction)
	if !ok {
		otherPtr, ok2 := o.(*LRAction)
		if !ok2 || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return act.Type == other.Type &&
		act.ProductionIndex == other.ProductionIndex &&
		act.Production.Equal(other.Production) &&
		act.State == other.State &&
		act.Symbol == other.Symbol
}

// resolveConflict implements spec §4.5's conflict-resolution policy: given
// the entry already occupying an ACTION cell and the one about to be
// written to it, it returns the entry that should win and whether the
// inputs actually conflicted (as opposed to one simply being unset).
func resolveConflict(existing, proposed LRAction) (winner LRAction, conflicted bool) {
	switch {
	case existing.Type == LRReduce && proposed.Type == LRShift:
		return proposed, true // shift wins (overwrite)
	case existing.Type == LRShift && proposed.Type == LRReduce:
		return existing, true // shift wins (keep)
	case existing.Type == LRShift && proposed.Type == LRShift:
		return existing, true // keep existing (report)
	case existing.Type == LRReduce && proposed.Type == LRReduce:
		if proposed.ProductionIndex < existing.ProductionIndex {
			return proposed, true
		}
		return existing, true // keep the lower production index
	case existing.Type == LRError:
		return proposed, false
	default:
		return proposed, true
	}
}

func conflictKind(existing, proposed LRAction) string {
	switch {
	case existing.Type == LRReduce && proposed.Type == LRShift,
		existing.Type == LRShift && proposed.Type == LRReduce:
		return "shift/reduce"
	case existing.Type == LRShift && proposed.Type == LRShift:
		return "shift/shift"
	case existing.Type == LRReduce && proposed.Type == LRReduce:
		return "reduce/reduce"
	default:
		return "action"
	}
}
