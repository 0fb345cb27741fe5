package grammar

import (
	"fmt"
	"strings"
)

// LR0Item is a production with a dot at some position in its RHS: given
// A -> X1 X2 X3 with the dot after X1, Left holds [X1] and Right holds
// [X2, X3]. Equality is structural over the nonterminal and both sides of
// the dot (spec §3, Item). LR(1)/CLR/LALR lookahead items are out of scope:
// this core only ever builds SLR(1) tables, so the item carries no
// lookahead.
type LR0Item struct {
	NonTerminal string
	Left        []string
	Right       []string
}

// Complete reports whether the dot has reached the end of the RHS.
func (item LR0Item) Complete() bool {
	return len(item.Right) == 0
}

// Equal returns whether o is an LR0Item with the same nonterminal and the
// same symbols on both sides of the dot.
func (item LR0Item) Equal(o any) bool {
	other, ok := o.(LR0Item)
	if !ok {
		otherPtr, ok := o.(*LR0Item)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if item.NonTerminal != other.NonTerminal {
		return false
	}
	if len(item.Left) != len(other.Left) || len(item.Right) != len(other.Right) {
		return false
	}
	for i := range item.Left {
		if item.Left[i] != other.Left[i] {
			return false
		}
	}
	for i := range item.Right {
		if item.Right[i] != other.Right[i] {
			return false
		}
	}
	return true
}

// String renders the item as "NONTERM -> alpha . beta", the canonical key
// used for item-set membership and state deduplication throughout this
// package.
func (item LR0Item) String() string {
	left := strings.Join(item.Left, " ")
	right := strings.Join(item.Right, " ")
	if len(left) > 0 {
		left += " "
	}
	if len(right) > 0 {
		right = " " + right
	}
	return fmt.Sprintf("%s -> %s.%s", item.NonTerminal, left, right)
}

// Advance returns the item with its dot moved one symbol to the right. It
// must only be called on a non-complete item.
func (item LR0Item) Advance() LR0Item {
	moved := make([]string, len(item.Left), len(item.Left)+1)
	copy(moved, item.Left)
	moved = append(moved, item.Right[0])
	return LR0Item{
		NonTerminal: item.NonTerminal,
		Left:        moved,
		Right:       item.Right[1:],
	}
}

// NextSymbol returns the symbol immediately after the dot and true, or
// ("", false) if the item is complete.
func (item LR0Item) NextSymbol() (string, bool) {
	if item.Complete() {
		return "", false
	}
	return item.Right[0], true
}

// ParseLR0Item parses the String() form of an LR0Item, "NONTERM -> a b . c
// d". It is used by tests to build expected items tersely.
func ParseLR0Item(s string) (LR0Item, error) {
	sides := strings.SplitN(s, "->", 2)
	if len(sides) != 2 {
		return LR0Item{}, fmt.Errorf("not an item of form 'NONTERM -> ALPHA.BETA': %q", s)
	}
	nonTerminal := strings.TrimSpace(sides[0])
	if nonTerminal == "" {
		return LR0Item{}, fmt.Errorf("empty nonterminal name not allowed for item")
	}

	prodStrings := strings.SplitN(strings.TrimSpace(sides[1]), ".", 2)
	if len(prodStrings) != 2 {
		return LR0Item{}, fmt.Errorf("item must have exactly one dot")
	}

	item := LR0Item{NonTerminal: nonTerminal}
	item.Left = splitSymbols(prodStrings[0])
	item.Right = splitSymbols(prodStrings[1])

	return item, nil
}

// MustParseLR0Item is ParseLR0Item but panics on error; for use in tests.
func MustParseLR0Item(s string) LR0Item {
	item, err := ParseLR0Item(s)
	if err != nil {
		panic(err.Error())
	}
	return item
}

func splitSymbols(s string) []string {
	var out []string
	for _, sym := range strings.Fields(s) {
		out = append(out, sym)
	}
	return out
}
