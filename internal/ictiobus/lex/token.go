// Package lex holds the contract this core expects of an external token
// producer (spec §4.7, component C7): a TokenClass identifies a terminal, a
// Token is a lexeme tagged with its class and source position, and a
// TokenStream is a finite ordered sequence of them. The lexer that actually
// produces tokens from source text is out of scope (spec §1); this package
// only defines what the parse driver is allowed to assume about its input.
package lex

import (
	"fmt"
	"strings"
)

// TokenClass identifies a terminal symbol of the grammar. ID must uniquely
// identify the terminal; Human is used in diagnostics ("expected a number").
type TokenClass interface {
	ID() string
	Human() string
	Equal(o any) bool
}

// Token is a single lexeme read from source, tagged with the TokenClass it
// was recognized as plus enough positional information for error reporting
// (spec §7: parse failures identify the offending token's source position).
type Token interface {
	Class() TokenClass
	Lexeme() string
	Line() int
	Column() int
	String() string
}

// TokenStream is a finite ordered sequence of tokens, not terminated by a
// synthetic EndOfInput ("$") token: the parse driver appends that token
// itself once HasNext reports false, synthesizing its source position from
// the last token it actually consumed (spec §4.6, §4.7).
type TokenStream interface {
	Next() Token
	Peek() Token
	HasNext() bool
}

type simpleClass string

func (c simpleClass) ID() string    { return strings.ToLower(string(c)) }
func (c simpleClass) Human() string { return string(c) }
func (c simpleClass) Equal(o any) bool {
	other, ok := o.(TokenClass)
	if !ok {
		return false
	}
	return other.ID() == c.ID()
}

// EndOfInput is the reserved terminal "$" denoting end-of-input (spec §3).
const EndOfInput = simpleClass("$")

// NewClass returns a TokenClass whose ID is the lower-cased form of id and
// whose Human-readable name is id unmodified.
func NewClass(id string) TokenClass {
	return simpleClass(id)
}

type token struct {
	class  TokenClass
	lexeme string
	line   int
	column int
}

// NewToken builds a Token with the given class, lexed text, and 1-indexed
// source position.
func NewToken(class TokenClass, lexeme string, line, column int) Token {
	return token{class: class, lexeme: lexeme, line: line, column: column}
}

// EOF builds the synthetic end-of-input token the parse driver appends once
// a TokenStream is exhausted (see parse.Driver.Parse).
func EOF(line, column int) Token {
	return token{class: EndOfInput, lexeme: "$", line: line, column: column}
}

func (t token) Class() TokenClass { return t.class }
func (t token) Lexeme() string    { return t.lexeme }
func (t token) Line() int         { return t.line }
func (t token) Column() int       { return t.column }

func (t token) String() string {
	return fmt.Sprintf("%s(%q) @%d:%d", t.class.ID(), t.lexeme, t.line, t.column)
}
