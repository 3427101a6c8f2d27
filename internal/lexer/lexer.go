// Package lexer runs the maximum-munch tokenizer over a flattened DFA
// table. At the first rejection it commits the input consumed so far if
// the current state accepts; it does not back up to an earlier accepting
// prefix. Rule priority ties were already resolved into the table's accept
// labels during subset construction.
package lexer

import (
	"fmt"

	"github.com/lpgen/lpgen/internal/dfa"
	"github.com/lpgen/lpgen/internal/grammar"
)

// TokenizationError reports the rune span that could not be tokenized.
type TokenizationError struct {
	Start int
	End   int
}

// Error implements the error interface
func (e *TokenizationError) Error() string {
	return fmt.Sprintf("unable to tokenize the sequence of characters starting at %d and ending at %d", e.Start, e.End)
}

// Tokenize scans the input into a token stream terminated by eof.
// Accepts with an empty token name consume their lexeme without emitting
// anything, which is how skip rules work.
func Tokenize(table *dfa.Table, input string) ([]grammar.Token, error) {
	chars := []rune(input)
	curr := dfa.StartState
	start, end := 0, 0
	tokens := []grammar.Token{}

	for end < len(chars) {
		if next, ok := table.Transition(curr, chars[end]); ok {
			curr = next
			end++
			continue
		}
		name, ok := table.Accepting(curr)
		if !ok || end == start {
			return nil, &TokenizationError{Start: start, End: end}
		}
		if name != "" {
			tokens = append(tokens, makeToken(chars, name, start, end))
		}
		curr = dfa.StartState
		start = end
	}
	if name, ok := table.Accepting(curr); ok && name != "" {
		tokens = append(tokens, makeToken(chars, name, start, end))
	}
	tokens = append(tokens, grammar.EOFToken(end))
	return tokens, nil
}

func makeToken(chars []rune, name string, start, end int) grammar.Token {
	line := 0
	for _, ch := range chars[:start] {
		if ch == '\n' {
			line++
		}
	}
	return grammar.Token{
		Symbol:   grammar.Symbol{Name: name, IsTerminal: true},
		Lexeme:   string(chars[start:end]),
		Line:     line,
		StartCol: start,
		EndCol:   end - 1,
	}
}
