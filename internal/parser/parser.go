// Package parser drives a shift-reduce parse over filled ACTION and GOTO
// tables and assembles the concrete parse tree.
package parser

import (
	"errors"

	"github.com/lpgen/lpgen/internal/grammar"
)

// ErrParseFailed indicates the token sequence is not accepted by the
// grammar.
var ErrParseFailed = errors.New("the token sequence is not accepted by the grammar")

// TreeNode is a concrete parse tree node. Leaves carry the shifted
// tokens; interior nodes carry a synthetic token naming the reduced
// non-terminal.
type TreeNode struct {
	Token    grammar.Token
	Children []*TreeNode
}

// Parse runs the table-driven parser over the token stream, which must be
// terminated by eof. On success it returns the root of the parse tree.
func Parse(tables *grammar.Tables, tokens []grammar.Token) (*TreeNode, error) {
	if len(tokens) == 0 {
		return nil, ErrParseFailed
	}

	states := []int{0}
	var symbols []grammar.Symbol
	var children []*TreeNode
	index := 0

	for {
		state := states[len(states)-1]
		lookahead := tokens[index]
		action, ok := tables.Action(state, lookahead.Symbol)
		if !ok {
			return nil, ErrParseFailed
		}

		switch action.Kind {
		case grammar.Shift:
			symbols = append(symbols, lookahead.Symbol)
			states = append(states, action.State)
			children = append(children, &TreeNode{Token: lookahead})
			index++

		case grammar.Reduce:
			n := action.Len
			states = states[:len(states)-n]
			symbols = symbols[:len(symbols)-n]
			dest, ok := tables.Goto(states[len(states)-1], action.Lhs)
			if !ok {
				return nil, ErrParseFailed
			}
			symbols = append(symbols, action.Lhs)
			states = append(states, dest)

			node := &TreeNode{
				Token:    grammar.Token{Symbol: action.Lhs, Lexeme: action.Lhs.Name},
				Children: append([]*TreeNode{}, children[len(children)-n:]...),
			}
			children = append(children[:len(children)-n], node)

		case grammar.AcceptAction:
			root := &TreeNode{
				Token:    grammar.Token{Symbol: grammar.Root(), Lexeme: grammar.RootName},
				Children: children,
			}
			return root, nil

		default:
			return nil, ErrParseFailed
		}
	}
}
