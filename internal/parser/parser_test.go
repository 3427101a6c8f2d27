package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lpgen/lpgen/internal/grammar"
)

func term(name string) grammar.Symbol {
	return grammar.Symbol{Name: name, IsTerminal: true}
}

func nonTerm(name string) grammar.Symbol {
	return grammar.Symbol{Name: name, IsTerminal: false}
}

func prod(symbols ...grammar.Symbol) grammar.Production {
	return grammar.Production{Symbols: symbols}
}

func calculatorTables(t *testing.T) *grammar.Tables {
	t.Helper()
	g := grammar.NewGrammar()
	g.Add("root", prod(nonTerm("expression")))
	g.Add("expression", prod(nonTerm("expression"), term("plus"), nonTerm("term")))
	g.Add("expression", prod(nonTerm("expression"), term("minus"), nonTerm("term")))
	g.Add("expression", prod(nonTerm("term")))
	g.Add("term", prod(nonTerm("term"), term("times"), term("number")))
	g.Add("term", prod(nonTerm("term"), term("divide"), term("number")))
	g.Add("term", prod(term("number")))
	tables, err := grammar.Build(g)
	require.NoError(t, err)
	return tables
}

func tokens(names ...string) []grammar.Token {
	result := make([]grammar.Token, 0, len(names)+1)
	for _, name := range names {
		result = append(result, grammar.Token{Symbol: term(name), Lexeme: name})
	}
	result = append(result, grammar.EOFToken(len(names)))
	return result
}

// leaves collects the terminal leaf names in pre-order.
func leaves(node *TreeNode) []string {
	if len(node.Children) == 0 {
		return []string{node.Token.Symbol.Name}
	}
	var result []string
	for _, child := range node.Children {
		result = append(result, leaves(child)...)
	}
	return result
}

func TestParseSingleNumber(t *testing.T) {
	tree, err := Parse(calculatorTables(t), tokens("number"))
	require.NoError(t, err)
	require.Equal(t, grammar.Root(), tree.Token.Symbol)
	require.Len(t, tree.Children, 1)
	require.Equal(t, "expression", tree.Children[0].Token.Symbol.Name)
}

func TestParseExpression(t *testing.T) {
	tree, err := Parse(calculatorTables(t), tokens("number", "plus", "number", "times", "number"))
	require.NoError(t, err)

	// root -> expression -> expression plus term
	require.Len(t, tree.Children, 1)
	expression := tree.Children[0]
	require.Equal(t, "expression", expression.Token.Symbol.Name)
	require.Len(t, expression.Children, 3)
	require.Equal(t, "expression", expression.Children[0].Token.Symbol.Name)
	require.Equal(t, "plus", expression.Children[1].Token.Symbol.Name)

	// multiplication grouped under the trailing term
	termNode := expression.Children[2]
	require.Equal(t, "term", termNode.Token.Symbol.Name)
	require.Len(t, termNode.Children, 3)
	require.Equal(t, "times", termNode.Children[1].Token.Symbol.Name)
}

func TestParseTreeLeavesMatchInput(t *testing.T) {
	input := []string{"number", "minus", "number", "divide", "number"}
	tree, err := Parse(calculatorTables(t), tokens(input...))
	require.NoError(t, err)
	require.Equal(t, input, leaves(tree))
}

func TestParseFailure(t *testing.T) {
	_, err := Parse(calculatorTables(t), tokens("plus"))
	require.ErrorIs(t, err, ErrParseFailed)
}

func TestParseTrailingGarbage(t *testing.T) {
	_, err := Parse(calculatorTables(t), tokens("number", "number"))
	require.ErrorIs(t, err, ErrParseFailed)
}

func TestParseEmptyTokenList(t *testing.T) {
	_, err := Parse(calculatorTables(t), nil)
	require.ErrorIs(t, err, ErrParseFailed)

	// a bare eof is not accepted either
	_, err = Parse(calculatorTables(t), tokens())
	require.ErrorIs(t, err, ErrParseFailed)
}

func TestParseShiftedLeavesKeepLexemes(t *testing.T) {
	toks := tokens("number", "plus", "number")
	toks[0].Lexeme = "3"
	toks[2].Lexeme = "4"
	tree, err := Parse(calculatorTables(t), toks)
	require.NoError(t, err)
	got := map[string]bool{}
	var walk func(*TreeNode)
	walk = func(n *TreeNode) {
		if len(n.Children) == 0 {
			got[n.Token.Lexeme] = true
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(tree)
	require.True(t, got["3"])
	require.True(t, got["4"])
}
