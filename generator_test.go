package lpgen

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lpgen/lpgen/internal/grammar"
	"github.com/lpgen/lpgen/internal/lexer"
	"github.com/lpgen/lpgen/internal/parser"
	"github.com/lpgen/lpgen/specfile"
)

const calculatorSpec = `SECTION LEXER
number   [0-9]+
plus     \+
minus    -
times    \*
divide   /
SECTION GRAMMAR
root: expression ;
expression: expression plus term | expression minus term | term ;
term: term times number | term divide number | number ;
`

func newCalculator(t *testing.T) *Generator {
	t.Helper()
	g, err := NewFromSpec(calculatorSpec, nil)
	require.NoError(t, err)
	return g
}

func tokenNames(tokens []grammar.Token) []string {
	names := make([]string, len(tokens))
	for i, tok := range tokens {
		names[i] = tok.Symbol.Name
	}
	return names
}

func TestCalculatorTokenize(t *testing.T) {
	g := newCalculator(t)
	tokens, err := g.Tokenize("3+4*2")
	require.NoError(t, err)
	require.Equal(t, []string{"number", "plus", "number", "times", "number", "eof"}, tokenNames(tokens))
}

func TestCalculatorParseTree(t *testing.T) {
	g := newCalculator(t)
	tree, err := g.Parse("3+4*2")
	require.NoError(t, err)

	// root -> expression -> expression plus term
	require.Equal(t, grammar.Root(), tree.Token.Symbol)
	require.Len(t, tree.Children, 1)
	expression := tree.Children[0]
	require.Equal(t, "expression", expression.Token.Symbol.Name)
	require.Len(t, expression.Children, 3)
	require.Equal(t, "plus", expression.Children[1].Token.Symbol.Name)

	// evaluating the tree bottom-up respects precedence: 3 + 4*2 = 11
	require.Equal(t, 11, evaluate(expression))
}

// evaluate folds the calculator parse tree into its integer value.
func evaluate(node *parser.TreeNode) int {
	if len(node.Children) == 0 {
		value := 0
		for _, ch := range node.Token.Lexeme {
			value = value*10 + int(ch-'0')
		}
		return value
	}
	if len(node.Children) == 1 {
		return evaluate(node.Children[0])
	}
	lhs := evaluate(node.Children[0])
	rhs := evaluate(node.Children[2])
	switch node.Children[1].Token.Symbol.Name {
	case "plus":
		return lhs + rhs
	case "minus":
		return lhs - rhs
	case "times":
		return lhs * rhs
	default:
		return lhs / rhs
	}
}

func TestKeywordPriorityOverIdentifier(t *testing.T) {
	g, err := NewFromSpec(`SECTION LEXER
if   if
id   [a-z]+
SECTION GRAMMAR
root: id | if ;
`, nil)
	require.NoError(t, err)

	tokens, err := g.Tokenize("if")
	require.NoError(t, err)
	require.Equal(t, []string{"if", "eof"}, tokenNames(tokens))

	tokens, err = g.Tokenize("ifx")
	require.NoError(t, err)
	require.Equal(t, []string{"id", "eof"}, tokenNames(tokens))
}

func TestSkipRuleConsumesWhitespace(t *testing.T) {
	g, err := NewFromSpec(`SECTION LEXER
id       [a-z]+
unnamed  [ 	]+
SECTION GRAMMAR
root: id id ;
`, nil)
	require.NoError(t, err)

	tokens, err := g.Tokenize("a b")
	require.NoError(t, err)
	require.Equal(t, []string{"id", "id", "eof"}, tokenNames(tokens))

	_, err = g.Parse("a b")
	require.NoError(t, err)
}

func TestTokenizationFailurePosition(t *testing.T) {
	g, err := NewFromSpec(`SECTION LEXER
id   [a-z]+
SECTION GRAMMAR
root: id ;
`, nil)
	require.NoError(t, err)

	_, err = g.Tokenize("a@b")
	var terr *lexer.TokenizationError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, 1, terr.Start)
	require.Equal(t, 1, terr.End)
}

func TestGrammarParseFailure(t *testing.T) {
	g := newCalculator(t)
	_, err := g.Parse("+")
	require.ErrorIs(t, err, parser.ErrParseFailed)
}

func TestDuplicateRuleNameFails(t *testing.T) {
	_, err := NewFromSpec(`SECTION LEXER
id   [a-z]+
id   [0-9]+
SECTION GRAMMAR
root: id ;
`, nil)
	var serr *specfile.Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, specfile.ErrDuplicateName, serr.Kind)
}

func TestInvalidRegexSurfacesRuleName(t *testing.T) {
	_, err := NewFromSpec(`SECTION LEXER
broken   [a-
SECTION GRAMMAR
root: broken ;
`, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken")
}

func TestSourceDeterministic(t *testing.T) {
	first := newCalculator(t).Source()
	second := newCalculator(t).Source()
	require.Equal(t, first, second)
}

func TestExecuteWithWriter(t *testing.T) {
	g := newCalculator(t)
	var buff bytes.Buffer
	require.NoError(t, g.ExecuteWithWriter(&buff))
	require.Equal(t, g.Source(), buff.String())
	require.Error(t, g.ExecuteWithWriter(nil))
}

func TestWriteFileRefusesExistingPath(t *testing.T) {
	g := newCalculator(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "out.go")

	require.NoError(t, g.WriteFile(path))
	err := g.WriteFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")
}

func TestOptionsValidate(t *testing.T) {
	opts := &Options{}
	require.Error(t, opts.Validate())

	opts = &Options{Filename: "spec.txt"}
	require.NoError(t, opts.Validate())
	require.Equal(t, "main", opts.PackageName)
	require.True(t, opts.IncludeMain)
}

func TestSourceMatchesEmittedShape(t *testing.T) {
	source := newCalculator(t).Source()
	require.True(t, strings.Contains(source, "package main"))
	require.True(t, strings.Contains(source, "func main()"))
}
