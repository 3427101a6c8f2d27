package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lpgen/lpgen/internal/dfa"
	"github.com/lpgen/lpgen/internal/grammar"
	"github.com/lpgen/lpgen/internal/nfa"
	"github.com/lpgen/lpgen/internal/regex"
)

func buildTable(t *testing.T, rules ...[2]string) *dfa.Table {
	t.Helper()
	nfaRules := make([]nfa.Rule, 0, len(rules))
	for _, r := range rules {
		expr, err := regex.Parse(r[1])
		require.NoError(t, err)
		nfaRules = append(nfaRules, nfa.Rule{Name: r[0], Expr: expr})
	}
	automaton, err := nfa.Combine(nfaRules)
	require.NoError(t, err)
	return dfa.BuildTable(dfa.Build(automaton))
}

func names(tokens []grammar.Token) []string {
	result := make([]string, len(tokens))
	for i, tok := range tokens {
		result[i] = tok.Symbol.Name
	}
	return result
}

func calculatorTable(t *testing.T) *dfa.Table {
	t.Helper()
	return buildTable(t,
		[2]string{"number", "[0-9]+"},
		[2]string{"plus", `\+`},
		[2]string{"minus", "-"},
		[2]string{"times", `\*`},
		[2]string{"divide", "/"},
	)
}

func TestTokenizeCalculator(t *testing.T) {
	tokens, err := Tokenize(calculatorTable(t), "3+4*2")
	require.NoError(t, err)
	require.Equal(t, []string{"number", "plus", "number", "times", "number", "eof"}, names(tokens))
	require.Equal(t, "3", tokens[0].Lexeme)
	require.Equal(t, "4", tokens[2].Lexeme)
	require.Equal(t, "2", tokens[4].Lexeme)
}

func TestTokenizeLongestMatch(t *testing.T) {
	table := calculatorTable(t)
	tokens, err := Tokenize(table, "123+45")
	require.NoError(t, err)
	require.Equal(t, []string{"number", "plus", "number", "eof"}, names(tokens))
	require.Equal(t, "123", tokens[0].Lexeme)
	require.Equal(t, "45", tokens[2].Lexeme)
}

func TestTokenizePriority(t *testing.T) {
	table := buildTable(t,
		[2]string{"if", "if"},
		[2]string{"id", "[a-z]+"},
	)

	tokens, err := Tokenize(table, "if")
	require.NoError(t, err)
	require.Equal(t, []string{"if", "eof"}, names(tokens))

	// "ifx" is longer than the keyword, so longest match picks id
	tokens, err = Tokenize(table, "ifx")
	require.NoError(t, err)
	require.Equal(t, []string{"id", "eof"}, names(tokens))
	require.Equal(t, "ifx", tokens[0].Lexeme)
}

func TestTokenizeSkipRule(t *testing.T) {
	table := buildTable(t,
		[2]string{"id", "[a-z]+"},
		[2]string{"", "[ \t]+"},
	)
	tokens, err := Tokenize(table, "a b")
	require.NoError(t, err)
	require.Equal(t, []string{"id", "id", "eof"}, names(tokens))
	require.Equal(t, "a", tokens[0].Lexeme)
	require.Equal(t, "b", tokens[1].Lexeme)
}

func TestTokenizeFailure(t *testing.T) {
	table := buildTable(t, [2]string{"id", "[a-z]+"})
	_, err := Tokenize(table, "a@b")
	require.Error(t, err)
	var terr *TokenizationError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, 1, terr.Start)
	require.Equal(t, 1, terr.End)
}

func TestTokenizeEmptyInput(t *testing.T) {
	table := buildTable(t, [2]string{"id", "[a-z]+"})
	tokens, err := Tokenize(table, "")
	require.NoError(t, err)
	require.Equal(t, []string{"eof"}, names(tokens))
	require.Equal(t, "", tokens[0].Lexeme)
}

func TestTokenizeEOFTerminatesStream(t *testing.T) {
	tokens, err := Tokenize(calculatorTable(t), "1+2")
	require.NoError(t, err)
	last := tokens[len(tokens)-1]
	require.Equal(t, grammar.EOF(), last.Symbol)
	require.Equal(t, "", last.Lexeme)
	for _, tok := range tokens[:len(tokens)-1] {
		require.NotEqual(t, grammar.EOF(), tok.Symbol)
	}
}

func TestTokenizePositions(t *testing.T) {
	table := buildTable(t,
		[2]string{"id", "[a-z]+"},
		[2]string{"", "[ \n]+"},
	)
	tokens, err := Tokenize(table, "ab\ncd")
	require.NoError(t, err)
	require.Equal(t, []string{"id", "id", "eof"}, names(tokens))
	require.Equal(t, 0, tokens[0].StartCol)
	require.Equal(t, 1, tokens[0].EndCol)
	require.Equal(t, 0, tokens[0].Line)
	require.Equal(t, 3, tokens[1].StartCol)
	require.Equal(t, 4, tokens[1].EndCol)
	require.Equal(t, 1, tokens[1].Line)
}
