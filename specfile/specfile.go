// Package specfile parses the two-section specification file that drives
// generation: a LEXER section of token rules followed by a GRAMMAR section
// of productions. It validates names, structure and symbol references, and
// hands the pipeline a clean data model.
package specfile

import (
	"os"
	"regexp"
	"strings"

	"github.com/lpgen/lpgen/internal/grammar"
)

const (
	lexerHeader   = "SECTION LEXER"
	grammarHeader = "SECTION GRAMMAR"

	// unnamedRule marks a skip rule: its matches are consumed without
	// producing a token.
	unnamedRule = "unnamed"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Rule is one lexer rule. An empty Name marks a skip rule. Action holds
// the brace-wrapped action code verbatim; it is reserved for future use
// and ignored by the pipeline.
type Rule struct {
	Name    string
	Pattern string
	Action  string
}

// Spec is a parsed specification file.
type Spec struct {
	Rules   []Rule
	Grammar *grammar.Grammar

	terminals map[string]bool
}

// Terminals returns the named lexer rules in declaration order.
func (s *Spec) Terminals() []string {
	var names []string
	for _, rule := range s.Rules {
		if rule.Name != "" {
			names = append(names, rule.Name)
		}
	}
	return names
}

// IsTerminal reports whether the name is a lexer token or eof.
func (s *Spec) IsTerminal(name string) bool {
	return s.terminals[name] || name == grammar.EOFName
}

// ParseFile reads and parses a specification file from disk.
func ParseFile(path string) (*Spec, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(content))
}

// Parse parses specification file content. It returns the first error it
// encounters; no recovery is attempted.
func Parse(content string) (*Spec, error) {
	lines := strings.Split(content, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}

	spec := &Spec{terminals: make(map[string]bool)}

	index := 0
	// the file must open with the lexer section header
	for index < len(lines) && strings.TrimSpace(lines[index]) == "" {
		index++
	}
	if index >= len(lines) || lines[index] != lexerHeader {
		return nil, newError(ErrNoSectionHeader, index+1, "file must begin with 'SECTION LEXER'")
	}
	index++

	index, err := parseLexerSection(spec, lines, index)
	if err != nil {
		return nil, err
	}
	if err := parseGrammarSection(spec, lines, index); err != nil {
		return nil, err
	}
	if err := validateGrammar(spec); err != nil {
		return nil, err
	}
	return spec, nil
}

// parseLexerSection consumes rule lines until the grammar header or end
// of file and returns the index of the line after the header.
func parseLexerSection(spec *Spec, lines []string, index int) (int, error) {
	sawGrammarHeader := false
	for index < len(lines) {
		line := lines[index]
		if strings.TrimSpace(line) == "" {
			index++
			continue
		}
		if line == grammarHeader {
			index++
			sawGrammarHeader = true
			break
		}
		rule, err := parseRuleLine(spec, line, index+1)
		if err != nil {
			return 0, err
		}
		spec.Rules = append(spec.Rules, rule)
		if rule.Name != "" {
			spec.terminals[rule.Name] = true
		}
		index++
	}
	if len(spec.Rules) == 0 {
		return 0, newError(ErrNoRules, index, "lexer section defines no rules")
	}
	if !sawGrammarHeader {
		return 0, newError(ErrNoGrammarRules, index, "missing 'SECTION GRAMMAR'")
	}
	return index, nil
}

// parseRuleLine splits `NAME REGEX {ACTION}?`. The action, when present,
// is the suffix starting at the last whitespace-preceded brace and must
// be brace-wrapped.
func parseRuleLine(spec *Spec, line string, lineNo int) (Rule, error) {
	trimmed := strings.TrimSpace(line)
	name := trimmed
	rest := ""
	if cut := strings.IndexFunc(trimmed, func(r rune) bool { return r == ' ' || r == '\t' }); cut >= 0 {
		name = trimmed[:cut]
		rest = strings.TrimSpace(trimmed[cut:])
	}

	switch name {
	case "SECTION", grammar.EOFName, grammar.RootName:
		return Rule{}, newError(ErrInvalidRuleName, lineNo, name+" is reserved")
	}
	if !identifierPattern.MatchString(name) {
		return Rule{}, newError(ErrInvalidRuleName, lineNo, name)
	}
	if name != unnamedRule && spec.terminals[name] {
		return Rule{}, newError(ErrDuplicateName, lineNo, name)
	}

	pattern, action, err := splitPatternAction(rest, lineNo)
	if err != nil {
		return Rule{}, err
	}
	if pattern == "" {
		return Rule{}, newError(ErrInvalidRegex, lineNo, "rule has no pattern")
	}

	rule := Rule{Name: name, Pattern: pattern, Action: action}
	if name == unnamedRule {
		rule.Name = ""
	}
	return rule, nil
}

func splitPatternAction(rest string, lineNo int) (string, string, error) {
	brace := -1
	for i := 1; i < len(rest); i++ {
		if rest[i] == '{' && (rest[i-1] == ' ' || rest[i-1] == '\t') {
			brace = i
		}
	}
	if brace < 0 {
		if strings.HasSuffix(rest, "}") && strings.HasPrefix(rest, "{") {
			// the whole field is action code, leaving no pattern
			return "", "", newError(ErrInvalidRegex, lineNo, "rule has no pattern")
		}
		return rest, "", nil
	}
	pattern := strings.TrimSpace(rest[:brace])
	action := rest[brace:]
	if !strings.HasSuffix(action, "}") {
		return "", "", newError(ErrInvalidActionCode, lineNo, "action code must be wrapped in braces")
	}
	return pattern, action, nil
}

// parseGrammarSection consumes grammar rules. A rule may sit on one line
// or span several, with '|' leading every continuation and ';' closing
// the rule:
//
//	name : sym1 sym2 | sym3 ;
//
//	name : sym1 sym2
//	     | sym3
//	     ;
func parseGrammarSection(spec *Spec, lines []string, index int) error {
	spec.Grammar = grammar.NewGrammar()

	type openRule struct {
		name        string
		productions [][]string
		line        int
	}
	var current *openRule
	seen := make(map[string]bool)

	closeRule := func() error {
		if seen[current.name] {
			return newError(ErrDuplicateGrammarRuleName, current.line, current.name)
		}
		seen[current.name] = true
		for i, prod := range current.productions {
			for _, other := range current.productions[:i] {
				if equalStrings(prod, other) {
					return newError(ErrDuplicateProduction, current.line, current.name)
				}
			}
		}
		for _, prod := range current.productions {
			symbols := make([]grammar.Symbol, len(prod))
			for i, name := range prod {
				symbols[i] = grammar.Symbol{Name: name, IsTerminal: spec.IsTerminal(name)}
			}
			spec.Grammar.Add(current.name, grammar.Production{Symbols: symbols})
		}
		current = nil
		return nil
	}

	// splitBody cuts an optional terminating ';' off a rule body and
	// splits the rest into '|'-separated productions.
	splitBody := func(text string, lineNo int) (prods [][]string, closed bool, err error) {
		if idx := strings.Index(text, ";"); idx >= 0 {
			if after := strings.TrimSpace(text[idx+1:]); after != "" {
				return nil, false, newError(ErrInvalidGrammarRule, lineNo, "text after ';'")
			}
			text = text[:idx]
			closed = true
		}
		if strings.TrimSpace(text) == "" {
			return nil, closed, nil
		}
		for _, segment := range strings.Split(text, "|") {
			fields := strings.Fields(segment)
			if len(fields) == 0 {
				return nil, false, newError(ErrInvalidProduction, lineNo, "production is empty")
			}
			for _, field := range fields {
				if !identifierPattern.MatchString(field) {
					return nil, false, newError(ErrInvalidIdentifier, lineNo, field)
				}
			}
			prods = append(prods, fields)
		}
		return prods, closed, nil
	}

	for ; index < len(lines); index++ {
		line := lines[index]
		lineNo := index + 1
		trimmed := strings.TrimSpace(line)

		if current == nil {
			if trimmed == "" {
				continue
			}
			colon := strings.Index(line, ":")
			if colon < 0 {
				if identifierPattern.MatchString(trimmed) {
					return newError(ErrInvalidGrammarRule, lineNo, "rule name must be followed by ':'")
				}
				return newError(ErrInvalidIdentifier, lineNo, trimmed)
			}
			name := strings.TrimSpace(line[:colon])
			if !identifierPattern.MatchString(name) || name == grammar.EOFName {
				return newError(ErrInvalidIdentifier, lineNo, name)
			}
			prods, closed, err := splitBody(line[colon+1:], lineNo)
			if err != nil {
				return err
			}
			if len(prods) == 0 {
				return newError(ErrInvalidProduction, lineNo, "rule has no productions")
			}
			current = &openRule{name: name, productions: prods, line: lineNo}
			if closed {
				if err := closeRule(); err != nil {
					return err
				}
			}
			continue
		}

		if trimmed == "" {
			// blank lines running to the end of the file (including the
			// one after a final newline) leave the rule unterminated
			rest := index
			for rest < len(lines) && strings.TrimSpace(lines[rest]) == "" {
				rest++
			}
			if rest == len(lines) {
				break
			}
		}
		if trimmed != ";" && !strings.HasPrefix(trimmed, "|") {
			return newError(ErrInvalidProduction, lineNo, trimmed)
		}
		body := strings.TrimPrefix(trimmed, "|")
		prods, closed, err := splitBody(body, lineNo)
		if err != nil {
			return err
		}
		if len(prods) == 0 && trimmed != ";" {
			return newError(ErrInvalidProduction, lineNo, "production is empty")
		}
		current.productions = append(current.productions, prods...)
		if closed {
			if err := closeRule(); err != nil {
				return err
			}
		}
	}

	if current != nil {
		return newError(ErrMissingGrammarRuleEnd, len(lines), current.name)
	}
	if len(spec.Grammar.RuleNames()) == 0 {
		return newError(ErrNoGrammarRules, len(lines), "grammar section defines no rules")
	}
	return nil
}

// validateGrammar checks symbol references and the root rule after both
// sections parsed.
func validateGrammar(spec *Spec) error {
	for _, name := range spec.Grammar.RuleNames() {
		if spec.terminals[name] {
			return newError(ErrDuplicateGrammarRuleName, 0, name+" is already a lexer rule")
		}
	}
	for _, name := range spec.Grammar.RuleNames() {
		for _, prod := range spec.Grammar.Productions(name) {
			for _, sym := range prod.Symbols {
				if sym.IsTerminal {
					continue
				}
				if !spec.Grammar.HasRule(sym.Name) {
					return newError(ErrUnknownSymbol, 0, sym.Name)
				}
			}
		}
	}
	if !spec.Grammar.HasRule(grammar.RootName) {
		return newError(ErrMissingRootRule, 0, "grammar must define a root rule")
	}
	return nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
