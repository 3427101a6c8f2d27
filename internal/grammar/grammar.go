package grammar

import "strings"

// Production is one non-empty right-hand side of a grammar rule.
type Production struct {
	Symbols []Symbol
}

// Len returns the number of symbols on the right-hand side.
func (p Production) Len() int { return len(p.Symbols) }

// Equal reports whether two productions have the same symbol sequence.
func (p Production) Equal(other Production) bool {
	if len(p.Symbols) != len(other.Symbols) {
		return false
	}
	for i, sym := range p.Symbols {
		if sym != other.Symbols[i] {
			return false
		}
	}
	return true
}

// String returns the space-joined symbol names.
func (p Production) String() string {
	names := make([]string, len(p.Symbols))
	for i, sym := range p.Symbols {
		names[i] = sym.Name
	}
	return strings.Join(names, " ")
}

// Grammar is a set of rules, each a named non-terminal with its
// productions. Rule insertion order is preserved: it determines the
// interning order of productions and with it every downstream ordering.
type Grammar struct {
	rules map[string][]Production
	names []string
}

// NewGrammar creates an empty grammar.
func NewGrammar() *Grammar {
	return &Grammar{rules: make(map[string][]Production)}
}

// Add appends a production to the named rule, creating the rule on first
// use. Duplicate productions within a rule are the spec parser's problem;
// the grammar stores what it is given.
func (g *Grammar) Add(name string, prod Production) {
	if _, ok := g.rules[name]; !ok {
		g.names = append(g.names, name)
	}
	g.rules[name] = append(g.rules[name], prod)
}

// Productions returns the named rule's productions in declaration order.
func (g *Grammar) Productions(name string) []Production {
	return g.rules[name]
}

// HasRule reports whether a rule with the given name exists.
func (g *Grammar) HasRule(name string) bool {
	_, ok := g.rules[name]
	return ok
}

// RuleNames returns the rule names in declaration order.
func (g *Grammar) RuleNames() []string {
	return g.names
}
