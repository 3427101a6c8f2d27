// Package emit serializes the flattened DFA and parse tables, together
// with the tokenizer and parser runtimes, into a standalone Go source
// file. Emission is a pure function of its inputs: table iteration is
// ordered, so the same tables always produce byte-identical output.
package emit

import (
	"fmt"
	"strings"

	"github.com/projectdiscovery/fasttemplate"

	"github.com/lpgen/lpgen/internal/dfa"
	"github.com/lpgen/lpgen/internal/grammar"
	"github.com/lpgen/lpgen/internal/nfa"
)

const (
	placeholderOpen  = "{{"
	placeholderClose = "}}"
)

// Config controls the shape of the generated file.
type Config struct {
	// PackageName of the generated file. Defaults to main.
	PackageName string

	// IncludeMain adds a main function that reads a line from stdin,
	// tokenizes and parses it, and prints the outcome. Only meaningful
	// for package main.
	IncludeMain bool
}

// DefaultConfig is the configuration used when the caller provides none.
var DefaultConfig = Config{PackageName: "main", IncludeMain: true}

// Source renders the generated file for the given tables.
func Source(table *dfa.Table, tables *grammar.Tables, cfg Config) string {
	if cfg.PackageName == "" {
		cfg.PackageName = DefaultConfig.PackageName
	}

	imports := libraryImports
	mainFunc := ""
	if cfg.IncludeMain {
		imports = mainImports
		mainFunc = mainTemplate
	}

	return fasttemplate.ExecuteStringStd(sourceTemplate, placeholderOpen, placeholderClose, map[string]interface{}{
		"package":          cfg.PackageName,
		"imports":          imports,
		"accepting_cases":  acceptingCases(table),
		"transition_cases": transitionCases(table),
		"action_entries":   actionEntries(tables),
		"goto_entries":     gotoEntries(tables),
		"main":             mainFunc,
	})
}

// acceptingCases renders the body of isAccepting. Skip-rule accepts are
// kept with an empty name so the generated tokenizer can consume their
// lexemes silently.
func acceptingCases(table *dfa.Table) string {
	var sb strings.Builder
	for _, entry := range table.AcceptEntries() {
		fmt.Fprintf(&sb, "\tcase %d:\n\t\treturn %q, true\n", entry.State, entry.Name)
	}
	return sb.String()
}

// transitionCases renders the body of transition, one case per state
// with the character edges first and the any-char edge after them.
func transitionCases(table *dfa.Table) string {
	entries := table.TransitionEntries()
	var sb strings.Builder
	i := 0
	for i < len(entries) {
		state := entries[i].State
		j := i
		for j < len(entries) && entries[j].State == state {
			j++
		}
		fmt.Fprintf(&sb, "\tcase %d:\n", state)

		hasChars := false
		for _, entry := range entries[i:j] {
			if entry.Input.Kind == nfa.Character {
				if !hasChars {
					sb.WriteString("\t\tif kind == TransitionCharacter {\n\t\t\tswitch ch {\n")
					hasChars = true
				}
				fmt.Fprintf(&sb, "\t\t\tcase %q:\n\t\t\t\treturn %d, true\n", entry.Input.Ch, entry.Dest)
			}
		}
		if hasChars {
			sb.WriteString("\t\t\t}\n\t\t}\n")
		}
		for _, entry := range entries[i:j] {
			if entry.Input.Kind == nfa.AnyChar {
				fmt.Fprintf(&sb, "\t\tif kind == TransitionAnyChar {\n\t\t\treturn %d, true\n\t\t}\n", entry.Dest)
			}
		}
		i = j
	}
	return sb.String()
}

func symbolLiteral(sym grammar.Symbol) string {
	return fmt.Sprintf("Symbol{Name: %q, IsTerminal: %t}", sym.Name, sym.IsTerminal)
}

func actionLiteral(action grammar.Action) string {
	switch action.Kind {
	case grammar.Shift:
		return fmt.Sprintf("{Kind: ActionShift, State: %d}", action.State)
	case grammar.Reduce:
		return fmt.Sprintf("{Kind: ActionReduce, Lhs: %s, Len: %d}", symbolLiteral(action.Lhs), action.Len)
	default:
		return "{Kind: ActionAccept}"
	}
}

func actionEntries(tables *grammar.Tables) string {
	var sb strings.Builder
	for _, entry := range tables.ActionEntries() {
		fmt.Fprintf(&sb, "\t\t{State: %d, Sym: %s}: %s,\n", entry.State, symbolLiteral(entry.Sym), actionLiteral(entry.Action))
	}
	return sb.String()
}

func gotoEntries(tables *grammar.Tables) string {
	var sb strings.Builder
	for _, entry := range tables.GotoEntries() {
		fmt.Fprintf(&sb, "\t\t{State: %d, Sym: %s}: %d,\n", entry.State, symbolLiteral(entry.Sym), entry.Dest)
	}
	return sb.String()
}
