// Package lpgen compiles declarative language specifications (regex token
// rules plus a context-free grammar) into executable recognition tables
// and emits them as standalone source files.
package lpgen

import (
	"io"
	"os"

	"github.com/projectdiscovery/gologger"
	errorutil "github.com/projectdiscovery/utils/errors"
	fileutil "github.com/projectdiscovery/utils/file"
	sliceutil "github.com/projectdiscovery/utils/slice"

	"github.com/lpgen/lpgen/internal/dfa"
	"github.com/lpgen/lpgen/internal/emit"
	"github.com/lpgen/lpgen/internal/grammar"
	"github.com/lpgen/lpgen/internal/lexer"
	"github.com/lpgen/lpgen/internal/nfa"
	"github.com/lpgen/lpgen/internal/parser"
	"github.com/lpgen/lpgen/internal/regex"
	"github.com/lpgen/lpgen/specfile"
)

// Generator Options
type Options struct {
	// Filename is the specification file to compile.
	Filename string
	// Output is the path the generated source file is written to.
	// It must not already exist.
	Output string
	// PackageName of the generated file (default: main).
	PackageName string
	// IncludeMain adds a stdin-driven main to the generated file.
	// Enabled by default for package main.
	IncludeMain bool
}

func (o *Options) Validate() error {
	if o.Filename == "" {
		return errorutil.NewWithTag("lpgen", "specification file is required")
	}
	// auto fill default values
	if o.PackageName == "" {
		o.PackageName = DefaultConfig.PackageName
		o.IncludeMain = DefaultConfig.IncludeMain
	}
	return nil
}

// Generator compiles a specification file into recognition tables and
// emits them as a standalone source file. All stages run to completion or
// fail with the stage's first error.
type Generator struct {
	Options *Options

	spec   *specfile.Spec
	table  *dfa.Table
	tables *grammar.Tables
}

// New creates a generator from options and runs the whole compilation
// pipeline: spec file, regex trees, NFA, DFA, DFA table, LR(1) tables.
func New(opts *Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	spec, err := specfile.ParseFile(opts.Filename)
	if err != nil {
		return nil, err
	}
	return build(opts, spec)
}

// NewFromSpec creates a generator from in-memory specification content.
func NewFromSpec(content string, opts *Options) (*Generator, error) {
	if opts == nil {
		opts = &Options{Filename: "<memory>"}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	spec, err := specfile.Parse(content)
	if err != nil {
		return nil, err
	}
	return build(opts, spec)
}

func build(opts *Options, spec *specfile.Spec) (*Generator, error) {
	g := &Generator{Options: opts, spec: spec}

	rules := make([]nfa.Rule, 0, len(spec.Rules))
	for _, rule := range spec.Rules {
		expr, err := regex.Parse(rule.Pattern)
		if err != nil {
			name := rule.Name
			if name == "" {
				name = "unnamed"
			}
			return nil, errorutil.NewWithErr(err).Msgf("invalid pattern in rule %v", name)
		}
		rules = append(rules, nfa.Rule{Name: rule.Name, Expr: expr})
	}
	automaton, err := nfa.Combine(rules)
	if err != nil {
		return nil, err
	}
	g.table = dfa.BuildTable(dfa.Build(automaton))
	gologger.Verbose().Msgf("lexer: %v rules compiled into %v DFA states", len(rules), g.table.Len())

	g.tables, err = grammar.Build(spec.Grammar)
	if err != nil {
		return nil, err
	}

	var symbols []string
	for _, name := range spec.Grammar.RuleNames() {
		for _, prod := range spec.Grammar.Productions(name) {
			for _, sym := range prod.Symbols {
				symbols = append(symbols, sym.Name)
			}
		}
	}
	symbols = sliceutil.Dedupe(symbols)
	gologger.Verbose().Msgf("parser: %v item sets over %v distinct symbols", g.tables.Len(), len(symbols))

	return g, nil
}

// Source renders the generated file.
func (g *Generator) Source() string {
	return emit.Source(g.table, g.tables, emit.Config{
		PackageName: g.Options.PackageName,
		IncludeMain: g.Options.IncludeMain,
	})
}

// ExecuteWithWriter renders the generated file directly to any type that
// implements the io.Writer interface.
func (g *Generator) ExecuteWithWriter(writer io.Writer) error {
	if writer == nil {
		return errorutil.NewWithTag("lpgen", "writer destination cannot be nil")
	}
	_, err := writer.Write([]byte(g.Source()))
	return err
}

// WriteFile renders the generated file to the output path, refusing to
// overwrite an existing file.
func (g *Generator) WriteFile(path string) error {
	if path == "" {
		return errorutil.NewWithTag("lpgen", "output path is required")
	}
	if fileutil.FileExists(path) {
		return errorutil.NewWithTag("lpgen", "output path %v already exists", path)
	}
	return os.WriteFile(path, []byte(g.Source()), 0644)
}

// Tokenize runs the in-memory tokenizer over the input. The generated
// file's getTokens behaves identically.
func (g *Generator) Tokenize(input string) ([]grammar.Token, error) {
	return lexer.Tokenize(g.table, input)
}

// Parse tokenizes the input and runs the in-memory parser, returning the
// parse tree.
func (g *Generator) Parse(input string) (*parser.TreeNode, error) {
	tokens, err := g.Tokenize(input)
	if err != nil {
		return nil, err
	}
	return parser.Parse(g.tables, tokens)
}
