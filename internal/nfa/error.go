package nfa

import "errors"

// Construction errors
var (
	// ErrNoRules indicates an attempt to combine an empty rule list
	ErrNoRules = errors.New("no lexer rules to build")

	// ErrDuplicateName indicates two named rules share a name
	ErrDuplicateName = errors.New("duplicate rule name")

	// ErrUnexpectedNodeKind indicates an expression tree variant the
	// builder does not know how to translate
	ErrUnexpectedNodeKind = errors.New("unexpected regex node kind")
)
