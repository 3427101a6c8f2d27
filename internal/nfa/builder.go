package nfa

import (
	"fmt"

	"github.com/lpgen/lpgen/internal/regex"
)

// Rule pairs a token name with its parsed pattern. An empty name marks a
// skip rule: the automaton accepts its matches without producing a token.
type Rule struct {
	Name string
	Expr regex.Node
}

// fragment is an in-progress sub-automaton with one entry and one exit.
type fragment struct {
	start NodeID
	end   NodeID
}

// Builder assembles NFA nodes in a single arena.
type Builder struct {
	nodes []Node
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{nodes: make([]Node, 0, 16)}
}

func (b *Builder) add(kind NodeKind) NodeID {
	id := NodeID(len(b.nodes))
	b.nodes = append(b.nodes, Node{id: id, kind: kind})
	return id
}

func (b *Builder) addEndWithToken(token string) NodeID {
	id := b.add(KindEndWithToken)
	b.nodes[id].token = token
	return id
}

func (b *Builder) setKind(id NodeID, kind NodeKind) {
	b.nodes[id].kind = kind
}

func (b *Builder) addTransition(from NodeID, tr Transition) {
	b.nodes[from].transitions = append(b.nodes[from].transitions, tr)
}

func (b *Builder) empty(from, to NodeID, priority int) {
	b.addTransition(from, Transition{Dest: to, Kind: Empty, Priority: priority})
}

// Combine builds the per-rule automata and unites them under a shared
// start state. Rule order determines priority: the first rule gets
// priority 1, the strongest.
func Combine(rules []Rule) (*NFA, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}
	named := make(map[string]bool)
	for _, rule := range rules {
		if rule.Name == "" {
			continue
		}
		if named[rule.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, rule.Name)
		}
		named[rule.Name] = true
	}

	b := NewBuilder()
	start := b.add(KindStart)
	for i, rule := range rules {
		priority := i + 1
		frag, err := b.compile(rule.Expr, priority)
		if err != nil {
			return nil, err
		}
		b.setKind(frag.start, KindIntersection)
		b.setKind(frag.end, KindIntersection)

		var accept NodeID
		if rule.Name != "" {
			accept = b.addEndWithToken(rule.Name)
		} else {
			accept = b.add(KindEnd)
		}
		b.empty(frag.end, accept, priority)
		b.empty(start, frag.start, priority)
	}
	return &NFA{nodes: b.nodes, start: start}, nil
}

// compile translates one expression tree node into a fragment. Every edge
// is stamped with the owning rule's priority so that accept conflicts can
// be resolved during subset construction.
func (b *Builder) compile(node regex.Node, priority int) (fragment, error) {
	switch n := node.(type) {
	case regex.Base:
		start := b.add(KindStart)
		end := b.add(KindEnd)
		b.addTransition(start, Transition{Dest: end, Kind: Character, Ch: n.Ch, Priority: priority})
		return fragment{start, end}, nil

	case regex.AnyChar:
		start := b.add(KindStart)
		end := b.add(KindEnd)
		b.addTransition(start, Transition{Dest: end, Kind: AnyChar, Priority: priority})
		return fragment{start, end}, nil

	case regex.Concat:
		frags := make([]fragment, 0, len(n.Children))
		for _, child := range n.Children {
			frag, err := b.compile(child, priority)
			if err != nil {
				return fragment{}, err
			}
			frags = append(frags, frag)
		}
		for i := 1; i < len(frags); i++ {
			b.setKind(frags[i-1].end, KindIntersection)
			b.setKind(frags[i].start, KindIntersection)
			b.empty(frags[i-1].end, frags[i].start, priority)
		}
		return fragment{frags[0].start, frags[len(frags)-1].end}, nil

	case regex.Alt:
		start := b.add(KindStart)
		end := b.add(KindEnd)
		for _, child := range n.Children {
			frag, err := b.compile(child, priority)
			if err != nil {
				return fragment{}, err
			}
			b.setKind(frag.start, KindIntersection)
			b.setKind(frag.end, KindIntersection)
			b.empty(start, frag.start, priority)
			b.empty(frag.end, end, priority)
		}
		return fragment{start, end}, nil

	case regex.Plus:
		frag, err := b.compile(n.Child, priority)
		if err != nil {
			return fragment{}, err
		}
		b.empty(frag.end, frag.start, priority)
		return frag, nil

	case regex.Star:
		frag, err := b.compile(n.Child, priority)
		if err != nil {
			return fragment{}, err
		}
		b.empty(frag.end, frag.start, priority)
		start := b.add(KindStart)
		b.setKind(frag.start, KindIntersection)
		b.empty(start, frag.start, priority)
		b.empty(start, frag.end, priority)
		return fragment{start, frag.end}, nil

	case regex.Optional:
		frag, err := b.compile(n.Child, priority)
		if err != nil {
			return fragment{}, err
		}
		b.empty(frag.start, frag.end, priority)
		return frag, nil

	default:
		return fragment{}, fmt.Errorf("%w: %T", ErrUnexpectedNodeKind, node)
	}
}
