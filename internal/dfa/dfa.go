// Package dfa converts a combined NFA into a deterministic automaton via
// subset construction and flattens it into integer-keyed lookup tables.
// Accept conflicts between rules are resolved here, once, by rule priority;
// everything downstream only sees the winning token name.
package dfa

import (
	"fmt"

	"github.com/lpgen/lpgen/internal/nfa"
)

// StateID indexes a node in the DFA arena.
type StateID int

// Input labels a consuming transition: a specific character or any char.
type Input struct {
	Kind nfa.TransitionKind
	Ch   rune
}

// String returns a human-readable representation of the input
func (in Input) String() string {
	if in.Kind == nfa.AnyChar {
		return "any"
	}
	return fmt.Sprintf("%q", in.Ch)
}

// NodeKind distinguishes accepting from non-accepting DFA states.
type NodeKind uint8

const (
	// NonAccept is a state with no accepting NFA member.
	NonAccept NodeKind = iota

	// Accept is a state containing at least one accepting NFA member.
	// Its token may be empty, which marks a skip rule's acceptance.
	Accept
)

// Node is one DFA state: an epsilon-closed set of NFA nodes. Identity is
// the sorted member list; the builder interns nodes so equal member sets
// collapse to one state.
type Node struct {
	id          StateID
	members     []nfa.NodeID
	kind        NodeKind
	token       string
	inputs      []Input // distinct consuming inputs, in encounter order
	transitions map[Input]StateID
}

// ID returns the state's arena index
func (n *Node) ID() StateID { return n.id }

// Members returns the sorted NFA node IDs forming this state.
func (n *Node) Members() []nfa.NodeID { return n.members }

// Kind returns whether the state accepts.
func (n *Node) Kind() NodeKind { return n.kind }

// Token returns the accept token name. Empty for non-accepting states and
// for skip-rule acceptance.
func (n *Node) Token() string { return n.token }

// Inputs returns the state's consuming inputs in deterministic order.
func (n *Node) Inputs() []Input { return n.inputs }

// Transition returns the destination for the given input.
func (n *Node) Transition(in Input) (StateID, bool) {
	dest, ok := n.transitions[in]
	return dest, ok
}

// DFA is the deterministic automaton produced by subset construction.
type DFA struct {
	nodes []Node
	start StateID
}

// Start returns the start state's ID.
func (d *DFA) Start() StateID { return d.start }

// Node returns the state with the given ID.
func (d *DFA) Node(id StateID) *Node {
	if id < 0 || int(id) >= len(d.nodes) {
		return nil
	}
	return &d.nodes[id]
}

// Len returns the number of DFA states.
func (d *DFA) Len() int { return len(d.nodes) }
