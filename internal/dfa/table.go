package dfa

import (
	"sort"

	"github.com/lpgen/lpgen/internal/nfa"
)

// StartState is the table ID assigned to the DFA start state.
const StartState = 1

// TransitionEntry is one flattened transition, used by the emitter.
type TransitionEntry struct {
	State int
	Input Input
	Dest  int
}

// AcceptEntry is one flattened accept label, used by the emitter. Name is
// empty for skip-rule acceptance.
type AcceptEntry struct {
	State int
	Name  string
}

// Table is the flattened DFA: integer state IDs starting at 1, a
// transition map and an accept map. It is the unit the tokenizer runs on
// and the emitter serializes.
type Table struct {
	transitions map[tableKey]int
	accepting   map[int]string
	states      int
}

type tableKey struct {
	state int
	input Input
}

// BuildTable numbers the DFA states breadth-first from the start state,
// beginning at 1, and materializes the transition and accept maps.
func BuildTable(d *DFA) *Table {
	table := &Table{
		transitions: make(map[tableKey]int),
		accepting:   make(map[int]string),
	}

	ids := make(map[StateID]int)
	counter := StartState
	assign := func(id StateID) int {
		if assigned, ok := ids[id]; ok {
			return assigned
		}
		ids[id] = counter
		counter++
		return ids[id]
	}

	worklist := []StateID{d.Start()}
	seen := map[StateID]bool{d.Start(): true}
	for len(worklist) > 0 {
		id := worklist[0]
		worklist = worklist[1:]
		node := d.Node(id)
		tableID := assign(id)
		if node.Kind() == Accept {
			table.accepting[tableID] = node.Token()
		}
		for _, in := range node.Inputs() {
			dest, ok := node.Transition(in)
			if !ok {
				continue
			}
			table.transitions[tableKey{state: tableID, input: in}] = assign(dest)
			if !seen[dest] {
				seen[dest] = true
				worklist = append(worklist, dest)
			}
		}
	}
	table.states = counter - StartState
	return table
}

// Transition resolves one step: the exact character first, then any-char.
func (t *Table) Transition(state int, ch rune) (int, bool) {
	if dest, ok := t.transitions[tableKey{state: state, input: Input{Kind: nfa.Character, Ch: ch}}]; ok {
		return dest, true
	}
	if dest, ok := t.transitions[tableKey{state: state, input: Input{Kind: nfa.AnyChar}}]; ok {
		return dest, true
	}
	return 0, false
}

// Accepting returns the token name for an accepting state. The boolean
// reports acceptance; the name may be empty for skip rules.
func (t *Table) Accepting(state int) (string, bool) {
	name, ok := t.accepting[state]
	return name, ok
}

// Len returns the number of states in the table.
func (t *Table) Len() int { return t.states }

// TransitionEntries returns all transitions sorted by state, kind and
// character, so that emitted output is byte-identical across runs.
func (t *Table) TransitionEntries() []TransitionEntry {
	entries := make([]TransitionEntry, 0, len(t.transitions))
	for key, dest := range t.transitions {
		entries = append(entries, TransitionEntry{State: key.state, Input: key.input, Dest: dest})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.State != b.State {
			return a.State < b.State
		}
		if a.Input.Kind != b.Input.Kind {
			return a.Input.Kind < b.Input.Kind
		}
		return a.Input.Ch < b.Input.Ch
	})
	return entries
}

// AcceptEntries returns all accept labels sorted by state.
func (t *Table) AcceptEntries() []AcceptEntry {
	entries := make([]AcceptEntry, 0, len(t.accepting))
	for state, name := range t.accepting {
		entries = append(entries, AcceptEntry{State: state, Name: name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].State < entries[j].State })
	return entries
}
