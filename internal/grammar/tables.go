package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/projectdiscovery/gologger"
)

// ActionKind discriminates parser actions.
type ActionKind uint8

const (
	// Shift pushes the terminal and moves to a new state.
	Shift ActionKind = iota

	// Reduce pops a production's right-hand side and pushes its LHS.
	Reduce

	// AcceptAction is the unique successful action on eof at the root.
	AcceptAction
)

// Action is one ACTION table entry.
type Action struct {
	Kind ActionKind

	// State is the shift destination.
	State int

	// Lhs and Len describe the reduced production.
	Lhs Symbol
	Len int
}

// String returns a human-readable representation of the action
func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("shift(%d)", a.State)
	case Reduce:
		return fmt.Sprintf("reduce(%s, %d)", a.Lhs.Name, a.Len)
	case AcceptAction:
		return "accept"
	default:
		return "unknown"
	}
}

// tableKey addresses one ACTION or GOTO cell.
type tableKey struct {
	State int
	Sym   Symbol
}

func tableKeyComparator(a, b interface{}) int {
	x, y := a.(tableKey), b.(tableKey)
	if x.State != y.State {
		if x.State < y.State {
			return -1
		}
		return 1
	}
	return Compare(x.Sym, y.Sym)
}

// ActionEntry is one flattened ACTION cell, used by the emitter.
type ActionEntry struct {
	State  int
	Sym    Symbol
	Action Action
}

// GotoEntry is one flattened GOTO cell, used by the emitter.
type GotoEntry struct {
	State int
	Sym   Symbol
	Dest  int
}

// Tables holds the filled ACTION and GOTO tables. The backing maps are
// ordered so that iteration for emission is deterministic.
type Tables struct {
	actions *treemap.Map
	gotos   *treemap.Map
	states  int
}

func newTables(states int) *Tables {
	return &Tables{
		actions: treemap.NewWith(tableKeyComparator),
		gotos:   treemap.NewWith(tableKeyComparator),
		states:  states,
	}
}

// setAction writes an ACTION cell. Conflicts are resolved by letting the
// later write win; they are reported but never fatal.
func (t *Tables) setAction(state int, sym Symbol, action Action) {
	key := tableKey{State: state, Sym: sym}
	if existing, ok := t.actions.Get(key); ok {
		prev := existing.(Action)
		if prev != action {
			gologger.Warning().Msgf("parse table conflict in state %d on %q: %v overwritten by %v", state, sym.Name, prev, action)
		}
	}
	t.actions.Put(key, action)
}

func (t *Tables) setGoto(state int, sym Symbol, dest int) {
	t.gotos.Put(tableKey{State: state, Sym: sym}, dest)
}

// Action looks up the ACTION cell for a state and terminal.
func (t *Tables) Action(state int, sym Symbol) (Action, bool) {
	value, ok := t.actions.Get(tableKey{State: state, Sym: sym})
	if !ok {
		return Action{}, false
	}
	return value.(Action), true
}

// Goto looks up the GOTO cell for a state and non-terminal.
func (t *Tables) Goto(state int, sym Symbol) (int, bool) {
	value, ok := t.gotos.Get(tableKey{State: state, Sym: sym})
	if !ok {
		return 0, false
	}
	return value.(int), true
}

// Len returns the number of item sets in the canonical collection.
func (t *Tables) Len() int { return t.states }

// ActionEntries returns all ACTION cells in key order.
func (t *Tables) ActionEntries() []ActionEntry {
	entries := make([]ActionEntry, 0, t.actions.Size())
	it := t.actions.Iterator()
	for it.Next() {
		key := it.Key().(tableKey)
		entries = append(entries, ActionEntry{State: key.State, Sym: key.Sym, Action: it.Value().(Action)})
	}
	return entries
}

// GotoEntries returns all GOTO cells in key order.
func (t *Tables) GotoEntries() []GotoEntry {
	entries := make([]GotoEntry, 0, t.gotos.Size())
	it := t.gotos.Iterator()
	for it.Next() {
		key := it.Key().(tableKey)
		entries = append(entries, GotoEntry{State: key.State, Sym: key.Sym, Dest: it.Value().(int)})
	}
	return entries
}
