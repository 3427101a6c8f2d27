package grammar

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
)

// Build errors
var (
	// ErrMissingRoot indicates the grammar does not define a root rule
	ErrMissingRoot = errors.New("grammar does not define a root rule")

	// ErrUndefinedSymbol indicates a production references a
	// non-terminal with no rule
	ErrUndefinedSymbol = errors.New("undefined grammar symbol")
)

// prodEntry is an interned production with its left-hand side.
type prodEntry struct {
	lhs     Symbol
	symbols []Symbol
}

type lrBuilder struct {
	grammar     *Grammar
	prods       []prodEntry
	prodsByRule map[string][]int
	firstCache  map[Symbol][]Symbol
}

// itemSet is one state of the canonical collection.
type itemSet struct {
	id          int
	items       *treeset.Set
	transitions map[Symbol]int
}

// Build computes the canonical LR(1) collection for the grammar and fills
// the ACTION and GOTO tables. Set 0 seeds from the root productions with
// eof lookahead; discovery order assigns the remaining IDs.
func Build(g *Grammar) (*Tables, error) {
	if !g.HasRule(RootName) {
		return nil, ErrMissingRoot
	}

	b := &lrBuilder{
		grammar:     g,
		prodsByRule: make(map[string][]int),
		firstCache:  make(map[Symbol][]Symbol),
	}
	for _, name := range g.RuleNames() {
		lhs := Symbol{Name: name, IsTerminal: false}
		for _, prod := range g.Productions(name) {
			index := len(b.prods)
			b.prods = append(b.prods, prodEntry{lhs: lhs, symbols: prod.Symbols})
			b.prodsByRule[name] = append(b.prodsByRule[name], index)
		}
	}

	for _, entry := range b.prods {
		for _, sym := range entry.symbols {
			if !sym.IsTerminal && !g.HasRule(sym.Name) {
				return nil, fmt.Errorf("%w: %s", ErrUndefinedSymbol, sym.Name)
			}
		}
	}

	sets := b.canonicalCollection()

	tables := newTables(len(sets))
	for _, set := range sets {
		it := set.items.Iterator()
		for it.Next() {
			item := it.Value().(Item)
			entry := b.prods[item.Prod]
			if item.Dot < len(entry.symbols) {
				next := entry.symbols[item.Dot]
				if next.IsTerminal {
					if dest, ok := set.transitions[next]; ok {
						tables.setAction(set.id, next, Action{Kind: Shift, State: dest})
					}
				}
				continue
			}
			if item.Lhs == Root() && item.Lookahead == EOF() {
				tables.setAction(set.id, EOF(), Action{Kind: AcceptAction})
			} else {
				tables.setAction(set.id, item.Lookahead, Action{Kind: Reduce, Lhs: item.Lhs, Len: len(entry.symbols)})
			}
		}
		for _, sym := range sortedTransitionSymbols(set.transitions) {
			if !sym.IsTerminal {
				tables.setGoto(set.id, sym, set.transitions[sym])
			}
		}
	}
	return tables, nil
}

// first computes the FIRST set of a symbol: the terminals reachable by
// left-descent. The seen guard keeps left-recursive rules from looping.
// Productions are non-empty, so no nullability tracking is needed.
func (b *lrBuilder) first(sym Symbol) []Symbol {
	if cached, ok := b.firstCache[sym]; ok {
		return cached
	}
	queue := []Symbol{sym}
	seen := make(map[Symbol]bool)
	set := treeset.NewWith(symbolComparator)
	for len(queue) > 0 {
		front := queue[0]
		queue = queue[1:]
		if seen[front] {
			continue
		}
		seen[front] = true
		if front.IsTerminal {
			set.Add(front)
			continue
		}
		for _, index := range b.prodsByRule[front.Name] {
			queue = append(queue, b.prods[index].symbols[0])
		}
	}
	result := make([]Symbol, 0, set.Size())
	it := set.Iterator()
	for it.Next() {
		result = append(result, it.Value().(Symbol))
	}
	b.firstCache[sym] = result
	return result
}

func (b *lrBuilder) newItemSet() *treeset.Set {
	return treeset.NewWith(itemComparator)
}

// closure extends the item set with every item justifiable from its
// dot-adjacent non-terminals, to fixpoint.
func (b *lrBuilder) closure(set *treeset.Set) *treeset.Set {
	result := b.newItemSet()
	var stack []Item
	for _, value := range set.Values() {
		item := value.(Item)
		result.Add(item)
		stack = append(stack, item)
	}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		entry := b.prods[item.Prod]
		if item.Dot >= len(entry.symbols) {
			continue
		}
		next := entry.symbols[item.Dot]
		if next.IsTerminal {
			continue
		}
		lookaheadSource := item.Lookahead
		if item.Dot+1 < len(entry.symbols) {
			lookaheadSource = entry.symbols[item.Dot+1]
		}
		for _, terminal := range b.first(lookaheadSource) {
			for _, index := range b.prodsByRule[next.Name] {
				candidate := Item{Lhs: next, Prod: index, Dot: 0, Lookahead: terminal}
				if !result.Contains(candidate) {
					result.Add(candidate)
					stack = append(stack, candidate)
				}
			}
		}
	}
	return result
}

// gotoSet advances the dot past sym in every matching item, then closes.
func (b *lrBuilder) gotoSet(set *treeset.Set, sym Symbol) *treeset.Set {
	moved := b.newItemSet()
	it := set.Iterator()
	for it.Next() {
		item := it.Value().(Item)
		entry := b.prods[item.Prod]
		if item.Dot < len(entry.symbols) && entry.symbols[item.Dot] == sym {
			moved.Add(Item{Lhs: item.Lhs, Prod: item.Prod, Dot: item.Dot + 1, Lookahead: item.Lookahead})
		}
	}
	return b.closure(moved)
}

// canonicalCollection computes the CLOSURE/GOTO fixpoint breadth-first.
// Item sets are interned by content, so revisiting a known set only
// records the transition.
func (b *lrBuilder) canonicalCollection() []*itemSet {
	seed := b.newItemSet()
	for _, index := range b.prodsByRule[RootName] {
		seed.Add(Item{Lhs: Root(), Prod: index, Dot: 0, Lookahead: EOF()})
	}
	first := &itemSet{id: 0, items: b.closure(seed), transitions: make(map[Symbol]int)}

	sets := []*itemSet{first}
	interned := map[string]int{b.setKey(first.items): 0}
	worklist := []*itemSet{first}
	for len(worklist) > 0 {
		current := worklist[0]
		worklist = worklist[1:]
		for _, sym := range b.symbolsAfterDot(current.items) {
			next := b.gotoSet(current.items, sym)
			key := b.setKey(next)
			id, ok := interned[key]
			if !ok {
				id = len(sets)
				set := &itemSet{id: id, items: next, transitions: make(map[Symbol]int)}
				sets = append(sets, set)
				interned[key] = id
				worklist = append(worklist, set)
			}
			current.transitions[sym] = id
		}
	}
	return sets
}

// symbolsAfterDot lists the distinct symbols right of a dot, ordered.
func (b *lrBuilder) symbolsAfterDot(set *treeset.Set) []Symbol {
	symbols := treeset.NewWith(symbolComparator)
	it := set.Iterator()
	for it.Next() {
		item := it.Value().(Item)
		entry := b.prods[item.Prod]
		if item.Dot < len(entry.symbols) {
			symbols.Add(entry.symbols[item.Dot])
		}
	}
	result := make([]Symbol, 0, symbols.Size())
	sit := symbols.Iterator()
	for sit.Next() {
		result = append(result, sit.Value().(Symbol))
	}
	return result
}

// setKey builds the canonical content key of an item set.
func (b *lrBuilder) setKey(set *treeset.Set) string {
	var sb strings.Builder
	it := set.Iterator()
	for it.Next() {
		item := it.Value().(Item)
		fmt.Fprintf(&sb, "%s/%d/%d/%s;", item.Lhs.Name, item.Prod, item.Dot, item.Lookahead.Name)
	}
	return sb.String()
}

func sortedTransitionSymbols(transitions map[Symbol]int) []Symbol {
	symbols := make([]Symbol, 0, len(transitions))
	for sym := range transitions {
		symbols = append(symbols, sym)
	}
	sort.Slice(symbols, func(i, j int) bool { return Compare(symbols[i], symbols[j]) < 0 })
	return symbols
}
