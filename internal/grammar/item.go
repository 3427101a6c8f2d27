package grammar

// Item is an LR(1) item: a production with a dot position and a one-token
// lookahead. Productions are referenced by their interned index, so items
// are small comparable values and sets of them can be ordered
// lexicographically.
type Item struct {
	Lhs       Symbol
	Prod      int
	Dot       int
	Lookahead Symbol
}

// compareItems orders items lexicographically by left-hand side,
// production index, dot position and lookahead. The order is arbitrary
// but fixed, which is all determinism needs.
func compareItems(a, b Item) int {
	if c := Compare(a.Lhs, b.Lhs); c != 0 {
		return c
	}
	if a.Prod != b.Prod {
		if a.Prod < b.Prod {
			return -1
		}
		return 1
	}
	if a.Dot != b.Dot {
		if a.Dot < b.Dot {
			return -1
		}
		return 1
	}
	return Compare(a.Lookahead, b.Lookahead)
}

// itemComparator adapts compareItems for gods containers.
func itemComparator(a, b interface{}) int {
	return compareItems(a.(Item), b.(Item))
}

// symbolComparator adapts Compare for gods containers.
func symbolComparator(a, b interface{}) int {
	return Compare(a.(Symbol), b.(Symbol))
}
