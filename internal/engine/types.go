package engine

// accumulator carries the four outputs the tree walk (dfs) discovers in
// a single traversal, replacing the original's ten by-reference
// parameters with one explicit record (spec.md §9 design note).
type accumulator struct {
	// maxFrame is the largest frame index visited, including the root.
	maxFrame int

	// emptyFound/emptyFrame/emptyParent/emptyOffset describe the first
	// empty table frame discovered (excluding frameEvict and the
	// root). Once emptyFound is true, dfs short-circuits.
	emptyFound  bool
	emptyFrame  int
	emptyParent int
	emptyOffset uint64

	// victimFrame/victimParent/victimPagePath/victimDist describe the
	// best eviction candidate seen so far: the leaf whose page number
	// maximizes the cyclic distance from the page being installed.
	// victimDist starts at 0 and is only replaced by a strictly
	// greater distance, so DFS order breaks ties (spec.md §4.2, §9).
	victimFrame    int
	victimParent   int
	victimPagePath uint64
	victimDist     uint64
}
