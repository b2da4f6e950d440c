package engine

import "fmt"

// findFrame classifies the DFS traversal's output into one of the three
// allocation cases from spec.md §4.3 and returns a frame index now
// owned by the caller. frameEvict is the most recently linked frame on
// the current translation path and must never be reclaimed.
func (e *Engine) findFrame(virtualAddress uint64, frameEvict int) int {
	pageSwappedIn := e.geom.PageNumber(virtualAddress)

	acc := &accumulator{}
	e.dfs(acc, 0, 0, 0, 0, pageSwappedIn, frameEvict)

	// Case 1: an already-empty table frame. Unlink it from its parent;
	// its contents are already zero.
	if acc.emptyFound {
		e.writeWord(uint64(acc.emptyParent)*e.derived.PageSize+acc.emptyOffset, 0)
		e.metrics.IncEmptyFrameReuse()
		return acc.emptyFrame
	}

	// Case 2: an untouched frame at the high-water mark. Contents are
	// unspecified; the caller zero-fills it before use as a table.
	if acc.maxFrame+1 < e.geom.NumFrames {
		e.metrics.IncHighWaterAlloc()
		return acc.maxFrame + 1
	}

	// Case 3: evict the victim leaf chosen by cyclic distance. Frame 0
	// is never a valid victim (it is the root), so victimFrame == 0
	// here means dfs never recorded a candidate.
	if acc.victimFrame != 0 {
		if err := e.mem.Evict(acc.victimFrame, acc.victimPagePath); err != nil {
			panic(fmt.Errorf("engine: backend fault during eviction: %w", err))
		}
		offset := acc.victimPagePath & (e.derived.PageSize - 1)
		e.writeWord(uint64(acc.victimParent)*e.derived.PageSize+offset, 0)
		e.metrics.IncEviction()
		return acc.victimFrame
	}

	// Unreachable when NumFrames >= TablesDepth+1, which Geometry.Validate
	// guarantees at construction time (spec.md §4.3 case 4, §7).
	panic(fmt.Errorf("engine: out of frames: invariant violation (NumFrames=%d, TablesDepth=%d)",
		e.geom.NumFrames, e.geom.TablesDepth))
}

func (e *Engine) writeWord(addr uint64, value int64) {
	if err := e.mem.Write(addr, value); err != nil {
		panic(fmt.Errorf("engine: backend fault: %w", err))
	}
}
