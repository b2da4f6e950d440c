package engine

import "github.com/sisoputnfrba/go-vmem-tree/internal/geometry"

// dfs performs the single recursive traversal that jointly discovers
// the empty table frame (if any), the maximum frame index in use, and
// the best eviction candidate, per spec.md §4.2.
//
// curFrame/parentFrame/curDepth describe the node being visited.
// pagePath accumulates the table indices taken to reach curFrame,
// packed high-to-low the way a resolved page number would be.
// pageSwappedIn is the page being installed, used to seed the cyclic
// distance metric. frameEvict is the frame most recently linked along
// the current translation path; it must never be reported as empty,
// because it is about to receive a child link and recycling it would
// corrupt the walk in progress (spec.md §9).
func (e *Engine) dfs(acc *accumulator, curFrame, parentFrame int, curDepth uint, pagePath uint64, pageSwappedIn uint64, frameEvict int) {
	if acc.emptyFound {
		return
	}

	if curFrame > acc.maxFrame {
		acc.maxFrame = curFrame
	}

	if curDepth == e.geom.TablesDepth {
		dist := geometry.CyclicDistance(pageSwappedIn, pagePath, e.derived.NumPages)
		if dist > acc.victimDist {
			acc.victimDist = dist
			acc.victimFrame = curFrame
			acc.victimParent = parentFrame
			acc.victimPagePath = pagePath
		}
		return
	}

	slots := e.mem.FrameSlice(curFrame)
	zeroCount := 0
	for i := uint64(0); i < e.derived.PageSize; i++ {
		child := slots[i]
		if child == 0 {
			zeroCount++
			continue
		}
		childShift := uint64(e.geom.TablesDepth-curDepth-1) * uint64(e.geom.OffsetWidth)
		childPath := pagePath | (i << childShift)
		e.dfs(acc, int(child), curFrame, curDepth+1, childPath, pageSwappedIn, frameEvict)
		if acc.emptyFound {
			return
		}
	}

	// Root exclusion: frame 0 has no parent to unlink from and must
	// never be chosen as the empty frame (spec.md §4.2, §9).
	if zeroCount == int(e.derived.PageSize) && curFrame != 0 && curFrame != frameEvict {
		parentShift := uint64(e.geom.TablesDepth-curDepth) * uint64(e.geom.OffsetWidth)
		acc.emptyFound = true
		acc.emptyFrame = curFrame
		acc.emptyOffset = (pagePath >> parentShift) & (e.derived.PageSize - 1)
		acc.emptyParent = parentFrame
	}
}
