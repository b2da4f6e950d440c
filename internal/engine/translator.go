package engine

import "fmt"

// translate walks the page table from root to leaf, installing any
// missing intermediate tables and the leaf page along the way, and
// returns the resident leaf frame index (spec.md §4.4).
func (e *Engine) translate(virtualAddress uint64) int {
	offsets := e.geom.Split(virtualAddress)

	currentFrame := 0
	for i := int(e.geom.TablesDepth); i >= 1; i-- {
		e.metrics.IncTableWalk()

		// frameEvict shields the frame we are about to link a child
		// into from being recycled by findFrame; at the first
		// descent this is frame 0, which also shields the root
		// (spec.md §9).
		frameEvict := currentFrame

		slotAddr := uint64(currentFrame)*e.derived.PageSize + offsets[i]
		child, err := e.mem.Read(slotAddr)
		if err != nil {
			panic(fmt.Errorf("engine: backend fault during translation: %w", err))
		}

		if child != 0 {
			currentFrame = int(child)
			continue
		}

		newFrame := e.findFrame(virtualAddress, frameEvict)

		// Zero-fill before linking, so the tree invariant (only valid
		// child indices or zero) never sees a half-initialized table
		// (spec.md §4.4 "critical ordering").
		if i > 1 {
			e.mem.ZeroFrame(newFrame)
		}

		e.writeWord(slotAddr, int64(newFrame))

		if i == 1 {
			if err := e.mem.Restore(newFrame, e.geom.PageNumber(virtualAddress)); err != nil {
				panic(fmt.Errorf("engine: backend fault during restore: %w", err))
			}
			e.metrics.IncRestore()
		}

		currentFrame = newFrame
	}

	return currentFrame
}
