// Package engine implements the frame-allocation and page-walk core:
// the recursive descent that discovers an empty table frame, the
// high-water frame index and the eviction victim in one traversal, the
// three-case allocator built on top of it, and the translation driver
// that installs missing tables and pages. Grounded on the donor's
// cmd/memoria/{tablas_paginas,marcos,direcciones}.go, restructured
// around the tree-shaped, single-root address space spec.md describes.
package engine

import (
	"fmt"

	"github.com/sisoputnfrba/go-vmem-tree/internal/backend"
	"github.com/sisoputnfrba/go-vmem-tree/internal/geometry"
	"github.com/sisoputnfrba/go-vmem-tree/internal/metrics"
)

// Engine is one hierarchical page table rooted at physical frame 0,
// backed by a single Memory. Per spec.md §5, an Engine is
// single-threaded: callers must not invoke Read/Write/Initialize from
// more than one goroutine at a time (internal/registry enforces this
// for the HTTP service).
type Engine struct {
	geom    geometry.Geometry
	derived geometry.Derived
	mem     *backend.Memory
	metrics metrics.Recorder
}

// New builds an Engine over mem, rejecting geometries that cannot back
// even the deepest translation path. rec may be nil, in which case
// metrics are discarded.
func New(geom geometry.Geometry, mem *backend.Memory, rec metrics.Recorder) (*Engine, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	if rec == nil {
		rec = metrics.NoOp{}
	}
	return &Engine{
		geom:    geom,
		derived: geom.Derive(),
		mem:     mem,
		metrics: rec,
	}, nil
}

// Initialize zero-fills the root table frame. Must be called once
// before any Read/Write.
func (e *Engine) Initialize() {
	e.mem.ZeroFrame(0)
}

// Read validates the virtual address, translates it, and returns the
// stored word. The second return value is false (and the value 0)
// when the address is out of range; spec.md §4.5 / §7.
func (e *Engine) Read(virtualAddress uint64) (int64, bool) {
	if virtualAddress >= e.derived.VirtualMemorySize {
		return 0, false
	}
	offset := virtualAddress % e.derived.PageSize
	frame := e.translate(virtualAddress)

	value, err := e.mem.Read(uint64(frame)*e.derived.PageSize + offset)
	if err != nil {
		panic(fmt.Errorf("engine: backend fault on read: %w", err))
	}
	e.metrics.IncReads()
	return value, true
}

// Write validates the virtual address, translates it, and stores value.
// It returns false without touching memory when the address is out of
// range; spec.md §4.5 / §7.
func (e *Engine) Write(virtualAddress uint64, value int64) bool {
	if virtualAddress >= e.derived.VirtualMemorySize {
		return false
	}
	offset := virtualAddress % e.derived.PageSize
	frame := e.translate(virtualAddress)

	if err := e.mem.Write(uint64(frame)*e.derived.PageSize+offset, value); err != nil {
		panic(fmt.Errorf("engine: backend fault on write: %w", err))
	}
	e.metrics.IncWrites()
	return true
}

// LinkedFrames walks the tree from frame 0 and reports every linked frame
// index, used by internal/dump to render a free-frame bitmap without
// duplicating traversal logic.
func (e *Engine) LinkedFrames() []int {
	seen := map[int]bool{0: true}
	var walk func(frame int, depth uint)
	walk = func(frame int, depth uint) {
		if depth == e.geom.TablesDepth {
			return
		}
		for _, child := range e.mem.FrameSlice(frame) {
			if child == 0 {
				continue
			}
			seen[int(child)] = true
			walk(int(child), depth+1)
		}
	}
	walk(0, 0)

	frames := make([]int, 0, len(seen))
	for f := range seen {
		frames = append(frames, f)
	}
	return frames
}
