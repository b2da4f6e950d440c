// Package backend implements the physical-memory collaborator spec.md
// treats as external: a flat array of words backing NUM_FRAMES frames,
// plus swap-backed eviction and restore.
package backend

import (
	"fmt"
	"time"

	"github.com/sisoputnfrba/go-vmem-tree/utils"
)

// Memory is a random-access word memory of NumFrames*PageSize words,
// with evict/restore operations against a SwapStore. Grounded on the
// donor's memoriaPrincipal []byte plus cmd/memoria/swap.go, generalized
// from bytes to words per SPEC_FULL.md's word-addressed contract.
type Memory struct {
	words     []int64
	pageSize  uint64
	numFrames int
	swap      SwapStore

	memDelay  time.Duration
	swapDelay time.Duration
}

// NewMemory allocates a zero-filled word array for numFrames frames of
// pageSize words each, backed by swap for evicted pages.
func NewMemory(numFrames int, pageSize uint64, swap SwapStore) *Memory {
	return &Memory{
		words:     make([]int64, uint64(numFrames)*pageSize),
		pageSize:  pageSize,
		numFrames: numFrames,
		swap:      swap,
	}
}

// WithDelay configures simulated access latency, mirroring the donor's
// utils.AplicarRetardo("memoria"/"swap", ...) calls. Zero delay (the
// default) makes tests run instantly.
func (m *Memory) WithDelay(memDelay, swapDelay time.Duration) *Memory {
	m.memDelay = memDelay
	m.swapDelay = swapDelay
	return m
}

func (m *Memory) checkBounds(addr uint64) error {
	if addr >= uint64(len(m.words)) {
		return fmt.Errorf("backend: address %d out of range [0,%d)", addr, len(m.words))
	}
	return nil
}

// Read loads the word at addr.
func (m *Memory) Read(addr uint64) (int64, error) {
	if err := m.checkBounds(addr); err != nil {
		return 0, err
	}
	utils.ApplyDelay("memory_read", m.memDelay)
	return m.words[addr], nil
}

// Write stores value at addr.
func (m *Memory) Write(addr uint64, value int64) error {
	if err := m.checkBounds(addr); err != nil {
		return err
	}
	utils.ApplyDelay("memory_write", m.memDelay)
	m.words[addr] = value
	return nil
}

// ZeroFrame fills a frame's PageSize word slots with zero, used when a
// newly allocated frame is about to serve as a table (spec.md §4.4).
func (m *Memory) ZeroFrame(frame int) {
	base := uint64(frame) * m.pageSize
	for i := uint64(0); i < m.pageSize; i++ {
		m.words[base+i] = 0
	}
}

// FrameSlice returns a read-only view of a frame's PageSize word slots.
func (m *Memory) FrameSlice(frame int) []int64 {
	base := uint64(frame) * m.pageSize
	return m.words[base : base+m.pageSize]
}

// Evict writes a leaf frame's contents to swap under pageNumber. The
// frame's contents are left unchanged; the caller is responsible for
// unlinking it from its parent (spec.md §6).
func (m *Memory) Evict(frame int, pageNumber uint64) error {
	utils.ApplyDelay("swap_evict", m.swapDelay)
	base := uint64(frame) * m.pageSize
	if err := m.swap.Save(pageNumber, m.words[base:base+m.pageSize]); err != nil {
		return fmt.Errorf("backend: evict frame %d page %d: %w", frame, pageNumber, err)
	}
	return nil
}

// Restore loads pageNumber's swapped-out contents into frame, or zeroes
// the frame if the page was never previously evicted (spec.md §6).
func (m *Memory) Restore(frame int, pageNumber uint64) error {
	utils.ApplyDelay("swap_restore", m.swapDelay)
	words, found, err := m.swap.Load(pageNumber)
	if err != nil {
		return fmt.Errorf("backend: restore frame %d page %d: %w", frame, pageNumber, err)
	}
	base := uint64(frame) * m.pageSize
	if !found {
		for i := uint64(0); i < m.pageSize; i++ {
			m.words[base+i] = 0
		}
		return nil
	}
	copy(m.words[base:base+m.pageSize], words)
	return nil
}

// Close releases the backing swap store (its file handle, if any).
func (m *Memory) Close() error {
	return m.swap.Close()
}
