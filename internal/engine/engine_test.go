package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisoputnfrba/go-vmem-tree/internal/backend"
	"github.com/sisoputnfrba/go-vmem-tree/internal/geometry"
	"github.com/sisoputnfrba/go-vmem-tree/internal/metrics"
)

// newExampleEngine uses spec.md §8's concrete scenario geometry:
// OFFSET_WIDTH=4, NUM_FRAMES=5, TABLES_DEPTH=3.
func newExampleEngine(t *testing.T) *Engine {
	t.Helper()
	geom := geometry.Geometry{OffsetWidth: 4, TablesDepth: 3, NumFrames: 5}
	mem := backend.NewMemory(geom.NumFrames, geom.Derive().PageSize, backend.NewMemorySwapStore())
	e, err := New(geom, mem, &metrics.Counters{})
	require.NoError(t, err)
	e.Initialize()
	return e
}

// S1: round trip through a single write/read.
func TestScenarioS1RoundTrip(t *testing.T) {
	e := newExampleEngine(t)

	ok := e.Write(0x01230, 7)
	require.True(t, ok)

	v, ok := e.Read(0x01230)
	require.True(t, ok)
	assert.Equal(t, int64(7), v)
}

// S2: a second, disjoint page forces eviction-and-restore of the first.
func TestScenarioS2SwapInAfterEviction(t *testing.T) {
	e := newExampleEngine(t)

	require.True(t, e.Write(13, 3))
	require.True(t, e.Write(0x724, 6))

	v, ok := e.Read(0x724)
	require.True(t, ok)
	assert.Equal(t, int64(6), v)

	v, ok = e.Read(13)
	require.True(t, ok)
	assert.Equal(t, int64(3), v)
}

// S3: a freshly restored leaf, never written, reads back as zero.
func TestScenarioS3ZeroOnNewPage(t *testing.T) {
	e := newExampleEngine(t)

	v, ok := e.Read(0xBEEF)
	require.True(t, ok)
	assert.Equal(t, int64(0), v)
}

// S4: bounds checking rejects addresses at or beyond VirtualMemorySize
// without touching memory.
func TestScenarioS4Bounds(t *testing.T) {
	e := newExampleEngine(t)

	_, ok := e.Read(e.derived.VirtualMemorySize)
	assert.False(t, ok)

	ok = e.Write(e.derived.VirtualMemorySize, 1)
	assert.False(t, ok)

	ok = e.Write(e.derived.VirtualMemorySize+1000, 1)
	assert.False(t, ok)
}

// S6: once every leaf under a table frame has been evicted and
// unlinked, the allocator reuses that emptied table frame instead of
// advancing the high-water mark.
func TestScenarioS6EmptyTableReuse(t *testing.T) {
	e := newExampleEngine(t)

	// Page A and page B share the root slot and both table levels and
	// differ only in the leaf slot, so together they fill all five
	// frames: root, two tables, and one leaf frame each.
	pageA := uint64(0x100) // offsets: root=1, L2=0, L1=0
	pageB := uint64(0x101) // offsets: root=1, L2=0, L1=1

	require.True(t, e.Write(pageA<<4, 11))
	require.True(t, e.Write(pageB<<4, 22))

	countersBefore := e.metrics.(*metrics.Counters).Snapshot()

	// Page C uses a different root slot, so installing it needs three
	// frames: the first two come from evicting A and then B, which
	// leaves their shared leaf-level table empty, and the third is that
	// emptied table frame.
	pageC := uint64(0x200)
	require.True(t, e.Write(pageC<<4, 33))

	after := e.metrics.(*metrics.Counters).Snapshot()
	assert.GreaterOrEqual(t, after.Evictions, countersBefore.Evictions+1)
	assert.GreaterOrEqual(t, after.EmptyFrameReuses, countersBefore.EmptyFrameReuses+1,
		"the table frame emptied by cascading eviction must be reused for pageC's leaf")

	// Whichever of A/B survived must still read back correctly, and the
	// evicted one must restore correctly from swap.
	va, ok := e.Read(pageA << 4)
	require.True(t, ok)
	vb, ok := e.Read(pageB << 4)
	require.True(t, ok)
	assert.ElementsMatch(t, []int64{11, 22}, []int64{va, vb})
}

func TestInvariantFrameZeroNeverZeroedOrEvicted(t *testing.T) {
	e := newExampleEngine(t)
	require.True(t, e.Write(0x01230, 1))
	require.True(t, e.Write(0x0724, 2))
	require.True(t, e.Write(0xBEEF, 3))

	root := e.mem.FrameSlice(0)
	allZero := true
	for _, v := range root {
		if v != 0 {
			allZero = false
			break
		}
	}
	assert.False(t, allZero, "root table must retain at least its live links")
}

func TestInvariantChildSlotsInRange(t *testing.T) {
	e := newExampleEngine(t)
	require.True(t, e.Write(0x01230, 1))
	require.True(t, e.Write(0x0724, 2))

	// Only table frames (depth < TablesDepth) hold child pointers; leaf
	// frames hold arbitrary user words and must not be interpreted as
	// pointers.
	var walk func(frame int, depth uint)
	walk = func(frame int, depth uint) {
		if depth == e.geom.TablesDepth {
			return
		}
		for _, child := range e.mem.FrameSlice(frame) {
			if child == 0 {
				continue
			}
			assert.True(t, child > 0 && child < int64(e.geom.NumFrames))
			walk(int(child), depth+1)
		}
	}
	walk(0, 0)
}
