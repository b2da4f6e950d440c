// Package metrics tracks per-instance operation counters, grounded on
// the donor's cmd/memoria/metricas.go (actualizarMetricas* family),
// generalized from per-PID counters to per-instance counters since this
// system has no process model.
package metrics

import "sync/atomic"

// Recorder is the narrow interface internal/engine depends on, so the
// translation algorithm never imports metrics' storage details.
type Recorder interface {
	IncReads()
	IncWrites()
	IncTableWalk()
	IncEmptyFrameReuse()
	IncHighWaterAlloc()
	IncEviction()
	IncRestore()
}

// Counters is the concrete Recorder used by a live instance. All fields
// are atomic so the HTTP metrics endpoint can read a live instance's
// counters while the instance's mutex serializes engine access from a
// different goroutine.
type Counters struct {
	Reads            atomic.Int64
	Writes           atomic.Int64
	TableWalks       atomic.Int64
	EmptyFrameReuses atomic.Int64
	HighWaterAllocs  atomic.Int64
	Evictions        atomic.Int64
	Restores         atomic.Int64
}

func (c *Counters) IncReads()           { c.Reads.Add(1) }
func (c *Counters) IncWrites()          { c.Writes.Add(1) }
func (c *Counters) IncTableWalk()       { c.TableWalks.Add(1) }
func (c *Counters) IncEmptyFrameReuse() { c.EmptyFrameReuses.Add(1) }
func (c *Counters) IncHighWaterAlloc()  { c.HighWaterAllocs.Add(1) }
func (c *Counters) IncEviction()        { c.Evictions.Add(1) }
func (c *Counters) IncRestore()         { c.Restores.Add(1) }

// Snapshot is the JSON-serializable point-in-time view of Counters,
// returned by the metrics HTTP endpoint and vmemctl metrics.
type Snapshot struct {
	Reads            int64 `json:"reads"`
	Writes           int64 `json:"writes"`
	TableWalks       int64 `json:"table_walks"`
	EmptyFrameReuses int64 `json:"empty_frame_reuses"`
	HighWaterAllocs  int64 `json:"high_water_allocs"`
	Evictions        int64 `json:"evictions"`
	Restores         int64 `json:"restores"`
}

// Snapshot reads every counter into a plain struct.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Reads:            c.Reads.Load(),
		Writes:           c.Writes.Load(),
		TableWalks:       c.TableWalks.Load(),
		EmptyFrameReuses: c.EmptyFrameReuses.Load(),
		HighWaterAllocs:  c.HighWaterAllocs.Load(),
		Evictions:        c.Evictions.Load(),
		Restores:         c.Restores.Load(),
	}
}

// NoOp discards every counter update. engine.New uses it when it is
// given a nil Recorder.
type NoOp struct{}

func (NoOp) IncReads()           {}
func (NoOp) IncWrites()          {}
func (NoOp) IncTableWalk()       {}
func (NoOp) IncEmptyFrameReuse() {}
func (NoOp) IncHighWaterAlloc()  {}
func (NoOp) IncEviction()        {}
func (NoOp) IncRestore()         {}
