// Package registry hosts independent translation instances behind
// stable names, so a single vmemd process can serve many isolated
// address spaces at once. Each instance owns its own Engine, Memory and
// swap file: frame 0 is never shared between instances, only within
// one. Grounded on the donor's map-of-PCBs-guarded-by-mutex shape in
// cmd/kernel/pcb.go, generalized from a process table to a table of
// whole memories.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/sisoputnfrba/go-vmem-tree/internal/backend"
	"github.com/sisoputnfrba/go-vmem-tree/internal/engine"
	"github.com/sisoputnfrba/go-vmem-tree/internal/geometry"
	"github.com/sisoputnfrba/go-vmem-tree/internal/metrics"
	"github.com/sisoputnfrba/go-vmem-tree/utils"
)

// Instance bundles one Engine with the Memory that serves it. Engine is
// not safe for concurrent use, so every public operation holds lock for
// its whole duration: unlike Registry.mu, which only ever guards the
// instances map, lock guards the *translation itself*, so a read and a
// write against the same instance from two goroutines never interleave
// partway through a table walk.
type Instance struct {
	Name     string
	Geometry geometry.Geometry

	engine  *engine.Engine
	mem     *backend.Memory
	metrics *metrics.Counters
	lock    sync.Mutex
}

// Read acquires the instance's lock and performs a translated read.
func (i *Instance) Read(virtualAddress uint64) (int64, bool) {
	i.lock.Lock()
	defer i.lock.Unlock()
	return i.engine.Read(virtualAddress)
}

// Write acquires the instance's lock and performs a translated write.
func (i *Instance) Write(virtualAddress uint64, value int64) bool {
	i.lock.Lock()
	defer i.lock.Unlock()
	return i.engine.Write(virtualAddress, value)
}

// Metrics returns a point-in-time snapshot of the instance's counters.
func (i *Instance) Metrics() metrics.Snapshot {
	return i.metrics.Snapshot()
}

// Memory exposes the backing Memory, used by internal/dump to render a
// frame dump without the registry depending on the dump package.
func (i *Instance) Memory() *backend.Memory {
	return i.mem
}

// LinkedFrames reports every frame index currently linked into the
// instance's tree, used to render a free-frame bitmap.
func (i *Instance) LinkedFrames() []int {
	i.lock.Lock()
	defer i.lock.Unlock()
	return i.engine.LinkedFrames()
}

func (i *Instance) close() error {
	return i.mem.Close()
}

// Config describes how to build one instance's Engine and Memory.
type Config struct {
	Geometry    geometry.Geometry
	SwapPath    string
	MemoryDelay time.Duration
	SwapDelay   time.Duration
}

// Registry is a name-keyed table of live instances, safe for concurrent
// use by the HTTP layer.
type Registry struct {
	mu        sync.RWMutex
	instances map[string]*Instance
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{instances: make(map[string]*Instance)}
}

// Create builds a new instance under name, fails if the name is already
// in use, and stores it. The instance's root frame is zero-filled
// before Create returns.
func (r *Registry) Create(name string, cfg Config) (*Instance, error) {
	if name == "" {
		return nil, fmt.Errorf("registry: instance name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instances[name]; exists {
		return nil, fmt.Errorf("registry: instance %q already exists", name)
	}

	swap, err := backend.NewFileSwapStore(cfg.SwapPath, cfg.Geometry.Derive().PageSize)
	if err != nil {
		return nil, fmt.Errorf("registry: opening swap file for %q: %w", name, err)
	}

	mem := backend.NewMemory(cfg.Geometry.NumFrames, cfg.Geometry.Derive().PageSize, swap).
		WithDelay(cfg.MemoryDelay, cfg.SwapDelay)

	counters := &metrics.Counters{}
	eng, err := engine.New(cfg.Geometry, mem, counters)
	if err != nil {
		swap.Close()
		return nil, fmt.Errorf("registry: building engine for %q: %w", name, err)
	}
	eng.Initialize()

	inst := &Instance{
		Name:     name,
		Geometry: cfg.Geometry,
		engine:   eng,
		mem:      mem,
		metrics:  counters,
	}
	r.instances[name] = inst

	utils.InfoLog.Info("instance created", "instance", name,
		"num_frames", cfg.Geometry.NumFrames, "tables_depth", cfg.Geometry.TablesDepth)
	return inst, nil
}

// Get looks up an instance by name.
func (r *Registry) Get(name string) (*Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[name]
	return inst, ok
}

// Names lists every registered instance name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.instances))
	for name := range r.instances {
		names = append(names, name)
	}
	return names
}

// Remove closes and drops an instance, releasing its swap file handle.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.instances[name]
	if !ok {
		return fmt.Errorf("registry: instance %q not found", name)
	}
	delete(r.instances, name)
	return inst.close()
}

// CloseAll closes every instance, collecting the first error encountered.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for name, inst := range r.instances {
		if err := inst.close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing instance %q: %w", name, err)
		}
	}
	r.instances = make(map[string]*Instance)
	return firstErr
}
