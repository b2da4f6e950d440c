// Package httpapi exposes internal/registry over HTTP, grounded on the
// donor's utils/http_server.go and utils/modulo.go, collapsed from
// type-dispatched messages to REST-ish routes since this service has a
// single concern.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/sisoputnfrba/go-vmem-tree/internal/dump"
	"github.com/sisoputnfrba/go-vmem-tree/internal/geometry"
	"github.com/sisoputnfrba/go-vmem-tree/internal/registry"
	"github.com/sisoputnfrba/go-vmem-tree/utils"
)

// Server wires a Registry to an http.ServeMux.
type Server struct {
	reg     *registry.Registry
	dumpDir string

	memoryDelay time.Duration
	swapDelay   time.Duration
}

// NewServer builds an httpapi.Server over reg, writing dumps under
// dumpDir and applying the given simulated per-instance latencies to
// every newly created instance.
func NewServer(reg *registry.Registry, dumpDir string, memoryDelay, swapDelay time.Duration) *Server {
	return &Server{
		reg:         reg,
		dumpDir:     dumpDir,
		memoryDelay: memoryDelay,
		swapDelay:   swapDelay,
	}
}

// Mux builds the route table described by the service's contract.
// Every handler is wrapped so that an engine-level invariant panic (out
// of frames, a backend fault) becomes a logged 500 instead of taking
// down the whole process: spec.md §7 treats those as fatal for the
// instance, not for the service hosting it.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", recoverMiddleware(s.handleHealth))
	mux.HandleFunc("POST /instances", recoverMiddleware(s.handleCreate))
	mux.HandleFunc("POST /instances/{name}/read", recoverMiddleware(s.handleRead))
	mux.HandleFunc("POST /instances/{name}/write", recoverMiddleware(s.handleWrite))
	mux.HandleFunc("POST /instances/{name}/dump", recoverMiddleware(s.handleDump))
	mux.HandleFunc("GET /instances/{name}/metrics", recoverMiddleware(s.handleMetrics))
	return mux
}

func recoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				utils.ErrorLog.Error("panic handling request",
					"path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
				writeError(w, http.StatusInternalServerError, fmt.Errorf("internal error: %v", rec))
			}
		}()
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "vmemd"})
}

type createRequest struct {
	Name        string `json:"name"`
	OffsetWidth uint   `json:"offset_width"`
	TablesDepth uint   `json:"tables_depth"`
	NumFrames   int    `json:"num_frames"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	geom := geometry.Geometry{
		OffsetWidth: req.OffsetWidth,
		TablesDepth: req.TablesDepth,
		NumFrames:   req.NumFrames,
	}
	if err := geom.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	swapPath := s.dumpDir + "/" + req.Name + ".swap"
	inst, err := s.reg.Create(req.Name, registry.Config{
		Geometry:    geom,
		SwapPath:    swapPath,
		MemoryDelay: s.memoryDelay,
		SwapDelay:   s.swapDelay,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"name":                inst.Name,
		"virtual_memory_size": geom.Derive().VirtualMemorySize,
	})
}

type readRequest struct {
	Address uint64 `json:"address"`
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.lookupInstance(w, r)
	if !ok {
		return
	}

	var req readRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	value, ok := inst.Read(req.Address)
	if !ok {
		writeError(w, http.StatusBadRequest, errBadAddress)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"value": value})
}

type writeRequest struct {
	Address uint64 `json:"address"`
	Value   int64  `json:"value"`
}

func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.lookupInstance(w, r)
	if !ok {
		return
	}

	var req writeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if ok := inst.Write(req.Address, req.Value); !ok {
		writeError(w, http.StatusBadRequest, errBadAddress)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleDump(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.lookupInstance(w, r)
	if !ok {
		return
	}

	path, err := dump.WriteDump(s.dumpDir, inst)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.lookupInstance(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inst.Metrics())
}

func (s *Server) lookupInstance(w http.ResponseWriter, r *http.Request) (*registry.Instance, bool) {
	name := r.PathValue("name")
	inst, found := s.reg.Get(name)
	if !found {
		writeError(w, http.StatusNotFound, errInstanceNotFound)
		return nil, false
	}
	return inst, true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		utils.ErrorLog.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
