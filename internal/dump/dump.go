// Package dump renders a live instance's memory to disk, grounded on
// the donor's cmd/memoria/dump.go (crearMemoryDump), generalized from a
// per-PID frame list to a whole-instance word dump since this system
// has no process model, only instances.
package dump

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sisoputnfrba/go-vmem-tree/internal/registry"
	"github.com/sisoputnfrba/go-vmem-tree/utils"
)

// WriteDump writes every frame of inst's memory, in frame order, as
// little-endian 64-bit words to a timestamped file under dir, and
// returns the file's path.
func WriteDump(dir string, inst *registry.Instance) (string, error) {
	utils.InfoLog.Info("starting memory dump", "instance", inst.Name)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("dump: creating directory %s: %w", dir, err)
	}

	fileName := fmt.Sprintf("%s-%s.dmp", inst.Name, time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, fileName)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("dump: creating file %s: %w", path, err)
	}
	defer f.Close()

	mem := inst.Memory()
	buf := make([]byte, 8)
	for frame := 0; frame < inst.Geometry.NumFrames; frame++ {
		for _, word := range mem.FrameSlice(frame) {
			binary.LittleEndian.PutUint64(buf, uint64(word))
			if _, err := f.Write(buf); err != nil {
				return "", fmt.Errorf("dump: writing frame %d: %w", frame, err)
			}
		}
	}

	utils.InfoLog.Info("memory dump complete", "instance", inst.Name, "file", path)
	return path, nil
}

// FreeFrameBitmap reports, for every frame index, whether it is
// currently unlinked from inst's tree. Frame 0 is always reported
// linked.
func FreeFrameBitmap(inst *registry.Instance) []bool {
	free := make([]bool, inst.Geometry.NumFrames)
	for i := range free {
		free[i] = true
	}
	for _, frame := range inst.LinkedFrames() {
		if frame >= 0 && frame < len(free) {
			free[frame] = false
		}
	}
	return free
}
