// Command vmemd is the HTTP front end over internal/registry: a JSON
// config path on argv[1] selects geometry and service settings, then
// the process blocks serving requests. Grounded on the donor's
// cmd/memoria/main.go shape (load config, init logger, start server,
// block forever).
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sisoputnfrba/go-vmem-tree/internal/httpapi"
	"github.com/sisoputnfrba/go-vmem-tree/internal/registry"
	"github.com/sisoputnfrba/go-vmem-tree/utils"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <config.json>\n", os.Args[0])
		os.Exit(1)
	}

	configPath := os.Args[1]
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "config file does not exist: %s\n", configPath)
		os.Exit(1)
	}

	utils.InitLogger("info", "vmemd")
	config := utils.LoadConfig[Config](configPath)
	utils.InitLogger(config.LogLevel, "vmemd")

	utils.InfoLog.Info("starting vmemd",
		"offset_width", config.OffsetWidth,
		"tables_depth", config.TablesDepth,
		"num_frames", config.NumFrames,
		"dump_path", config.DumpPath)

	if err := os.MkdirAll(config.DumpPath, 0755); err != nil {
		utils.InfoLog.Warn("could not create dump directory", "error", err)
	}

	reg := registry.New()
	api := httpapi.NewServer(reg, config.DumpPath,
		time.Duration(config.MemoryDelayMs)*time.Millisecond,
		time.Duration(config.SwapDelayMs)*time.Millisecond)

	server := utils.NewServer(fmt.Sprintf("%s:%d", config.IP, config.Port), "vmemd", api.Mux())
	if err := server.Start(); err != nil {
		utils.ErrorLog.Error("http server stopped", "error", err)
		os.Exit(1)
	}
}
