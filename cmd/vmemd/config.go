package main

// Config is vmemd's JSON configuration file, grounded on the donor's
// MemoryConfig: field names map 1:1 onto the geometry constants plus
// the ambient service settings (address, log level, delays, paths).
type Config struct {
	IP       string `json:"ip"`
	Port     int    `json:"port"`
	LogLevel string `json:"log_level"`

	OffsetWidth uint `json:"offset_width"`
	TablesDepth uint `json:"tables_depth"`
	NumFrames   int  `json:"num_frames"`

	MemoryDelayMs int `json:"memory_delay_ms"`
	SwapDelayMs   int `json:"swap_delay_ms"`

	DumpPath string `json:"dump_path"`
}
