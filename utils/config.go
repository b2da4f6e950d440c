package utils

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// LoadConfig decodes a JSON file at path directly into T. It exits the
// process on any failure, matching how every binary in this tree treats
// a bad config file: there is nothing sensible to fall back to.
func LoadConfig[T any](path string) *T {
	slog.Info("loading configuration", "path", path)

	absPath, err := filepath.Abs(path)
	if err != nil {
		slog.Error("resolving config path", "error", err, "path", path)
		os.Exit(1)
	}

	file, err := os.Open(absPath)
	if err != nil {
		slog.Error("opening config file", "error", err, "file", absPath)
		os.Exit(1)
	}
	defer file.Close()

	var config T
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		slog.Error("decoding configuration", "error", err, "file", absPath)
		os.Exit(1)
	}

	slog.Info("configuration loaded")
	return &config
}
