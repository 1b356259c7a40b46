package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// HOSTPROV_LOG_FILE wins over the configured path. When the configured
// directory cannot be created (not root), it falls back to ~/.hostprov/logs.
func GetLogFilePath(configured string) string {
	if customPath := os.Getenv("HOSTPROV_LOG_FILE"); customPath != "" {
		return customPath
	}

	if configured != "" {
		if err := os.MkdirAll(filepath.Dir(configured), 0750); err == nil {
			return configured
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "hostprov.log"
	}
	return filepath.Join(homeDir, ".hostprov", "logs", "hostprov.log")
}
