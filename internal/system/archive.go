package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BackupTimeFormat is the timestamp embedded in backup archive names
const BackupTimeFormat = "20060102-150405"

// BackupPath returns <dir>/<prefix>-backup-<timestamp>.tar.gz
func BackupPath(dir, prefix string, at time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s-backup-%s.tar.gz", prefix, at.Format(BackupTimeFormat)))
}

// ExistingPaths filters paths down to the ones present on disk
func ExistingPaths(paths []string) []string {
	existing := []string{}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	return existing
}

// CreateArchive writes a gzip-compressed tar of paths to dest. Paths are
// stored relative to / so the archive can be restored with tar -C /.
func CreateArchive(ctx context.Context, r Runner, dest string, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("nothing to archive")
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0700); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	args := []string{"-czf", dest, "-C", "/"}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		args = append(args, strings.TrimPrefix(abs, "/"))
	}
	_, err := r.Run(ctx, "tar", args...)
	return err
}
