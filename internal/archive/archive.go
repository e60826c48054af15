// Package archive moves a finished output directory out of the way so the
// next run starts empty.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveDir moves dir to <parent>/archive/<name>-<timestamp> and returns
// the new path.
func ArchiveDir(dir string) (string, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("directory does not exist: %s", dir)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", dir)
	}

	clean := filepath.Clean(dir)
	archiveDir := filepath.Join(filepath.Dir(clean), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	now := time.Now()
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s", filepath.Base(clean), now.Format("20060102-150405")))

	// Same second as a previous archive: add microseconds.
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s", filepath.Base(clean), now.Format("20060102-150405.000000")))
	}

	if err := os.Rename(clean, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive directory: %w", err)
	}

	return archivePath, nil
}
