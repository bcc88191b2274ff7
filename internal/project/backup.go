package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// backupStamp is the time layout embedded in backup file names.
const backupStamp = "20060102T150405Z"

// BackupPath returns where a backup of path taken at t is written:
// "bookcase.yaml" becomes "bookcase.bak-20240301T120000Z.yaml". The
// extension is kept so the backup loads like any other project file.
func BackupPath(path string, t time.Time) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + ".bak-" + t.UTC().Format(backupStamp) + ext
}

// Backup copies an existing project file next to itself before it is
// overwritten. It returns the backup path, or "" when there is nothing to
// back up.
func Backup(path string, now time.Time) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read project for backup: %w", err)
	}

	dest := BackupPath(path, now)
	if err := writeFile(dest, data); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return dest, nil
}
