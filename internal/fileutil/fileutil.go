// Package fileutil holds file permission and output-path helpers.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// OwnerReadWrite is the file permission mode for merged documents, which
// may carry data copied from private tables (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// RejectSymlink returns an error if path is a symlink. A path that does not
// exist yet is accepted.
func RejectSymlink(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("refusing to write to symlink: %s", path)
	}
	return nil
}

// WriteOutput writes data to path with OwnerReadWrite permissions after
// cleaning the path and refusing symlinks.
func WriteOutput(path string, data []byte) error {
	cleaned := filepath.Clean(path)
	if err := RejectSymlink(cleaned); err != nil {
		return err
	}
	return os.WriteFile(cleaned, data, OwnerReadWrite)
}
