// Package journal appends snapshots to the newline-delimited JSON history
// log. The log is write-only from this program's point of view.
package journal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hazyhaar/marketsnap/snapshot"
)

// Append serialises s and appends it to the log at path as one line.
//
// The line is fully built before the file is touched, then written with a
// single write on an O_APPEND descriptor, so a failure before this call
// leaves the log byte-for-byte unchanged. The file and its parent
// directory are created if absent. No lock is taken: overlapping
// invocations rely on the filesystem's append atomicity.
func Append(path string, s snapshot.Snapshot) error {
	line, err := snapshot.MarshalLine(s)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("journal: mkdir %s: %w", filepath.Dir(path), err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("journal: open %s: %w", path, err)
	}

	n, err := f.Write(line)
	if err == nil && n < len(line) {
		err = io.ErrShortWrite
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("journal: write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("journal: sync %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("journal: close %s: %w", path, err)
	}
	return nil
}
