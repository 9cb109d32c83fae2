package scanner

import (
	"time"

	"github.com/hazyhaar/marketsnap/snapshot"
)

// Result describes one run, successful or not.
type Result struct {
	RunID     string
	TargetURL string
	LogPath   string
	StartedAt time.Time
	Duration  time.Duration

	// Snapshot is what was appended to the log. Nil unless the run succeeded.
	Snapshot *snapshot.Snapshot

	Kind Kind
	Err  error
}

// OK reports whether the run appended a snapshot.
func (r *Result) OK() bool {
	return r.Err == nil && r.Snapshot != nil
}

// Count is the number of markets in the appended snapshot.
func (r *Result) Count() int {
	if r.Snapshot == nil {
		return 0
	}
	return len(r.Snapshot.Markets)
}
