// Package snapshot defines the record marketsnap appends to its history log:
// one timestamped list of scraped prediction markets per successful run.
package snapshot

import "time"

// TimeLayout is ISO-8601 UTC with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// NoPrice is the price recorded when no price pattern was found near a market link.
const NoPrice = "N/A"

// MarketEntry is one scraped market listing.
type MarketEntry struct {
	Title string `json:"title"`
	Price string `json:"price"` // "63%", "4.5¢" or NoPrice
	URL   string `json:"url"`   // absolute
}

// Snapshot is the unit of persistence. Built once, never mutated after write.
type Snapshot struct {
	Timestamp string        `json:"timestamp"`
	Markets   []MarketEntry `json:"markets"`
}

// New builds a Snapshot stamped with now in UTC. A nil markets slice is
// stored as empty so the log always carries an array.
func New(now time.Time, markets []MarketEntry) Snapshot {
	if markets == nil {
		markets = []MarketEntry{}
	}
	return Snapshot{
		Timestamp: now.UTC().Format(TimeLayout),
		Markets:   markets,
	}
}

// Time parses the snapshot timestamp.
func (s Snapshot) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s.Timestamp)
}
