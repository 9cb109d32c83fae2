// Package idgen produces the identifiers marketsnap attaches to runs.
//
// IDs are UUIDv7 so ledger rows sort by creation time without an extra
// column. Callers that want a type tag compose Prefixed on top.
package idgen

import "github.com/google/uuid"

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator of RFC 9562 version 7 UUID strings.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed prepends prefix to every ID produced by gen.
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Default is UUIDv7.
var Default Generator = UUIDv7()

// RunID is the generator used for pipeline runs: "run_" + UUIDv7.
var RunID Generator = Prefixed("run_", Default)
