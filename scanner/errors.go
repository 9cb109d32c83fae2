package scanner

import (
	"errors"
	"fmt"
)

// Kind classifies why a run failed.
type Kind int

const (
	KindNone Kind = iota
	// KindEnvironment: the browser could not be started or reached.
	KindEnvironment
	// KindNavigation: the page did not load or quiesce in time, or the
	// settle wait was interrupted.
	KindNavigation
	// KindExtraction: the in-page script failed or returned garbage.
	KindExtraction
	// KindPersistence: the log line could not be appended.
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindEnvironment:
		return "environment"
	case KindNavigation:
		return "navigation"
	case KindExtraction:
		return "extraction"
	case KindPersistence:
		return "persistence"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a failed pipeline stage.
type Error struct {
	Kind Kind
	Op   string // launch, load, settle, collect, append
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, KindNone for
// a nil err and for errors that did not come from a pipeline stage.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}
