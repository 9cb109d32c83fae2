package snapshot

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"unicode/utf8"
)

var pricePattern = regexp.MustCompile(`^(?:[0-9]{1,2}%|[0-9]{1,2}\.[0-9]¢)$`)

// ValidPrice reports whether p is a percentage, a cent price, or NoPrice.
func ValidPrice(p string) bool {
	return p == NoPrice || pricePattern.MatchString(p)
}

// Validation errors.
var (
	ErrTooManyMarkets = errors.New("snapshot: too many markets")
	ErrShortTitle     = errors.New("snapshot: title too short")
	ErrBadPrice       = errors.New("snapshot: malformed price")
	ErrBadURL         = errors.New("snapshot: url not absolute")
	ErrBadTimestamp   = errors.New("snapshot: malformed timestamp")
)

// Validate checks the invariants every written snapshot holds: at most
// maxEntries markets, titles longer than minTitle runes, well-formed
// prices, and absolute URLs.
func (s Snapshot) Validate(maxEntries, minTitle int) error {
	if _, err := s.Time(); err != nil {
		return fmt.Errorf("%w: %q", ErrBadTimestamp, s.Timestamp)
	}
	if len(s.Markets) > maxEntries {
		return fmt.Errorf("%w: %d > %d", ErrTooManyMarkets, len(s.Markets), maxEntries)
	}
	for i, m := range s.Markets {
		if utf8.RuneCountInString(m.Title) <= minTitle {
			return fmt.Errorf("%w: markets[%d] %q", ErrShortTitle, i, m.Title)
		}
		if !ValidPrice(m.Price) {
			return fmt.Errorf("%w: markets[%d] %q", ErrBadPrice, i, m.Price)
		}
		u, err := url.Parse(m.URL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("%w: markets[%d] %q", ErrBadURL, i, m.URL)
		}
	}
	return nil
}
