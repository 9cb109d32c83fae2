// Package extract turns raw anchor candidates into market entries.
//
// Candidates come either from the live page (Script, evaluated by the
// browser session) or from saved HTML (FromHTML). Both feed the same
// rules in Apply, so the title filter, price pattern and truncation are
// identical on the two paths.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hazyhaar/marketsnap/snapshot"
)

// Candidate is one anchor matched by the link selector, in DOM order.
type Candidate struct {
	Text    string `json:"text"`    // anchor innerText
	Context string `json:"context"` // innerText of the closest container, "" if none
	Href    string `json:"href"`    // resolved link target
}

// Selectors locate market links and the block that holds their price.
type Selectors struct {
	Link      string
	Container string
}

// Rules bound what Apply keeps.
type Rules struct {
	MinTitle   int // titles of this many runes or fewer are dropped
	MaxEntries int
}

// pricePattern matches "63%" or "4.5¢". Unanchored: the first hit in the
// container text wins.
var pricePattern = regexp.MustCompile(`[0-9]{1,2}%|[0-9]{1,2}\.[0-9]¢`)

// Title returns the anchor text up to the first line break, trimmed.
func Title(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

// Price returns the first price found in context, or snapshot.NoPrice.
func Price(context string) string {
	if m := pricePattern.FindString(context); m != "" {
		return m
	}
	return snapshot.NoPrice
}

// Apply derives entries from candidates, keeping DOM order, dropping short
// titles and stopping at r.MaxEntries.
func Apply(cands []Candidate, r Rules) []snapshot.MarketEntry {
	out := []snapshot.MarketEntry{}
	if r.MaxEntries <= 0 {
		return out
	}
	for _, c := range cands {
		title := Title(c.Text)
		if utf8.RuneCountInString(title) <= r.MinTitle {
			continue
		}
		out = append(out, snapshot.MarketEntry{
			Title: title,
			Price: Price(c.Context),
			URL:   c.Href,
		})
		if len(out) == r.MaxEntries {
			break
		}
	}
	return out
}
