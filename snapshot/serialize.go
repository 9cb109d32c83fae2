package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalLine serialises s as a single JSON object terminated by '\n'.
// HTML escaping is off so titles keep their literal '&', '<' and '>'.
func MarshalLine(s Snapshot) ([]byte, error) {
	if s.Markets == nil {
		s.Markets = []MarketEntry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("snapshot: marshal: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalLine parses one log line.
func UnmarshalLine(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(bytes.TrimSpace(data), &s); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	return &s, nil
}
