package model

import (
	"bytes"
	"fmt"
	"time"
)

// timestampLayouts are tried in order. The service emits naive ISO-8601
// timestamps (no zone) which encoding/json's time.Time cannot parse.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp is a creation time as reported by the service, interpreted as UTC
// when no zone is present.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		parsed, err := time.ParseInLocation(layout, string(data), time.UTC)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", string(data))
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// Display formats the timestamp the way listings show it, e.g. "Jan 15, 2024 10:30".
func (t Timestamp) Display() string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}
