package state

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the persisted completion time format.
const TimestampLayout = "2006-01-02 15:04"

// ParseTime accepts TimestampLayout in local time, or RFC3339.
func ParseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.ParseInLocation(TimestampLayout, v, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("state: invalid timestamp %q", v)
	}
	return t, nil
}

// Timestamp is a minute-resolution wall-clock time.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to the minute.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t.Truncate(time.Minute)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var v *string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil || *v == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTime(*v)
	if err != nil {
		// unreadable stamps degrade to "unknown" rather than failing the document
		t.Time = time.Time{}
		return nil
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Local().Format(TimestampLayout)
}
