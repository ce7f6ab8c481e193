package models

import (
	"strconv"
	"time"
)

// Timestamp serializes as numeric seconds since the Unix epoch, the
// wire format the mobile client expects. Sub-second precision is
// dropped so values round-trip through storage unchanged.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to whole seconds in UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{time.Unix(t.Unix(), 0).UTC()}
}

// MarshalJSON encodes the timestamp as an integer.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(t.Unix(), 10)), nil
}

// UnmarshalJSON accepts integer or fractional epoch seconds.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	seconds, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	t.Time = time.Unix(int64(seconds), 0).UTC()
	return nil
}
