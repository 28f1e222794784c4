package timeutil

import (
	"time"
)

// EAT is East Africa Time (UTC+3), the zone the rice backend stamps its records in.
var EAT *time.Location

func init() {
	var err error
	EAT, err = time.LoadLocation("Africa/Nairobi")
	if err != nil {
		// Fallback: create fixed zone if tzdata is not available
		EAT = time.FixedZone("EAT", 3*60*60)
	}
}

// Now returns the current time in EAT
func Now() time.Time {
	return time.Now().In(EAT)
}

// ToEAT converts any time to EAT
func ToEAT(t time.Time) time.Time {
	return t.In(EAT)
}

// ParseBackend parses the timestamps the backend emits. Python's isoformat()
// drops the zone for naive datetimes, so zoneless values are read as EAT.
func ParseBackend(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.In(EAT), nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999", "2006-01-02T15:04:05", DateLayout} {
		if t, err := time.ParseInLocation(layout, value, EAT); err == nil {
			return t, nil
		}
	}
	return time.ParseInLocation("2006-01-02 15:04:05", value, EAT)
}

// FormatEAT formats a time in EAT using the given layout
func FormatEAT(t time.Time, layout string) string {
	return t.In(EAT).Format(layout)
}

// StartOfDay returns the start of day (00:00:00) in EAT for the given time
func StartOfDay(t time.Time) time.Time {
	e := t.In(EAT)
	return time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, EAT)
}

// Common layouts for EAT formatting
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayDate    = "January 02, 2006"
	DisplayLayout  = "January 02, 2006 at 03:04 PM"
)
