package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight
func ParseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}

// FormatDate renders the calendar date part of t
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateDate drops the time of day, keeping the calendar date in t's location
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidClock reports whether value is a zero-padded 24h HH:MM time
func ValidClock(value string) bool {
	if len(value) != len(ClockLayout) {
		return false
	}
	_, err := time.Parse(ClockLayout, value)
	return err == nil
}

// SlotID builds the stable identifier of the slot of a content on a date at a start time
func SlotID(contentID uuid.UUID, date time.Time, startTime string) string {
	return fmt.Sprintf("%s:%s:%s", contentID, FormatDate(date), startTime)
}
