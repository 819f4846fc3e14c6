package recurring

import (
	"iter"
	"time"

	"bookly/internal/availability"
	"bookly/internal/shared/apperr"
)

// Pattern is the unit a recurring booking repeats in
type Pattern string

const (
	PatternDaily   Pattern = "daily"
	PatternWeekly  Pattern = "weekly"
	PatternMonthly Pattern = "monthly"
)

// IsValid checks if the pattern is valid
func (p Pattern) IsValid() bool {
	switch p {
	case PatternDaily, PatternWeekly, PatternMonthly:
		return true
	}
	return false
}

// Schedule describes the occurrence dates of a recurring booking
type Schedule struct {
	Pattern        Pattern
	Start          time.Time
	End            time.Time
	Frequency      int
	MaxOccurrences *int
}

// Validate checks the schedule can produce a finite sequence
func (s Schedule) Validate() error {
	if !s.Pattern.IsValid() {
		return apperr.Invalid("pattern must be one of daily, weekly, monthly")
	}
	if s.Frequency < 1 {
		return apperr.Invalid("frequency must be at least 1")
	}
	if availability.TruncateDate(s.End).Before(availability.TruncateDate(s.Start)) {
		return apperr.Invalid("end_date must not be before start_date")
	}
	if s.MaxOccurrences != nil && *s.MaxOccurrences < 1 {
		return apperr.Invalid("max_occurrences must be at least 1")
	}
	return nil
}

// Dates yields occurrence k at start + k*frequency pattern units while it is not after
// end, stopping after MaxOccurrences items. Month steps are taken from the start date so
// a 31st start keeps landing on the 31st where it exists; shorter months roll over as
// time.AddDate normalizes them. Each call restarts the sequence.
func (s Schedule) Dates() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if !s.Pattern.IsValid() || s.Frequency < 1 {
			return
		}
		start := availability.TruncateDate(s.Start)
		end := availability.TruncateDate(s.End)

		for k := 0; s.MaxOccurrences == nil || k < *s.MaxOccurrences; k++ {
			date := s.occurrence(start, k)
			if date.After(end) {
				return
			}
			if !yield(date) {
				return
			}
		}
	}
}

func (s Schedule) occurrence(start time.Time, k int) time.Time {
	step := k * s.Frequency
	switch s.Pattern {
	case PatternDaily:
		return start.AddDate(0, 0, step)
	case PatternWeekly:
		return start.AddDate(0, 0, 7*step)
	default:
		return start.AddDate(0, step, 0)
	}
}
