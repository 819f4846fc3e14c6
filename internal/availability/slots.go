package availability

import (
	"sort"
	"time"
)

// BookingCounts maps a slot id to the summed party size of its pending and confirmed bookings
type BookingCounts map[string]int

// GenerateSlots materializes the slots of the given rules for every date in [from, to].
// Inactive rules and dates whose exception marks the rule unavailable produce nothing.
// The result is ordered by date, then start time, then rule id.
func GenerateSlots(rules []AvailabilityRule, from, to time.Time, counts BookingCounts) []BookingSlot {
	from, to = TruncateDate(from), TruncateDate(to)
	if from.After(to) {
		return nil
	}

	byDay := make(map[time.Weekday][]*AvailabilityRule, 7)
	for i := range rules {
		rule := &rules[i]
		if !rule.IsActive {
			continue
		}
		day := time.Weekday(rule.DayOfWeek)
		byDay[day] = append(byDay[day], rule)
	}
	for _, dayRules := range byDay {
		sort.Slice(dayRules, func(i, j int) bool {
			if dayRules[i].StartTime != dayRules[j].StartTime {
				return dayRules[i].StartTime < dayRules[j].StartTime
			}
			return dayRules[i].ID.String() < dayRules[j].ID.String()
		})
	}

	var slots []BookingSlot
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		for _, rule := range byDay[date.Weekday()] {
			slot, ok := slotFor(rule, date, counts)
			if ok {
				slots = append(slots, slot)
			}
		}
	}
	return slots
}

func slotFor(rule *AvailabilityRule, date time.Time, counts BookingCounts) (BookingSlot, bool) {
	capacity := rule.MaxCapacity
	price := rule.Price

	if ex := rule.ExceptionOn(date); ex != nil {
		if !ex.IsAvailable {
			return BookingSlot{}, false
		}
		if ex.CustomCapacity != nil {
			capacity = *ex.CustomCapacity
		}
		if ex.CustomPrice != nil {
			price = *ex.CustomPrice
		}
	}

	id := SlotID(rule.ContentID, date, rule.StartTime)
	current := counts[id]

	return BookingSlot{
		ID:              id,
		RuleID:          rule.ID,
		ContentID:       rule.ContentID,
		Date:            FormatDate(date),
		StartTime:       rule.StartTime,
		EndTime:         rule.EndTime,
		MaxCapacity:     capacity,
		CurrentBookings: current,
		Price:           price,
		Currency:        rule.Currency,
		IsAvailable:     current < capacity,
	}, true
}
