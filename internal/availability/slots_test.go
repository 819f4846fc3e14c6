package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := ParseDate(value)
	require.NoError(t, err)
	return d
}

func mondayRule(contentID uuid.UUID) AvailabilityRule {
	return AvailabilityRule{
		ID:          uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		ContentID:   contentID,
		DayOfWeek:   int(time.Monday),
		StartTime:   "09:00",
		EndTime:     "17:00",
		MaxCapacity: 4,
		Price:       20,
		Currency:    "USD",
		IsActive:    true,
	}
}

func TestGenerateSlots_ExceptionRemovesDate(t *testing.T) {
	contentID := uuid.New()
	rule := mondayRule(contentID)
	rule.Exceptions = []RuleException{
		{RuleID: rule.ID, Date: mustDate(t, "2025-03-10"), IsAvailable: false},
	}

	slots := GenerateSlots([]AvailabilityRule{rule}, mustDate(t, "2025-03-01"), mustDate(t, "2025-03-31"), nil)

	var dates []string
	for _, slot := range slots {
		dates = append(dates, slot.Date)
		assert.Equal(t, 4, slot.MaxCapacity)
		assert.Equal(t, 20.0, slot.Price)
		assert.Equal(t, "USD", slot.Currency)
		assert.Equal(t, "09:00", slot.StartTime)
		assert.Equal(t, "17:00", slot.EndTime)
		assert.True(t, slot.IsAvailable)
	}
	assert.Equal(t, []string{"2025-03-03", "2025-03-17", "2025-03-24", "2025-03-31"}, dates)
}

func TestGenerateSlots_CustomCapacityAndPrice(t *testing.T) {
	contentID := uuid.New()
	rule := mondayRule(contentID)
	capacity := 10
	price := 35.5
	rule.Exceptions = []RuleException{
		{RuleID: rule.ID, Date: mustDate(t, "2025-03-17"), IsAvailable: true, CustomCapacity: &capacity, CustomPrice: &price},
	}

	slots := GenerateSlots([]AvailabilityRule{rule}, mustDate(t, "2025-03-10"), mustDate(t, "2025-03-17"), nil)
	require.Len(t, slots, 2)

	assert.Equal(t, 4, slots[0].MaxCapacity)
	assert.Equal(t, 20.0, slots[0].Price)
	assert.Equal(t, 10, slots[1].MaxCapacity)
	assert.Equal(t, 35.5, slots[1].Price)
}

func TestGenerateSlots_CountsAndAvailability(t *testing.T) {
	contentID := uuid.New()
	rule := mondayRule(contentID)
	monday := mustDate(t, "2025-03-03")
	full := SlotID(contentID, monday, "09:00")
	partial := SlotID(contentID, monday.AddDate(0, 0, 7), "09:00")

	slots := GenerateSlots([]AvailabilityRule{rule}, monday, monday.AddDate(0, 0, 7), BookingCounts{
		full:    4,
		partial: 3,
	})
	require.Len(t, slots, 2)

	assert.Equal(t, full, slots[0].ID)
	assert.Equal(t, 4, slots[0].CurrentBookings)
	assert.False(t, slots[0].IsAvailable)
	assert.Equal(t, 0, slots[0].Remaining())

	assert.Equal(t, 3, slots[1].CurrentBookings)
	assert.True(t, slots[1].IsAvailable)
	assert.True(t, slots[1].Fits(1))
	assert.False(t, slots[1].Fits(2))
}

func TestGenerateSlots_OrderingIsDeterministic(t *testing.T) {
	contentID := uuid.New()
	late := mondayRule(contentID)
	late.ID = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	late.StartTime, late.EndTime = "18:00", "20:00"
	early := mondayRule(contentID)
	early.ID = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	early.StartTime, early.EndTime = "08:00", "09:00"
	sunday := mondayRule(contentID)
	sunday.ID = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
	sunday.DayOfWeek = int(time.Sunday)
	inactive := mondayRule(contentID)
	inactive.ID = uuid.MustParse("00000000-0000-0000-0000-00000000000d")
	inactive.StartTime = "12:00"
	inactive.IsActive = false

	rules := []AvailabilityRule{late, sunday, inactive, early}
	from, to := mustDate(t, "2025-03-02"), mustDate(t, "2025-03-03")

	first := GenerateSlots(rules, from, to, nil)
	second := GenerateSlots(rules, from, to, nil)
	assert.Equal(t, first, second)

	var order []string
	for _, slot := range first {
		order = append(order, slot.Date+" "+slot.StartTime)
	}
	assert.Equal(t, []string{"2025-03-02 09:00", "2025-03-03 08:00", "2025-03-03 18:00"}, order)
}

func TestGenerateSlots_EmptyRange(t *testing.T) {
	rule := mondayRule(uuid.New())
	assert.Empty(t, GenerateSlots([]AvailabilityRule{rule}, mustDate(t, "2025-03-10"), mustDate(t, "2025-03-03"), nil))
}

func TestSlotID_Format(t *testing.T) {
	contentID := uuid.MustParse("6f1c2f1e-1d7a-4a51-9a55-5c1e07e0d3aa")
	assert.Equal(t, "6f1c2f1e-1d7a-4a51-9a55-5c1e07e0d3aa:2025-03-10:09:00", SlotID(contentID, mustDate(t, "2025-03-10"), "09:00"))
}
