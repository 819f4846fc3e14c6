package waitlist

import (
	"time"

	"bookly/internal/availability"
	"bookly/internal/shared/types"

	"github.com/google/uuid"
)

// WaitlistEntry is a party queued for one exact slot of a content
type WaitlistEntry struct {
	ID            uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_waitlist_user_slot" json:"user_id"`
	ContentID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_waitlist_user_slot;index:idx_waitlist_slot_position" json:"content_id"`
	PreferredDate time.Time         `gorm:"type:date;not null;uniqueIndex:idx_waitlist_user_slot;index:idx_waitlist_slot_position" json:"preferred_date"`
	PreferredTime string            `gorm:"type:varchar(5);not null;uniqueIndex:idx_waitlist_user_slot;index:idx_waitlist_slot_position" json:"preferred_time"`
	PartySize     int               `gorm:"not null;check:party_size > 0" json:"party_size"`
	Position      int               `gorm:"not null;index:idx_waitlist_slot_position" json:"position"`
	ContactInfo   types.ContactInfo `gorm:"type:jsonb" json:"contact_info"`
	CreatedAt     time.Time         `json:"created_at"`
}

// TableName sets the table name for WaitlistEntry
func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}

// SlotID is the derived id of the slot the entry waits for
func (e *WaitlistEntry) SlotID() string {
	return availability.SlotID(e.ContentID, e.PreferredDate, e.PreferredTime)
}

// SlotAvailableNotice tells a waitlisted party that room opened up for them
type SlotAvailableNotice struct {
	EntryID     uuid.UUID         `json:"entry_id"`
	UserID      uuid.UUID         `json:"user_id"`
	ContentID   uuid.UUID         `json:"content_id"`
	Date        string            `json:"date"`
	Time        string            `json:"time"`
	PartySize   int               `json:"party_size"`
	Position    int               `json:"position"`
	ContactInfo types.ContactInfo `json:"contact_info"`
}

func noticeFor(entry *WaitlistEntry) SlotAvailableNotice {
	return SlotAvailableNotice{
		EntryID:     entry.ID,
		UserID:      entry.UserID,
		ContentID:   entry.ContentID,
		Date:        availability.FormatDate(entry.PreferredDate),
		Time:        entry.PreferredTime,
		PartySize:   entry.PartySize,
		Position:    entry.Position,
		ContactInfo: entry.ContactInfo,
	}
}
