package waitlist

import (
	"time"

	"bookly/internal/availability"
	"bookly/internal/shared/types"

	"github.com/google/uuid"
)

// WaitlistEntryResponse represents a waitlist entry in API responses
type WaitlistEntryResponse struct {
	ID            uuid.UUID         `json:"id"`
	UserID        uuid.UUID         `json:"user_id"`
	ContentID     uuid.UUID         `json:"content_id"`
	PreferredDate string            `json:"preferred_date"`
	PreferredTime string            `json:"preferred_time"`
	PartySize     int               `json:"party_size"`
	Position      int               `json:"position"`
	ContactInfo   types.ContactInfo `json:"contact_info"`
	CreatedAt     time.Time         `json:"created_at"`
}

// WaitlistResponse lists one slot's queue
type WaitlistResponse struct {
	Entries []WaitlistEntryResponse `json:"entries"`
	Count   int                     `json:"count"`
}

// NotifyWaitlistResponse reports how many parties were admitted
type NotifyWaitlistResponse struct {
	Notified int `json:"notified"`
}

// ToResponse converts an entry for API output
func (e *WaitlistEntry) ToResponse() WaitlistEntryResponse {
	return WaitlistEntryResponse{
		ID:            e.ID,
		UserID:        e.UserID,
		ContentID:     e.ContentID,
		PreferredDate: availability.FormatDate(e.PreferredDate),
		PreferredTime: e.PreferredTime,
		PartySize:     e.PartySize,
		Position:      e.Position,
		ContactInfo:   e.ContactInfo,
		CreatedAt:     e.CreatedAt,
	}
}
