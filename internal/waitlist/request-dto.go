package waitlist

import "bookly/internal/shared/types"

// JoinWaitlistRequest represents the body of POST /waitlist
type JoinWaitlistRequest struct {
	ContentID     string             `json:"content_id" binding:"required,uuid"`
	PreferredDate string             `json:"preferred_date" binding:"required,isodate"`
	PreferredTime string             `json:"preferred_time" binding:"required,hhmm"`
	PartySize     int                `json:"party_size" binding:"required,min=1"`
	ContactInfo   *types.ContactInfo `json:"contact_info" binding:"omitempty"`
}

// SlotQuery identifies one slot's waitlist in a query string
type SlotQuery struct {
	ContentID string `form:"content_id" binding:"required,uuid"`
	Date      string `form:"date" binding:"required,isodate"`
	Time      string `form:"time" binding:"required,hhmm"`
}

// WaitlistQuery selects the waitlist of a slot of the content in the path
type WaitlistQuery struct {
	Date string `form:"date" binding:"required,isodate"`
	Time string `form:"time" binding:"required,hhmm"`
}

// NotifyWaitlistRequest represents the body of POST /waitlist/notify
type NotifyWaitlistRequest struct {
	ContentID         string `json:"content_id" binding:"required,uuid"`
	Date              string `json:"date" binding:"required,isodate"`
	Time              string `json:"time" binding:"required,hhmm"`
	AvailableCapacity int    `json:"available_capacity" binding:"required,min=1"`
}
