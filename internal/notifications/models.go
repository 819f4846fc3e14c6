package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"bookly/internal/waitlist"

	"github.com/google/uuid"
)

type Kind string

const (
	KindSlotAvailable Kind = "SLOT_AVAILABLE"
)

type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "PENDING"
	DeliveryQueued  DeliveryStatus = "QUEUED"
	DeliverySent    DeliveryStatus = "SENT"
	DeliveryFailed  DeliveryStatus = "FAILED"
)

// SlotDetails describes the slot a waitlisted party may now book
type SlotDetails struct {
	ContentID uuid.UUID `json:"content_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	PartySize int       `json:"party_size"`
	Position  int       `json:"position"`
}

// EmailNotification is the message carried on the notification topic
type EmailNotification struct {
	ID      uuid.UUID `json:"id"`
	Kind    Kind      `json:"kind"`
	Subject string    `json:"subject"`

	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name,omitempty"`

	Slot            *SlotDetails `json:"slot,omitempty"`
	WaitlistEntryID *uuid.UUID   `json:"waitlist_entry_id,omitempty"`

	Status     DeliveryStatus `json:"status"`
	Attempts   int            `json:"attempts"`
	LastError  string         `json:"last_error,omitempty"`
	EnqueuedAt time.Time      `json:"enqueued_at"`
	SentAt     *time.Time     `json:"sent_at,omitempty"`
}

// NewSlotAvailableEmail addresses the freed-slot offer for one admitted waitlist entry
func NewSlotAvailableEmail(notice waitlist.SlotAvailableNotice) (*EmailNotification, error) {
	if notice.ContactInfo.Email == "" {
		return nil, fmt.Errorf("waitlist entry %s has no contact email", notice.EntryID)
	}

	entryID := notice.EntryID
	return &EmailNotification{
		ID:      uuid.New(),
		Kind:    KindSlotAvailable,
		Subject: fmt.Sprintf("A place opened up on %s at %s", notice.Date, notice.Time),
		UserID:  notice.UserID,
		Email:   notice.ContactInfo.Email,
		Name:    notice.ContactInfo.Name,
		Slot: &SlotDetails{
			ContentID: notice.ContentID,
			Date:      notice.Date,
			Time:      notice.Time,
			PartySize: notice.PartySize,
			Position:  notice.Position,
		},
		WaitlistEntryID: &entryID,
		Status:          DeliveryPending,
		EnqueuedAt:      time.Now().UTC(),
	}, nil
}

// PartitionKey keeps one user's notices ordered on a single partition
func (n *EmailNotification) PartitionKey() string {
	return n.UserID.String()
}

func (n *EmailNotification) encode() ([]byte, error) {
	return json.Marshal(n)
}

func (n *EmailNotification) markSent() {
	now := time.Now().UTC()
	n.Status = DeliverySent
	n.SentAt = &now
	n.LastError = ""
}

func (n *EmailNotification) markFailed(err error) {
	n.Status = DeliveryFailed
	n.LastError = err.Error()
}
