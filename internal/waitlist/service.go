package waitlist

import (
	"context"
	"fmt"
	"time"

	"bookly/internal/availability"
	"bookly/internal/shared/apperr"
	"bookly/internal/shared/types"
	"bookly/pkg/logger"

	"github.com/google/uuid"
)

// Notifier delivers slot-available notices to waitlisted parties
type Notifier interface {
	NotifySlotAvailable(ctx context.Context, notice SlotAvailableNotice) error
}

// JoinInput describes a party joining the waitlist of one slot
type JoinInput struct {
	Date        time.Time
	Time        string
	PartySize   int
	ContactInfo types.ContactInfo
}

type Service interface {
	AddToWaitlist(ctx context.Context, userID, contentID uuid.UUID, input JoinInput) (*WaitlistEntry, error)
	NotifyWaitlist(ctx context.Context, contentID uuid.UUID, date time.Time, slotTime string, availableCapacity int) (int, error)
	GetWaitlist(ctx context.Context, contentID uuid.UUID, date time.Time, slotTime string) ([]WaitlistEntry, error)
	RemoveFromWaitlist(ctx context.Context, userID, contentID uuid.UUID, date time.Time, slotTime string) error
}

type service struct {
	repo     Repository
	notifier Notifier
	log      *logger.Logger
}

// NewService creates a waitlist service; a nil notifier admits entries without notices
func NewService(repo Repository, notifier Notifier, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

// AddToWaitlist appends the party at the end of the slot's queue
func (s *service) AddToWaitlist(ctx context.Context, userID, contentID uuid.UUID, input JoinInput) (*WaitlistEntry, error) {
	if input.PartySize <= 0 {
		return nil, apperr.Invalid("party_size must be at least 1")
	}
	if !availability.ValidClock(input.Time) {
		return nil, apperr.Invalid("time must be HH:MM")
	}

	entry := &WaitlistEntry{
		UserID:        userID,
		ContentID:     contentID,
		PreferredDate: availability.TruncateDate(input.Date),
		PreferredTime: input.Time,
		PartySize:     input.PartySize,
		ContactInfo:   input.ContactInfo,
	}
	if err := s.repo.Enqueue(ctx, entry); err != nil {
		if apperr.KindOf(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("failed to join waitlist: %w", err)
	}

	waitlistJoinsTotal.Inc()
	s.log.InfoContext(ctx, "Waitlist Joined",
		"entry_id", entry.ID.String(),
		"slot_id", entry.SlotID(),
		"position", entry.Position,
	)
	return entry, nil
}

// NotifyWaitlist offers availableCapacity places to the slot's queue in position order.
// Entries that fit are removed and then notified; larger parties keep their place so a later
// smaller party can still be admitted in the same pass. An entry already removed by a
// concurrent pass is skipped and its places go to the next entry in line.
func (s *service) NotifyWaitlist(ctx context.Context, contentID uuid.UUID, date time.Time, slotTime string, availableCapacity int) (int, error) {
	if availableCapacity <= 0 {
		return 0, nil
	}

	entries, err := s.repo.ListBySlot(ctx, contentID, availability.TruncateDate(date), slotTime)
	if err != nil {
		return 0, fmt.Errorf("failed to load waitlist: %w", err)
	}

	remaining := availableCapacity
	notified := 0
	for i := range entries {
		entry := &entries[i]
		if entry.PartySize > remaining {
			continue
		}

		// the delete is the claim; a concurrent pass that removed the entry first owns it
		claimed, err := s.repo.Delete(ctx, entry.ID)
		if err != nil {
			return notified, fmt.Errorf("failed to remove admitted waitlist entry: %w", err)
		}
		if !claimed {
			continue
		}

		s.notify(ctx, entry)
		remaining -= entry.PartySize
		notified++
		waitlistAdmittedTotal.Inc()
		s.log.LogWaitlistAdmitted(ctx, entry.ID.String(), entry.UserID.String(), entry.Position, entry.PartySize)

		if remaining == 0 {
			break
		}
	}
	return notified, nil
}

func (s *service) notify(ctx context.Context, entry *WaitlistEntry) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifySlotAvailable(ctx, noticeFor(entry)); err != nil {
		waitlistNotifyFailuresTotal.Inc()
		s.log.ErrorWithContext(ctx, "Failed to send slot available notice", err, map[string]interface{}{
			"entry_id": entry.ID.String(),
			"slot_id":  entry.SlotID(),
		})
	}
}

func (s *service) GetWaitlist(ctx context.Context, contentID uuid.UUID, date time.Time, slotTime string) ([]WaitlistEntry, error) {
	entries, err := s.repo.ListBySlot(ctx, contentID, availability.TruncateDate(date), slotTime)
	if err != nil {
		return nil, fmt.Errorf("failed to load waitlist: %w", err)
	}
	if entries == nil {
		entries = []WaitlistEntry{}
	}
	return entries, nil
}

func (s *service) RemoveFromWaitlist(ctx context.Context, userID, contentID uuid.UUID, date time.Time, slotTime string) error {
	removed, err := s.repo.DeleteForUser(ctx, userID, contentID, availability.TruncateDate(date), slotTime)
	if err != nil {
		return fmt.Errorf("failed to leave waitlist: %w", err)
	}
	if !removed {
		return ErrEntryNotFound
	}
	return nil
}
