package notifications

import (
	"context"

	"bookly/internal/waitlist"
)

// WaitlistServiceAdapter implements waitlist.Notifier on top of the notification producer
type WaitlistServiceAdapter struct {
	producer Producer
}

func NewWaitlistServiceAdapter(producer Producer) *WaitlistServiceAdapter {
	return &WaitlistServiceAdapter{producer: producer}
}

func (w *WaitlistServiceAdapter) NotifySlotAvailable(ctx context.Context, notice waitlist.SlotAvailableNotice) error {
	notification, err := NewSlotAvailableEmail(notice)
	if err != nil {
		return err
	}
	return w.producer.Publish(ctx, notification)
}
