package payments

import (
	"time"

	"bookly/internal/shared/types"

	"github.com/google/uuid"
)

// TransactionStatus is the lifecycle state of a booking transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusSucceeded TransactionStatus = "succeeded"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// IsValid checks if the transaction status is valid
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusSucceeded, TransactionStatusFailed:
		return true
	}
	return false
}

// Transaction is the monetary record opened for an accepted booking
type Transaction struct {
	ID               uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID           uuid.UUID         `gorm:"type:uuid;not null;index:idx_txn_content_user" json:"user_id"`
	ContentID        uuid.UUID         `gorm:"type:uuid;not null;index:idx_txn_content_user" json:"content_id"`
	BookingID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"booking_id"`
	Amount           float64           `gorm:"not null" json:"amount"`
	Currency         string            `gorm:"type:varchar(3);not null" json:"currency"`
	Status           TransactionStatus `gorm:"type:varchar(20);not null;check:status IN ('pending', 'succeeded', 'failed')" json:"status"`
	PaymentReference *string           `gorm:"type:varchar(255)" json:"payment_reference,omitempty"`
	Metadata         types.JSONMap     `gorm:"type:jsonb" json:"metadata,omitempty"`
	SucceededAt      *time.Time        `json:"succeeded_at,omitempty"`
	FailedAt         *time.Time        `json:"failed_at,omitempty"`
	FailureReason    *string           `gorm:"type:text" json:"failure_reason,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// TableName sets the table name for Transaction
func (Transaction) TableName() string {
	return "booking_transactions"
}

// OpenTransactionInput describes the transaction to open for a booking
type OpenTransactionInput struct {
	UserID    uuid.UUID
	ContentID uuid.UUID
	BookingID uuid.UUID
	Amount    float64
	Currency  string
	Metadata  types.JSONMap
}

func (t *Transaction) IsPending() bool {
	return t.Status == TransactionStatusPending
}

// MarkSucceeded records a successful payment against the transaction
func (t *Transaction) MarkSucceeded(paymentReference string) {
	now := time.Now()
	t.Status = TransactionStatusSucceeded
	t.PaymentReference = &paymentReference
	t.SucceededAt = &now
	t.UpdatedAt = now
}

// MarkFailed voids the transaction; reason may be empty
func (t *Transaction) MarkFailed(reason string) {
	now := time.Now()
	t.Status = TransactionStatusFailed
	if reason != "" {
		t.FailureReason = &reason
	}
	t.FailedAt = &now
	t.UpdatedAt = now
}
