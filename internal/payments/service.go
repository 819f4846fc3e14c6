package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookly/internal/shared/apperr"
	"bookly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = apperr.NotFound("transaction not found")
	ErrTransactionFailed   = apperr.Conflict("transaction has already failed")
)

type Service interface {
	OpenBookingTransaction(ctx context.Context, input OpenTransactionInput) (*Transaction, error)
	MarkSucceeded(ctx context.Context, transactionID uuid.UUID, paymentReference string) (*Transaction, error)
	VoidPending(ctx context.Context, transactionID uuid.UUID, reason string) (*Transaction, error)
	FindLatestPending(ctx context.Context, contentID, userID uuid.UUID) (*Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) OpenBookingTransaction(ctx context.Context, input OpenTransactionInput) (*Transaction, error) {
	if input.Amount < 0 {
		return nil, apperr.Invalid("transaction amount must not be negative")
	}
	if input.BookingID == uuid.Nil {
		return nil, apperr.Invalid("transaction requires a booking")
	}

	txn := &Transaction{
		UserID:    input.UserID,
		ContentID: input.ContentID,
		BookingID: input.BookingID,
		Amount:    input.Amount,
		Currency:  strings.ToUpper(input.Currency),
		Status:    TransactionStatusPending,
		Metadata:  input.Metadata,
	}
	if err := s.repo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to open transaction: %w", err)
	}

	s.log.InfoContext(ctx, "Transaction Opened",
		"transaction_id", txn.ID.String(),
		"booking_id", txn.BookingID.String(),
		"amount", txn.Amount,
		"currency", txn.Currency,
	)
	return txn, nil
}

// MarkSucceeded settles a pending transaction. Settling an already succeeded one is a no-op.
func (s *service) MarkSucceeded(ctx context.Context, transactionID uuid.UUID, paymentReference string) (*Transaction, error) {
	txn, err := s.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsPending() {
		return settledOutcome(txn)
	}

	txn.MarkSucceeded(paymentReference)
	applied, err := s.repo.UpdateFromStatus(ctx, txn, TransactionStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	if !applied {
		current, err := s.GetTransaction(ctx, transactionID)
		if err != nil {
			return nil, err
		}
		return settledOutcome(current)
	}
	return txn, nil
}

func settledOutcome(txn *Transaction) (*Transaction, error) {
	if txn.Status == TransactionStatusFailed {
		return nil, ErrTransactionFailed
	}
	return txn, nil
}

// VoidPending fails a transaction that was never settled. Succeeded and failed
// transactions are returned unchanged.
func (s *service) VoidPending(ctx context.Context, transactionID uuid.UUID, reason string) (*Transaction, error) {
	txn, err := s.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsPending() {
		return txn, nil
	}

	txn.MarkFailed(reason)
	applied, err := s.repo.UpdateFromStatus(ctx, txn, TransactionStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	if !applied {
		return s.GetTransaction(ctx, transactionID)
	}

	s.log.InfoContext(ctx, "Transaction Voided",
		"transaction_id", txn.ID.String(),
		"booking_id", txn.BookingID.String(),
	)
	return txn, nil
}

// FindLatestPending returns the newest pending transaction of a user for a content
func (s *service) FindLatestPending(ctx context.Context, contentID, userID uuid.UUID) (*Transaction, error) {
	txn, err := s.repo.FindLatestPending(ctx, contentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find pending transaction: %w", err)
	}
	return txn, nil
}

func (s *service) GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	txn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}
