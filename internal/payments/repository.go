package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, txn *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindLatestPending(ctx context.Context, contentID, userID uuid.UUID) (*Transaction, error)
	// UpdateFromStatus persists txn only while the stored row is still in status from
	UpdateFromStatus(ctx context.Context, txn *Transaction, from TransactionStatus) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, txn *Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	var txn Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) FindLatestPending(ctx context.Context, contentID, userID uuid.UUID) (*Transaction, error) {
	var txn Transaction
	err := r.db.WithContext(ctx).
		Where("content_id = ? AND user_id = ? AND status = ?", contentID, userID, TransactionStatusPending).
		Order("created_at DESC").
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) UpdateFromStatus(ctx context.Context, txn *Transaction, from TransactionStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(txn).
		Where("status = ?", from).
		Select("status", "payment_reference", "succeeded_at", "failed_at", "failure_reason", "updated_at").
		Updates(txn)
	return result.RowsAffected > 0, result.Error
}
