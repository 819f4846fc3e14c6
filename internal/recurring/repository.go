package recurring

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, recurring *RecurringBooking) error
	GetByID(ctx context.Context, id uuid.UUID) (*RecurringBooking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]RecurringBooking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, recurring *RecurringBooking) error {
	return r.db.WithContext(ctx).Create(recurring).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*RecurringBooking, error) {
	var recurring RecurringBooking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recurring).Error; err != nil {
		return nil, err
	}
	return &recurring, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]RecurringBooking, error) {
	var list []RecurringBooking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date ASC, start_time ASC").
		Find(&list).Error
	return list, err
}
