package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Rule operations
	CreateRule(ctx context.Context, rule *AvailabilityRule) error
	GetRuleByID(ctx context.Context, id uuid.UUID) (*AvailabilityRule, error)
	ListRules(ctx context.Context, contentID uuid.UUID) ([]AvailabilityRule, error)
	ListActiveRules(ctx context.Context, contentID uuid.UUID) ([]AvailabilityRule, error)
	ActiveRuleExists(ctx context.Context, contentID uuid.UUID, dayOfWeek int, startTime string) (bool, error)
	SetRuleActive(ctx context.Context, id uuid.UUID, active bool) error

	// Exception operations
	UpsertException(ctx context.Context, exception *RuleException) error
	DeleteException(ctx context.Context, ruleID uuid.UUID, date time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRule(ctx context.Context, rule *AvailabilityRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *repository) GetRuleByID(ctx context.Context, id uuid.UUID) (*AvailabilityRule, error) {
	var rule AvailabilityRule
	err := r.db.WithContext(ctx).
		Preload("Exceptions", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC") }).
		Where("id = ?", id).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) ListRules(ctx context.Context, contentID uuid.UUID) ([]AvailabilityRule, error) {
	var rules []AvailabilityRule
	err := r.db.WithContext(ctx).
		Preload("Exceptions", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC") }).
		Where("content_id = ?", contentID).
		Order("day_of_week ASC, start_time ASC, id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) ListActiveRules(ctx context.Context, contentID uuid.UUID) ([]AvailabilityRule, error) {
	var rules []AvailabilityRule
	err := r.db.WithContext(ctx).
		Preload("Exceptions").
		Where("content_id = ? AND is_active = ?", contentID, true).
		Order("day_of_week ASC, start_time ASC, id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) ActiveRuleExists(ctx context.Context, contentID uuid.UUID, dayOfWeek int, startTime string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AvailabilityRule{}).
		Where("content_id = ? AND day_of_week = ? AND start_time = ? AND is_active = ?", contentID, dayOfWeek, startTime, true).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) SetRuleActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&AvailabilityRule{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertException keeps a single exception per (rule, date); a second write replaces the first
func (r *repository) UpsertException(ctx context.Context, exception *RuleException) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "rule_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_available", "custom_price", "custom_capacity", "updated_at"}),
		}).
		Create(exception).Error
}

func (r *repository) DeleteException(ctx context.Context, ruleID uuid.UUID, date time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("rule_id = ? AND date = ?", ruleID, FormatDate(date)).
		Delete(&RuleException{})
	return result.RowsAffected > 0, result.Error
}
