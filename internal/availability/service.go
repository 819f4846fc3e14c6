package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookly/internal/shared/apperr"
	"bookly/internal/shared/config"
	"bookly/internal/shared/constants"
	"bookly/pkg/cache"
	"bookly/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// BookingLedger reports how much of each slot is already taken.
// It is implemented by the bookings repository.
type BookingLedger interface {
	ActivePartySizes(ctx context.Context, contentID uuid.UUID, from, to time.Time) (BookingCounts, error)
}

type Service interface {
	// Rule management
	CreateAvailabilityRule(ctx context.Context, req CreateRuleRequest) (*AvailabilityRule, error)
	AddException(ctx context.Context, ruleID uuid.UUID, req ExceptionRequest) (*RuleException, error)
	RemoveException(ctx context.Context, ruleID uuid.UUID, date time.Time) error
	DeactivateRule(ctx context.Context, ruleID uuid.UUID) (*AvailabilityRule, error)
	ListRules(ctx context.Context, contentID uuid.UUID) ([]AvailabilityRule, error)

	// Slot generation and capacity
	GetAvailability(ctx context.Context, contentID uuid.UUID, startDate, endDate time.Time) ([]BookingSlot, error)
	CheckSlotAvailability(ctx context.Context, contentID uuid.UUID, date time.Time, startTime string, partySize int) (*SlotCheck, error)
}

type service struct {
	repo   Repository
	ledger BookingLedger
	cache  cache.Service
	cfg    *config.Config
	log    *logger.Logger
	loads  singleflight.Group
}

// NewService wires the availability service. cacheService may be nil when Redis is disabled.
func NewService(repo Repository, ledger BookingLedger, cacheService cache.Service, cfg *config.Config, log *logger.Logger) Service {
	return &service{
		repo:   repo,
		ledger: ledger,
		cache:  cacheService,
		cfg:    cfg,
		log:    log,
	}
}

func (s *service) CreateAvailabilityRule(ctx context.Context, req CreateRuleRequest) (*AvailabilityRule, error) {
	rule, err := s.buildRule(req)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ActiveRuleExists(ctx, rule.ContentID, rule.DayOfWeek, rule.StartTime)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing rules: %w", err)
	}
	if exists {
		return nil, ErrDuplicateRule
	}

	if err := s.repo.CreateRule(ctx, rule); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRule
		}
		return nil, fmt.Errorf("failed to create availability rule: %w", err)
	}

	s.invalidate(ctx, rule.ContentID)
	return rule, nil
}

func (s *service) buildRule(req CreateRuleRequest) (*AvailabilityRule, error) {
	contentID, err := uuid.Parse(req.ContentID)
	if err != nil {
		return nil, apperr.Invalid("content_id must be a valid UUID")
	}
	if req.DayOfWeek == nil || *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		return nil, apperr.Invalid("day_of_week must be between 0 (Sunday) and 6 (Saturday)")
	}
	if !ValidClock(req.StartTime) || !ValidClock(req.EndTime) {
		return nil, apperr.Invalid("start_time and end_time must be HH:MM")
	}
	if req.StartTime >= req.EndTime {
		return nil, apperr.Invalid("start_time must be before end_time")
	}
	if req.MaxCapacity == nil || *req.MaxCapacity < 0 {
		return nil, apperr.Invalid("max_capacity must be zero or greater")
	}
	if req.Price < 0 {
		return nil, apperr.Invalid("price must not be negative")
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.cfg.Booking.DefaultCurrency
	}

	rule := &AvailabilityRule{
		ContentID:   contentID,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MaxCapacity: *req.MaxCapacity,
		Price:       req.Price,
		Currency:    currency,
		IsActive:    true,
	}

	seen := make(map[string]bool, len(req.Exceptions))
	for _, exReq := range req.Exceptions {
		ex, err := buildException(exReq)
		if err != nil {
			return nil, err
		}
		key := FormatDate(ex.Date)
		if seen[key] {
			return nil, apperr.Invalid(fmt.Sprintf("duplicate exception for %s", key))
		}
		seen[key] = true
		rule.Exceptions = append(rule.Exceptions, *ex)
	}

	return rule, nil
}

func buildException(req ExceptionRequest) (*RuleException, error) {
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, apperr.Invalid(err.Error())
	}
	if req.IsAvailable == nil {
		return nil, apperr.Invalid("is_available is required")
	}
	if req.CustomCapacity != nil && *req.CustomCapacity < 0 {
		return nil, apperr.Invalid("custom_capacity must be zero or greater")
	}
	if req.CustomPrice != nil && *req.CustomPrice < 0 {
		return nil, apperr.Invalid("custom_price must not be negative")
	}
	return &RuleException{
		Date:           date,
		IsAvailable:    *req.IsAvailable,
		CustomPrice:    req.CustomPrice,
		CustomCapacity: req.CustomCapacity,
	}, nil
}

func (s *service) AddException(ctx context.Context, ruleID uuid.UUID, req ExceptionRequest) (*RuleException, error) {
	rule, err := s.getRule(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	exception, err := buildException(req)
	if err != nil {
		return nil, err
	}
	exception.RuleID = rule.ID

	if err := s.repo.UpsertException(ctx, exception); err != nil {
		return nil, fmt.Errorf("failed to save exception: %w", err)
	}

	s.invalidate(ctx, rule.ContentID)
	return exception, nil
}

func (s *service) RemoveException(ctx context.Context, ruleID uuid.UUID, date time.Time) error {
	rule, err := s.getRule(ctx, ruleID)
	if err != nil {
		return err
	}

	deleted, err := s.repo.DeleteException(ctx, rule.ID, TruncateDate(date))
	if err != nil {
		return fmt.Errorf("failed to delete exception: %w", err)
	}
	if !deleted {
		return ErrExceptionNotFound
	}

	s.invalidate(ctx, rule.ContentID)
	return nil
}

func (s *service) DeactivateRule(ctx context.Context, ruleID uuid.UUID) (*AvailabilityRule, error) {
	rule, err := s.getRule(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if !rule.IsActive {
		return rule, nil
	}

	if err := s.repo.SetRuleActive(ctx, rule.ID, false); err != nil {
		return nil, fmt.Errorf("failed to deactivate rule: %w", err)
	}
	rule.IsActive = false

	s.invalidate(ctx, rule.ContentID)
	return rule, nil
}

func (s *service) ListRules(ctx context.Context, contentID uuid.UUID) ([]AvailabilityRule, error) {
	rules, err := s.repo.ListRules(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	return rules, nil
}

func (s *service) GetAvailability(ctx context.Context, contentID uuid.UUID, startDate, endDate time.Time) ([]BookingSlot, error) {
	startDate, endDate = TruncateDate(startDate), TruncateDate(endDate)
	if startDate.After(endDate) {
		return nil, ErrInvalidRange
	}
	if days := int(endDate.Sub(startDate).Hours()/24) + 1; s.cfg.Booking.MaxRangeDays > 0 && days > s.cfg.Booking.MaxRangeDays {
		return nil, ErrRangeTooLarge
	}

	rules, err := s.activeRules(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return []BookingSlot{}, nil
	}

	counts, err := s.ledger.ActivePartySizes(ctx, contentID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	slots := GenerateSlots(rules, startDate, endDate, counts)
	if slots == nil {
		slots = []BookingSlot{}
	}
	return slots, nil
}

func (s *service) CheckSlotAvailability(ctx context.Context, contentID uuid.UUID, date time.Time, startTime string, partySize int) (*SlotCheck, error) {
	if partySize <= 0 {
		return nil, apperr.Invalid("party_size must be at least 1")
	}
	if !ValidClock(startTime) {
		return nil, apperr.Invalid("start_time must be HH:MM")
	}

	slots, err := s.GetAvailability(ctx, contentID, date, date)
	if err != nil {
		return nil, err
	}

	for i := range slots {
		if slots[i].StartTime == startTime {
			slot := slots[i]
			return &SlotCheck{Available: slot.Fits(partySize), Slot: &slot}, nil
		}
	}
	return &SlotCheck{Available: false}, nil
}

func (s *service) getRule(ctx context.Context, ruleID uuid.UUID) (*AvailabilityRule, error) {
	rule, err := s.repo.GetRuleByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return rule, nil
}

// activeRules loads the active rules of a content through the rule cache.
// Concurrent loads of the same content share one store round trip. Cached sets are
// keyed by the content's rule generation, so a load that raced an invalidation
// writes back under a generation no reader asks for any more.
func (s *service) activeRules(ctx context.Context, contentID uuid.UUID) ([]AvailabilityRule, error) {
	if s.cache == nil {
		return s.loadActiveRules(ctx, contentID)
	}

	gen, err := s.cache.Generation(ctx, constants.RulesGenerationKey(contentID.String()))
	if err != nil {
		s.log.WarnContext(ctx, "rule cache unavailable", "content_id", contentID.String(), "error", err.Error())
		return s.loadActiveRules(ctx, contentID)
	}
	key := constants.RulesByContentKey(contentID.String(), gen)

	v, err, _ := s.loads.Do(key, func() (interface{}, error) {
		var rules []AvailabilityRule
		err := s.cache.GetOrSet(ctx, key, s.ruleCacheTTL(), func() (interface{}, error) {
			return s.repo.ListActiveRules(ctx, contentID)
		}, &rules)
		return rules, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load availability rules: %w", err)
	}
	return v.([]AvailabilityRule), nil
}

func (s *service) loadActiveRules(ctx context.Context, contentID uuid.UUID) ([]AvailabilityRule, error) {
	key := contentID.String()
	v, err, _ := s.loads.Do(key, func() (interface{}, error) {
		return s.repo.ListActiveRules(ctx, contentID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load availability rules: %w", err)
	}
	return v.([]AvailabilityRule), nil
}

func (s *service) ruleCacheTTL() time.Duration {
	if s.cfg.Redis.RuleCacheTTL > 0 {
		return s.cfg.Redis.RuleCacheTTL
	}
	return constants.TTL_SEMI_STATIC_MEDIUM
}

func (s *service) invalidate(ctx context.Context, contentID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Bump(ctx, constants.RulesGenerationKey(contentID.String())); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate rule cache", "content_id", contentID.String(), "error", err.Error())
	}
}
