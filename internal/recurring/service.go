package recurring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookly/internal/availability"
	"bookly/internal/bookings"
	"bookly/internal/shared/apperr"
	"bookly/internal/shared/config"
	"bookly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrRecurringBookingNotFound = apperr.NotFound("recurring booking not found")

// BookingCreator places one individual booking
type BookingCreator interface {
	CreateBookingRequest(ctx context.Context, userID, contentID uuid.UUID, input bookings.CreateBookingInput) (*bookings.BookingRequest, error)
}

type Service interface {
	CreateRecurringBooking(ctx context.Context, userID, contentID uuid.UUID, input RecurringInput) (*RecurringResult, error)
	GetRecurringBooking(ctx context.Context, id uuid.UUID) (*RecurringBooking, error)
	GetUserRecurringBookings(ctx context.Context, userID uuid.UUID) ([]RecurringBooking, error)
}

type service struct {
	repo     Repository
	bookings BookingCreator
	cfg      *config.Config
	log      *logger.Logger
}

func NewService(repo Repository, bookingCreator BookingCreator, cfg *config.Config, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		bookings: bookingCreator,
		cfg:      cfg,
		log:      log,
	}
}

// CreateRecurringBooking stores the template and books every occurrence it can.
// Occurrences that cannot be booked are skipped; they never fail the whole series.
// When ctx ends mid-way the partial result is returned together with the error.
func (s *service) CreateRecurringBooking(ctx context.Context, userID, contentID uuid.UUID, input RecurringInput) (*RecurringResult, error) {
	template, err := s.buildTemplate(userID, contentID, input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create recurring booking: %w", err)
	}

	result := &RecurringResult{
		RecurringBooking:   template,
		IndividualBookings: []bookings.BookingRequest{},
		Skipped:            []SkippedOccurrence{},
	}

	for date := range template.Schedule().Dates() {
		if err := ctx.Err(); err != nil {
			s.log.WarnContext(ctx, "Recurring booking expansion interrupted",
				"recurring_booking_id", template.ID.String(),
				"attempted", result.Attempted,
				"created", len(result.IndividualBookings),
			)
			return result, fmt.Errorf("recurring booking expansion interrupted: %w", err)
		}
		result.Attempted++

		booking, err := s.bookings.CreateBookingRequest(ctx, userID, contentID, bookings.CreateBookingInput{
			Date:               date,
			StartTime:          template.StartTime,
			EndTime:            input.TimeSlot.EndTime,
			PartySize:          template.PartySize,
			SpecialRequests:    input.SpecialRequests,
			ContactInfo:        template.ContactInfo,
			RecurringBookingID: &template.ID,
		})
		if err != nil {
			s.log.WarnContext(ctx, "Skipping recurring occurrence",
				"recurring_booking_id", template.ID.String(),
				"date", availability.FormatDate(date),
				"error", err.Error(),
			)
			result.Skipped = append(result.Skipped, SkippedOccurrence{
				Date:   availability.FormatDate(date),
				Reason: err.Error(),
			})
			continue
		}
		result.IndividualBookings = append(result.IndividualBookings, *booking)
	}

	s.log.InfoContext(ctx, "Recurring Booking Expanded",
		"recurring_booking_id", template.ID.String(),
		"attempted", result.Attempted,
		"created", len(result.IndividualBookings),
	)
	return result, nil
}

func (s *service) buildTemplate(userID, contentID uuid.UUID, input RecurringInput) (*RecurringBooking, error) {
	if input.PartySize <= 0 {
		return nil, apperr.Invalid("party_size must be at least 1")
	}
	if !availability.ValidClock(input.TimeSlot.StartTime) {
		return nil, apperr.Invalid("time_slot.start_time must be HH:MM")
	}
	endTime := input.TimeSlot.EndTime
	if endTime != "" {
		if !availability.ValidClock(endTime) || endTime <= input.TimeSlot.StartTime {
			return nil, apperr.Invalid("time_slot.end_time must be HH:MM after start_time")
		}
	}

	template := &RecurringBooking{
		UserID:          userID,
		ContentID:       contentID,
		Pattern:         input.Pattern,
		StartDate:       availability.TruncateDate(input.StartDate),
		EndDate:         availability.TruncateDate(input.EndDate),
		StartTime:       input.TimeSlot.StartTime,
		EndTime:         endTime,
		Frequency:       input.Frequency,
		MaxOccurrences:  input.MaxOccurrences,
		PartySize:       input.PartySize,
		SpecialRequests: optionalString(input.SpecialRequests),
		ContactInfo:     input.ContactInfo,
		IsActive:        true,
	}
	if err := template.Schedule().Validate(); err != nil {
		return nil, err
	}

	span := int(template.EndDate.Sub(template.StartDate).Hours()/24) + 1
	if maxDays := s.cfg.Booking.MaxRangeDays; maxDays > 0 && span > maxDays {
		return nil, apperr.Invalid(fmt.Sprintf("a recurring booking may span at most %d days", maxDays))
	}
	return template, nil
}

func (s *service) GetRecurringBooking(ctx context.Context, id uuid.UUID) (*RecurringBooking, error) {
	recurring, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecurringBookingNotFound
		}
		return nil, fmt.Errorf("failed to get recurring booking: %w", err)
	}
	return recurring, nil
}

func (s *service) GetUserRecurringBookings(ctx context.Context, userID uuid.UUID) ([]RecurringBooking, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring bookings: %w", err)
	}
	return list, nil
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
