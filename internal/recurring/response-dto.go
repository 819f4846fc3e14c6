package recurring

import (
	"bookly/internal/availability"
	"bookly/internal/bookings"
)

// RecurringBookingResponse represents a recurring template in API responses
type RecurringBookingResponse struct {
	*RecurringBooking
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// RecurringResultResponse is the answer to POST /recurring-bookings
type RecurringResultResponse struct {
	RecurringBooking   RecurringBookingResponse   `json:"recurring_booking"`
	IndividualBookings []bookings.BookingResponse `json:"individual_bookings"`
	Attempted          int                        `json:"attempted"`
	Created            int                        `json:"created"`
	Skipped            []SkippedOccurrence        `json:"skipped"`
}

// RecurringListResponse wraps a user's recurring templates
type RecurringListResponse struct {
	RecurringBookings []RecurringBookingResponse `json:"recurring_bookings"`
	Count             int                        `json:"count"`
}

// ToResponse renders the template with calendar dates
func (r *RecurringBooking) ToResponse() RecurringBookingResponse {
	return RecurringBookingResponse{
		RecurringBooking: r,
		StartDate:        availability.FormatDate(r.StartDate),
		EndDate:          availability.FormatDate(r.EndDate),
	}
}

// ToResponse renders the expansion result
func (r *RecurringResult) ToResponse() RecurringResultResponse {
	return RecurringResultResponse{
		RecurringBooking:   r.RecurringBooking.ToResponse(),
		IndividualBookings: bookings.ToResponses(r.IndividualBookings),
		Attempted:          r.Attempted,
		Created:            len(r.IndividualBookings),
		Skipped:            r.Skipped,
	}
}
