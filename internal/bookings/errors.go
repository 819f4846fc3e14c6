package bookings

import "bookly/internal/shared/apperr"

var (
	ErrSlotUnavailable       = apperr.Unavailable("This time slot is no longer available")
	ErrSlotBusy              = apperr.Unavailable("This time slot is being booked right now, please retry")
	ErrBookingNotFound       = apperr.NotFound("booking not found")
	ErrInvalidTransition     = apperr.Conflict("booking status does not allow this change")
	ErrTransactionOpenFailed = apperr.New(apperr.KindUpstream, "payment transaction could not be opened")
)

// compensationReason is stored on bookings cancelled because no transaction could be opened
const compensationReason = "payment transaction could not be opened"
