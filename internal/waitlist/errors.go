package waitlist

import "bookly/internal/shared/apperr"

var (
	ErrAlreadyWaitlisted = apperr.Conflict("You are already on the waitlist for this time slot")
	ErrEntryNotFound     = apperr.NotFound("you are not on the waitlist for this time slot")
)
