package availability

import "bookly/internal/shared/apperr"

var (
	ErrRuleNotFound      = apperr.NotFound("availability rule not found")
	ErrExceptionNotFound = apperr.NotFound("no exception exists for this rule on that date")
	ErrInvalidRange      = apperr.Invalid("start_date must not be after end_date")
	ErrRangeTooLarge     = apperr.Invalid("requested date range is too large")
	ErrDuplicateRule     = apperr.Conflict("an active rule already starts at this time on this day")
)
