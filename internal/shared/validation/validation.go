package validation

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterBindings adds the booking-specific tags to gin's request validator:
// hhmm for zero-padded 24h clock times and isodate for YYYY-MM-DD dates.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

// Register adds the custom tags to v
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("hhmm", validateClock); err != nil {
		return err
	}
	return v.RegisterValidation("isodate", validateDate)
}

func validateClock(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) != 5 {
		return false
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}
