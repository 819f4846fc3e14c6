package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	slotGone := Unavailable("This time slot is no longer available")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", Invalid("bad date"), http.StatusBadRequest},
		{"not found", NotFound("booking not found"), http.StatusNotFound},
		{"conflict", Conflict("duplicate"), http.StatusConflict},
		{"wrapped unavailable", fmt.Errorf("create booking: %w", slotGone), http.StatusConflict},
		{"upstream", New(KindUpstream, "payments down"), http.StatusBadGateway},
		{"plain", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestSentinelMatching(t *testing.T) {
	sentinel := Conflict("You are already on the waitlist for this time slot")
	wrapped := fmt.Errorf("add to waitlist: %w", sentinel)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Equal(t, Kind(""), KindOf(nil))
}
