package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestErrorWithContext_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelInfo, true)

	log.ErrorWithContext(context.Background(), "failed to open transaction", errors.New("gateway down"),
		map[string]interface{}{"booking_id": "b-1"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "failed to open transaction", entry["msg"])
	assert.Equal(t, "gateway down", entry["error"])
	assert.Equal(t, "b-1", entry["booking_id"])
}

func TestLogWaitlistAdmitted_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelWarn, true)

	log.LogWaitlistAdmitted(context.Background(), "e-1", "u-1", 2, 3)
	assert.Zero(t, buf.Len())

	log.LogRateLimitExceeded(context.Background(), "10.0.0.1", "/api/v1/bookings")
	assert.Contains(t, buf.String(), `"ip":"10.0.0.1"`)
}
