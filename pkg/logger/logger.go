package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger is the application's structured logger. Domain events get their own
// helpers so their field names stay stable for log queries.
type Logger struct {
	*slog.Logger
}

// New builds the process logger: text output in gin debug mode, JSON otherwise,
// at the level named by LOG_LEVEL.
func New() *Logger {
	return NewWithWriter(os.Stdout, parseLevel(os.Getenv("LOG_LEVEL")), gin.Mode() != gin.DebugMode)
}

// NewWithWriter builds a logger writing to w
func NewWithWriter(w io.Writer, level slog.Level, asJSON bool) *Logger {
	opts := &slog.HandlerOptions{Level: level, AddSource: level <= slog.LevelDebug}
	if asJSON {
		return &Logger{Logger: slog.New(slog.NewJSONHandler(w, opts))}
	}
	return &Logger{Logger: slog.New(slog.NewTextHandler(w, opts))}
}

// NewNop discards everything
func NewNop() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

func parseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogHTTPRequest records one served request; called after the handler chain ran
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	level := slog.LevelInfo
	if c.Writer.Status() >= 500 {
		level = slog.LevelError
	}
	l.Logger.LogAttrs(c.Request.Context(), level, "HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

func (l *Logger) LogBookingCreated(ctx context.Context, bookingID, slotID, userID string, partySize int) {
	l.Logger.LogAttrs(ctx, slog.LevelInfo, "Booking Created",
		slog.String("booking_id", bookingID),
		slog.String("slot_id", slotID),
		slog.String("user_id", userID),
		slog.Int("party_size", partySize),
	)
}

func (l *Logger) LogBookingConfirmed(ctx context.Context, bookingID, transactionID string) {
	l.Logger.LogAttrs(ctx, slog.LevelInfo, "Booking Confirmed",
		slog.String("booking_id", bookingID),
		slog.String("transaction_id", transactionID),
	)
}

func (l *Logger) LogBookingCancelled(ctx context.Context, bookingID, slotID, reason string) {
	l.Logger.LogAttrs(ctx, slog.LevelInfo, "Booking Cancelled",
		slog.String("booking_id", bookingID),
		slog.String("slot_id", slotID),
		slog.String("reason", reason),
	)
}

// LogBookingRejected records a request turned away for lack of capacity
func (l *Logger) LogBookingRejected(ctx context.Context, slotID, userID string, partySize int) {
	l.Logger.LogAttrs(ctx, slog.LevelInfo, "Booking Rejected",
		slog.String("slot_id", slotID),
		slog.String("user_id", userID),
		slog.Int("party_size", partySize),
	)
}

// LogWaitlistAdmitted records a waitlisted party offered freed capacity
func (l *Logger) LogWaitlistAdmitted(ctx context.Context, entryID, userID string, position, partySize int) {
	l.Logger.LogAttrs(ctx, slog.LevelInfo, "Waitlist Entry Admitted",
		slog.String("entry_id", entryID),
		slog.String("user_id", userID),
		slog.Int("position", position),
		slog.Int("party_size", partySize),
	)
}

func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.LogAttrs(ctx, slog.LevelWarn, "Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// ErrorWithContext logs err under msg together with the given fields
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	attrs := make([]slog.Attr, 0, len(fields)+1)
	attrs = append(attrs, slog.String("error", err.Error()))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.Logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

var defaultLogger = New()

// GetDefault returns the process-wide logger used by entrypoints
func GetDefault() *Logger {
	return defaultLogger
}
