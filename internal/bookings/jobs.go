package bookings

import (
	"context"
	"time"

	"bookly/pkg/logger"
)

// JobProcessor runs the booking background jobs
type JobProcessor struct {
	service Service
	config  *JobConfig
	log     *logger.Logger
	done    chan struct{}
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	CompletionInterval time.Duration
	BatchSize          int
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		CompletionInterval: 5 * time.Minute,
		BatchSize:          200,
	}
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(service Service, config *JobConfig, log *logger.Logger) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}

	return &JobProcessor{
		service: service,
		config:  config,
		log:     log,
		done:    make(chan struct{}),
	}
}

// Start starts all background jobs
func (jp *JobProcessor) Start(ctx context.Context) {
	go jp.startCompletionSweeper(ctx)
	jp.log.Info("Booking background jobs started", "completion_interval", jp.config.CompletionInterval.String())
}

// Stop stops all background jobs
func (jp *JobProcessor) Stop() {
	close(jp.done)
	jp.log.Info("Booking background jobs stopped")
}

func (jp *JobProcessor) startCompletionSweeper(ctx context.Context) {
	ticker := time.NewTicker(jp.config.CompletionInterval)
	defer ticker.Stop()

	jp.completeEndedBookings(ctx)

	for {
		select {
		case <-ticker.C:
			jp.completeEndedBookings(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// completeEndedBookings drains every batch of finished confirmed bookings
func (jp *JobProcessor) completeEndedBookings(ctx context.Context) {
	total := 0
	for {
		completed, err := jp.service.CompleteEndedBookings(ctx, time.Now().UTC(), jp.config.BatchSize)
		total += completed
		if err != nil {
			jp.log.ErrorWithContext(ctx, "Error completing ended bookings", err, nil)
			break
		}
		if completed < jp.config.BatchSize {
			break
		}
	}

	if total > 0 {
		jp.log.InfoContext(ctx, "Completed ended bookings", "count", total)
	}
}

// GetJobStatus returns the status of background jobs
func (jp *JobProcessor) GetJobStatus() map[string]interface{} {
	return map[string]interface{}{
		"completion_interval": jp.config.CompletionInterval.String(),
		"batch_size":          jp.config.BatchSize,
		"status":              "running",
	}
}
