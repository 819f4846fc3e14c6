package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"bookly/pkg/logger"

	"github.com/IBM/sarama"
)

type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeout       time.Duration
	Heartbeat            time.Duration
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              []string{"localhost:9092"},
		GroupID:              "bookly-notification-workers",
		Topics:               []string{"bookly-notifications"},
		SessionTimeout:       30 * time.Second,
		Heartbeat:            3 * time.Second,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

// KafkaConsumer runs consumer group workers that deliver notifications by email
type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	emailService  EmailService
	log           *logger.Logger
	wg            sync.WaitGroup
}

func NewKafkaConsumer(config *ConsumerConfig, emailService EmailService, log *logger.Logger) (*KafkaConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = config.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = config.Heartbeat
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		emailService:  emailService,
		log:           log,
	}, nil
}

// Start launches numWorkers consume loops that run until ctx is cancelled
func (kc *KafkaConsumer) Start(ctx context.Context, numWorkers int) {
	kc.log.Info("Starting notification consumers", "workers", numWorkers, "topics", kc.config.Topics)

	go kc.handleErrors()

	for i := 0; i < numWorkers; i++ {
		kc.wg.Add(1)
		go func(workerID int) {
			defer kc.wg.Done()
			kc.runWorker(ctx, workerID)
		}(i)
	}
}

func (kc *KafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &consumerGroupHandler{
		workerID:   workerID,
		email:      kc.emailService,
		maxRetries: kc.config.MaxRetries,
		backoff:    kc.config.RetryBackoffDuration,
		log:        kc.log,
	}

	for ctx.Err() == nil {
		if err := kc.consumerGroup.Consume(ctx, kc.config.Topics, handler); err != nil {
			kc.log.Warn("Notification consumer error", "worker", workerID, "error", err.Error())
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

func (kc *KafkaConsumer) handleErrors() {
	for err := range kc.consumerGroup.Errors() {
		kc.log.Warn("Consumer group error", "error", err.Error())
	}
}

// Stop closes the group; callers cancel the Start context first
func (kc *KafkaConsumer) Stop() error {
	err := kc.consumerGroup.Close()
	kc.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type consumerGroupHandler struct {
	workerID   int
	email      EmailService
	maxRetries int
	backoff    time.Duration
	log        *logger.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				h.log.ErrorWithContext(session.Context(), "Failed to deliver notification", err, map[string]interface{}{
					"worker":    h.workerID,
					"partition": message.Partition,
					"offset":    message.Offset,
				})
			}
			// undeliverable messages are not redelivered
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var notification EmailNotification
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	if err := h.sendWithRetry(ctx, &notification); err != nil {
		notification.markFailed(err)
		return err
	}

	notification.markSent()
	h.log.InfoContext(ctx, "Notification delivered",
		"notification_id", notification.ID.String(),
		"kind", string(notification.Kind),
	)
	return nil
}

func (h *consumerGroupHandler) sendWithRetry(ctx context.Context, notification *EmailNotification) error {
	var err error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if err = h.email.SendNotification(ctx, notification); err == nil {
			return nil
		}
		if attempt == h.maxRetries {
			break
		}
		notification.Attempts++

		delay := h.backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
