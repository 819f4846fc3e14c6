package notifications

import (
	"context"
	"fmt"
	"time"

	"bookly/pkg/logger"

	"github.com/IBM/sarama"
)

// Producer hands notifications to the delivery pipeline
type Producer interface {
	Publish(ctx context.Context, notification *EmailNotification) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka notification producer
type KafkaProducerConfig struct {
	Brokers           []string
	NotificationTopic string
	RetryMax          int
	Timeout           time.Duration
}

func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:           []string{"localhost:9092"},
		NotificationTopic: "bookly-notifications",
		RetryMax:          3,
		Timeout:           10 * time.Second,
	}
}

// KafkaProducer publishes notifications to a topic keyed by recipient
type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

func NewKafkaProducer(config *KafkaProducerConfig, log *logger.Logger) (*KafkaProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Info("Kafka notification producer created", "brokers", config.Brokers, "topic", config.NotificationTopic)
	return newKafkaProducer(producer, config.NotificationTopic, log), nil
}

func newKafkaProducer(producer sarama.SyncProducer, topic string, log *logger.Logger) *KafkaProducer {
	return &KafkaProducer{producer: producer, topic: topic, log: log}
}

func (kp *KafkaProducer) Publish(ctx context.Context, notification *EmailNotification) error {
	notification.Status = DeliveryQueued

	messageBytes, err := notification.encode()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     kp.topic,
		Key:       sarama.StringEncoder(notification.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   createHeaders(notification),
		Timestamp: notification.EnqueuedAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		notification.markFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	kp.log.DebugContext(ctx, "Notification published",
		"topic", kp.topic,
		"partition", partition,
		"offset", offset,
		"kind", string(notification.Kind),
	)
	return nil
}

func createHeaders(notification *EmailNotification) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		{Key: []byte("notification_kind"), Value: []byte(notification.Kind)},
		{Key: []byte("user_id"), Value: []byte(notification.UserID.String())},
		{Key: []byte("producer"), Value: []byte("bookly-notifications")},
	}
	if notification.Slot != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("content_id"),
			Value: []byte(notification.Slot.ContentID.String()),
		})
	}
	if notification.WaitlistEntryID != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("waitlist_entry_id"),
			Value: []byte(notification.WaitlistEntryID.String()),
		})
	}
	return headers
}

func (kp *KafkaProducer) Close() error {
	if err := kp.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// DirectProducer delivers through the email service in-process, used when Kafka is disabled
type DirectProducer struct {
	email EmailService
}

func NewDirectProducer(email EmailService) *DirectProducer {
	return &DirectProducer{email: email}
}

func (dp *DirectProducer) Publish(ctx context.Context, notification *EmailNotification) error {
	if err := dp.email.SendNotification(ctx, notification); err != nil {
		notification.markFailed(err)
		return err
	}
	notification.markSent()
	return nil
}

func (dp *DirectProducer) Close() error { return nil }
