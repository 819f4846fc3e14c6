package notifications

import (
	"context"
	"fmt"

	"bookly/internal/shared/config"
	"bookly/pkg/logger"
)

// Service owns the notification pipeline: a producer, plus the consumer workers when
// Kafka is enabled.
type Service struct {
	producer Producer
	consumer *KafkaConsumer
	workers  int
	log      *logger.Logger
	cancel   context.CancelFunc
}

// NewService builds the pipeline from config. Without SMTP credentials emails are
// logged; without Kafka they are delivered in-process.
func NewService(cfg *config.Config, log *logger.Logger) (*Service, error) {
	var email EmailService
	smtpConfig := SMTPConfigFrom(cfg.Email)
	if smtpConfig.Configured() {
		smtpService, err := NewSMTPEmailService(smtpConfig, log)
		if err != nil {
			return nil, err
		}
		email = smtpService
	} else {
		log.Warn("SMTP not configured, notification emails will be logged only")
		email = NewLogEmailService(log)
	}

	if !cfg.Kafka.Enabled {
		return &Service{producer: NewDirectProducer(email), log: log}, nil
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.NotificationTopic = cfg.Kafka.NotificationTopic
	producer, err := NewKafkaProducer(producerConfig, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.Topics = []string{cfg.Kafka.NotificationTopic}
	consumerConfig.GroupID = cfg.Kafka.ConsumerGroupID
	consumer, err := NewKafkaConsumer(consumerConfig, email, log)
	if err != nil {
		_ = producer.Close()
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	return &Service{
		producer: producer,
		consumer: consumer,
		workers:  cfg.Kafka.NumConsumerWorkers,
		log:      log,
	}, nil
}

// Producer returns the publishing side of the pipeline
func (s *Service) Producer() Producer {
	return s.producer
}

// Start launches the consumer workers, if any
func (s *Service) Start() {
	if s.consumer == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.consumer.Start(ctx, s.workers)
}

func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			s.log.Warn("Error stopping notification consumer", "error", err.Error())
		}
	}
	if err := s.producer.Close(); err != nil {
		s.log.Warn("Error closing notification producer", "error", err.Error())
	}
}
