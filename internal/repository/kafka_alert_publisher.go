package repository

import (
	"context"

	"FundPulse/internal/domain/models"
	"FundPulse/internal/domain/repository"
	pkgkafka "FundPulse/pkg/kafka"
)

// KafkaAlertPublisher implements AlertPublisher for Kafka.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAlertPublisher creates a Kafka alert publisher.
func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) repository.AlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

func (p *KafkaAlertPublisher) PublishAlerts(ctx context.Context, alerts []models.AnomalyRecord) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(alerts))
	for i, a := range alerts {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(a.SchemeCode),
			Value: a,
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaAlertPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopAlertPublisher is used when alerting is disabled.
type NoopAlertPublisher struct{}

func (NoopAlertPublisher) PublishAlerts(context.Context, []models.AnomalyRecord) error { return nil }
func (NoopAlertPublisher) Close() error                                               { return nil }
