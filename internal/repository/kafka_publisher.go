package repository

import (
	"context"

	"TradeCoin/internal/domain/models"
	"TradeCoin/internal/domain/repository"
	pkgkafka "TradeCoin/pkg/kafka"
)

// KafkaSignalPublisher implements Publisher for Kafka. Canonical signals are
// JSON-encoded and keyed by symbol so per-symbol ordering survives
// partitioning.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSignalPublisher creates a Kafka publisher.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, s *models.CanonicalSignal) error {
	return p.producer.Publish(ctx, p.topic, []byte(s.CoinSymbol), s)
}

func (p *KafkaSignalPublisher) PublishBatch(ctx context.Context, signals []*models.CanonicalSignal) error {
	if len(signals) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(signals))
	for i, s := range signals {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(s.CoinSymbol),
			Value: s,
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
