package usecase

import (
	"context"
	"encoding/json"
	"time"

	"TradeCoin/internal/domain/models"
	domrepo "TradeCoin/internal/domain/repository"
	"TradeCoin/internal/services/normalize"
	pkgkafka "TradeCoin/pkg/kafka"
)

// KafkaSignalsHandler consumes raw signal records from Kafka, normalizes
// them, and writes the canonical form to storage.
type KafkaSignalsHandler struct {
	topic   string
	storage domrepo.Storage
	metrics domrepo.Metrics
}

func NewKafkaSignalsHandler(topic string, storage domrepo.Storage, metrics domrepo.Metrics) *KafkaSignalsHandler {
	return &KafkaSignalsHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaSignalsHandler) Topic() string { return h.topic }

func (h *KafkaSignalsHandler) Handle(ctx context.Context, b []byte) error {
	var raw models.RawSignal
	if err := json.Unmarshal(b, &raw); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	sig, err := normalize.Normalize(raw)
	if err != nil {
		// contract violation, not transient; count the drop and commit the
		// offset rather than sending it to the DLQ retry loop
		h.metrics.RecordDrop("consumer_normalize")
		return nil
	}

	// E2E latency from signal generation to ingestion (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(raw.Timestamp).Seconds())

	start := time.Now()
	if err := h.storage.Store(ctx, &sig); err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	h.metrics.RecordSignal("clickhouse", sig.CoinSymbol)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSignalsHandler)(nil)
