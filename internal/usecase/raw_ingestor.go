package usecase

import (
	"context"
	"errors"

	"TradeCoin/internal/domain/models"
	drepo "TradeCoin/internal/domain/repository"
	"TradeCoin/internal/services/normalize"
	applogger "TradeCoin/pkg/logger"
)

// RawIngestor normalizes raw feed records and hands the canonical result to
// the SignalProcessor. A record that fails normalization is dropped and
// logged; the caller keeps consuming the feed (data-contract violations are
// per-record, not transient, so there is nothing to retry).
type RawIngestor struct {
	proc     *SignalProcessor
	metrics  drepo.Metrics
	logger   *applogger.Logger
	notifier *Notifier
}

func NewRawIngestor(proc *SignalProcessor, metrics drepo.Metrics, logger *applogger.Logger) *RawIngestor {
	return &RawIngestor{proc: proc, metrics: metrics, logger: logger}
}

// SetNotifier enables alert enqueueing for signals that clear the
// notification bar. Alerts target the lowest tier with notifications
// enabled; delivery workers fan out from there.
func (i *RawIngestor) SetNotifier(n *Notifier) { i.notifier = n }

// Process normalizes one raw record and forwards it. Normalization failures
// return nil after recording the drop so upstream pipelines do not buffer or
// retry contract-invalid records.
func (i *RawIngestor) Process(ctx context.Context, raw *models.RawSignal) error {
	if raw == nil {
		return nil
	}
	sig, err := normalize.Normalize(*raw)
	if err != nil {
		i.metrics.RecordDrop("normalize")
		var invalid *normalize.InvalidSignalError
		if i.logger != nil && errors.As(err, &invalid) {
			i.logger.Warn("dropping contract-invalid signal",
				applogger.String("symbol", raw.Symbol),
				applogger.String("field", invalid.Field),
				applogger.Any("value", invalid.Value))
		}
		return nil
	}
	if err := i.proc.Process(ctx, &sig); err != nil {
		return err
	}
	if i.notifier != nil {
		// enqueue failures must not stall ingestion
		if nerr := i.notifier.Notify(ctx, models.TierPremium, &sig); nerr != nil {
			i.metrics.RecordError("notify")
		}
	}
	return nil
}
