package usecase

import (
	"context"
	"time"

	"TradeCoin/internal/domain/models"
	"TradeCoin/internal/services/entitlement"
	"TradeCoin/pkg/queue"
)

// SignalAlert is the job payload enqueued for downstream notification
// delivery. Delivery itself (push/email) happens outside this service.
type SignalAlert struct {
	SignalID        string    `json:"signal_id"`
	CoinSymbol      string    `json:"coin_symbol"`
	Action          string    `json:"action"`
	ConfidenceScore int       `json:"confidence_score"`
	RiskLevel       string    `json:"risk_level"`
	EntryStart      string    `json:"entry_start"`
	EntryEnd        string    `json:"entry_end"`
	Timestamp       time.Time `json:"timestamp"`
}

const alertMessageType = "signal.alert"

// Notifier enqueues alert jobs for high-confidence signals, gated on the
// destination tier having notifications enabled.
type Notifier struct {
	q             queue.QueueService
	minConfidence int
}

func NewNotifier(q queue.QueueService, minConfidence int) *Notifier {
	if minConfidence <= 0 {
		minConfidence = 80
	}
	return &Notifier{q: q, minConfidence: minConfidence}
}

// Notify enqueues an alert when the tier's feature set allows notifications
// and the signal clears the confidence bar. Returns nil without enqueueing
// otherwise.
func (n *Notifier) Notify(ctx context.Context, tier models.Tier, sig *models.CanonicalSignal) error {
	if n.q == nil || sig == nil {
		return nil
	}
	features, err := entitlement.Features(tier)
	if err != nil {
		return err
	}
	if !features.Notifications {
		return nil
	}
	if sig.ConfidenceScore < n.minConfidence {
		return nil
	}

	return n.q.PublishMessage(ctx, alertMessageType, SignalAlert{
		SignalID:        sig.ID,
		CoinSymbol:      sig.CoinSymbol,
		Action:          string(sig.RecommendedAction),
		ConfidenceScore: sig.ConfidenceScore,
		RiskLevel:       string(sig.RiskLevel),
		EntryStart:      sig.OptimalEntryWindow.Start,
		EntryEnd:        sig.OptimalEntryWindow.End,
		Timestamp:       sig.Timestamp,
	})
}
