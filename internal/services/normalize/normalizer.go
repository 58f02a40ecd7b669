package normalize

import (
	"fmt"
	"math"
	"strings"
	"time"

	"TradeCoin/internal/domain/models"

	"github.com/google/uuid"
)

// Relative-time labels for entry/exit windows. These are part of the display
// contract and must not drift.
const (
	windowImmediate = "immediate"
	windowWithin5m  = "within 5 minutes"
	windowWithin15m = "within 15 minutes"
	window15mLater  = "15 minutes later"
	windowWithin30m = "within 30 minutes"
	windowWithin1h  = "within 1 hour"
)

// defaultPriceChangePercent is the crude fallback when no target/stop pair is
// available. It is an approximation, not a financial calculation.
const defaultPriceChangePercent = 5

// urgentEntryThreshold splits the entry window into immediate vs relaxed.
const urgentEntryThreshold = 0.8

// Normalize converts one upstream signal record into the canonical display
// model. It is pure and safe for concurrent use; the only non-deterministic
// output is the advisory ID. Returned signals always satisfy the canonical
// vocabulary and range invariants, or an error is returned instead.
func Normalize(raw models.RawSignal) (models.CanonicalSignal, error) {
	action, err := parseAction(raw.Signal)
	if err != nil {
		return models.CanonicalSignal{}, err
	}
	risk, err := parseRisk(raw.RiskLevel)
	if err != nil {
		return models.CanonicalSignal{}, err
	}
	if math.IsNaN(raw.Confidence) || math.IsInf(raw.Confidence, 0) {
		return models.CanonicalSignal{}, invalidField("confidence", raw.Confidence)
	}
	if math.IsNaN(raw.UrgencyScore) || math.IsInf(raw.UrgencyScore, 0) {
		return models.CanonicalSignal{}, invalidField("urgencyScore", raw.UrgencyScore)
	}

	symbol := strings.ToUpper(strings.TrimSpace(raw.Symbol))

	return models.CanonicalSignal{
		ID:                          newSignalID(symbol),
		Timestamp:                   raw.Timestamp,
		CoinSymbol:                  symbol,
		Sentiment:                   reduceSentiment(raw.Sentiment),
		ConfidenceScore:             confidenceScore(raw.Confidence),
		EstimatedPriceChangePercent: priceChangePercent(raw.TargetPrice, raw.StopLoss),
		RecommendedAction:           action,
		RecommendedLeverageMultiple: raw.LeverageRecommendation,
		RiskLevel:                   risk.display(),
		Reasoning:                   raw.Reason,
		OptimalEntryWindow:          entryWindow(raw.UrgencyScore),
		OptimalExitWindow:           exitWindow(risk),
		CurrentPrice:                currentPrice(raw.TargetPrice),
	}, nil
}

// BatchError pairs a dropped input with its cause.
type BatchError struct {
	Index int
	Err   error
}

func (e BatchError) Error() string {
	return fmt.Sprintf("signal %d: %v", e.Index, e.Err)
}

func (e BatchError) Unwrap() error { return e.Err }

// NormalizeBatch normalizes a list with per-record failure isolation: one
// bad record is dropped and reported, the rest of the batch goes through.
// Output ordering matches input ordering.
func NormalizeBatch(raws []models.RawSignal) ([]models.CanonicalSignal, []BatchError) {
	signals := make([]models.CanonicalSignal, 0, len(raws))
	var dropped []BatchError
	for i, raw := range raws {
		s, err := Normalize(raw)
		if err != nil {
			dropped = append(dropped, BatchError{Index: i, Err: err})
			continue
		}
		signals = append(signals, s)
	}
	return signals, dropped
}

// confidenceScore maps [0,1] confidence to an integer percentage. Upstream
// data is not fully trusted, so finite out-of-range values clamp instead of
// rejecting the whole record.
func confidenceScore(confidence float64) int {
	score := int(math.Round(confidence * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func priceChangePercent(target, stop *float64) int {
	if target == nil || stop == nil || *stop == 0 {
		return defaultPriceChangePercent
	}
	return int(math.Round(((*target - *stop) / *stop) * 100))
}

func entryWindow(urgency float64) models.TimeWindow {
	if urgency > urgentEntryThreshold {
		return models.TimeWindow{Start: windowImmediate, End: windowWithin5m}
	}
	return models.TimeWindow{Start: windowWithin5m, End: windowWithin15m}
}

// exitWindow starts 15 minutes out regardless; the un-reduced risk token
// picks the close: EXTREME forces the tight 30-minute exit.
func exitWindow(risk rawRisk) models.TimeWindow {
	if risk == riskExtreme {
		return models.TimeWindow{Start: window15mLater, End: windowWithin30m}
	}
	return models.TimeWindow{Start: window15mLater, End: windowWithin1h}
}

func currentPrice(target *float64) float64 {
	if target != nil && *target > 0 {
		return *target
	}
	return 0
}

// newSignalID derives an advisory identifier from the symbol and generation
// time. The random suffix keeps rapid repeated normalization of the same
// symbol from colliding; uniqueness remains advisory, not a hard guarantee.
func newSignalID(symbol string) string {
	return fmt.Sprintf("%s-%d-%s", symbol, time.Now().UnixMilli(), uuid.NewString()[:8])
}
