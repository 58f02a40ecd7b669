package normalize

import (
	"errors"
	"math"
	"testing"
	"time"

	"TradeCoin/internal/domain/models"
)

func fptr(v float64) *float64 { return &v }

func validRaw() models.RawSignal {
	return models.RawSignal{
		Symbol:                 "BTC",
		Signal:                 "BUY",
		Confidence:             0.85,
		Sentiment:              "BULLISH",
		RiskLevel:              "MEDIUM",
		LeverageRecommendation: 5,
		TargetPrice:            fptr(70000),
		StopLoss:               fptr(65000),
		Reason:                 "breakout above resistance",
		Timestamp:              time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		UrgencyScore:           0.9,
	}
}

func TestNormalizeBullishBuy(t *testing.T) {
	got, err := Normalize(validRaw())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RecommendedAction != models.ActionBuy {
		t.Fatalf("action = %q, want buy", got.RecommendedAction)
	}
	if got.ConfidenceScore != 85 {
		t.Fatalf("confidence = %d, want 85", got.ConfidenceScore)
	}
	if got.Sentiment != models.SentimentPositive {
		t.Fatalf("sentiment = %q, want positive", got.Sentiment)
	}
	// round((70000-65000)/65000*100) = 8
	if got.EstimatedPriceChangePercent != 8 {
		t.Fatalf("price change = %d, want 8", got.EstimatedPriceChangePercent)
	}
	if got.OptimalEntryWindow != (models.TimeWindow{Start: "immediate", End: "within 5 minutes"}) {
		t.Fatalf("entry window = %+v", got.OptimalEntryWindow)
	}
	if got.OptimalExitWindow != (models.TimeWindow{Start: "15 minutes later", End: "within 1 hour"}) {
		t.Fatalf("exit window = %+v", got.OptimalExitWindow)
	}
	if got.CurrentPrice != 70000 {
		t.Fatalf("current price = %v, want 70000", got.CurrentPrice)
	}
	if got.CoinSymbol != "BTC" {
		t.Fatalf("symbol = %q", got.CoinSymbol)
	}
	if !got.Timestamp.Equal(validRaw().Timestamp) {
		t.Fatalf("timestamp not carried over: %v", got.Timestamp)
	}
}

func TestNormalizeMissingTargets(t *testing.T) {
	raw := validRaw()
	raw.TargetPrice = nil
	raw.StopLoss = nil

	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.EstimatedPriceChangePercent != 5 {
		t.Fatalf("price change = %d, want default 5", got.EstimatedPriceChangePercent)
	}
	if got.CurrentPrice != 0 {
		t.Fatalf("current price = %v, want 0", got.CurrentPrice)
	}
}

func TestNormalizeZeroStopLossUsesDefault(t *testing.T) {
	raw := validRaw()
	raw.StopLoss = fptr(0)

	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.EstimatedPriceChangePercent != 5 {
		t.Fatalf("price change = %d, want 5", got.EstimatedPriceChangePercent)
	}
}

func TestNormalizeUnknownSentimentDegradesToNeutral(t *testing.T) {
	raw := validRaw()
	raw.Sentiment = "UNKNOWN_VALUE"

	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unknown sentiment must not error, got %v", err)
	}
	if got.Sentiment != models.SentimentNeutral {
		t.Fatalf("sentiment = %q, want neutral", got.Sentiment)
	}
}

func TestNormalizeUnknownActionFails(t *testing.T) {
	raw := validRaw()
	raw.Signal = "MAYBE"

	_, err := Normalize(raw)
	var invalid *InvalidSignalError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSignalError, got %v", err)
	}
	if invalid.Field != "signal" {
		t.Fatalf("field = %q, want signal", invalid.Field)
	}
}

func TestNormalizeUnknownRiskFails(t *testing.T) {
	raw := validRaw()
	raw.RiskLevel = "CATASTROPHIC"

	_, err := Normalize(raw)
	var invalid *InvalidSignalError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSignalError, got %v", err)
	}
	if invalid.Field != "riskLevel" {
		t.Fatalf("field = %q, want riskLevel", invalid.Field)
	}
}

func TestNormalizeNonFiniteInputsFail(t *testing.T) {
	for _, tc := range []struct {
		name  string
		mut   func(*models.RawSignal)
		field string
	}{
		{"nan confidence", func(r *models.RawSignal) { r.Confidence = math.NaN() }, "confidence"},
		{"inf confidence", func(r *models.RawSignal) { r.Confidence = math.Inf(1) }, "confidence"},
		{"nan urgency", func(r *models.RawSignal) { r.UrgencyScore = math.NaN() }, "urgencyScore"},
		{"inf urgency", func(r *models.RawSignal) { r.UrgencyScore = math.Inf(-1) }, "urgencyScore"},
	} {
		raw := validRaw()
		tc.mut(&raw)
		_, err := Normalize(raw)
		var invalid *InvalidSignalError
		if !errors.As(err, &invalid) {
			t.Fatalf("%s: expected InvalidSignalError, got %v", tc.name, err)
		}
		if invalid.Field != tc.field {
			t.Fatalf("%s: field = %q, want %q", tc.name, invalid.Field, tc.field)
		}
	}
}

func TestNormalizeConfidenceClamped(t *testing.T) {
	for _, tc := range []struct {
		confidence float64
		want       int
	}{
		{0, 0},
		{1, 100},
		{0.004, 0},
		{0.005, 1},
		{0.996, 100},
		{-0.3, 0},
		{1.7, 100},
	} {
		raw := validRaw()
		raw.Confidence = tc.confidence
		got, err := Normalize(raw)
		if err != nil {
			t.Fatalf("confidence %v: unexpected error %v", tc.confidence, err)
		}
		if got.ConfidenceScore != tc.want {
			t.Fatalf("confidence %v: score = %d, want %d", tc.confidence, got.ConfidenceScore, tc.want)
		}
		if got.ConfidenceScore < 0 || got.ConfidenceScore > 100 {
			t.Fatalf("confidence score %d outside [0,100]", got.ConfidenceScore)
		}
	}
}

func TestNormalizeCaseInsensitiveTokens(t *testing.T) {
	raw := validRaw()
	raw.Signal = "sell"
	raw.RiskLevel = "extreme"
	raw.Sentiment = "very_bearish"

	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RecommendedAction != models.ActionSell {
		t.Fatalf("action = %q, want sell", got.RecommendedAction)
	}
	if got.Sentiment != models.SentimentNegative {
		t.Fatalf("sentiment = %q, want negative", got.Sentiment)
	}
	if got.RiskLevel != models.RiskHigh {
		t.Fatalf("risk = %q, want high", got.RiskLevel)
	}
}

func TestNormalizeExtremeRiskTightensExit(t *testing.T) {
	raw := validRaw()
	raw.RiskLevel = "EXTREME"

	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// display collapses to high, exit window does not
	if got.RiskLevel != models.RiskHigh {
		t.Fatalf("risk = %q, want high", got.RiskLevel)
	}
	if got.OptimalExitWindow.End != "within 30 minutes" {
		t.Fatalf("exit end = %q, want within 30 minutes", got.OptimalExitWindow.End)
	}

	raw.RiskLevel = "HIGH"
	got, err = Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OptimalExitWindow.End != "within 1 hour" {
		t.Fatalf("exit end = %q, want within 1 hour for HIGH", got.OptimalExitWindow.End)
	}
}

func TestNormalizeRelaxedEntryWindow(t *testing.T) {
	raw := validRaw()
	raw.UrgencyScore = 0.8 // boundary: not strictly greater

	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.TimeWindow{Start: "within 5 minutes", End: "within 15 minutes"}
	if got.OptimalEntryWindow != want {
		t.Fatalf("entry window = %+v, want %+v", got.OptimalEntryWindow, want)
	}
}

func TestNormalizeIdempotentModuloID(t *testing.T) {
	raw := validRaw()
	a, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("advisory IDs should differ across calls")
	}
	a.ID, b.ID = "", ""
	if a != b {
		t.Fatalf("normalization not deterministic: %+v vs %+v", a, b)
	}
}

func TestNormalizeSymbolUppercased(t *testing.T) {
	raw := validRaw()
	raw.Symbol = "eth"

	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CoinSymbol != "ETH" {
		t.Fatalf("symbol = %q, want ETH", got.CoinSymbol)
	}
}

func TestNormalizeBatchIsolatesFailures(t *testing.T) {
	bad := validRaw()
	bad.Signal = "MAYBE"
	raws := []models.RawSignal{validRaw(), bad, validRaw()}

	signals, dropped := NormalizeBatch(raws)
	if len(signals) != 2 {
		t.Fatalf("got %d signals, want 2", len(signals))
	}
	if len(dropped) != 1 {
		t.Fatalf("got %d dropped, want 1", len(dropped))
	}
	if dropped[0].Index != 1 {
		t.Fatalf("dropped index = %d, want 1", dropped[0].Index)
	}
	var invalid *InvalidSignalError
	if !errors.As(dropped[0], &invalid) {
		t.Fatalf("dropped error not InvalidSignalError: %v", dropped[0])
	}
}
