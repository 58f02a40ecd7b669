package models

import "time"

// Canonical display vocabularies. Raw upstream tokens are reduced to these
// by the normalizer; nothing outside internal/services/normalize should
// compare raw enum strings.

type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// TimeWindow is a human-readable relative time range for entry/exit guidance.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RawSignal is an upstream trading-signal record as delivered by the feed.
// Field names follow the feed's snake_case wire contract. Target price and
// stop loss are optional; nil means the upstream computed no value.
type RawSignal struct {
	Symbol                 string    `json:"symbol"`
	Signal                 string    `json:"signal"`
	Confidence             float64   `json:"confidence"`
	Sentiment              string    `json:"sentiment"`
	RiskLevel              string    `json:"risk_level"`
	LeverageRecommendation float64   `json:"leverage_recommendation"`
	TargetPrice            *float64  `json:"target_price"`
	StopLoss               *float64  `json:"stop_loss"`
	Reason                 string    `json:"reason"`
	Timestamp              time.Time `json:"timestamp"`
	UrgencyScore           float64   `json:"urgency_score"`
	SourceCount            int       `json:"source_count"`
}

// CanonicalSignal is the display-ready signal record. Every instance either
// fully satisfies the vocabulary and range constraints or was never returned
// by the normalizer.
type CanonicalSignal struct {
	ID                          string     `json:"id"`
	Timestamp                   time.Time  `json:"timestamp"`
	CoinSymbol                  string     `json:"coinSymbol"`
	Sentiment                   Sentiment  `json:"sentiment"`
	ConfidenceScore             int        `json:"confidenceScore"`
	EstimatedPriceChangePercent int        `json:"estimatedPriceChangePercent"`
	RecommendedAction           Action     `json:"recommendedAction"`
	RecommendedLeverageMultiple float64    `json:"recommendedLeverageMultiple"`
	RiskLevel                   RiskLevel  `json:"riskLevel"`
	Reasoning                   string     `json:"reasoning"`
	OptimalEntryWindow          TimeWindow `json:"optimalEntryWindow"`
	OptimalExitWindow           TimeWindow `json:"optimalExitWindow"`
	CurrentPrice                float64    `json:"currentPrice"`
}
