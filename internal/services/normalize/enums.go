package normalize

import (
	"strings"

	"TradeCoin/internal/domain/models"
)

// rawRisk is the upstream four-valued risk vocabulary. EXTREME is collapsed
// to "high" for display but still drives the exit-window choice, so the
// un-reduced token is kept around until windows are computed.
type rawRisk string

const (
	riskLow     rawRisk = "LOW"
	riskMedium  rawRisk = "MEDIUM"
	riskHigh    rawRisk = "HIGH"
	riskExtreme rawRisk = "EXTREME"
)

// parseAction is the only place raw action tokens are compared.
// Matching is case-insensitive; anything outside {BUY, SELL, HOLD} fails.
func parseAction(s string) (models.Action, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return models.ActionBuy, nil
	case "SELL":
		return models.ActionSell, nil
	case "HOLD":
		return models.ActionHold, nil
	default:
		return "", invalidField("signal", s)
	}
}

// reduceSentiment maps the five-valued upstream vocabulary onto the
// three-valued display one. The reduction is intentionally lossy and never
// fails: unknown tokens degrade to neutral rather than erroring, since
// sentiment is advisory display data.
func reduceSentiment(s string) models.Sentiment {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VERY_BULLISH", "BULLISH":
		return models.SentimentPositive
	case "BEARISH", "VERY_BEARISH":
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// parseRisk validates the upstream risk token. Unlike sentiment, an
// unrecognized risk level fails loudly: it feeds the exit-window policy and
// must not be guessed.
func parseRisk(s string) (rawRisk, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return riskLow, nil
	case "MEDIUM":
		return riskMedium, nil
	case "HIGH":
		return riskHigh, nil
	case "EXTREME":
		return riskExtreme, nil
	default:
		return "", invalidField("riskLevel", s)
	}
}

// display reduces the four-valued risk to the three-valued display form.
func (r rawRisk) display() models.RiskLevel {
	switch r {
	case riskLow:
		return models.RiskLow
	case riskMedium:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}
