package capm

import "fmt"

// Interpretation labels.
const (
	LabelAggressive      = "Aggressive"
	LabelDefensive       = "Defensive"
	LabelNeutral         = "Neutral"
	LabelOutperforming   = "Outperforming"
	LabelUnderperforming = "Underperforming"
)

// InterpretBeta classifies a stock's sensitivity to the market.
func InterpretBeta(beta float64) string {
	switch {
	case beta > 1:
		return LabelAggressive
	case beta < 1:
		return LabelDefensive
	default:
		return LabelNeutral
	}
}

// InterpretAlpha classifies risk-adjusted performance against the market.
func InterpretAlpha(alpha float64) string {
	switch {
	case alpha > 0:
		return LabelOutperforming
	case alpha < 0:
		return LabelUnderperforming
	default:
		return LabelNeutral
	}
}

// BetaSentence renders the human-readable Beta reading against an index.
func BetaSentence(beta float64, indexName string) string {
	return fmt.Sprintf("Beta (%.4f): This stock is %s compared to the %s", beta, InterpretBeta(beta), indexName)
}

// AlphaSentence renders the human-readable Alpha reading.
func AlphaSentence(alpha float64) string {
	return fmt.Sprintf("Alpha (%.4f): This stock is %s the market on a risk-adjusted basis", alpha, InterpretAlpha(alpha))
}
