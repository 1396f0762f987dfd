// Package gate classifies a scored company into a risk category from the
// decision matrix thresholds.
package gate

import (
	"aerox/internal/decision/models"
	"aerox/internal/platform/config"
)

// Categorize maps fraud and capacity scores to green, yellow, or red.
// The block check is evaluated first and is final: a high-fraud-risk,
// high-capacity company is still blocked. Fraud risk is a harder veto
// than creditworthiness.
func Categorize(intentScore, capacityScore float64, matrix config.DecisionMatrix) models.RiskCategory {
	if intentScore >= matrix.BlockIntentThreshold {
		return models.CategoryRed
	}
	if intentScore < matrix.ApproveIntentThreshold && capacityScore >= matrix.ApproveCapacityThreshold {
		return models.CategoryGreen
	}
	return models.CategoryYellow
}
