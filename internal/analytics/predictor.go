package analytics

import (
	"math"
	"time"
)

// PredictCompletion turns the timeline and risk records into a banded
// completion probability and a handful of derived risk figures.
//
// The bands are heuristic offsets over the on-time confidence, not a
// calibrated distribution. moreThan1Month is exactly 1 - onTime.
func PredictCompletion(timeline TimelineMetrics, budget BudgetMetrics, quality QualityMetrics, risk RiskAssessment, now time.Time) PredictionResult {
	_, onTime := forecastCompletion(
		timeline.CompletionPercentage, timeline.CurrentDurationDays, timeline.DaysOverdue, now)

	return PredictionResult{
		CompletionProbability: map[string]float64{
			HorizonOnTime:         onTime,
			HorizonWithin1Week:    math.Min(1, onTime+0.1),
			HorizonWithin2Weeks:   math.Min(1, onTime+0.2),
			HorizonWithin1Month:   math.Min(1, onTime+0.3),
			HorizonMoreThan1Month: 1 - onTime,
		},
		BudgetOverrunRisk:        math.Min(100, math.Abs(budget.VariancePercentage)*1.5),
		QualityIssuesProbability: clamp(float64(quality.DefectCount)*5, 0, 100),
		WeatherDelayRisk:         risk.WeatherRisk,
	}
}
