package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyzeRisk_SubScores(t *testing.T) {
	risk := AnalyzeRisk(
		TimelineMetrics{DaysOverdue: 10},
		BudgetMetrics{VariancePercentage: 20},
		QualityMetrics{DefectCount: 3},
		TeamMetrics{AverageUtilization: 80},
		VendorMetrics{QualityScore: 85},
		DefaultWeatherRisk(),
	)

	require.Equal(t, 40.0, risk.BudgetRisk)
	require.Equal(t, 30.0, risk.ScheduleRisk)
	require.Equal(t, 30.0, risk.QualityRisk)
	require.Equal(t, 20.0, risk.WeatherRisk)
	require.Equal(t, 15.0, risk.SupplyChainRisk)
	require.Equal(t, SourceDefault, risk.WeatherSource)
}

func TestAnalyzeRisk_AllScoresClamped(t *testing.T) {
	risk := AnalyzeRisk(
		TimelineMetrics{DaysOverdue: 1000},
		BudgetMetrics{VariancePercentage: -500},
		QualityMetrics{DefectCount: 50},
		TeamMetrics{},
		VendorMetrics{},
		WeatherRisk{Value: 250, Source: SourceMeasured},
	)

	for name, score := range map[string]float64{
		"overall":      risk.OverallRiskScore,
		"schedule":     risk.ScheduleRisk,
		"budget":       risk.BudgetRisk,
		"quality":      risk.QualityRisk,
		"weather":      risk.WeatherRisk,
		"supply_chain": risk.SupplyChainRisk,
	} {
		require.GreaterOrEqual(t, score, 0.0, name)
		require.LessOrEqual(t, score, 100.0, name)
	}
}

func TestAnalyzeRisk_MonotonicInDaysOverdue(t *testing.T) {
	budget := BudgetMetrics{VariancePercentage: 10}
	quality := QualityMetrics{DefectCount: 2}
	team := TeamMetrics{AverageUtilization: 70}
	vendor := VendorMetrics{QualityScore: 85}

	prevSchedule := -1.0
	prevOverall := -1.0
	for overdue := 0; overdue <= 120; overdue += 5 {
		risk := AnalyzeRisk(TimelineMetrics{DaysOverdue: overdue}, budget, quality, team, vendor, DefaultWeatherRisk())

		require.GreaterOrEqual(t, risk.ScheduleRisk, prevSchedule, "overdue=%d", overdue)
		require.GreaterOrEqual(t, risk.OverallRiskScore, prevOverall, "overdue=%d", overdue)

		prevSchedule = risk.ScheduleRisk
		prevOverall = risk.OverallRiskScore
	}
}

func TestAnalyzeRisk_MonotonicInDefects(t *testing.T) {
	prev := -1.0
	for defects := 0; defects <= 20; defects++ {
		risk := AnalyzeRisk(TimelineMetrics{}, BudgetMetrics{}, QualityMetrics{DefectCount: defects},
			TeamMetrics{AverageUtilization: 100}, VendorMetrics{QualityScore: 100}, DefaultWeatherRisk())
		require.GreaterOrEqual(t, risk.OverallRiskScore, prev)
		prev = risk.OverallRiskScore
	}
}
