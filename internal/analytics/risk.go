package analytics

import "math"

// Placeholder sub-scores for data sources not yet integrated.
const (
	defaultWeatherRisk     = 20.0
	defaultSupplyChainRisk = 15.0
)

// Weights of the overall risk combination. They sum to 1, so the weighted sum
// of 0-100 sub-scores already lands in [0,100]; the clamp guards the invariant
// regardless.
const (
	weightBudget      = 0.25
	weightSchedule    = 0.25
	weightQuality     = 0.20
	weightWeather     = 0.10
	weightSupplyChain = 0.10
	weightTeamIdle    = 0.05
	weightVendorGap   = 0.05
)

// WeatherRisk is the weather sub-score fed into the analyzer, either measured
// by a provider or the documented default.
type WeatherRisk struct {
	Value  float64
	Source Source
}

func DefaultWeatherRisk() WeatherRisk {
	return WeatherRisk{Value: defaultWeatherRisk, Source: SourceDefault}
}

// AnalyzeRisk combines the five metric records into named sub-scores and a
// weighted overall score. Every sub-score and the overall score are clamped to
// [0,100], and the overall score is monotonic in each sub-risk.
func AnalyzeRisk(timeline TimelineMetrics, budget BudgetMetrics, quality QualityMetrics, team TeamMetrics, vendor VendorMetrics, weather WeatherRisk) RiskAssessment {
	r := RiskAssessment{
		BudgetRisk:      math.Min(100, math.Abs(budget.VariancePercentage)*2),
		ScheduleRisk:    math.Min(100, math.Max(0, float64(timeline.DaysOverdue)*3)),
		QualityRisk:     math.Min(100, float64(quality.DefectCount)*10),
		WeatherRisk:     clamp(weather.Value, 0, 100),
		SupplyChainRisk: defaultSupplyChainRisk,
		WeatherSource:   weather.Source,
	}

	teamIdle := 100 - clamp(team.AverageUtilization, 0, 100)
	vendorGap := 100 - clamp(vendor.QualityScore, 0, 100)

	overall := weightBudget*r.BudgetRisk +
		weightSchedule*r.ScheduleRisk +
		weightQuality*r.QualityRisk +
		weightWeather*r.WeatherRisk +
		weightSupplyChain*r.SupplyChainRisk +
		weightTeamIdle*teamIdle +
		weightVendorGap*vendorGap

	r.OverallRiskScore = clamp(overall, 0, 100)

	return r
}
