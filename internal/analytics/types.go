package analytics

import (
	"time"

	"github.com/buildsight/backend/internal/storage/models"
)

// Source marks whether a value came from real tracking data or from a
// documented placeholder default.
type Source string

const (
	SourceMeasured Source = "measured"
	SourceDefault  Source = "default"
)

// Completion probability horizon labels.
const (
	HorizonOnTime         = "onTime"
	HorizonWithin1Week    = "within1Week"
	HorizonWithin2Weeks   = "within2Weeks"
	HorizonWithin1Month   = "within1Month"
	HorizonMoreThan1Month = "moreThan1Month"
)

type TimelineMetrics struct {
	OriginalDurationDays    int
	CurrentDurationDays     int
	DaysOverdue             int
	CompletionPercentage    float64
	PredictedCompletionDate time.Time
	ConfidenceLevel         float64
}

type BudgetMetrics struct {
	OriginalBudget     float64
	CurrentBudget      float64
	SpentAmount        float64
	CommittedAmount    float64
	RemainingBudget    float64
	Variance           float64
	VariancePercentage float64
	BurnRatePerDay     float64
	PredictedFinalCost float64
	CostByCategory     []models.CategoryCost
}

type QualityMetrics struct {
	DefectCount        int
	DefectDensity      float64
	InspectionPassRate float64
}

type TeamMetrics struct {
	TotalTeamMembers   int
	AverageUtilization float64
	TasksPerWeek       float64
	ProductivityTrend  string
}

type VendorMetrics struct {
	TotalVendors       int
	OnTimeDeliveryRate float64
	QualityScore       float64
	CostEfficiency     float64
	Source             Source
}

type RiskAssessment struct {
	OverallRiskScore float64
	ScheduleRisk     float64
	BudgetRisk       float64
	QualityRisk      float64
	WeatherRisk      float64
	SupplyChainRisk  float64
	WeatherSource    Source
}

type PredictionResult struct {
	CompletionProbability    map[string]float64
	BudgetOverrunRisk        float64
	QualityIssuesProbability float64
	WeatherDelayRisk         float64
}

// Result holds every intermediate metric record of one computation. The
// records live only for the duration of the run; only the assembled
// AnalyticsSnapshot is persisted.
type Result struct {
	ProjectID  string
	RunID      string
	Timeline   TimelineMetrics
	Budget     BudgetMetrics
	Quality    QualityMetrics
	Team       TeamMetrics
	Vendor     VendorMetrics
	Risk       RiskAssessment
	Prediction PredictionResult
	ComputedAt time.Time
}

// Snapshot flattens the result into the persisted row shape.
func (r *Result) Snapshot() *models.AnalyticsSnapshot {
	return &models.AnalyticsSnapshot{
		ProjectID: r.ProjectID,
		RunID:     r.RunID,

		OriginalDurationDays:    r.Timeline.OriginalDurationDays,
		CurrentDurationDays:     r.Timeline.CurrentDurationDays,
		DaysOverdue:             r.Timeline.DaysOverdue,
		CompletionPercentage:    r.Timeline.CompletionPercentage,
		PredictedCompletionDate: r.Timeline.PredictedCompletionDate,
		ConfidenceLevel:         r.Timeline.ConfidenceLevel,

		OriginalBudget:     r.Budget.OriginalBudget,
		CurrentBudget:      r.Budget.CurrentBudget,
		SpentAmount:        r.Budget.SpentAmount,
		CommittedAmount:    r.Budget.CommittedAmount,
		RemainingBudget:    r.Budget.RemainingBudget,
		Variance:           r.Budget.Variance,
		VariancePercentage: r.Budget.VariancePercentage,
		BurnRatePerDay:     r.Budget.BurnRatePerDay,
		PredictedFinalCost: r.Budget.PredictedFinalCost,
		CostByCategory:     r.Budget.CostByCategory,

		DefectCount:        r.Quality.DefectCount,
		DefectDensity:      r.Quality.DefectDensity,
		InspectionPassRate: r.Quality.InspectionPassRate,

		TotalTeamMembers:   r.Team.TotalTeamMembers,
		AverageUtilization: r.Team.AverageUtilization,
		TasksPerWeek:       r.Team.TasksPerWeek,
		ProductivityTrend:  r.Team.ProductivityTrend,

		TotalVendors:       r.Vendor.TotalVendors,
		OnTimeDeliveryRate: r.Vendor.OnTimeDeliveryRate,
		VendorQualityScore: r.Vendor.QualityScore,
		CostEfficiency:     r.Vendor.CostEfficiency,
		VendorSource:       string(r.Vendor.Source),

		OverallRiskScore: r.Risk.OverallRiskScore,
		ScheduleRisk:     r.Risk.ScheduleRisk,
		BudgetRisk:       r.Risk.BudgetRisk,
		QualityRisk:      r.Risk.QualityRisk,
		WeatherRisk:      r.Risk.WeatherRisk,
		SupplyChainRisk:  r.Risk.SupplyChainRisk,
		WeatherSource:    string(r.Risk.WeatherSource),

		CompletionProbability:    r.Prediction.CompletionProbability,
		BudgetOverrunRisk:        r.Prediction.BudgetOverrunRisk,
		QualityIssuesProbability: r.Prediction.QualityIssuesProbability,
		WeatherDelayRisk:         r.Prediction.WeatherDelayRisk,

		LastCalculated: r.ComputedAt,
	}
}
