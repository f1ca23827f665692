package models

import "time"

const (
	ProjectStatusPlanning = "planning"
	ProjectStatusActive   = "active"
	ProjectStatusOnHold   = "on_hold"
	ProjectStatusComplete = "complete"
)

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

const (
	IssueCategoryQuality = "quality"
	IssueCategorySafety  = "safety"
	IssueCategorySchedule = "schedule"
	IssueCategoryOther   = "other"
)

const (
	IssueStatusOpen     = "open"
	IssueStatusResolved = "resolved"
)

type Project struct {
	ID                   string
	Name                 string
	Status               string
	OriginalBudget       float64
	CurrentBudget        float64
	SpentAmount          float64
	CompletionPercentage float64
	FloorAreaSqFt        float64
	EstimatedStartDate   *time.Time
	ActualStartDate      *time.Time
	EstimatedEndDate     *time.Time
	ActualEndDate        *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type Task struct {
	ID             string
	ProjectID      string
	Title          string
	Status         string
	AssigneeID     string
	EstimatedHours float64
	DueDate        *time.Time
	CompletedAt    *time.Time
	CreatedAt      time.Time
}

type BudgetLineItem struct {
	ID             string
	ProjectID      string
	Category       string
	Description    string
	SupplierID     string
	EstimatedTotal float64
	ActualTotal    float64
	CreatedAt      time.Time
}

type Inspection struct {
	ID          string
	ProjectID   string
	Type        string
	Passed      bool
	Notes       string
	InspectedAt time.Time
}

type Issue struct {
	ID        string
	ProjectID string
	Category  string
	Status    string
	Severity  string
	Title     string
	CreatedAt time.Time
}

type TimeEntry struct {
	ID        string
	ProjectID string
	UserID    string
	Hours     float64
	WorkedAt  time.Time
}

type Communication struct {
	ID        string
	ProjectID string
	Sender    string
	Subject   string
	SentAt    time.Time
}

type Delivery struct {
	ID              string
	ProjectID       string
	SupplierID      string
	PromisedAt      time.Time
	DeliveredAt     *time.Time
	QualityRating   float64
	CostVariancePct float64
}

// ProjectSnapshot is the full read-only aggregate of a project's records
// consumed by one analytics computation.
type ProjectSnapshot struct {
	Project        Project
	Tasks          []Task
	BudgetItems    []BudgetLineItem
	Inspections    []Inspection
	Issues         []Issue
	TimeEntries    []TimeEntry
	Communications []Communication
	Deliveries     []Delivery
}

// AnalyticsSnapshot is the single persisted row per project. It is replaced
// wholesale on every computation; no history is kept.
type AnalyticsSnapshot struct {
	ProjectID string `json:"project_id"`
	RunID     string `json:"run_id"`

	OriginalDurationDays    int       `json:"original_duration_days"`
	CurrentDurationDays     int       `json:"current_duration_days"`
	DaysOverdue             int       `json:"days_overdue"`
	CompletionPercentage    float64   `json:"completion_percentage"`
	PredictedCompletionDate time.Time `json:"predicted_completion_date"`
	ConfidenceLevel         float64   `json:"confidence_level"`

	OriginalBudget     float64        `json:"original_budget"`
	CurrentBudget      float64        `json:"current_budget"`
	SpentAmount        float64        `json:"spent_amount"`
	CommittedAmount    float64        `json:"committed_amount"`
	RemainingBudget    float64        `json:"remaining_budget"`
	Variance           float64        `json:"variance"`
	VariancePercentage float64        `json:"variance_percentage"`
	BurnRatePerDay     float64        `json:"burn_rate_per_day"`
	PredictedFinalCost float64        `json:"predicted_final_cost"`
	CostByCategory     []CategoryCost `json:"cost_by_category"`

	DefectCount        int     `json:"defect_count"`
	DefectDensity      float64 `json:"defect_density"`
	InspectionPassRate float64 `json:"inspection_pass_rate"`

	TotalTeamMembers   int     `json:"total_team_members"`
	AverageUtilization float64 `json:"average_utilization"`
	TasksPerWeek       float64 `json:"tasks_per_week"`
	ProductivityTrend  string  `json:"productivity_trend"`

	TotalVendors       int     `json:"total_vendors"`
	OnTimeDeliveryRate float64 `json:"on_time_delivery_rate"`
	VendorQualityScore float64 `json:"vendor_quality_score"`
	CostEfficiency     float64 `json:"cost_efficiency"`
	VendorSource       string  `json:"vendor_source"`

	OverallRiskScore float64 `json:"overall_risk_score"`
	ScheduleRisk     float64 `json:"schedule_risk"`
	BudgetRisk       float64 `json:"budget_risk"`
	QualityRisk      float64 `json:"quality_risk"`
	WeatherRisk      float64 `json:"weather_risk"`
	SupplyChainRisk  float64 `json:"supply_chain_risk"`
	WeatherSource    string  `json:"weather_source"`

	CompletionProbability    map[string]float64 `json:"completion_probability"`
	BudgetOverrunRisk        float64            `json:"budget_overrun_risk"`
	QualityIssuesProbability float64            `json:"quality_issues_probability"`
	WeatherDelayRisk         float64            `json:"weather_delay_risk"`

	LastCalculated time.Time `json:"last_calculated"`
}

// CategoryCost is one costByCategory entry; slice order is first-seen order of
// the category across budget line items.
type CategoryCost struct {
	Category           string  `json:"category"`
	Budgeted           float64 `json:"budgeted"`
	Spent              float64 `json:"spent"`
	Variance           float64 `json:"variance"`
	VariancePercentage float64 `json:"variance_percentage"`
}
