package analytics

import (
	"time"

	"github.com/buildsight/backend/internal/storage/models"
)

// ExtractTimeline derives schedule health from the project's declared dates
// and completion. Missing dates degrade to zero durations; there are no error
// conditions.
func ExtractTimeline(snap *models.ProjectSnapshot, now time.Time) (TimelineMetrics, error) {
	p := snap.Project
	m := TimelineMetrics{
		CompletionPercentage: clamp(p.CompletionPercentage, 0, 100),
	}

	start := projectStartDate(&p)

	if start != nil && p.EstimatedEndDate != nil {
		m.OriginalDurationDays = daysCeil(*start, *p.EstimatedEndDate)
	}
	if start != nil {
		m.CurrentDurationDays = daysCeil(*start, now)
	}

	if p.EstimatedEndDate != nil && now.After(*p.EstimatedEndDate) && p.Status != models.ProjectStatusComplete {
		m.DaysOverdue = daysCeil(*p.EstimatedEndDate, now)
	}

	m.PredictedCompletionDate, m.ConfidenceLevel = forecastCompletion(
		m.CompletionPercentage, m.CurrentDurationDays, m.DaysOverdue, now)

	return m, nil
}

// projectStartDate prefers the actual start over the estimate.
func projectStartDate(p *models.Project) *time.Time {
	if p.ActualStartDate != nil {
		return p.ActualStartDate
	}
	return p.EstimatedStartDate
}
