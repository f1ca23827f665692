package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/buildsight/backend/internal/storage/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestExtractTimeline_Durations(t *testing.T) {
	snap := &models.ProjectSnapshot{
		Project: models.Project{
			Status:               models.ProjectStatusActive,
			EstimatedStartDate:   datePtr(2024, 1, 1),
			EstimatedEndDate:     datePtr(2024, 3, 1),
			CompletionPercentage: 50,
		},
	}
	now := date(2024, 2, 1)

	m, err := ExtractTimeline(snap, now)
	require.NoError(t, err)

	require.Equal(t, 60, m.OriginalDurationDays)
	require.Equal(t, 31, m.CurrentDurationDays)
	require.Equal(t, 0, m.DaysOverdue)
	require.Equal(t, 50.0, m.CompletionPercentage)
}

func TestExtractTimeline_PrefersActualStart(t *testing.T) {
	snap := &models.ProjectSnapshot{
		Project: models.Project{
			Status:             models.ProjectStatusActive,
			EstimatedStartDate: datePtr(2024, 1, 1),
			ActualStartDate:    datePtr(2024, 1, 11),
			EstimatedEndDate:   datePtr(2024, 1, 31),
		},
	}

	m, err := ExtractTimeline(snap, date(2024, 1, 21))
	require.NoError(t, err)

	require.Equal(t, 20, m.OriginalDurationDays)
	require.Equal(t, 10, m.CurrentDurationDays)
}

func TestExtractTimeline_MissingDatesDegradeToZero(t *testing.T) {
	snap := &models.ProjectSnapshot{
		Project: models.Project{Status: models.ProjectStatusActive},
	}

	m, err := ExtractTimeline(snap, date(2024, 6, 1))
	require.NoError(t, err)

	require.Equal(t, 0, m.OriginalDurationDays)
	require.Equal(t, 0, m.CurrentDurationDays)
	require.Equal(t, 0, m.DaysOverdue)
	require.Equal(t, 0.0, m.CompletionPercentage)
}

func TestExtractTimeline_DaysOverdue(t *testing.T) {
	snap := &models.ProjectSnapshot{
		Project: models.Project{
			Status:             models.ProjectStatusActive,
			EstimatedStartDate: datePtr(2024, 1, 1),
			EstimatedEndDate:   datePtr(2024, 3, 1),
		},
	}

	m, err := ExtractTimeline(snap, date(2024, 3, 11))
	require.NoError(t, err)
	require.Equal(t, 10, m.DaysOverdue)
}

func TestExtractTimeline_CompleteProjectNeverOverdue(t *testing.T) {
	snap := &models.ProjectSnapshot{
		Project: models.Project{
			Status:             models.ProjectStatusComplete,
			EstimatedStartDate: datePtr(2024, 1, 1),
			EstimatedEndDate:   datePtr(2024, 3, 1),
		},
	}

	m, err := ExtractTimeline(snap, date(2024, 6, 1))
	require.NoError(t, err)
	require.Equal(t, 0, m.DaysOverdue)
}

func TestExtractTimeline_ConfidenceClamps(t *testing.T) {
	snap := &models.ProjectSnapshot{
		Project: models.Project{
			Status:             models.ProjectStatusActive,
			EstimatedStartDate: datePtr(2024, 1, 1),
			EstimatedEndDate:   datePtr(2024, 3, 1),
		},
	}

	// On schedule: raw formula gives 1.0, clamped to the 0.9 ceiling.
	m, err := ExtractTimeline(snap, date(2024, 2, 1))
	require.NoError(t, err)
	require.Equal(t, 0.9, m.ConfidenceLevel)

	// 60 days overdue: raw formula goes negative, clamped to the 0.3 floor.
	m, err = ExtractTimeline(snap, date(2024, 4, 30))
	require.NoError(t, err)
	require.Equal(t, 60, m.DaysOverdue)
	require.Equal(t, 0.3, m.ConfidenceLevel)
}

func TestExtractTimeline_VelocityForecast(t *testing.T) {
	snap := &models.ProjectSnapshot{
		Project: models.Project{
			Status:               models.ProjectStatusActive,
			EstimatedStartDate:   datePtr(2024, 1, 1),
			EstimatedEndDate:     datePtr(2024, 3, 1),
			CompletionPercentage: 50,
		},
	}
	now := date(2024, 2, 1)

	m, err := ExtractTimeline(snap, now)
	require.NoError(t, err)

	// 50% done over 31 days; remaining 50% at the same velocity is 31 more days.
	require.WithinDuration(t, now.Add(31*24*time.Hour), m.PredictedCompletionDate, time.Second)
}

func TestExtractTimeline_ZeroVelocityFallback(t *testing.T) {
	snap := &models.ProjectSnapshot{
		Project: models.Project{
			Status:             models.ProjectStatusActive,
			EstimatedStartDate: datePtr(2024, 1, 1),
		},
	}
	now := date(2024, 2, 1)

	m, err := ExtractTimeline(snap, now)
	require.NoError(t, err)
	require.Equal(t, now.Add(30*24*time.Hour), m.PredictedCompletionDate)
}
