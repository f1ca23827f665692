package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/buildsight/backend/internal/storage/models"
)

func TestExtractQuality_DefectDensity(t *testing.T) {
	snap := &models.ProjectSnapshot{
		Project: models.Project{FloorAreaSqFt: 2000},
		Issues: []models.Issue{
			{ID: "a", Category: models.IssueCategoryQuality, Status: models.IssueStatusOpen},
			{ID: "b", Category: models.IssueCategoryQuality, Status: models.IssueStatusResolved},
			{ID: "c", Category: models.IssueCategorySafety, Status: models.IssueStatusOpen},
		},
	}

	m, err := ExtractQuality(snap, date(2024, 2, 1))
	require.NoError(t, err)

	require.Equal(t, 1, m.DefectCount)
	require.InDelta(t, 0.0005, m.DefectDensity, 1e-12)
}

func TestExtractQuality_MissingFloorAreaUsesDefault(t *testing.T) {
	snap := &models.ProjectSnapshot{
		Issues: []models.Issue{
			{ID: "a", Category: models.IssueCategoryQuality, Status: models.IssueStatusOpen},
		},
	}

	m, err := ExtractQuality(snap, date(2024, 2, 1))
	require.NoError(t, err)
	require.InDelta(t, 1.0/1000, m.DefectDensity, 1e-12)
}

func TestExtractQuality_ZeroInspectionsVacuousPass(t *testing.T) {
	m, err := ExtractQuality(&models.ProjectSnapshot{}, date(2024, 2, 1))
	require.NoError(t, err)
	require.Equal(t, 100.0, m.InspectionPassRate)
}

func TestExtractQuality_InspectionPassRate(t *testing.T) {
	snap := &models.ProjectSnapshot{
		Inspections: []models.Inspection{
			{ID: "a", Passed: true},
			{ID: "b", Passed: true},
			{ID: "c", Passed: false},
			{ID: "d", Passed: true},
		},
	}

	m, err := ExtractQuality(snap, date(2024, 2, 1))
	require.NoError(t, err)
	require.Equal(t, 75.0, m.InspectionPassRate)
}
