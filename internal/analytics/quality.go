package analytics

import (
	"math"
	"time"

	"github.com/buildsight/backend/internal/storage/models"
)

// defaultFloorAreaSqFt stands in when the project has no recorded floor area.
const defaultFloorAreaSqFt = 1000.0

// ExtractQuality counts open quality defects and the inspection pass rate.
// Zero inspections means a vacuous 100% pass rate.
func ExtractQuality(snap *models.ProjectSnapshot, now time.Time) (QualityMetrics, error) {
	var m QualityMetrics

	for _, issue := range snap.Issues {
		if issue.Category == models.IssueCategoryQuality && issue.Status == models.IssueStatusOpen {
			m.DefectCount++
		}
	}

	area := snap.Project.FloorAreaSqFt
	if area <= 0 {
		area = defaultFloorAreaSqFt
	}
	m.DefectDensity = float64(m.DefectCount) / math.Max(1, area)

	if len(snap.Inspections) == 0 {
		m.InspectionPassRate = 100
		return m, nil
	}

	passed := 0
	for _, ins := range snap.Inspections {
		if ins.Passed {
			passed++
		}
	}
	m.InspectionPassRate = 100 * float64(passed) / float64(len(snap.Inspections))

	return m, nil
}
