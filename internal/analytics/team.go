package analytics

import (
	"math"
	"time"

	"github.com/buildsight/backend/internal/storage/models"
)

// Capacity baseline: 40 hours/week over a 4-week window per member.
const memberCapacityHours = 40.0 * 4

const TrendStable = "stable"

// ExtractTeam derives headcount, utilization against the fixed capacity
// baseline, and a tasks-per-week productivity figure. The trend is always
// stable: there is no historical baseline to compare against.
func ExtractTeam(snap *models.ProjectSnapshot, now time.Time) (TeamMetrics, error) {
	m := TeamMetrics{ProductivityTrend: TrendStable}

	assignees := make(map[string]struct{})
	completed := 0
	for _, task := range snap.Tasks {
		if task.AssigneeID != "" {
			assignees[task.AssigneeID] = struct{}{}
		}
		if task.Status == models.TaskStatusCompleted {
			completed++
		}
	}
	m.TotalTeamMembers = len(assignees)

	var loggedHours float64
	for _, entry := range snap.TimeEntries {
		loggedHours += entry.Hours
	}

	if m.TotalTeamMembers > 0 {
		capacity := float64(m.TotalTeamMembers) * memberCapacityHours
		m.AverageUtilization = math.Min(100, 100*loggedHours/capacity)
	}

	m.TasksPerWeek = float64(completed) / 4

	return m, nil
}
