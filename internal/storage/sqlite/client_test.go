package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/buildsight/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.InitSchema())
	return client
}

func ts(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tsPtr(y int, m time.Month, d int) *time.Time {
	t := ts(y, m, d)
	return &t
}

func TestLoadProjectSnapshot_RoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	project := &models.Project{
		ID:                   "p1",
		Name:                 "Harbor Point Tower",
		Status:               models.ProjectStatusActive,
		OriginalBudget:       500000,
		CurrentBudget:        520000,
		SpentAmount:          310000,
		CompletionPercentage: 55,
		FloorAreaSqFt:        12000,
		EstimatedStartDate:   tsPtr(2024, 1, 1),
		ActualStartDate:      tsPtr(2024, 1, 8),
		EstimatedEndDate:     tsPtr(2024, 9, 1),
		CreatedAt:            ts(2023, 12, 1),
		UpdatedAt:            ts(2024, 2, 1),
	}
	require.NoError(t, client.InsertProject(ctx, project))

	require.NoError(t, client.InsertTask(ctx, &models.Task{
		ID: "t1", ProjectID: "p1", Title: "Pour foundation", Status: models.TaskStatusCompleted,
		AssigneeID: "u1", EstimatedHours: 40, CompletedAt: tsPtr(2024, 1, 20), CreatedAt: ts(2024, 1, 10),
	}))
	require.NoError(t, client.InsertTask(ctx, &models.Task{
		ID: "t2", ProjectID: "p1", Title: "Frame walls", Status: models.TaskStatusInProgress,
		EstimatedHours: 80, DueDate: tsPtr(2024, 3, 1), CreatedAt: ts(2024, 1, 15),
	}))
	require.NoError(t, client.InsertBudgetItem(ctx, &models.BudgetLineItem{
		ID: "b1", ProjectID: "p1", Category: "Concrete", SupplierID: "s1",
		EstimatedTotal: 50000, ActualTotal: 52000, CreatedAt: ts(2024, 1, 5),
	}))
	require.NoError(t, client.InsertInspection(ctx, &models.Inspection{
		ID: "ins1", ProjectID: "p1", Type: "structural", Passed: true, InspectedAt: ts(2024, 1, 25),
	}))
	require.NoError(t, client.InsertIssue(ctx, &models.Issue{
		ID: "i1", ProjectID: "p1", Category: models.IssueCategoryQuality,
		Status: models.IssueStatusOpen, Severity: "high", Title: "Crack in slab", CreatedAt: ts(2024, 1, 26),
	}))
	require.NoError(t, client.InsertTimeEntry(ctx, &models.TimeEntry{
		ID: "te1", ProjectID: "p1", UserID: "u1", Hours: 8, WorkedAt: ts(2024, 1, 12),
	}))
	require.NoError(t, client.InsertCommunication(ctx, &models.Communication{
		ID: "c1", ProjectID: "p1", Sender: "u2", Subject: "Inspection scheduled", SentAt: ts(2024, 1, 24),
	}))
	require.NoError(t, client.InsertDelivery(ctx, &models.Delivery{
		ID: "d1", ProjectID: "p1", SupplierID: "s1",
		PromisedAt: ts(2024, 1, 18), DeliveredAt: tsPtr(2024, 1, 17),
		QualityRating: 4.5, CostVariancePct: -2,
	}))

	snap, err := client.LoadProjectSnapshot(ctx, "p1")
	require.NoError(t, err)

	require.Equal(t, *project, snap.Project)

	require.Len(t, snap.Tasks, 2)
	require.Equal(t, "t1", snap.Tasks[0].ID)
	require.Equal(t, "u1", snap.Tasks[0].AssigneeID)
	require.Equal(t, "", snap.Tasks[1].AssigneeID)
	require.Nil(t, snap.Tasks[1].CompletedAt)
	require.Equal(t, ts(2024, 3, 1), *snap.Tasks[1].DueDate)

	require.Len(t, snap.BudgetItems, 1)
	require.Equal(t, "Concrete", snap.BudgetItems[0].Category)
	require.Equal(t, 52000.0, snap.BudgetItems[0].ActualTotal)

	require.Len(t, snap.Inspections, 1)
	require.True(t, snap.Inspections[0].Passed)

	require.Len(t, snap.Issues, 1)
	require.Equal(t, models.IssueCategoryQuality, snap.Issues[0].Category)

	require.Len(t, snap.TimeEntries, 1)
	require.Equal(t, 8.0, snap.TimeEntries[0].Hours)

	require.Len(t, snap.Communications, 1)
	require.Equal(t, "Inspection scheduled", snap.Communications[0].Subject)

	require.Len(t, snap.Deliveries, 1)
	require.Equal(t, ts(2024, 1, 17), *snap.Deliveries[0].DeliveredAt)
	require.Equal(t, 4.5, snap.Deliveries[0].QualityRating)
}

func TestLoadProjectSnapshot_NotFound(t *testing.T) {
	client := newTestClient(t)

	_, err := client.LoadProjectSnapshot(context.Background(), "missing")
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestUpsertAnalyticsSnapshot_LastWriterWins(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.InsertProject(ctx, &models.Project{
		ID: "p1", Name: "Harbor Point Tower", Status: models.ProjectStatusActive,
		CreatedAt: ts(2024, 1, 1), UpdatedAt: ts(2024, 1, 1),
	}))

	first := &models.AnalyticsSnapshot{
		ProjectID:        "p1",
		RunID:            "run-1",
		OverallRiskScore: 42,
		LastCalculated:   ts(2024, 2, 1),
	}
	require.NoError(t, client.UpsertAnalyticsSnapshot(ctx, "p1", first))

	second := &models.AnalyticsSnapshot{
		ProjectID:        "p1",
		RunID:            "run-2",
		OverallRiskScore: 55,
		DefectCount:      3,
		LastCalculated:   ts(2024, 2, 2),
	}
	require.NoError(t, client.UpsertAnalyticsSnapshot(ctx, "p1", second))

	got, err := client.GetAnalyticsSnapshot(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "run-2", got.RunID)
	require.Equal(t, 55.0, got.OverallRiskScore)
	require.Equal(t, 3, got.DefectCount)
	require.Equal(t, ts(2024, 2, 2), got.LastCalculated.UTC())
}

func TestGetAnalyticsSnapshot_NotFound(t *testing.T) {
	client := newTestClient(t)

	_, err := client.GetAnalyticsSnapshot(context.Background(), "p1")
	require.ErrorIs(t, err, ErrAnalyticsNotFound)
}
