package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/buildsight/backend/internal/storage/models"
)

// Insert helpers used by seeding tooling and tests. The analytics engine
// itself only reads; records are produced by the surrounding application.

func (c *Client) InsertProject(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO projects (id, name, status, original_budget, current_budget, spent_amount,
			completion_percentage, floor_area_sqft, estimated_start_date, actual_start_date,
			estimated_end_date, actual_end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Status, p.OriginalBudget, p.CurrentBudget, p.SpentAmount,
		p.CompletionPercentage, p.FloorAreaSqFt,
		unixOrNil(p.EstimatedStartDate), unixOrNil(p.ActualStartDate),
		unixOrNil(p.EstimatedEndDate), unixOrNil(p.ActualEndDate),
		p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

func (c *Client) InsertTask(ctx context.Context, t *models.Task) error {
	query := `
		INSERT INTO tasks (id, project_id, title, status, assignee_id, estimated_hours, due_date, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.ExecContext(ctx, query,
		t.ID, t.ProjectID, t.Title, t.Status, nullIfEmpty(t.AssigneeID), t.EstimatedHours,
		unixOrNil(t.DueDate), unixOrNil(t.CompletedAt), t.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (c *Client) InsertBudgetItem(ctx context.Context, item *models.BudgetLineItem) error {
	query := `
		INSERT INTO budget_items (id, project_id, category, description, supplier_id, estimated_total, actual_total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.ExecContext(ctx, query,
		item.ID, item.ProjectID, nullIfEmpty(item.Category), item.Description,
		nullIfEmpty(item.SupplierID), item.EstimatedTotal, item.ActualTotal, item.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert budget item: %w", err)
	}
	return nil
}

func (c *Client) InsertInspection(ctx context.Context, ins *models.Inspection) error {
	query := `
		INSERT INTO inspections (id, project_id, type, passed, notes, inspected_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	passed := 0
	if ins.Passed {
		passed = 1
	}

	_, err := c.db.ExecContext(ctx, query,
		ins.ID, ins.ProjectID, ins.Type, passed, ins.Notes, ins.InspectedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert inspection: %w", err)
	}
	return nil
}

func (c *Client) InsertIssue(ctx context.Context, issue *models.Issue) error {
	query := `
		INSERT INTO issues (id, project_id, category, status, severity, title, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.ExecContext(ctx, query,
		issue.ID, issue.ProjectID, issue.Category, issue.Status, issue.Severity, issue.Title, issue.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert issue: %w", err)
	}
	return nil
}

func (c *Client) InsertTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	query := `
		INSERT INTO time_entries (id, project_id, user_id, hours, worked_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := c.db.ExecContext(ctx, query,
		entry.ID, entry.ProjectID, entry.UserID, entry.Hours, entry.WorkedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert time entry: %w", err)
	}
	return nil
}

func (c *Client) InsertCommunication(ctx context.Context, comm *models.Communication) error {
	query := `
		INSERT INTO communications (id, project_id, sender, subject, sent_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := c.db.ExecContext(ctx, query,
		comm.ID, comm.ProjectID, comm.Sender, comm.Subject, comm.SentAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert communication: %w", err)
	}
	return nil
}

func (c *Client) InsertDelivery(ctx context.Context, d *models.Delivery) error {
	query := `
		INSERT INTO deliveries (id, project_id, supplier_id, promised_at, delivered_at, quality_rating, cost_variance_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.ExecContext(ctx, query,
		d.ID, d.ProjectID, d.SupplierID, d.PromisedAt.Unix(), unixOrNil(d.DeliveredAt),
		d.QualityRating, d.CostVariancePct,
	)
	if err != nil {
		return fmt.Errorf("failed to insert delivery: %w", err)
	}
	return nil
}

func unixOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
