package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/buildsight/backend/internal/storage/models"
	"github.com/buildsight/backend/pkg/logger"
)

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrAnalyticsNotFound = errors.New("analytics snapshot not found")
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		original_budget REAL NOT NULL DEFAULT 0,
		current_budget REAL NOT NULL DEFAULT 0,
		spent_amount REAL NOT NULL DEFAULT 0,
		completion_percentage REAL NOT NULL DEFAULT 0,
		floor_area_sqft REAL NOT NULL DEFAULT 0,
		estimated_start_date INTEGER,
		actual_start_date INTEGER,
		estimated_end_date INTEGER,
		actual_end_date INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		title TEXT NOT NULL,
		status TEXT NOT NULL,
		assignee_id TEXT,
		estimated_hours REAL NOT NULL DEFAULT 0,
		due_date INTEGER,
		completed_at INTEGER,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id);

	CREATE TABLE IF NOT EXISTS budget_items (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		category TEXT,
		description TEXT,
		supplier_id TEXT,
		estimated_total REAL NOT NULL DEFAULT 0,
		actual_total REAL NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_budget_project ON budget_items(project_id);
	CREATE INDEX IF NOT EXISTS idx_budget_supplier ON budget_items(supplier_id);

	CREATE TABLE IF NOT EXISTS inspections (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		type TEXT,
		passed INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		inspected_at INTEGER NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_inspections_project ON inspections(project_id);

	CREATE TABLE IF NOT EXISTS issues (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		category TEXT NOT NULL,
		status TEXT NOT NULL,
		severity TEXT,
		title TEXT,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_issues_project ON issues(project_id);
	CREATE INDEX IF NOT EXISTS idx_issues_status ON issues(status);

	CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		hours REAL NOT NULL DEFAULT 0,
		worked_at INTEGER NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_time_project ON time_entries(project_id);

	CREATE TABLE IF NOT EXISTS communications (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		sender TEXT,
		subject TEXT,
		sent_at INTEGER NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_comms_project ON communications(project_id);

	CREATE TABLE IF NOT EXISTS deliveries (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		supplier_id TEXT NOT NULL,
		promised_at INTEGER NOT NULL,
		delivered_at INTEGER,
		quality_rating REAL NOT NULL DEFAULT 0,
		cost_variance_pct REAL NOT NULL DEFAULT 0,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_deliveries_project ON deliveries(project_id);

	CREATE TABLE IF NOT EXISTS project_analytics (
		project_id TEXT PRIMARY KEY,
		snapshot TEXT NOT NULL,
		overall_risk_score REAL NOT NULL,
		last_calculated INTEGER NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

// LoadProjectSnapshot reads the project row and all of its child collections.
// Returns ErrProjectNotFound when the id does not resolve.
func (c *Client) LoadProjectSnapshot(ctx context.Context, projectID string) (*models.ProjectSnapshot, error) {
	project, err := c.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	snap := &models.ProjectSnapshot{Project: *project}

	if snap.Tasks, err = c.getTasks(ctx, projectID); err != nil {
		return nil, err
	}
	if snap.BudgetItems, err = c.getBudgetItems(ctx, projectID); err != nil {
		return nil, err
	}
	if snap.Inspections, err = c.getInspections(ctx, projectID); err != nil {
		return nil, err
	}
	if snap.Issues, err = c.getIssues(ctx, projectID); err != nil {
		return nil, err
	}
	if snap.TimeEntries, err = c.getTimeEntries(ctx, projectID); err != nil {
		return nil, err
	}
	if snap.Communications, err = c.getCommunications(ctx, projectID); err != nil {
		return nil, err
	}
	if snap.Deliveries, err = c.getDeliveries(ctx, projectID); err != nil {
		return nil, err
	}

	logger.Debug("Project snapshot loaded",
		zap.String("project_id", projectID),
		zap.Int("tasks", len(snap.Tasks)),
		zap.Int("budget_items", len(snap.BudgetItems)),
	)

	return snap, nil
}

func (c *Client) getProject(ctx context.Context, id string) (*models.Project, error) {
	query := `
		SELECT id, name, status, original_budget, current_budget, spent_amount,
			completion_percentage, floor_area_sqft, estimated_start_date,
			actual_start_date, estimated_end_date, actual_end_date, created_at, updated_at
		FROM projects WHERE id = ?
	`

	var p models.Project
	var estStart, actStart, estEnd, actEnd sql.NullInt64
	var createdAt, updatedAt int64

	err := c.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Status,
		&p.OriginalBudget,
		&p.CurrentBudget,
		&p.SpentAmount,
		&p.CompletionPercentage,
		&p.FloorAreaSqFt,
		&estStart,
		&actStart,
		&estEnd,
		&actEnd,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	p.EstimatedStartDate = unixPtr(estStart)
	p.ActualStartDate = unixPtr(actStart)
	p.EstimatedEndDate = unixPtr(estEnd)
	p.ActualEndDate = unixPtr(actEnd)
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	p.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	return &p, nil
}

func (c *Client) getTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	query := `
		SELECT id, title, status, COALESCE(assignee_id, ''), estimated_hours, due_date, completed_at, created_at
		FROM tasks WHERE project_id = ? ORDER BY created_at, id
	`

	rows, err := c.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t := models.Task{ProjectID: projectID}
		var due, completed sql.NullInt64
		var createdAt int64

		err := rows.Scan(&t.ID, &t.Title, &t.Status, &t.AssigneeID, &t.EstimatedHours, &due, &completed, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		t.DueDate = unixPtr(due)
		t.CompletedAt = unixPtr(completed)
		t.CreatedAt = time.Unix(createdAt, 0).UTC()
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

func (c *Client) getBudgetItems(ctx context.Context, projectID string) ([]models.BudgetLineItem, error) {
	query := `
		SELECT id, COALESCE(category, ''), COALESCE(description, ''), COALESCE(supplier_id, ''),
			estimated_total, actual_total, created_at
		FROM budget_items WHERE project_id = ? ORDER BY created_at, id
	`

	rows, err := c.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget items: %w", err)
	}
	defer rows.Close()

	var items []models.BudgetLineItem
	for rows.Next() {
		item := models.BudgetLineItem{ProjectID: projectID}
		var createdAt int64

		err := rows.Scan(&item.ID, &item.Category, &item.Description, &item.SupplierID,
			&item.EstimatedTotal, &item.ActualTotal, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget item: %w", err)
		}

		item.CreatedAt = time.Unix(createdAt, 0).UTC()
		items = append(items, item)
	}

	return items, rows.Err()
}

func (c *Client) getInspections(ctx context.Context, projectID string) ([]models.Inspection, error) {
	query := `
		SELECT id, COALESCE(type, ''), passed, COALESCE(notes, ''), inspected_at
		FROM inspections WHERE project_id = ? ORDER BY inspected_at, id
	`

	rows, err := c.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inspections: %w", err)
	}
	defer rows.Close()

	var inspections []models.Inspection
	for rows.Next() {
		ins := models.Inspection{ProjectID: projectID}
		var passed int
		var inspectedAt int64

		err := rows.Scan(&ins.ID, &ins.Type, &passed, &ins.Notes, &inspectedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inspection: %w", err)
		}

		ins.Passed = passed != 0
		ins.InspectedAt = time.Unix(inspectedAt, 0).UTC()
		inspections = append(inspections, ins)
	}

	return inspections, rows.Err()
}

func (c *Client) getIssues(ctx context.Context, projectID string) ([]models.Issue, error) {
	query := `
		SELECT id, category, status, COALESCE(severity, ''), COALESCE(title, ''), created_at
		FROM issues WHERE project_id = ? ORDER BY created_at, id
	`

	rows, err := c.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get issues: %w", err)
	}
	defer rows.Close()

	var issues []models.Issue
	for rows.Next() {
		issue := models.Issue{ProjectID: projectID}
		var createdAt int64

		err := rows.Scan(&issue.ID, &issue.Category, &issue.Status, &issue.Severity, &issue.Title, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}

		issue.CreatedAt = time.Unix(createdAt, 0).UTC()
		issues = append(issues, issue)
	}

	return issues, rows.Err()
}

func (c *Client) getTimeEntries(ctx context.Context, projectID string) ([]models.TimeEntry, error) {
	query := `
		SELECT id, user_id, hours, worked_at
		FROM time_entries WHERE project_id = ? ORDER BY worked_at, id
	`

	rows, err := c.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get time entries: %w", err)
	}
	defer rows.Close()

	var entries []models.TimeEntry
	for rows.Next() {
		entry := models.TimeEntry{ProjectID: projectID}
		var workedAt int64

		err := rows.Scan(&entry.ID, &entry.UserID, &entry.Hours, &workedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}

		entry.WorkedAt = time.Unix(workedAt, 0).UTC()
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (c *Client) getCommunications(ctx context.Context, projectID string) ([]models.Communication, error) {
	query := `
		SELECT id, COALESCE(sender, ''), COALESCE(subject, ''), sent_at
		FROM communications WHERE project_id = ? ORDER BY sent_at, id
	`

	rows, err := c.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get communications: %w", err)
	}
	defer rows.Close()

	var comms []models.Communication
	for rows.Next() {
		comm := models.Communication{ProjectID: projectID}
		var sentAt int64

		err := rows.Scan(&comm.ID, &comm.Sender, &comm.Subject, &sentAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan communication: %w", err)
		}

		comm.SentAt = time.Unix(sentAt, 0).UTC()
		comms = append(comms, comm)
	}

	return comms, rows.Err()
}

func (c *Client) getDeliveries(ctx context.Context, projectID string) ([]models.Delivery, error) {
	query := `
		SELECT id, supplier_id, promised_at, delivered_at, quality_rating, cost_variance_pct
		FROM deliveries WHERE project_id = ? ORDER BY promised_at, id
	`

	rows, err := c.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []models.Delivery
	for rows.Next() {
		d := models.Delivery{ProjectID: projectID}
		var promisedAt int64
		var deliveredAt sql.NullInt64

		err := rows.Scan(&d.ID, &d.SupplierID, &promisedAt, &deliveredAt, &d.QualityRating, &d.CostVariancePct)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}

		d.PromisedAt = time.Unix(promisedAt, 0).UTC()
		d.DeliveredAt = unixPtr(deliveredAt)
		deliveries = append(deliveries, d)
	}

	return deliveries, rows.Err()
}

// UpsertAnalyticsSnapshot replaces the single analytics row for a project.
// Last writer wins; there is no version check.
func (c *Client) UpsertAnalyticsSnapshot(ctx context.Context, projectID string, snap *models.AnalyticsSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal analytics snapshot: %w", err)
	}

	query := `
		INSERT INTO project_analytics (project_id, snapshot, overall_risk_score, last_calculated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
			snapshot = excluded.snapshot,
			overall_risk_score = excluded.overall_risk_score,
			last_calculated = excluded.last_calculated
	`

	_, err = c.db.ExecContext(ctx, query, projectID, string(data), snap.OverallRiskScore, snap.LastCalculated.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert analytics snapshot: %w", err)
	}

	logger.Debug("Analytics snapshot persisted",
		zap.String("project_id", projectID),
		zap.Float64("overall_risk", snap.OverallRiskScore),
	)

	return nil
}

func (c *Client) GetAnalyticsSnapshot(ctx context.Context, projectID string) (*models.AnalyticsSnapshot, error) {
	query := `SELECT snapshot FROM project_analytics WHERE project_id = ?`

	var data string
	err := c.db.QueryRowContext(ctx, query, projectID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrAnalyticsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analytics snapshot: %w", err)
	}

	var snap models.AnalyticsSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analytics snapshot: %w", err)
	}

	return &snap, nil
}

func unixPtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
