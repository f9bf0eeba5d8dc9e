package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garyjia/project-approval/internal/application/port"
	"github.com/garyjia/project-approval/internal/domain/entity"
	"go.uber.org/zap"
)

// KPIRepository implements port.KPIRepository
type KPIRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewKPIRepository creates a new KPI report repository
func NewKPIRepository(db *sql.DB, logger *zap.Logger) port.KPIRepository {
	return &KPIRepository{
		db:     db,
		logger: logger,
	}
}

const kpiColumns = `
	id, project_id, report_type, verification_content, metrics_payload,
	numeric_result, planned_date, planned_budget, period_start, period_end,
	created_at, updated_at`

// Create inserts a new KPI report
func (r *KPIRepository) Create(ctx context.Context, report *entity.KPIReport) error {
	query := `
		INSERT INTO kpi_reports (
			project_id, report_type, verification_content, metrics_payload,
			numeric_result, planned_date, planned_budget, period_start, period_end
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		report.ProjectID,
		report.ReportType.String(),
		report.VerificationContent,
		report.MetricsPayload,
		report.NumericResult,
		report.PlannedDate,
		report.PlannedBudget,
		report.PeriodStart,
		report.PeriodEnd,
	)
	if err != nil {
		r.logger.Error("Failed to create KPI report",
			zap.Int64("project_id", report.ProjectID),
			zap.String("report_type", report.ReportType.String()), zap.Error(err))
		return fmt.Errorf("failed to create KPI report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	report.ID = id
	return nil
}

// Update overwrites an existing report's contents
func (r *KPIRepository) Update(ctx context.Context, report *entity.KPIReport) error {
	query := `
		UPDATE kpi_reports SET
			verification_content = ?, metrics_payload = ?, numeric_result = ?,
			planned_date = ?, planned_budget = ?, period_start = ?, period_end = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		report.VerificationContent,
		report.MetricsPayload,
		report.NumericResult,
		report.PlannedDate,
		report.PlannedBudget,
		report.PeriodStart,
		report.PeriodEnd,
		report.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update KPI report", zap.Int64("id", report.ID), zap.Error(err))
		return fmt.Errorf("failed to update KPI report: %w", err)
	}
	return nil
}

// GetByType retrieves the (project, report_type) report, nil when absent
func (r *KPIRepository) GetByType(ctx context.Context, projectID int64, reportType entity.ReportType) (*entity.KPIReport, error) {
	query := `SELECT` + kpiColumns + ` FROM kpi_reports WHERE project_id = ? AND report_type = ?`

	report, err := scanKPIReport(getExecutor(ctx, r.db).QueryRowContext(ctx, query, projectID, reportType.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get KPI report: %w", err)
	}
	return report, nil
}

// ListByProject returns all reports for a project
func (r *KPIRepository) ListByProject(ctx context.Context, projectID int64) ([]*entity.KPIReport, error) {
	query := `SELECT` + kpiColumns + ` FROM kpi_reports WHERE project_id = ? ORDER BY report_type`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to list KPI reports", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, fmt.Errorf("failed to list KPI reports: %w", err)
	}
	defer rows.Close()

	var reports []*entity.KPIReport
	for rows.Next() {
		report, err := scanKPIReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan KPI report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func scanKPIReport(row rowScanner) (*entity.KPIReport, error) {
	var report entity.KPIReport
	var reportType string
	var metrics sql.NullString
	var numericResult sql.NullFloat64
	var plannedBudget sql.NullInt64
	var plannedDate, periodStart, periodEnd sql.NullTime

	err := row.Scan(
		&report.ID,
		&report.ProjectID,
		&reportType,
		&report.VerificationContent,
		&metrics,
		&numericResult,
		&plannedDate,
		&plannedBudget,
		&periodStart,
		&periodEnd,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	report.ReportType = entity.ReportType(reportType)
	report.MetricsPayload = metrics.String
	if numericResult.Valid {
		report.NumericResult = &numericResult.Float64
	}
	if plannedBudget.Valid {
		report.PlannedBudget = &plannedBudget.Int64
	}
	if plannedDate.Valid {
		report.PlannedDate = &plannedDate.Time
	}
	if periodStart.Valid {
		report.PeriodStart = &periodStart.Time
	}
	if periodEnd.Valid {
		report.PeriodEnd = &periodEnd.Time
	}
	return &report, nil
}
