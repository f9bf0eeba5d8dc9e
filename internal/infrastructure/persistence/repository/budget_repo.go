package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garyjia/project-approval/internal/application/port"
	"github.com/garyjia/project-approval/internal/domain/entity"
	"go.uber.org/zap"
)

// BudgetRepository implements port.BudgetRepository
type BudgetRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBudgetRepository creates a new budget entry repository
func NewBudgetRepository(db *sql.DB, logger *zap.Logger) port.BudgetRepository {
	return &BudgetRepository{
		db:     db,
		logger: logger,
	}
}

const budgetColumns = `
	id, project_id, year, month, opex_budget, capex_budget,
	opex_used, capex_used, created_at, updated_at`

// Upsert writes the (project, year, month) entry. Concurrent writers to
// the same month are last-write-wins; the unique index keeps one row.
func (r *BudgetRepository) Upsert(ctx context.Context, entry *entity.BudgetEntry) error {
	query := `
		INSERT INTO budget_entries (
			project_id, year, month, opex_budget, capex_budget, opex_used, capex_used
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (project_id, year, month) DO UPDATE SET
			opex_budget = excluded.opex_budget,
			capex_budget = excluded.capex_budget,
			opex_used = excluded.opex_used,
			capex_used = excluded.capex_used,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		entry.ProjectID,
		entry.Year,
		entry.Month,
		entry.OpexBudget,
		entry.CapexBudget,
		entry.OpexUsed,
		entry.CapexUsed,
	)
	if err != nil {
		r.logger.Error("Failed to upsert budget entry",
			zap.Int64("project_id", entry.ProjectID),
			zap.Int("year", entry.Year), zap.Int("month", entry.Month), zap.Error(err))
		return fmt.Errorf("failed to upsert budget entry: %w", err)
	}
	return nil
}

// GetByMonth retrieves the entry for a specific month, nil when absent
func (r *BudgetRepository) GetByMonth(ctx context.Context, projectID int64, year, month int) (*entity.BudgetEntry, error) {
	query := `SELECT` + budgetColumns + ` FROM budget_entries WHERE project_id = ? AND year = ? AND month = ?`

	var e entity.BudgetEntry
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, projectID, year, month).Scan(
		&e.ID, &e.ProjectID, &e.Year, &e.Month,
		&e.OpexBudget, &e.CapexBudget, &e.OpexUsed, &e.CapexUsed,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget entry: %w", err)
	}
	return &e, nil
}

// ListByProject returns all entries for a project in chronological order
func (r *BudgetRepository) ListByProject(ctx context.Context, projectID int64) ([]*entity.BudgetEntry, error) {
	query := `SELECT` + budgetColumns + ` FROM budget_entries WHERE project_id = ? ORDER BY year, month`
	return r.list(ctx, query, projectID)
}

// ListByProjectYear returns a project's entries for one year
func (r *BudgetRepository) ListByProjectYear(ctx context.Context, projectID int64, year int) ([]*entity.BudgetEntry, error) {
	query := `SELECT` + budgetColumns + ` FROM budget_entries WHERE project_id = ? AND year = ? ORDER BY month`
	return r.list(ctx, query, projectID, year)
}

func (r *BudgetRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entity.BudgetEntry, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list budget entries", zap.Error(err))
		return nil, fmt.Errorf("failed to list budget entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.BudgetEntry
	for rows.Next() {
		var e entity.BudgetEntry
		err := rows.Scan(
			&e.ID, &e.ProjectID, &e.Year, &e.Month,
			&e.OpexBudget, &e.CapexBudget, &e.OpexUsed, &e.CapexUsed,
			&e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Delete removes one month's entry
func (r *BudgetRepository) Delete(ctx context.Context, projectID int64, year, month int) error {
	query := `DELETE FROM budget_entries WHERE project_id = ? AND year = ? AND month = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, projectID, year, month)
	if err != nil {
		r.logger.Error("Failed to delete budget entry",
			zap.Int64("project_id", projectID),
			zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return fmt.Errorf("failed to delete budget entry: %w", err)
	}
	return nil
}
