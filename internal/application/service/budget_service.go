package service

import (
	"context"
	"fmt"
	"time"

	"github.com/garyjia/project-approval/internal/application/port"
	"github.com/garyjia/project-approval/internal/domain/approval"
	"github.com/garyjia/project-approval/internal/domain/entity"
	"github.com/garyjia/project-approval/pkg/utils"
)

// BudgetService manages monthly budget entries and cumulative usage.
// Ledger writes are unlocked only once the project is approved.
type BudgetService struct {
	projectRepo port.ProjectRepository
	budgetRepo  port.BudgetRepository
	logger      Logger
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(projectRepo port.ProjectRepository, budgetRepo port.BudgetRepository, logger Logger) *BudgetService {
	return &BudgetService{
		projectRepo: projectRepo,
		budgetRepo:  budgetRepo,
		logger:      logger,
	}
}

// Upsert writes the (project, year, month) budget entry. The annual
// opex+capex planned budget must not exceed the project's requested
// amount; the boundary is inclusive.
func (s *BudgetService) Upsert(ctx context.Context, actorID int64, entry *entity.BudgetEntry) error {
	project, err := s.getProject(ctx, entry.ProjectID)
	if err != nil {
		return err
	}

	if project.ExecutorID != actorID {
		return fmt.Errorf("%w: only the executor may record budget entries", approval.ErrForbidden)
	}

	if project.ApplicationStatus != approval.StatusApproved {
		return fmt.Errorf("%w: budget entries require an approved project", approval.ErrInvalidState)
	}

	if err := utils.ValidateYearMonth(entry.Year, entry.Month); err != nil {
		return fmt.Errorf("%w: %v", approval.ErrValidation, err)
	}
	if entry.OpexBudget < 0 || entry.CapexBudget < 0 || entry.OpexUsed < 0 || entry.CapexUsed < 0 {
		return fmt.Errorf("%w: amounts must be non-negative", approval.ErrValidation)
	}

	yearEntries, err := s.budgetRepo.ListByProjectYear(ctx, entry.ProjectID, entry.Year)
	if err != nil {
		return fmt.Errorf("list year entries: %w", err)
	}

	annual := entry.OpexBudget + entry.CapexBudget
	for _, e := range yearEntries {
		if e.Month == entry.Month {
			continue // replaced by this upsert
		}
		annual += e.OpexBudget + e.CapexBudget
	}
	if annual > project.RequestedAmount {
		return fmt.Errorf("%w: annual budget %d exceeds requested amount %d",
			approval.ErrValidation, annual, project.RequestedAmount)
	}

	if err := s.budgetRepo.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("upsert budget entry: %w", err)
	}

	s.logger.Info("Budget entry recorded",
		"project_id", entry.ProjectID, "year", entry.Year, "month", entry.Month)
	return nil
}

// Delete removes a budget entry. Deletion is an explicit, authorized
// action, never implicit.
func (s *BudgetService) Delete(ctx context.Context, actorID, projectID int64, year, month int) error {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return err
	}

	if project.ExecutorID != actorID {
		return fmt.Errorf("%w: only the executor may delete budget entries", approval.ErrForbidden)
	}

	existing, err := s.budgetRepo.GetByMonth(ctx, projectID, year, month)
	if err != nil {
		return fmt.Errorf("get budget entry: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("%w: budget entry %d-%02d", approval.ErrNotFound, year, month)
	}

	if err := s.budgetRepo.Delete(ctx, projectID, year, month); err != nil {
		return fmt.Errorf("delete budget entry: %w", err)
	}

	s.logger.Info("Budget entry deleted", "project_id", projectID, "year", year, "month", month)
	return nil
}

// Summary aggregates all entries up to and including the current
// year/month. Remaining figures may go negative; overruns are surfaced,
// not blocked.
func (s *BudgetService) Summary(ctx context.Context, projectID int64) (*entity.BudgetSummary, error) {
	if _, err := s.getProject(ctx, projectID); err != nil {
		return nil, err
	}

	entries, err := s.budgetRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list budget entries: %w", err)
	}

	now := time.Now()
	return summarize(projectID, entries, now.Year(), int(now.Month())), nil
}

// summarize folds entries through the given year/month into cumulative
// totals. Split out so the aggregation is testable without a clock.
func summarize(projectID int64, entries []*entity.BudgetEntry, year, month int) *entity.BudgetSummary {
	summary := &entity.BudgetSummary{
		ProjectID:    projectID,
		ThroughYear:  year,
		ThroughMonth: month,
	}

	for _, e := range entries {
		if e.Year > year || (e.Year == year && e.Month > month) {
			continue
		}
		summary.OpexBudgetTotal += e.OpexBudget
		summary.CapexBudgetTotal += e.CapexBudget
		summary.OpexUsedTotal += e.OpexUsed
		summary.CapexUsedTotal += e.CapexUsed
		summary.Entries = append(summary.Entries, e)
	}

	summary.OpexRemaining = summary.OpexBudgetTotal - summary.OpexUsedTotal
	summary.CapexRemaining = summary.CapexBudgetTotal - summary.CapexUsedTotal
	return summary
}

func (s *BudgetService) getProject(ctx context.Context, projectID int64) (*entity.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %d", approval.ErrNotFound, projectID)
	}
	return project, nil
}
