package port

import (
	"context"
	"time"

	"github.com/garyjia/project-approval/internal/domain/approval"
	"github.com/garyjia/project-approval/internal/domain/entity"
)

// ProjectRepository defines persistence operations for Project
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id int64) (*entity.Project, error)
	Update(ctx context.Context, project *entity.Project) error
	UpdateApplicationStatus(ctx context.Context, id int64, status approval.Status) error
	SetApproved(ctx context.Context, id int64, comment string, approvedAt time.Time) error
	SetFinalRejected(ctx context.Context, id int64, comment string) error
	SetAnalysis(ctx context.Context, id int64, extractedText, payload string, analyzedAt time.Time) error

	// CompareAndSwapApprovals writes the new approval map only if the stored
	// column still equals prevRaw. Returns false (and no error) when the
	// predicate does not match, so the caller can re-read and retry.
	CompareAndSwapApprovals(ctx context.Context, id int64, prevRaw, nextRaw string) (bool, error)

	// ResetForResubmission clears all reviewer votes and the final verdict,
	// records the supplementary note and moves the project back to draft.
	ResetForResubmission(ctx context.Context, id int64, note string) error

	List(ctx context.Context, limit, offset int) ([]*entity.Project, error)
}

// ReviewerRepository defines persistence operations for reviewer assignments
type ReviewerRepository interface {
	Assign(ctx context.Context, projectID int64, reviewerIDs []int64) error
	ListByProject(ctx context.Context, projectID int64) ([]int64, error)
	IsAssigned(ctx context.Context, projectID, userID int64) (bool, error)
}

// RouteRepository defines read operations for approval routes
type RouteRepository interface {
	ListActive(ctx context.Context) ([]*entity.ApprovalRoute, error)
}

// BudgetRepository defines persistence operations for budget entries
type BudgetRepository interface {
	Upsert(ctx context.Context, entry *entity.BudgetEntry) error
	GetByMonth(ctx context.Context, projectID int64, year, month int) (*entity.BudgetEntry, error)
	ListByProject(ctx context.Context, projectID int64) ([]*entity.BudgetEntry, error)
	ListByProjectYear(ctx context.Context, projectID int64, year int) ([]*entity.BudgetEntry, error)
	Delete(ctx context.Context, projectID int64, year, month int) error
}

// KPIRepository defines persistence operations for KPI reports
type KPIRepository interface {
	Create(ctx context.Context, report *entity.KPIReport) error
	Update(ctx context.Context, report *entity.KPIReport) error
	GetByType(ctx context.Context, projectID int64, reportType entity.ReportType) (*entity.KPIReport, error)
	ListByProject(ctx context.Context, projectID int64) ([]*entity.KPIReport, error)
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
}

// TransactionManager runs a function within a store transaction
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
