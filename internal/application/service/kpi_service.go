package service

import (
	"context"
	"fmt"

	"github.com/garyjia/project-approval/internal/application/port"
	"github.com/garyjia/project-approval/internal/domain/approval"
	"github.com/garyjia/project-approval/internal/domain/entity"
	"github.com/garyjia/project-approval/internal/domain/tier"
)

// RequiredReportsView lists the reporting obligations for a project's tier
type RequiredReportsView struct {
	ProjectID          int64               `json:"project_id"`
	Tier               tier.Tier           `json:"tier"`
	RequiredTypes      []entity.ReportType `json:"required_types"`
	SemiAnnualRequired bool                `json:"semi_annual_required"`
}

// KPIService manages KPI reports gated by approval status and amount tier
type KPIService struct {
	projectRepo  port.ProjectRepository
	kpiRepo      port.KPIRepository
	reviewerRepo port.ReviewerRepository
	userRepo     port.UserRepository
	logger       Logger
}

// NewKPIService creates a new KPIService
func NewKPIService(
	projectRepo port.ProjectRepository,
	kpiRepo port.KPIRepository,
	reviewerRepo port.ReviewerRepository,
	userRepo port.UserRepository,
	logger Logger,
) *KPIService {
	return &KPIService{
		projectRepo:  projectRepo,
		kpiRepo:      kpiRepo,
		reviewerRepo: reviewerRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// Save creates or updates the (project, report_type) KPI report after
// checking the status/tier gate
func (s *KPIService) Save(ctx context.Context, actorID int64, report *entity.KPIReport) error {
	project, err := s.getProject(ctx, report.ProjectID)
	if err != nil {
		return err
	}

	if project.ExecutorID != actorID {
		return fmt.Errorf("%w: only the executor may write KPI reports", approval.ErrForbidden)
	}

	if !report.ReportType.IsValid() {
		return fmt.Errorf("%w: unknown report type %q", approval.ErrValidation, report.ReportType)
	}
	if report.VerificationContent == "" {
		return fmt.Errorf("%w: verification content is required", approval.ErrValidation)
	}

	if err := checkReportGate(project, report.ReportType); err != nil {
		return err
	}

	existing, err := s.kpiRepo.GetByType(ctx, report.ProjectID, report.ReportType)
	if err != nil {
		return fmt.Errorf("get report: %w", err)
	}

	if existing != nil {
		report.ID = existing.ID
		if err := s.kpiRepo.Update(ctx, report); err != nil {
			return fmt.Errorf("update report: %w", err)
		}
	} else {
		if err := s.kpiRepo.Create(ctx, report); err != nil {
			return fmt.Errorf("create report: %w", err)
		}
	}

	s.logger.Info("KPI report saved",
		"project_id", report.ProjectID, "report_type", report.ReportType.String())
	return nil
}

// checkReportGate enforces which report types may be written in which
// application status:
//   - mandatory pre-approval types (per tier): SUBMITTED only
//   - semi_annual: APPROVED only, over_500m tier only
//   - mvp_completion: APPROVED only
//
// Writing outside the allowed status is Forbidden.
func checkReportGate(project *entity.Project, rt entity.ReportType) error {
	switch rt {
	case entity.ReportSemiAnnual:
		if !tier.SemiAnnualRequired(project.RequestedAmount) {
			return fmt.Errorf("%w: semi-annual reports apply to the over_500m tier only", approval.ErrValidation)
		}
		if project.ApplicationStatus != approval.StatusApproved {
			return fmt.Errorf("%w: semi-annual reports require an approved project", approval.ErrForbidden)
		}
	case entity.ReportMVPCompletion:
		if project.ApplicationStatus != approval.StatusApproved {
			return fmt.Errorf("%w: MVP completion reports require an approved project", approval.ErrForbidden)
		}
	default:
		if !tier.IsRequiredType(project.RequestedAmount, rt) {
			return fmt.Errorf("%w: report type %s is not required for this tier", approval.ErrValidation, rt)
		}
		if project.ApplicationStatus != approval.StatusSubmitted {
			return fmt.Errorf("%w: pre-approval reports may only be written while submitted", approval.ErrForbidden)
		}
	}
	return nil
}

// List returns the project's KPI reports. Readable by the executor,
// assigned reviewers, the final approver and admins.
func (s *KPIService) List(ctx context.Context, actorID, projectID int64) ([]*entity.KPIReport, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canRead(ctx, project, actorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: user %d may not read KPI reports for project %d",
			approval.ErrForbidden, actorID, projectID)
	}

	reports, err := s.kpiRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// RequiredTypes returns the tier-derived reporting obligations
func (s *KPIService) RequiredTypes(ctx context.Context, projectID int64) (*RequiredReportsView, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &RequiredReportsView{
		ProjectID:          projectID,
		Tier:               tier.ForAmount(project.RequestedAmount),
		RequiredTypes:      tier.RequiredReportTypes(project.RequestedAmount),
		SemiAnnualRequired: tier.SemiAnnualRequired(project.RequestedAmount),
	}, nil
}

func (s *KPIService) canRead(ctx context.Context, project *entity.Project, actorID int64) (bool, error) {
	if project.ExecutorID == actorID {
		return true, nil
	}
	if project.FinalApproverUserID != nil && *project.FinalApproverUserID == actorID {
		return true, nil
	}

	assigned, err := s.reviewerRepo.IsAssigned(ctx, project.ID, actorID)
	if err != nil {
		return false, fmt.Errorf("check assignment: %w", err)
	}
	if assigned {
		return true, nil
	}

	user, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return false, fmt.Errorf("get user: %w", err)
	}
	return user != nil && user.IsAdmin, nil
}

func (s *KPIService) getProject(ctx context.Context, projectID int64) (*entity.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %d", approval.ErrNotFound, projectID)
	}
	return project, nil
}
