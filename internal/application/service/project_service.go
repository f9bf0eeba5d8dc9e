package service

import (
	"context"
	"fmt"

	"github.com/garyjia/project-approval/internal/application/port"
	"github.com/garyjia/project-approval/internal/domain/approval"
	"github.com/garyjia/project-approval/internal/domain/entity"
	"github.com/garyjia/project-approval/pkg/utils"
)

// ProjectService manages project records outside the approval state machine
type ProjectService struct {
	projectRepo port.ProjectRepository
	logger      Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo port.ProjectRepository, logger Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// Create creates a project in DRAFT owned by the acting user
func (s *ProjectService) Create(ctx context.Context, actorID int64, project *entity.Project) (*entity.Project, error) {
	project.Name = utils.SanitizeString(project.Name)
	project.Description = utils.SanitizeString(project.Description)
	if project.Name == "" {
		return nil, fmt.Errorf("%w: project name is required", approval.ErrValidation)
	}
	if project.RequestedAmount < 0 {
		return nil, fmt.Errorf("%w: requested amount may not be negative", approval.ErrValidation)
	}

	project.ExecutorID = actorID
	project.ApplicationStatus = approval.StatusDraft
	project.FinalApprovalStatus = approval.VotePending
	project.ReviewerApprovals = entity.ReviewerApprovals{}
	if project.Status == "" {
		project.Status = entity.ProjectStatusPlanning
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		s.logger.Error("Failed to create project", "error", err)
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.logger.Info("Project created", "project_id", project.ID, "executor_id", actorID)
	return project, nil
}

// Get retrieves a project by ID
func (s *ProjectService) Get(ctx context.Context, projectID int64) (*entity.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %d", approval.ErrNotFound, projectID)
	}
	return project, nil
}

// UpdateDraft updates mutable fields while the project is still a draft
func (s *ProjectService) UpdateDraft(ctx context.Context, actorID int64, projectID int64, name, description string, requestedAmount int64, reviewerID, finalApproverID *int64) (*entity.Project, error) {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project.ExecutorID != actorID {
		return nil, fmt.Errorf("%w: only the executor may edit the project", approval.ErrForbidden)
	}
	if project.ApplicationStatus != approval.StatusDraft {
		return nil, fmt.Errorf("%w: only drafts are editable", approval.ErrInvalidState)
	}

	if name = utils.SanitizeString(name); name != "" {
		project.Name = name
	}
	if description = utils.SanitizeString(description); description != "" {
		project.Description = description
	}
	if requestedAmount > 0 {
		project.RequestedAmount = requestedAmount
	}
	if reviewerID != nil {
		project.ReviewerID = reviewerID
	}
	if finalApproverID != nil {
		project.FinalApproverUserID = finalApproverID
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

// SetPhase updates the post-approval project phase
func (s *ProjectService) SetPhase(ctx context.Context, actorID, projectID int64, phase string) error {
	switch phase {
	case entity.PhaseMVPDevelopment, entity.PhaseBusinessLaunch, entity.PhaseBusinessStabilization:
	default:
		return fmt.Errorf("%w: unknown project phase %q", approval.ErrValidation, phase)
	}

	project, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if project.ExecutorID != actorID {
		return fmt.Errorf("%w: only the executor may change the phase", approval.ErrForbidden)
	}
	if project.ApplicationStatus != approval.StatusApproved {
		return fmt.Errorf("%w: phase is meaningful only once approved", approval.ErrInvalidState)
	}

	project.ProjectPhase = phase
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	s.logger.Info("Project phase updated", "project_id", projectID, "phase", phase)
	return nil
}

// List returns a paginated project listing
func (s *ProjectService) List(ctx context.Context, limit, offset int) ([]*entity.Project, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	projects, err := s.projectRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}
