package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garyjia/project-approval/internal/application/port"
	"github.com/garyjia/project-approval/internal/domain/approval"
	"github.com/garyjia/project-approval/internal/domain/entity"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// casMaxAttempts bounds the optimistic-lock retry loop. Contention is
// human-approval-paced, so no backoff is needed between attempts.
const casMaxAttempts = 3

// ApprovalService drives a project's application status through its lifecycle
type ApprovalService interface {
	Submit(ctx context.Context, projectID, actorID int64) (*entity.Project, error)
	ReviewerApprove(ctx context.Context, projectID, actorID int64, comment string) error
	ReviewerReject(ctx context.Context, projectID, actorID int64, comment string) error
	FinalApprove(ctx context.Context, projectID, actorID int64, comment string) error
	FinalReject(ctx context.Context, projectID, actorID int64, comment string) error
	Resubmit(ctx context.Context, projectID, actorID int64, note string) error
	ApprovalStatus(ctx context.Context, projectID int64) (*entity.ApprovalStatusView, error)
}

type approvalServiceImpl struct {
	projectRepo  port.ProjectRepository
	reviewerRepo port.ReviewerRepository
	routing      *RoutingService
	txManager    port.TransactionManager
	notifier     *NotificationService
	logger       Logger
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	projectRepo port.ProjectRepository,
	reviewerRepo port.ReviewerRepository,
	routing *RoutingService,
	txManager port.TransactionManager,
	notifier *NotificationService,
	logger Logger,
) ApprovalService {
	return &approvalServiceImpl{
		projectRepo:  projectRepo,
		reviewerRepo: reviewerRepo,
		routing:      routing,
		txManager:    txManager,
		notifier:     notifier,
		logger:       logger,
	}
}

// Submit moves a draft project into SUBMITTED, assigning reviewers from the
// resolved route (or the project's explicit reviewer as a degenerate route)
func (s *approvalServiceImpl) Submit(ctx context.Context, projectID, actorID int64) (*entity.Project, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project.ExecutorID != actorID {
		return nil, fmt.Errorf("%w: only the executor may submit", approval.ErrForbidden)
	}

	if !approval.CanFire(project.ApplicationStatus, approval.TriggerSubmit) {
		return nil, fmt.Errorf("%w: cannot submit from %s", approval.ErrInvalidState, project.ApplicationStatus)
	}

	if project.RequestedAmount <= 0 {
		return nil, fmt.Errorf("%w: requested amount must be positive", approval.ErrValidation)
	}

	route, err := s.resolveReviewers(ctx, project)
	if err != nil {
		return nil, err
	}

	next, err := approval.Next(project.ApplicationStatus, approval.TriggerSubmit)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.reviewerRepo.Assign(txCtx, project.ID, route.ReviewerIDs); err != nil {
			return fmt.Errorf("assign reviewers: %w", err)
		}

		project.ApplicationStatus = next
		project.FinalApproverUserID = &route.FinalApproverUserID
		project.FinalApprovalStatus = approval.VotePending
		project.ReviewerApprovals = entity.ReviewerApprovals{}
		if err := s.projectRepo.Update(txCtx, project); err != nil {
			return fmt.Errorf("update project: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to submit project", "error", err, "project_id", projectID)
		return nil, err
	}

	s.logger.Info("Project submitted",
		"project_id", project.ID,
		"reviewers", len(route.ReviewerIDs),
		"final_approver", route.FinalApproverUserID)

	s.notifier.ProjectSubmitted(ctx, project, route.ReviewerIDs)
	return project, nil
}

// resolveReviewers resolves the route for the project's amount, falling back
// to the project's explicit reviewer/final-approver pair when no route is
// configured. Only a missing route triggers the fallback; a store failure
// surfaces to the caller.
func (s *approvalServiceImpl) resolveReviewers(ctx context.Context, project *entity.Project) (*entity.ResolvedRoute, error) {
	route, err := s.routing.Resolve(ctx, project.RequestedAmount)
	if err == nil {
		return route, nil
	}
	if !errors.Is(err, approval.ErrNotFound) {
		return nil, fmt.Errorf("resolve route: %w", err)
	}

	if project.ReviewerID != nil && project.FinalApproverUserID != nil {
		return &entity.ResolvedRoute{
			ReviewerIDs:         []int64{*project.ReviewerID},
			FinalApproverUserID: *project.FinalApproverUserID,
		}, nil
	}

	return nil, fmt.Errorf("%w: no reviewer resolvable for amount %d", approval.ErrValidation, project.RequestedAmount)
}

// ReviewerApprove records an approval vote for an assigned reviewer
func (s *approvalServiceImpl) ReviewerApprove(ctx context.Context, projectID, actorID int64, comment string) error {
	return s.reviewerVote(ctx, projectID, actorID, approval.VoteApproved, comment)
}

// ReviewerReject records a rejection vote. The first rejection immediately
// sets the project REJECTED without waiting for the remaining reviewers.
func (s *approvalServiceImpl) ReviewerReject(ctx context.Context, projectID, actorID int64, comment string) error {
	if comment == "" {
		return fmt.Errorf("%w: rejection requires a comment", approval.ErrValidation)
	}
	return s.reviewerVote(ctx, projectID, actorID, approval.VoteRejected, comment)
}

// reviewerVote is the shared compare-and-swap vote path. Each attempt
// re-reads the project so the merge is always against the latest map.
func (s *approvalServiceImpl) reviewerVote(ctx context.Context, projectID, actorID int64, verdict approval.VoteStatus, comment string) error {
	for attempt := 1; attempt <= casMaxAttempts; attempt++ {
		project, err := s.getProject(ctx, projectID)
		if err != nil {
			return err
		}

		if project.ApplicationStatus != approval.StatusSubmitted {
			return fmt.Errorf("%w: project is %s, votes require SUBMITTED", approval.ErrInvalidState, project.ApplicationStatus)
		}

		assigned, err := s.reviewerRepo.IsAssigned(ctx, projectID, actorID)
		if err != nil {
			return fmt.Errorf("check assignment: %w", err)
		}
		if !assigned {
			return fmt.Errorf("%w: user %d is not an assigned reviewer", approval.ErrForbidden, actorID)
		}

		if project.ReviewerApprovals.HasVoted(actorID) {
			return fmt.Errorf("%w: reviewer %d", approval.ErrAlreadyVoted, actorID)
		}

		next := project.ReviewerApprovals.Clone()
		next[actorID] = entity.ReviewerVote{
			Status:        verdict,
			ReviewComment: comment,
			UpdatedAt:     time.Now().UTC(),
		}

		nextRaw, err := next.Marshal()
		if err != nil {
			return fmt.Errorf("marshal approvals: %w", err)
		}

		var swapped bool
		if verdict == approval.VoteRejected {
			rejected, err := approval.Next(project.ApplicationStatus, approval.TriggerReviewerReject)
			if err != nil {
				return err
			}

			// The vote and the status flip commit together or not at all;
			// a surviving REJECTED vote on a still-SUBMITTED project would
			// block the reviewer's retry.
			err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
				var txErr error
				swapped, txErr = s.projectRepo.CompareAndSwapApprovals(txCtx, projectID, project.RawApprovals, nextRaw)
				if txErr != nil {
					return fmt.Errorf("swap approvals: %w", txErr)
				}
				if !swapped {
					return nil
				}
				if txErr := s.projectRepo.UpdateApplicationStatus(txCtx, projectID, rejected); txErr != nil {
					return fmt.Errorf("update status: %w", txErr)
				}
				return nil
			})
			if err != nil {
				return err
			}
			if swapped {
				project.ApplicationStatus = rejected
				s.notifier.ProjectRejected(ctx, project, comment)
			}
		} else {
			swapped, err = s.projectRepo.CompareAndSwapApprovals(ctx, projectID, project.RawApprovals, nextRaw)
			if err != nil {
				return fmt.Errorf("swap approvals: %w", err)
			}
			if swapped {
				s.notifier.ReviewerVoted(ctx, project, actorID)
			}
		}

		if !swapped {
			s.logger.Info("Approval map changed under us, retrying",
				"project_id", projectID, "reviewer_id", actorID, "attempt", attempt)
			continue
		}

		s.logger.Info("Reviewer vote recorded",
			"project_id", projectID, "reviewer_id", actorID, "verdict", verdict.String())
		return nil
	}

	return fmt.Errorf("%w: gave up after %d attempts", approval.ErrConcurrentModification, casMaxAttempts)
}

// FinalApprove moves a fully reviewer-approved project into APPROVED. The
// all-reviewers-approved precondition is re-checked at call time.
func (s *approvalServiceImpl) FinalApprove(ctx context.Context, projectID, actorID int64, comment string) error {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return err
	}

	if project.FinalApproverUserID == nil || *project.FinalApproverUserID != actorID {
		return fmt.Errorf("%w: user %d is not the final approver", approval.ErrForbidden, actorID)
	}

	if !approval.CanFire(project.ApplicationStatus, approval.TriggerFinalApprove) {
		return fmt.Errorf("%w: cannot final-approve from %s", approval.ErrInvalidState, project.ApplicationStatus)
	}

	assigned, err := s.reviewerRepo.ListByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("list reviewers: %w", err)
	}
	if !project.ReviewerApprovals.AllApproved(assigned) {
		return fmt.Errorf("%w: not all reviewers approved", approval.ErrPreconditionFailed)
	}

	if err := s.projectRepo.SetApproved(ctx, projectID, comment, time.Now().UTC()); err != nil {
		return fmt.Errorf("set approved: %w", err)
	}

	s.logger.Info("Project approved", "project_id", projectID, "approver_id", actorID)
	s.notifier.ProjectApproved(ctx, project)
	return nil
}

// FinalReject rejects the project with an authoritative reason, distinct
// from per-reviewer comments
func (s *approvalServiceImpl) FinalReject(ctx context.Context, projectID, actorID int64, comment string) error {
	if comment == "" {
		return fmt.Errorf("%w: final rejection requires a comment", approval.ErrValidation)
	}

	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return err
	}

	if project.FinalApproverUserID == nil || *project.FinalApproverUserID != actorID {
		return fmt.Errorf("%w: user %d is not the final approver", approval.ErrForbidden, actorID)
	}

	if !approval.CanFire(project.ApplicationStatus, approval.TriggerFinalReject) {
		return fmt.Errorf("%w: cannot final-reject from %s", approval.ErrInvalidState, project.ApplicationStatus)
	}

	if err := s.projectRepo.SetFinalRejected(ctx, projectID, comment); err != nil {
		return fmt.Errorf("set rejected: %w", err)
	}

	s.logger.Info("Project rejected by final approver", "project_id", projectID, "approver_id", actorID)
	s.notifier.ProjectRejected(ctx, project, comment)
	return nil
}

// Resubmit moves a rejected project back to DRAFT. All prior reviewer votes
// are cleared so stale approvals cannot attach to revised content.
func (s *approvalServiceImpl) Resubmit(ctx context.Context, projectID, actorID int64, note string) error {
	if note == "" {
		return fmt.Errorf("%w: resubmission requires supplementary material", approval.ErrValidation)
	}

	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return err
	}

	if project.ExecutorID != actorID {
		return fmt.Errorf("%w: only the executor may resubmit", approval.ErrForbidden)
	}

	if !approval.CanFire(project.ApplicationStatus, approval.TriggerResubmit) {
		return fmt.Errorf("%w: cannot resubmit from %s", approval.ErrInvalidState, project.ApplicationStatus)
	}

	if err := s.projectRepo.ResetForResubmission(ctx, projectID, note); err != nil {
		return fmt.Errorf("reset for resubmission: %w", err)
	}

	s.logger.Info("Project reset for resubmission", "project_id", projectID)
	s.notifier.ProjectResubmitted(ctx, project)
	return nil
}

// ApprovalStatus computes the approval projection fresh from current state.
// Nothing is cached across the compare-and-swap race window.
func (s *approvalServiceImpl) ApprovalStatus(ctx context.Context, projectID int64) (*entity.ApprovalStatusView, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	assigned, err := s.reviewerRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list reviewers: %w", err)
	}

	view := &entity.ApprovalStatusView{
		ProjectID:            project.ID,
		ApplicationStatus:    project.ApplicationStatus,
		FinalApprovalStatus:  project.FinalApprovalStatus,
		FinalApprovalComment: project.FinalApprovalComment,
		TotalReviewers:       len(assigned),
	}
	if project.FinalApproverUserID != nil {
		view.FinalApproverUserID = *project.FinalApproverUserID
	}

	for _, reviewerID := range assigned {
		vote := project.ReviewerApprovals.VoteFor(reviewerID)
		reviewerEntry := entity.ReviewerEntry{
			ReviewerID:    reviewerID,
			Status:        vote.Status,
			ReviewComment: vote.ReviewComment,
		}
		if !vote.UpdatedAt.IsZero() {
			t := vote.UpdatedAt
			reviewerEntry.UpdatedAt = &t
		}
		view.Reviewers = append(view.Reviewers, reviewerEntry)

		switch vote.Status {
		case approval.VoteApproved:
			view.ApprovedCount++
		case approval.VotePending:
			view.PendingCount++
		}
	}

	view.AllReviewersApproved = len(assigned) > 0 && view.ApprovedCount == len(assigned)
	return view, nil
}

func (s *approvalServiceImpl) getProject(ctx context.Context, projectID int64) (*entity.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %d", approval.ErrNotFound, projectID)
	}
	return project, nil
}
