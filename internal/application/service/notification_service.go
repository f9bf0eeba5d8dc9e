package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/garyjia/project-approval/internal/application/port"
	"github.com/garyjia/project-approval/internal/domain/entity"
)

// NotificationService sends fire-and-forget notifications on approval
// transitions. Delivery failures are logged and never block or roll back
// the triggering state change.
type NotificationService struct {
	userRepo port.UserRepository
	notifier port.Notifier
	logger   Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(userRepo port.UserRepository, notifier port.Notifier, logger Logger) *NotificationService {
	return &NotificationService{
		userRepo: userRepo,
		notifier: notifier,
		logger:   logger,
	}
}

// ProjectSubmitted notifies all assigned reviewers that a project awaits
// their vote
func (s *NotificationService) ProjectSubmitted(ctx context.Context, project *entity.Project, reviewerIDs []int64) {
	data := s.projectData(project)
	for _, id := range reviewerIDs {
		s.send(ctx, id, entity.TemplateProjectSubmitted, data)
	}
}

// ReviewerVoted notifies the executor of a recorded reviewer approval
func (s *NotificationService) ReviewerVoted(ctx context.Context, project *entity.Project, reviewerID int64) {
	data := s.projectData(project)
	data["reviewer_id"] = strconv.FormatInt(reviewerID, 10)
	s.send(ctx, project.ExecutorID, entity.TemplateReviewerVoted, data)
}

// ProjectApproved notifies the executor of final approval
func (s *NotificationService) ProjectApproved(ctx context.Context, project *entity.Project) {
	s.send(ctx, project.ExecutorID, entity.TemplateProjectApproved, s.projectData(project))
}

// ProjectRejected notifies the executor with the visible rejection reason
func (s *NotificationService) ProjectRejected(ctx context.Context, project *entity.Project, reason string) {
	data := s.projectData(project)
	data["reason"] = reason
	s.send(ctx, project.ExecutorID, entity.TemplateProjectRejected, data)
}

// ProjectResubmitted notifies the final approver that a rejected project
// went back to draft with supplementary material
func (s *NotificationService) ProjectResubmitted(ctx context.Context, project *entity.Project) {
	if project.FinalApproverUserID == nil {
		return
	}
	s.send(ctx, *project.FinalApproverUserID, entity.TemplateProjectResubmit, s.projectData(project))
}

func (s *NotificationService) projectData(project *entity.Project) map[string]string {
	return map[string]string{
		"project_id":   strconv.FormatInt(project.ID, 10),
		"project_name": project.Name,
		"amount":       strconv.FormatInt(project.RequestedAmount, 10),
	}
}

// send resolves the recipient and dispatches. Errors are swallowed after
// logging; notification is best-effort only.
func (s *NotificationService) send(ctx context.Context, userID int64, template string, data map[string]string) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		s.logger.Error("Notification recipient lookup failed",
			"error", fmt.Sprintf("%v", err), "user_id", userID, "template", template)
		return
	}

	if err := s.notifier.Notify(ctx, user, template, data); err != nil {
		s.logger.Error("Notification delivery failed",
			"error", err, "user_id", userID, "template", template)
	}
}
