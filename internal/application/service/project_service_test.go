package service

import (
	"context"
	"errors"
	"testing"

	"github.com/garyjia/project-approval/internal/domain/approval"
	"github.com/garyjia/project-approval/internal/domain/entity"
)

func TestProjectService_Create(t *testing.T) {
	svc := NewProjectService(&mockProjectRepo{}, &mockLogger{})

	t.Run("defaults are applied", func(t *testing.T) {
		project, err := svc.Create(context.Background(), executorID, &entity.Project{
			Name:            "New platform",
			RequestedAmount: 1_000_000,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if project.ApplicationStatus != approval.StatusDraft {
			t.Errorf("status = %v, want DRAFT", project.ApplicationStatus)
		}
		if project.ExecutorID != executorID {
			t.Errorf("executor = %d, want %d", project.ExecutorID, executorID)
		}
		if project.Status != entity.ProjectStatusPlanning {
			t.Errorf("project status = %v, want planning", project.Status)
		}
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := svc.Create(context.Background(), executorID, &entity.Project{})
		if !errors.Is(err, approval.ErrValidation) {
			t.Errorf("Create() error = %v, want ErrValidation", err)
		}
	})

	t.Run("control characters are stripped", func(t *testing.T) {
		project, err := svc.Create(context.Background(), executorID, &entity.Project{
			Name: "New\x00 platform\x1f",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if project.Name != "New platform" {
			t.Errorf("name = %q", project.Name)
		}
	})
}

func TestProjectService_UpdateDraft(t *testing.T) {
	t.Run("only drafts are editable", func(t *testing.T) {
		projectRepo := &mockProjectRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
				return submittedProject(1), nil
			},
		}
		svc := NewProjectService(projectRepo, &mockLogger{})

		_, err := svc.UpdateDraft(context.Background(), executorID, 1, "renamed", "", 0, nil, nil)

		if !errors.Is(err, approval.ErrInvalidState) {
			t.Errorf("UpdateDraft() error = %v, want ErrInvalidState", err)
		}
	})

	t.Run("empty fields keep existing values", func(t *testing.T) {
		projectRepo := &mockProjectRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
				return draftProject(1), nil
			},
		}
		svc := NewProjectService(projectRepo, &mockLogger{})

		project, err := svc.UpdateDraft(context.Background(), executorID, 1, "", "new description", 0, nil, nil)
		if err != nil {
			t.Fatalf("UpdateDraft() error = %v", err)
		}
		if project.Name != "New platform" {
			t.Errorf("name = %q, want unchanged", project.Name)
		}
		if project.Description != "new description" {
			t.Errorf("description = %q", project.Description)
		}
	})
}

func TestProjectService_SetPhase(t *testing.T) {
	tests := []struct {
		name    string
		actorID int64
		project *entity.Project
		phase   string
		wantErr error
	}{
		{
			name:    "executor advances an approved project",
			actorID: executorID,
			project: approvedProject(1),
			phase:   entity.PhaseBusinessLaunch,
		},
		{
			name:    "unknown phase",
			actorID: executorID,
			project: approvedProject(1),
			phase:   "shipping",
			wantErr: approval.ErrValidation,
		},
		{
			name:    "phase locked before approval",
			actorID: executorID,
			project: submittedProject(1),
			phase:   entity.PhaseBusinessLaunch,
			wantErr: approval.ErrInvalidState,
		},
		{
			name:    "only the executor",
			actorID: reviewerOne,
			project: approvedProject(1),
			phase:   entity.PhaseBusinessLaunch,
			wantErr: approval.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectRepo := &mockProjectRepo{
				getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
					return tt.project, nil
				},
			}
			svc := NewProjectService(projectRepo, &mockLogger{})

			err := svc.SetPhase(context.Background(), tt.actorID, 1, tt.phase)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SetPhase() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
