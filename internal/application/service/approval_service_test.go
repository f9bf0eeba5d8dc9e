package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/garyjia/project-approval/internal/domain/approval"
	"github.com/garyjia/project-approval/internal/domain/entity"
)

// Mock repositories

type mockProjectRepo struct {
	createFunc       func(ctx context.Context, project *entity.Project) error
	getByIDFunc      func(ctx context.Context, id int64) (*entity.Project, error)
	updateFunc       func(ctx context.Context, project *entity.Project) error
	updateStatusFunc func(ctx context.Context, id int64, status approval.Status) error
	setApprovedFunc  func(ctx context.Context, id int64, comment string, approvedAt time.Time) error
	setRejectedFunc  func(ctx context.Context, id int64, comment string) error
	casFunc          func(ctx context.Context, id int64, prevRaw, nextRaw string) (bool, error)
	resetFunc        func(ctx context.Context, id int64, note string) error
}

func (m *mockProjectRepo) Create(ctx context.Context, project *entity.Project) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, project)
	}
	project.ID = 1
	return nil
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id int64) (*entity.Project, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return draftProject(id), nil
}

func (m *mockProjectRepo) Update(ctx context.Context, project *entity.Project) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, project)
	}
	return nil
}

func (m *mockProjectRepo) UpdateApplicationStatus(ctx context.Context, id int64, status approval.Status) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockProjectRepo) SetApproved(ctx context.Context, id int64, comment string, approvedAt time.Time) error {
	if m.setApprovedFunc != nil {
		return m.setApprovedFunc(ctx, id, comment, approvedAt)
	}
	return nil
}

func (m *mockProjectRepo) SetFinalRejected(ctx context.Context, id int64, comment string) error {
	if m.setRejectedFunc != nil {
		return m.setRejectedFunc(ctx, id, comment)
	}
	return nil
}

func (m *mockProjectRepo) SetAnalysis(ctx context.Context, id int64, extractedText, payload string, analyzedAt time.Time) error {
	return nil
}

func (m *mockProjectRepo) CompareAndSwapApprovals(ctx context.Context, id int64, prevRaw, nextRaw string) (bool, error) {
	if m.casFunc != nil {
		return m.casFunc(ctx, id, prevRaw, nextRaw)
	}
	return true, nil
}

func (m *mockProjectRepo) ResetForResubmission(ctx context.Context, id int64, note string) error {
	if m.resetFunc != nil {
		return m.resetFunc(ctx, id, note)
	}
	return nil
}

func (m *mockProjectRepo) List(ctx context.Context, limit, offset int) ([]*entity.Project, error) {
	return []*entity.Project{}, nil
}

type mockReviewerRepo struct {
	assignFunc        func(ctx context.Context, projectID int64, reviewerIDs []int64) error
	listByProjectFunc func(ctx context.Context, projectID int64) ([]int64, error)
	isAssignedFunc    func(ctx context.Context, projectID, userID int64) (bool, error)
}

func (m *mockReviewerRepo) Assign(ctx context.Context, projectID int64, reviewerIDs []int64) error {
	if m.assignFunc != nil {
		return m.assignFunc(ctx, projectID, reviewerIDs)
	}
	return nil
}

func (m *mockReviewerRepo) ListByProject(ctx context.Context, projectID int64) ([]int64, error) {
	if m.listByProjectFunc != nil {
		return m.listByProjectFunc(ctx, projectID)
	}
	return []int64{201, 202}, nil
}

func (m *mockReviewerRepo) IsAssigned(ctx context.Context, projectID, userID int64) (bool, error) {
	if m.isAssignedFunc != nil {
		return m.isAssignedFunc(ctx, projectID, userID)
	}
	return true, nil
}

type mockRouteRepo struct {
	listActiveFunc func(ctx context.Context) ([]*entity.ApprovalRoute, error)
}

func (m *mockRouteRepo) ListActive(ctx context.Context) ([]*entity.ApprovalRoute, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx)
	}
	return []*entity.ApprovalRoute{
		{ID: 1, Name: "standard", ThresholdAmount: 0, ReviewerIDs: []int64{201, 202}, FinalApproverUserID: 300, Active: true},
	}, nil
}

type mockUserRepo struct {
	getByIDFunc func(ctx context.Context, id int64) (*entity.User, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.User{ID: id, Email: "user@example.com", LarkOpenID: "ou_test"}, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	user.ID = 1
	return nil
}

type mockNotifier struct {
	notifyFunc func(ctx context.Context, recipient *entity.User, template string, data map[string]string) error
}

func (m *mockNotifier) Notify(ctx context.Context, recipient *entity.User, template string, data map[string]string) error {
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, recipient, template, data)
	}
	return nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

// Fixtures

const (
	executorID      = int64(100)
	reviewerOne     = int64(201)
	reviewerTwo     = int64(202)
	finalApproverID = int64(300)
)

func draftProject(id int64) *entity.Project {
	return &entity.Project{
		ID:                  id,
		Name:                "New platform",
		ApplicationStatus:   approval.StatusDraft,
		ExecutorID:          executorID,
		RequestedAmount:     50_000_000,
		FinalApprovalStatus: approval.VotePending,
		ReviewerApprovals:   entity.ReviewerApprovals{},
		RawApprovals:        "{}",
	}
}

func submittedProject(id int64) *entity.Project {
	p := draftProject(id)
	p.ApplicationStatus = approval.StatusSubmitted
	approver := finalApproverID
	p.FinalApproverUserID = &approver
	return p
}

func newApprovalService(projectRepo *mockProjectRepo, reviewerRepo *mockReviewerRepo, routeRepo *mockRouteRepo) ApprovalService {
	return newApprovalServiceWithTx(projectRepo, reviewerRepo, routeRepo, &mockTxManager{})
}

func newApprovalServiceWithTx(projectRepo *mockProjectRepo, reviewerRepo *mockReviewerRepo, routeRepo *mockRouteRepo, tx *mockTxManager) ApprovalService {
	logger := &mockLogger{}
	notifications := NewNotificationService(&mockUserRepo{}, &mockNotifier{}, logger)
	routing := NewRoutingService(routeRepo, logger)
	return NewApprovalService(projectRepo, reviewerRepo, routing, tx, notifications, logger)
}

func TestApprovalService_Submit(t *testing.T) {
	tests := []struct {
		name    string
		actorID int64
		project *entity.Project
		wantErr error
	}{
		{
			name:    "executor submits a draft",
			actorID: executorID,
			project: draftProject(1),
		},
		{
			name:    "non-executor is forbidden",
			actorID: 999,
			project: draftProject(1),
			wantErr: approval.ErrForbidden,
		},
		{
			name:    "already submitted",
			actorID: executorID,
			project: submittedProject(1),
			wantErr: approval.ErrInvalidState,
		},
		{
			name:    "zero amount is rejected",
			actorID: executorID,
			project: func() *entity.Project {
				p := draftProject(1)
				p.RequestedAmount = 0
				return p
			}(),
			wantErr: approval.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectRepo := &mockProjectRepo{
				getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
					return tt.project, nil
				},
			}
			svc := newApprovalService(projectRepo, &mockReviewerRepo{}, &mockRouteRepo{})

			project, err := svc.Submit(context.Background(), 1, tt.actorID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Submit() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if project.ApplicationStatus != approval.StatusSubmitted {
				t.Errorf("Submit() status = %v, want SUBMITTED", project.ApplicationStatus)
			}
			if project.FinalApproverUserID == nil || *project.FinalApproverUserID != finalApproverID {
				t.Errorf("Submit() final approver = %v, want %d", project.FinalApproverUserID, finalApproverID)
			}
			if len(project.ReviewerApprovals) != 0 {
				t.Errorf("Submit() left %d stale votes", len(project.ReviewerApprovals))
			}
		})
	}
}

func TestApprovalService_SubmitFallsBackToExplicitReviewers(t *testing.T) {
	project := draftProject(1)
	reviewer := reviewerOne
	approver := finalApproverID
	project.ReviewerID = &reviewer
	project.FinalApproverUserID = &approver

	var assigned []int64
	projectRepo := &mockProjectRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
			return project, nil
		},
	}
	reviewerRepo := &mockReviewerRepo{
		assignFunc: func(ctx context.Context, projectID int64, reviewerIDs []int64) error {
			assigned = reviewerIDs
			return nil
		},
	}
	routeRepo := &mockRouteRepo{
		listActiveFunc: func(ctx context.Context) ([]*entity.ApprovalRoute, error) {
			return nil, nil // no routes configured
		},
	}
	svc := newApprovalService(projectRepo, reviewerRepo, routeRepo)

	if _, err := svc.Submit(context.Background(), 1, executorID); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(assigned) != 1 || assigned[0] != reviewerOne {
		t.Errorf("Submit() assigned %v, want [%d]", assigned, reviewerOne)
	}
}

// A failing route store must abort the submission even when the project
// carries an explicit reviewer pair; only a missing route may fall back.
func TestApprovalService_SubmitSurfacesRouteStoreError(t *testing.T) {
	storeErr := errors.New("database is locked")

	project := draftProject(1)
	reviewer := reviewerOne
	approver := finalApproverID
	project.ReviewerID = &reviewer
	project.FinalApproverUserID = &approver

	updated := false
	projectRepo := &mockProjectRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
			return project, nil
		},
		updateFunc: func(ctx context.Context, p *entity.Project) error {
			updated = true
			return nil
		},
	}
	routeRepo := &mockRouteRepo{
		listActiveFunc: func(ctx context.Context) ([]*entity.ApprovalRoute, error) {
			return nil, storeErr
		},
	}
	svc := newApprovalService(projectRepo, &mockReviewerRepo{}, routeRepo)

	_, err := svc.Submit(context.Background(), 1, executorID)

	if !errors.Is(err, storeErr) {
		t.Errorf("Submit() error = %v, want wrapped %v", err, storeErr)
	}
	if updated {
		t.Error("Submit() persisted the project despite the route store failure")
	}
}

func TestApprovalService_ReviewerApprove(t *testing.T) {
	tests := []struct {
		name       string
		actorID    int64
		project    *entity.Project
		isAssigned bool
		wantErr    error
	}{
		{
			name:       "assigned reviewer approves",
			actorID:    reviewerOne,
			project:    submittedProject(1),
			isAssigned: true,
		},
		{
			name:       "unassigned user is forbidden",
			actorID:    999,
			project:    submittedProject(1),
			isAssigned: false,
			wantErr:    approval.ErrForbidden,
		},
		{
			name:       "votes require submitted status",
			actorID:    reviewerOne,
			project:    draftProject(1),
			isAssigned: true,
			wantErr:    approval.ErrInvalidState,
		},
		{
			name:    "second vote by the same reviewer",
			actorID: reviewerOne,
			project: func() *entity.Project {
				p := submittedProject(1)
				p.ReviewerApprovals = entity.ReviewerApprovals{
					reviewerOne: {Status: approval.VoteApproved, UpdatedAt: time.Now()},
				}
				return p
			}(),
			isAssigned: true,
			wantErr:    approval.ErrAlreadyVoted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectRepo := &mockProjectRepo{
				getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
					return tt.project, nil
				},
			}
			reviewerRepo := &mockReviewerRepo{
				isAssignedFunc: func(ctx context.Context, projectID, userID int64) (bool, error) {
					return tt.isAssigned, nil
				},
			}
			svc := newApprovalService(projectRepo, reviewerRepo, &mockRouteRepo{})

			err := svc.ReviewerApprove(context.Background(), 1, tt.actorID, "looks solid")

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReviewerApprove() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// A lost compare-and-swap must re-read the fresh map and merge the vote
// into it, keeping the concurrent vote that won the first round.
func TestApprovalService_ReviewerApproveRetriesOnLostSwap(t *testing.T) {
	reads := 0
	var committed string

	projectRepo := &mockProjectRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
			reads++
			p := submittedProject(1)
			if reads > 1 {
				// Second read sees the concurrent reviewer's committed vote.
				p.ReviewerApprovals = entity.ReviewerApprovals{
					reviewerTwo: {Status: approval.VoteApproved, UpdatedAt: time.Now().UTC()},
				}
				raw, err := p.ReviewerApprovals.Marshal()
				if err != nil {
					return nil, err
				}
				p.RawApprovals = raw
			}
			return p, nil
		},
		casFunc: func(ctx context.Context, id int64, prevRaw, nextRaw string) (bool, error) {
			if reads == 1 {
				return false, nil // lost the race
			}
			committed = nextRaw
			return true, nil
		},
	}
	svc := newApprovalService(projectRepo, &mockReviewerRepo{}, &mockRouteRepo{})

	if err := svc.ReviewerApprove(context.Background(), 1, reviewerOne, "ok"); err != nil {
		t.Fatalf("ReviewerApprove() error = %v", err)
	}
	if reads != 2 {
		t.Errorf("project read %d times, want 2", reads)
	}

	merged, err := entity.UnmarshalApprovals(committed)
	if err != nil {
		t.Fatalf("UnmarshalApprovals() error = %v", err)
	}
	if !merged.HasVoted(reviewerOne) || !merged.HasVoted(reviewerTwo) {
		t.Errorf("committed map %s lost a vote", committed)
	}
}

func TestApprovalService_ReviewerApproveGivesUpAfterRetries(t *testing.T) {
	attempts := 0
	projectRepo := &mockProjectRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
			return submittedProject(1), nil
		},
		casFunc: func(ctx context.Context, id int64, prevRaw, nextRaw string) (bool, error) {
			attempts++
			return false, nil
		},
	}
	svc := newApprovalService(projectRepo, &mockReviewerRepo{}, &mockRouteRepo{})

	err := svc.ReviewerApprove(context.Background(), 1, reviewerOne, "ok")

	if !errors.Is(err, approval.ErrConcurrentModification) {
		t.Errorf("ReviewerApprove() error = %v, want ErrConcurrentModification", err)
	}
	if attempts != casMaxAttempts {
		t.Errorf("swap attempted %d times, want %d", attempts, casMaxAttempts)
	}
}

func TestApprovalService_ReviewerReject(t *testing.T) {
	t.Run("rejection requires a comment", func(t *testing.T) {
		svc := newApprovalService(&mockProjectRepo{}, &mockReviewerRepo{}, &mockRouteRepo{})

		err := svc.ReviewerReject(context.Background(), 1, reviewerOne, "")

		if !errors.Is(err, approval.ErrValidation) {
			t.Errorf("ReviewerReject() error = %v, want ErrValidation", err)
		}
	})

	t.Run("first rejection moves the project to REJECTED", func(t *testing.T) {
		var gotStatus approval.Status
		projectRepo := &mockProjectRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
				return submittedProject(1), nil
			},
			updateStatusFunc: func(ctx context.Context, id int64, status approval.Status) error {
				gotStatus = status
				return nil
			},
		}
		svc := newApprovalService(projectRepo, &mockReviewerRepo{}, &mockRouteRepo{})

		if err := svc.ReviewerReject(context.Background(), 1, reviewerOne, "budget unclear"); err != nil {
			t.Fatalf("ReviewerReject() error = %v", err)
		}
		if gotStatus != approval.StatusRejected {
			t.Errorf("status = %v, want REJECTED", gotStatus)
		}
	})
}

// The rejection vote and the status flip must commit atomically. A vote
// that survives a failed status write would leave the project SUBMITTED
// while the reviewer's retry dies on the duplicate-vote check.
func TestApprovalService_ReviewerRejectCommitsVoteAndStatusTogether(t *testing.T) {
	type txMarker struct{}

	t.Run("both writes run inside the transaction", func(t *testing.T) {
		voteInTx := false
		statusInTx := false
		projectRepo := &mockProjectRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
				return submittedProject(1), nil
			},
			casFunc: func(ctx context.Context, id int64, prevRaw, nextRaw string) (bool, error) {
				voteInTx = ctx.Value(txMarker{}) != nil
				return true, nil
			},
			updateStatusFunc: func(ctx context.Context, id int64, status approval.Status) error {
				statusInTx = ctx.Value(txMarker{}) != nil
				return nil
			},
		}
		tx := &mockTxManager{
			withTransactionFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
				return fn(context.WithValue(ctx, txMarker{}, true))
			},
		}
		svc := newApprovalServiceWithTx(projectRepo, &mockReviewerRepo{}, &mockRouteRepo{}, tx)

		if err := svc.ReviewerReject(context.Background(), 1, reviewerOne, "budget unclear"); err != nil {
			t.Fatalf("ReviewerReject() error = %v", err)
		}
		if !voteInTx {
			t.Error("vote swap ran outside the transaction")
		}
		if !statusInTx {
			t.Error("status update ran outside the transaction")
		}
	})

	t.Run("failing status write surfaces and rolls back", func(t *testing.T) {
		writeErr := errors.New("disk I/O error")
		projectRepo := &mockProjectRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
				return submittedProject(1), nil
			},
			updateStatusFunc: func(ctx context.Context, id int64, status approval.Status) error {
				return writeErr
			},
		}
		svc := newApprovalService(projectRepo, &mockReviewerRepo{}, &mockRouteRepo{})

		err := svc.ReviewerReject(context.Background(), 1, reviewerOne, "budget unclear")

		if !errors.Is(err, writeErr) {
			t.Errorf("ReviewerReject() error = %v, want wrapped %v", err, writeErr)
		}
		if errors.Is(err, approval.ErrAlreadyVoted) {
			t.Errorf("ReviewerReject() error = %v, vote must not outlive the failed status write", err)
		}
	})
}

func TestApprovalService_FinalApprove(t *testing.T) {
	allApproved := entity.ReviewerApprovals{
		reviewerOne: {Status: approval.VoteApproved, UpdatedAt: time.Now()},
		reviewerTwo: {Status: approval.VoteApproved, UpdatedAt: time.Now()},
	}

	tests := []struct {
		name      string
		actorID   int64
		approvals entity.ReviewerApprovals
		status    approval.Status
		wantErr   error
	}{
		{
			name:      "all reviewers approved",
			actorID:   finalApproverID,
			approvals: allApproved,
			status:    approval.StatusSubmitted,
		},
		{
			name:      "wrong approver is forbidden",
			actorID:   999,
			approvals: allApproved,
			status:    approval.StatusSubmitted,
			wantErr:   approval.ErrForbidden,
		},
		{
			name:    "pending reviewer blocks approval",
			actorID: finalApproverID,
			approvals: entity.ReviewerApprovals{
				reviewerOne: {Status: approval.VoteApproved, UpdatedAt: time.Now()},
			},
			status:  approval.StatusSubmitted,
			wantErr: approval.ErrPreconditionFailed,
		},
		{
			name:      "cannot approve a draft",
			actorID:   finalApproverID,
			approvals: allApproved,
			status:    approval.StatusDraft,
			wantErr:   approval.ErrInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approved := false
			projectRepo := &mockProjectRepo{
				getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
					p := submittedProject(1)
					p.ApplicationStatus = tt.status
					p.ReviewerApprovals = tt.approvals
					return p, nil
				},
				setApprovedFunc: func(ctx context.Context, id int64, comment string, approvedAt time.Time) error {
					approved = true
					return nil
				},
			}
			svc := newApprovalService(projectRepo, &mockReviewerRepo{}, &mockRouteRepo{})

			err := svc.FinalApprove(context.Background(), 1, tt.actorID, "go ahead")

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FinalApprove() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && !approved {
				t.Error("FinalApprove() did not persist the approval")
			}
		})
	}
}

func TestApprovalService_FinalReject(t *testing.T) {
	t.Run("requires a comment", func(t *testing.T) {
		svc := newApprovalService(&mockProjectRepo{}, &mockReviewerRepo{}, &mockRouteRepo{})

		err := svc.FinalReject(context.Background(), 1, finalApproverID, "")

		if !errors.Is(err, approval.ErrValidation) {
			t.Errorf("FinalReject() error = %v, want ErrValidation", err)
		}
	})

	t.Run("records the authoritative reason", func(t *testing.T) {
		var gotComment string
		projectRepo := &mockProjectRepo{
			getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
				return submittedProject(1), nil
			},
			setRejectedFunc: func(ctx context.Context, id int64, comment string) error {
				gotComment = comment
				return nil
			},
		}
		svc := newApprovalService(projectRepo, &mockReviewerRepo{}, &mockRouteRepo{})

		if err := svc.FinalReject(context.Background(), 1, finalApproverID, "does not fit strategy"); err != nil {
			t.Fatalf("FinalReject() error = %v", err)
		}
		if gotComment != "does not fit strategy" {
			t.Errorf("comment = %q", gotComment)
		}
	})
}

func TestApprovalService_Resubmit(t *testing.T) {
	rejected := func() *entity.Project {
		p := submittedProject(1)
		p.ApplicationStatus = approval.StatusRejected
		return p
	}

	tests := []struct {
		name    string
		actorID int64
		note    string
		project *entity.Project
		wantErr error
	}{
		{
			name:    "executor resubmits with supplementary material",
			actorID: executorID,
			note:    "added market analysis",
			project: rejected(),
		},
		{
			name:    "note is mandatory",
			actorID: executorID,
			note:    "",
			project: rejected(),
			wantErr: approval.ErrValidation,
		},
		{
			name:    "only the executor may resubmit",
			actorID: reviewerOne,
			note:    "added market analysis",
			project: rejected(),
			wantErr: approval.ErrForbidden,
		},
		{
			name:    "cannot resubmit a submitted project",
			actorID: executorID,
			note:    "added market analysis",
			project: submittedProject(1),
			wantErr: approval.ErrInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset := false
			projectRepo := &mockProjectRepo{
				getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
					return tt.project, nil
				},
				resetFunc: func(ctx context.Context, id int64, note string) error {
					reset = true
					return nil
				},
			}
			svc := newApprovalService(projectRepo, &mockReviewerRepo{}, &mockRouteRepo{})

			err := svc.Resubmit(context.Background(), 1, tt.actorID, tt.note)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Resubmit() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && !reset {
				t.Error("Resubmit() did not clear prior votes")
			}
		})
	}
}

func TestApprovalService_ApprovalStatus(t *testing.T) {
	projectRepo := &mockProjectRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Project, error) {
			p := submittedProject(1)
			p.ReviewerApprovals = entity.ReviewerApprovals{
				reviewerOne: {Status: approval.VoteApproved, ReviewComment: "fine", UpdatedAt: time.Now()},
			}
			return p, nil
		},
	}
	svc := newApprovalService(projectRepo, &mockReviewerRepo{}, &mockRouteRepo{})

	view, err := svc.ApprovalStatus(context.Background(), 1)
	if err != nil {
		t.Fatalf("ApprovalStatus() error = %v", err)
	}

	if view.TotalReviewers != 2 {
		t.Errorf("TotalReviewers = %d, want 2", view.TotalReviewers)
	}
	if view.ApprovedCount != 1 || view.PendingCount != 1 {
		t.Errorf("counts = %d approved / %d pending, want 1/1", view.ApprovedCount, view.PendingCount)
	}
	if view.AllReviewersApproved {
		t.Error("AllReviewersApproved = true with a pending reviewer")
	}
	if view.FinalApproverUserID != finalApproverID {
		t.Errorf("FinalApproverUserID = %d, want %d", view.FinalApproverUserID, finalApproverID)
	}
}
