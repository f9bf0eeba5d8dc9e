package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/garyjia/project-approval/internal/application/port"
	"github.com/garyjia/project-approval/internal/domain/approval"
	"github.com/garyjia/project-approval/internal/domain/entity"
	"go.uber.org/zap"
)

// ProjectRepository implements port.ProjectRepository
type ProjectRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB, logger *zap.Logger) port.ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

const projectColumns = `
	id, name, description, status, application_status, executor_id,
	requested_amount, reviewer_id, final_approver_user_id,
	final_approval_status, final_approval_comment, approved_at,
	project_phase, resubmission_note, reviewer_approvals,
	extracted_text, analysis_payload, analyzed_at, created_at, updated_at`

// Create inserts a new project in DRAFT
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	raw, err := project.ReviewerApprovals.Marshal()
	if err != nil {
		return fmt.Errorf("marshal approvals: %w", err)
	}

	query := `
		INSERT INTO projects (
			name, description, status, application_status, executor_id,
			requested_amount, reviewer_id, final_approver_user_id,
			final_approval_status, project_phase, reviewer_approvals
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		project.Name,
		project.Description,
		project.Status,
		project.ApplicationStatus.String(),
		project.ExecutorID,
		project.RequestedAmount,
		project.ReviewerID,
		project.FinalApproverUserID,
		project.FinalApprovalStatus.String(),
		project.ProjectPhase,
		raw,
	)
	if err != nil {
		r.logger.Error("Failed to create project", zap.Error(err))
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	project.ID = id
	project.RawApprovals = raw
	return nil
}

// GetByID retrieves a project by ID. Returns nil without error when the
// row does not exist.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*entity.Project, error) {
	query := `SELECT` + projectColumns + ` FROM projects WHERE id = ?`

	row := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id)
	project, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get project", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// Update writes the mutable project fields and the approval map
func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	raw, err := project.ReviewerApprovals.Marshal()
	if err != nil {
		return fmt.Errorf("marshal approvals: %w", err)
	}

	query := `
		UPDATE projects SET
			name = ?, description = ?, status = ?, application_status = ?,
			requested_amount = ?, reviewer_id = ?, final_approver_user_id = ?,
			final_approval_status = ?, project_phase = ?, reviewer_approvals = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err = getExecutor(ctx, r.db).ExecContext(ctx, query,
		project.Name,
		project.Description,
		project.Status,
		project.ApplicationStatus.String(),
		project.RequestedAmount,
		project.ReviewerID,
		project.FinalApproverUserID,
		project.FinalApprovalStatus.String(),
		project.ProjectPhase,
		raw,
		project.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update project", zap.Int64("id", project.ID), zap.Error(err))
		return fmt.Errorf("failed to update project: %w", err)
	}

	project.RawApprovals = raw
	return nil
}

// UpdateApplicationStatus sets only the application status
func (r *ProjectRepository) UpdateApplicationStatus(ctx context.Context, id int64, status approval.Status) error {
	query := `UPDATE projects SET application_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, status.String(), id)
	if err != nil {
		r.logger.Error("Failed to update application status",
			zap.Int64("id", id), zap.String("status", status.String()), zap.Error(err))
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return nil
}

// SetApproved records final approval: status, verdict, comment, timestamp,
// and the initial post-approval phase
func (r *ProjectRepository) SetApproved(ctx context.Context, id int64, comment string, approvedAt time.Time) error {
	query := `
		UPDATE projects SET
			application_status = ?, final_approval_status = ?,
			final_approval_comment = ?, approved_at = ?, project_phase = ?,
			status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		approval.StatusApproved.String(),
		approval.VoteApproved.String(),
		comment,
		approvedAt,
		entity.PhaseMVPDevelopment,
		entity.ProjectStatusActive,
		id,
	)
	if err != nil {
		r.logger.Error("Failed to set approved", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to set approved: %w", err)
	}
	return nil
}

// SetFinalRejected records the authoritative final rejection reason
func (r *ProjectRepository) SetFinalRejected(ctx context.Context, id int64, comment string) error {
	query := `
		UPDATE projects SET
			application_status = ?, final_approval_status = ?,
			final_approval_comment = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		approval.StatusRejected.String(),
		approval.VoteRejected.String(),
		comment,
		id,
	)
	if err != nil {
		r.logger.Error("Failed to set final rejected", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to set final rejected: %w", err)
	}
	return nil
}

// SetAnalysis stores the extracted text and analysis payload verbatim
func (r *ProjectRepository) SetAnalysis(ctx context.Context, id int64, extractedText, payload string, analyzedAt time.Time) error {
	query := `
		UPDATE projects SET
			extracted_text = ?, analysis_payload = ?, analyzed_at = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, extractedText, payload, analyzedAt, id)
	if err != nil {
		r.logger.Error("Failed to set analysis", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to set analysis: %w", err)
	}
	return nil
}

// CompareAndSwapApprovals is the optimistic write on the approval map.
// The WHERE predicate makes the row update all-or-nothing: when another
// voter committed first, zero rows match and the caller retries against
// the fresh map.
func (r *ProjectRepository) CompareAndSwapApprovals(ctx context.Context, id int64, prevRaw, nextRaw string) (bool, error) {
	query := `
		UPDATE projects SET reviewer_approvals = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND reviewer_approvals = ?
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, nextRaw, id, prevRaw)
	if err != nil {
		r.logger.Error("Failed to swap approvals", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to swap approvals: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}

// ResetForResubmission clears all votes and the final verdict, stores the
// supplementary note and moves the project back to DRAFT
func (r *ProjectRepository) ResetForResubmission(ctx context.Context, id int64, note string) error {
	query := `
		UPDATE projects SET
			application_status = ?, final_approval_status = ?,
			final_approval_comment = '', reviewer_approvals = '{}',
			resubmission_note = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		approval.StatusDraft.String(),
		approval.VotePending.String(),
		note,
		id,
	)
	if err != nil {
		r.logger.Error("Failed to reset for resubmission", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to reset for resubmission: %w", err)
	}
	return nil
}

// List retrieves a paginated list of projects, newest first
func (r *ProjectRepository) List(ctx context.Context, limit, offset int) ([]*entity.Project, error) {
	query := `SELECT` + projectColumns + ` FROM projects ORDER BY id DESC LIMIT ? OFFSET ?`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list projects", zap.Error(err))
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*entity.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*entity.Project, error) {
	var project entity.Project
	var appStatus, finalStatus string
	var reviewerID, finalApproverID sql.NullInt64
	var finalComment, phase, note, extracted, payload sql.NullString
	var approvedAt, analyzedAt sql.NullTime
	var raw string

	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.Status,
		&appStatus,
		&project.ExecutorID,
		&project.RequestedAmount,
		&reviewerID,
		&finalApproverID,
		&finalStatus,
		&finalComment,
		&approvedAt,
		&phase,
		&note,
		&raw,
		&extracted,
		&payload,
		&analyzedAt,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	project.ApplicationStatus = approval.Status(appStatus)
	project.FinalApprovalStatus = approval.VoteStatus(finalStatus)
	if reviewerID.Valid {
		project.ReviewerID = &reviewerID.Int64
	}
	if finalApproverID.Valid {
		project.FinalApproverUserID = &finalApproverID.Int64
	}
	project.FinalApprovalComment = finalComment.String
	project.ProjectPhase = phase.String
	project.ResubmissionNote = note.String
	project.ExtractedText = extracted.String
	project.AnalysisPayload = payload.String
	if approvedAt.Valid {
		project.ApprovedAt = &approvedAt.Time
	}
	if analyzedAt.Valid {
		project.AnalyzedAt = &analyzedAt.Time
	}

	project.RawApprovals = raw
	approvals, err := entity.UnmarshalApprovals(raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal approvals: %w", err)
	}
	project.ReviewerApprovals = approvals

	return &project, nil
}
