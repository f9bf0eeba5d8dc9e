package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garyjia/project-approval/internal/application/port"
	"go.uber.org/zap"
)

// ReviewerRepository implements port.ReviewerRepository
type ReviewerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReviewerRepository creates a new reviewer assignment repository
func NewReviewerRepository(db *sql.DB, logger *zap.Logger) port.ReviewerRepository {
	return &ReviewerRepository{
		db:     db,
		logger: logger,
	}
}

// Assign records the reviewer set for a project. Existing assignments are
// kept; the unique index makes re-assignment idempotent.
func (r *ReviewerRepository) Assign(ctx context.Context, projectID int64, reviewerIDs []int64) error {
	query := `
		INSERT INTO project_reviewers (project_id, user_id)
		VALUES (?, ?)
		ON CONFLICT (project_id, user_id) DO NOTHING
	`

	for _, reviewerID := range reviewerIDs {
		if _, err := getExecutor(ctx, r.db).ExecContext(ctx, query, projectID, reviewerID); err != nil {
			r.logger.Error("Failed to assign reviewer",
				zap.Int64("project_id", projectID), zap.Int64("user_id", reviewerID), zap.Error(err))
			return fmt.Errorf("failed to assign reviewer: %w", err)
		}
	}
	return nil
}

// ListByProject returns the assigned reviewer user IDs in assignment order
func (r *ReviewerRepository) ListByProject(ctx context.Context, projectID int64) ([]int64, error) {
	query := `SELECT user_id FROM project_reviewers WHERE project_id = ? ORDER BY id`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to list reviewers", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, fmt.Errorf("failed to list reviewers: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan reviewer: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// IsAssigned returns true if the user is an assigned reviewer of the project
func (r *ReviewerRepository) IsAssigned(ctx context.Context, projectID, userID int64) (bool, error) {
	query := `SELECT 1 FROM project_reviewers WHERE project_id = ? AND user_id = ?`

	var one int
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, projectID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return true, nil
}
