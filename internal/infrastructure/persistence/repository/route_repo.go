package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/garyjia/project-approval/internal/application/port"
	"github.com/garyjia/project-approval/internal/domain/entity"
	"go.uber.org/zap"
)

// RouteRepository implements port.RouteRepository
type RouteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRouteRepository creates a new approval route repository
func NewRouteRepository(db *sql.DB, logger *zap.Logger) port.RouteRepository {
	return &RouteRepository{
		db:     db,
		logger: logger,
	}
}

// ListActive returns all active routes ordered by threshold
func (r *RouteRepository) ListActive(ctx context.Context) ([]*entity.ApprovalRoute, error) {
	query := `
		SELECT id, name, threshold_amount, reviewer_ids, final_approver_user_id,
			active, created_at, updated_at
		FROM approval_routes
		WHERE active = 1
		ORDER BY threshold_amount
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list routes", zap.Error(err))
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	defer rows.Close()

	var routes []*entity.ApprovalRoute
	for rows.Next() {
		var route entity.ApprovalRoute
		var reviewerJSON string

		err := rows.Scan(
			&route.ID,
			&route.Name,
			&route.ThresholdAmount,
			&reviewerJSON,
			&route.FinalApproverUserID,
			&route.Active,
			&route.CreatedAt,
			&route.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}

		if err := json.Unmarshal([]byte(reviewerJSON), &route.ReviewerIDs); err != nil {
			return nil, fmt.Errorf("unmarshal reviewer ids for route %d: %w", route.ID, err)
		}

		routes = append(routes, &route)
	}
	return routes, rows.Err()
}
