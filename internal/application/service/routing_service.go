package service

import (
	"context"
	"fmt"

	"github.com/garyjia/project-approval/internal/application/port"
	"github.com/garyjia/project-approval/internal/domain/approval"
	"github.com/garyjia/project-approval/internal/domain/entity"
)

// RoutingService selects the reviewer set and final approver for a
// requested amount. Pure lookup, no side effects.
type RoutingService struct {
	routeRepo port.RouteRepository
	logger    Logger
}

// NewRoutingService creates a new RoutingService
func NewRoutingService(routeRepo port.RouteRepository, logger Logger) *RoutingService {
	return &RoutingService{
		routeRepo: routeRepo,
		logger:    logger,
	}
}

// Resolve returns the route for the amount: the route with the highest
// threshold not exceeding the amount, falling back to the lowest-threshold
// route when every threshold is above the amount. ErrNotFound when no
// routes are configured.
func (s *RoutingService) Resolve(ctx context.Context, amount int64) (*entity.ResolvedRoute, error) {
	routes, err := s.routeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}

	route := selectRoute(routes, amount)
	if route == nil {
		return nil, fmt.Errorf("%w: no approval routes configured", approval.ErrNotFound)
	}

	reviewerIDs := make([]int64, len(route.ReviewerIDs))
	copy(reviewerIDs, route.ReviewerIDs)

	return &entity.ResolvedRoute{
		ReviewerIDs:         reviewerIDs,
		FinalApproverUserID: route.FinalApproverUserID,
	}, nil
}

// selectRoute picks the tightest threshold still at or below the amount.
// When no threshold is at or below, the lowest-threshold route applies.
func selectRoute(routes []*entity.ApprovalRoute, amount int64) *entity.ApprovalRoute {
	var best *entity.ApprovalRoute
	var lowest *entity.ApprovalRoute

	for _, r := range routes {
		if lowest == nil || r.ThresholdAmount < lowest.ThresholdAmount {
			lowest = r
		}
		if r.ThresholdAmount <= amount {
			if best == nil || r.ThresholdAmount > best.ThresholdAmount {
				best = r
			}
		}
	}

	if best != nil {
		return best
	}
	return lowest
}
