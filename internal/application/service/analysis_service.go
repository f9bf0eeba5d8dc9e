package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garyjia/project-approval/internal/application/port"
	"github.com/garyjia/project-approval/internal/domain/approval"
	"github.com/garyjia/project-approval/internal/domain/entity"
)

// AnalysisService runs document extraction and completeness scoring for a
// project's business-case document and persists the payload verbatim
type AnalysisService struct {
	projectRepo port.ProjectRepository
	extractor   port.TextExtractor
	scorer      port.DocumentScorer
	logger      Logger
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(
	projectRepo port.ProjectRepository,
	extractor port.TextExtractor,
	scorer port.DocumentScorer,
	logger Logger,
) *AnalysisService {
	return &AnalysisService{
		projectRepo: projectRepo,
		extractor:   extractor,
		scorer:      scorer,
		logger:      logger,
	}
}

// Analyze extracts text from the stored document, scores it, and attaches
// the report to the project. Available to the executor while the project is
// still editable (draft or rejected, ahead of resubmission).
func (s *AnalysisService) Analyze(ctx context.Context, actorID, projectID int64, documentPath string) (*entity.CompletenessReport, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %d", approval.ErrNotFound, projectID)
	}

	if project.ExecutorID != actorID {
		return nil, fmt.Errorf("%w: only the executor may analyze documents", approval.ErrForbidden)
	}

	switch project.ApplicationStatus {
	case approval.StatusDraft, approval.StatusRejected:
	default:
		return nil, fmt.Errorf("%w: analysis requires a draft or rejected project", approval.ErrInvalidState)
	}

	text, err := s.extractor.ExtractText(ctx, documentPath)
	if err != nil {
		s.logger.Error("Text extraction failed", "error", err, "project_id", projectID)
		return nil, fmt.Errorf("extract text: %w", err)
	}

	report, err := s.scorer.Score(ctx, text)
	if err != nil {
		s.logger.Error("Completeness scoring failed", "error", err, "project_id", projectID)
		return nil, fmt.Errorf("score document: %w", err)
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	if err := s.projectRepo.SetAnalysis(ctx, projectID, text, string(payload), time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("persist analysis: %w", err)
	}

	s.logger.Info("Document analysis stored",
		"project_id", projectID, "completeness_score", report.CompletenessScore)
	return report, nil
}
