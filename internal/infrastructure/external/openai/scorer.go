package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/garyjia/project-approval/internal/application/port"
	"github.com/garyjia/project-approval/internal/domain/entity"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Scorer implements port.DocumentScorer using OpenAI chat completions
type Scorer struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewScorer creates a new completeness scorer
func NewScorer(apiKey, model string, temperature float32, logger *zap.Logger) *Scorer {
	return &Scorer{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

// Score asks the model for a structured completeness report over the
// extracted proposal text. The returned payload is passed through to the
// caller without interpretation.
func (s *Scorer) Score(ctx context.Context, extractedText string) (*entity.CompletenessReport, error) {
	if strings.TrimSpace(extractedText) == "" {
		return nil, fmt.Errorf("extracted text is empty")
	}

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: s.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: scoreSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildScorePrompt(extractedText),
			},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		s.logger.Error("OpenAI API call failed", zap.Error(err))
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var report entity.CompletenessReport
	if err := json.Unmarshal([]byte(content), &report); err != nil {
		// Fallback: models often wrap JSON in markdown code fences
		jsonStr := extractJSON(content)
		if jsonStr == "" {
			return nil, fmt.Errorf("unparseable scoring response: %w", err)
		}
		if err := json.Unmarshal([]byte(jsonStr), &report); err != nil {
			return nil, fmt.Errorf("unparseable scoring response: %w", err)
		}
		s.logger.Info("Extracted JSON from fenced response")
	}

	s.logger.Info("Completeness scoring completed",
		zap.Int("completeness_score", report.CompletenessScore),
		zap.Int("missing_sections", len(report.MissingSections)))
	return &report, nil
}

// extractJSON pulls the first ```json fenced block out of a response
func extractJSON(content string) string {
	start := strings.Index(content, "```json")
	if start == -1 {
		start = strings.Index(content, "```")
		if start == -1 {
			return ""
		}
		start += 3
	} else {
		start += 7
	}

	rest := content[start:]
	end := strings.Index(rest, "```")
	if end == -1 {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(rest[:end])
}

// Verify interface compliance
var _ port.DocumentScorer = (*Scorer)(nil)
