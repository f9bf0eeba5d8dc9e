// Package document extracts plain text from stored proposal documents.
package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"github.com/garyjia/project-approval/internal/application/port"
)

// Extractor implements port.TextExtractor for PDF proposals
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a new PDF text extractor
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// ExtractText reads every page of the PDF and concatenates the page text
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		e.logger.Error("Failed to open document", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := doc.Text(n)
		if err != nil {
			e.logger.Error("Failed to extract page text",
				zap.String("path", path), zap.Int("page", n), zap.Error(err))
			return "", fmt.Errorf("failed to extract text from page %d: %w", n, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	extracted := strings.TrimSpace(sb.String())
	if extracted == "" {
		return "", fmt.Errorf("document contains no extractable text")
	}

	e.logger.Info("Extracted document text",
		zap.String("path", path), zap.Int("pages", doc.NumPage()), zap.Int("chars", len(extracted)))
	return extracted, nil
}

// Verify interface compliance
var _ port.TextExtractor = (*Extractor)(nil)
