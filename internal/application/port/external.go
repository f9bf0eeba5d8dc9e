package port

import (
	"context"

	"github.com/garyjia/project-approval/internal/domain/entity"
)

// IdentityVerifier verifies bearer credentials and yields the acting principal.
// The core trusts this result and never re-derives identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (*entity.Identity, error)
}

// TextExtractor extracts plain text from a stored proposal document
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// DocumentScorer returns a structured completeness report for extracted
// proposal text. The payload is persisted verbatim, never interpreted.
type DocumentScorer interface {
	Score(ctx context.Context, extractedText string) (*entity.CompletenessReport, error)
}

// Notifier delivers a fire-and-forget notification. Failures are logged by
// callers and never block or roll back the triggering transition.
type Notifier interface {
	Notify(ctx context.Context, recipient *entity.User, template string, data map[string]string) error
}
