package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/garyjia/project-approval/internal/application/port"
	"github.com/garyjia/project-approval/internal/domain/entity"
	"go.uber.org/zap"
)

// ErrUnauthenticated is returned when the identity provider does not
// recognize the credential
var ErrUnauthenticated = errors.New("unauthenticated")

// Client implements port.IdentityVerifier against an external identity
// provider's verification endpoint
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds identity provider configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new identity verification client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type verifyResponse struct {
	SubjectID     int64  `json:"subject_id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Verify checks the bearer credential with the identity provider and
// returns the acting principal. The result is trusted as-is; identity is
// never re-derived locally.
func (c *Client) Verify(ctx context.Context, credential string) (*entity.Identity, error) {
	if credential == "" {
		return nil, ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/verify", nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Identity verification request failed", zap.Error(err))
		return nil, fmt.Errorf("verify request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthenticated
	default:
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}

	return &entity.Identity{
		SubjectID:     body.SubjectID,
		Email:         body.Email,
		EmailVerified: body.EmailVerified,
	}, nil
}

// Verify interface compliance
var _ port.IdentityVerifier = (*Client)(nil)
