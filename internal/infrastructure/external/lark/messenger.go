package lark

import (
	"context"
	"encoding/json"
	"fmt"

	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"

	"github.com/garyjia/project-approval/internal/application/port"
	"github.com/garyjia/project-approval/internal/domain/entity"
)

// Messenger implements port.Notifier by sending Lark text messages
type Messenger struct {
	sdk    *SDKClient
	logger *zap.Logger
}

// NewMessenger creates a new Lark notification adapter
func NewMessenger(sdk *SDKClient, logger *zap.Logger) *Messenger {
	return &Messenger{
		sdk:    sdk,
		logger: logger,
	}
}

// Notify sends a rendered template as a text message to the recipient's
// Lark open ID. Recipients without an open ID are skipped.
func (m *Messenger) Notify(ctx context.Context, recipient *entity.User, template string, data map[string]string) error {
	if recipient == nil {
		return fmt.Errorf("recipient cannot be nil")
	}
	if recipient.LarkOpenID == "" {
		m.logger.Info("Recipient has no Lark open ID, skipping notification",
			zap.Int64("user_id", recipient.ID), zap.String("template", template))
		return nil
	}

	text := renderTemplate(template, data)

	content, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("failed to marshal message content: %w", err)
	}

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType("open_id").
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(recipient.LarkOpenID).
			MsgType("text").
			Content(string(content)).
			Build()).
		Build()

	resp, err := m.sdk.GetClient().Im.Message.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	if !resp.Success() {
		return fmt.Errorf("lark message rejected: code=%d msg=%s", resp.Code, resp.Msg)
	}

	return nil
}

// renderTemplate builds the user-visible message text for a template
func renderTemplate(template string, data map[string]string) string {
	name := data["project_name"]
	switch template {
	case entity.TemplateProjectSubmitted:
		return fmt.Sprintf("Project %q was submitted for approval (requested amount %s). Your review is requested.", name, data["amount"])
	case entity.TemplateReviewerVoted:
		return fmt.Sprintf("Reviewer %s approved project %q.", data["reviewer_id"], name)
	case entity.TemplateProjectApproved:
		return fmt.Sprintf("Project %q received final approval.", name)
	case entity.TemplateProjectRejected:
		return fmt.Sprintf("Project %q was rejected: %s", name, data["reason"])
	case entity.TemplateProjectResubmit:
		return fmt.Sprintf("Project %q was resubmitted with supplementary material.", name)
	default:
		return fmt.Sprintf("Update on project %q.", name)
	}
}

// Verify interface compliance
var _ port.Notifier = (*Messenger)(nil)
