package entity

import (
	"encoding/json"
	"time"

	"github.com/garyjia/project-approval/internal/domain/approval"
)

// ReviewerVote is one reviewer's recorded verdict on a project
type ReviewerVote struct {
	Status        approval.VoteStatus `json:"status"`
	ReviewComment string              `json:"review_comment,omitempty"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ReviewerApprovals maps reviewer user IDs to their votes. An absent key
// means the reviewer is still pending.
type ReviewerApprovals map[int64]ReviewerVote

// VoteFor returns the stored vote for the reviewer, defaulting to PENDING
func (m ReviewerApprovals) VoteFor(reviewerID int64) ReviewerVote {
	if v, ok := m[reviewerID]; ok {
		return v
	}
	return ReviewerVote{Status: approval.VotePending}
}

// HasVoted returns true if the reviewer has a non-pending entry
func (m ReviewerApprovals) HasVoted(reviewerID int64) bool {
	v, ok := m[reviewerID]
	return ok && v.Status != approval.VotePending
}

// AllApproved returns true if every assigned reviewer has an APPROVED entry
func (m ReviewerApprovals) AllApproved(assigned []int64) bool {
	for _, id := range assigned {
		if m.VoteFor(id).Status != approval.VoteApproved {
			return false
		}
	}
	return true
}

// Clone returns a copy of the map so a caller can build the CAS successor
// value without mutating the snapshot it read.
func (m ReviewerApprovals) Clone() ReviewerApprovals {
	out := make(ReviewerApprovals, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Marshal serializes the map to its canonical JSON form. encoding/json
// emits map keys in sorted order, so equal maps always produce equal text,
// which is what the compare-and-swap predicate relies on.
func (m ReviewerApprovals) Marshal() (string, error) {
	if m == nil {
		m = ReviewerApprovals{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalApprovals parses the stored JSON approval map
func UnmarshalApprovals(raw string) (ReviewerApprovals, error) {
	if raw == "" {
		return ReviewerApprovals{}, nil
	}
	var m ReviewerApprovals
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Project represents a funding/authorization application and its
// post-approval tracking state
type Project struct {
	ID                   int64               `json:"id"`
	Name                 string              `json:"name"`
	Description          string              `json:"description"`
	Status               string              `json:"status"`
	ApplicationStatus    approval.Status     `json:"application_status"`
	ExecutorID           int64               `json:"executor_id"`
	RequestedAmount      int64               `json:"requested_amount"`
	ReviewerID           *int64              `json:"reviewer_id,omitempty"`
	FinalApproverUserID  *int64              `json:"final_approver_user_id,omitempty"`
	FinalApprovalStatus  approval.VoteStatus `json:"final_approval_status"`
	FinalApprovalComment string              `json:"final_approval_comment,omitempty"`
	ApprovedAt           *time.Time          `json:"approved_at,omitempty"`
	ProjectPhase         string              `json:"project_phase,omitempty"`
	ResubmissionNote     string              `json:"resubmission_note,omitempty"`

	ReviewerApprovals ReviewerApprovals `json:"reviewer_approvals"`
	// RawApprovals is the exact JSON text read from the store; it is the
	// comparand for the optimistic-concurrency predicate.
	RawApprovals string `json:"-"`

	ExtractedText   string     `json:"extracted_text,omitempty"`
	AnalysisPayload string     `json:"analysis_payload,omitempty"`
	AnalyzedAt      *time.Time `json:"analyzed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewerEntry is one row of the approval-status projection
type ReviewerEntry struct {
	ReviewerID    int64               `json:"reviewer_id"`
	Status        approval.VoteStatus `json:"status"`
	ReviewComment string              `json:"review_comment,omitempty"`
	UpdatedAt     *time.Time          `json:"updated_at,omitempty"`
}

// ApprovalStatusView is the fresh read-model of a project's approval progress
type ApprovalStatusView struct {
	ProjectID            int64               `json:"project_id"`
	ApplicationStatus    approval.Status     `json:"application_status"`
	Reviewers            []ReviewerEntry     `json:"reviewers"`
	FinalApproverUserID  int64               `json:"final_approver_user_id"`
	FinalApprovalStatus  approval.VoteStatus `json:"final_approval_status"`
	FinalApprovalComment string              `json:"final_approval_comment,omitempty"`
	TotalReviewers       int                 `json:"total_reviewers"`
	ApprovedCount        int                 `json:"approved_count"`
	PendingCount         int                 `json:"pending_count"`
	AllReviewersApproved bool                `json:"all_reviewers_approved"`
}
