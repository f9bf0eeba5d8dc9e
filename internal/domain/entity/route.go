package entity

import "time"

// ApprovalRoute maps a requested-amount threshold to a reviewer set and a
// final approver. Routes are authored by administrators and read-only here.
type ApprovalRoute struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	ThresholdAmount     int64     `json:"threshold_amount"`
	ReviewerIDs         []int64   `json:"reviewer_ids"`
	FinalApproverUserID int64     `json:"final_approver_user_id"`
	Active              bool      `json:"active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ResolvedRoute is the reviewer set and final approver selected for a
// concrete requested amount
type ResolvedRoute struct {
	ReviewerIDs         []int64 `json:"reviewer_ids"`
	FinalApproverUserID int64   `json:"final_approver_user_id"`
}
