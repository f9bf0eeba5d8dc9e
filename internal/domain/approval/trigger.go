package approval

// Trigger represents an action that can cause an application status transition
type Trigger string

const (
	TriggerSubmit         Trigger = "SUBMIT"
	TriggerReviewerReject Trigger = "REVIEWER_REJECT"
	TriggerFinalApprove   Trigger = "FINAL_APPROVE"
	TriggerFinalReject    Trigger = "FINAL_REJECT"
	TriggerResubmit       Trigger = "RESUBMIT"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
