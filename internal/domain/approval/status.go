package approval

// Status represents a project's application status in the approval lifecycle
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSubmitted Status = "SUBMITTED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
)

var validStatuses = map[Status]bool{
	StatusDraft:     true,
	StatusSubmitted: true,
	StatusApproved:  true,
	StatusRejected:  true,
}

// terminalStatuses lists statuses with no outgoing transitions.
// REJECTED is not listed: a rejected project may be resubmitted.
var terminalStatuses = map[Status]bool{
	StatusApproved: true,
}

// IsValid returns true if the status is a valid application status
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal returns true if no further transitions are allowed from the status
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// VoteStatus represents a single reviewer's (or the final approver's) verdict
type VoteStatus string

const (
	VotePending  VoteStatus = "PENDING"
	VoteApproved VoteStatus = "APPROVED"
	VoteRejected VoteStatus = "REJECTED"
)

// IsValid returns true if the vote status is one of the known verdicts
func (v VoteStatus) IsValid() bool {
	return v == VotePending || v == VoteApproved || v == VoteRejected
}

// String returns the string representation of the vote status
func (v VoteStatus) String() string {
	return string(v)
}
