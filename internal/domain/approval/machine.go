package approval

import "fmt"

// transitions is the closed transition table for application status.
// Approval routes are a fixed two-tier shape, so a static table replaces
// a configurable state machine builder.
var transitions = map[Status]map[Trigger]Status{
	StatusDraft: {
		TriggerSubmit: StatusSubmitted,
	},
	StatusSubmitted: {
		TriggerReviewerReject: StatusRejected,
		TriggerFinalApprove:   StatusApproved,
		TriggerFinalReject:    StatusRejected,
	},
	StatusRejected: {
		TriggerResubmit: StatusDraft,
	},
}

// CanFire returns true if the trigger is permitted in the given status
func CanFire(from Status, trigger Trigger) bool {
	_, ok := transitions[from][trigger]
	return ok
}

// Next returns the status reached by firing the trigger from the given status
func Next(from Status, trigger Trigger) (Status, error) {
	to, ok := transitions[from][trigger]
	if !ok {
		return from, fmt.Errorf("%w: cannot fire %s from %s", ErrInvalidTransition, trigger, from)
	}
	return to, nil
}

// PermittedTriggers returns all triggers that can be fired from the given status
func PermittedTriggers(from Status) []Trigger {
	ts := make([]Trigger, 0, len(transitions[from]))
	for t := range transitions[from] {
		ts = append(ts, t)
	}
	return ts
}
