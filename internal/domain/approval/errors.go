package approval

import "errors"

var (
	// ErrValidation is returned when input is malformed or missing
	ErrValidation = errors.New("validation failed")

	// ErrForbidden is returned when the caller lacks the role or assignment for the action
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState is returned when the action is not permitted in the current status
	ErrInvalidState = errors.New("invalid state for action")

	// ErrInvalidTransition is returned when a status transition is not in the transition table
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPreconditionFailed is returned when a state-dependent business rule is not met
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrAlreadyVoted is returned when a reviewer attempts to vote a second time
	ErrAlreadyVoted = errors.New("reviewer already voted")

	// ErrConcurrentModification is returned when optimistic-lock retries are exhausted
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrNotFound is returned when a referenced project, route or report does not exist
	ErrNotFound = errors.New("not found")
)
