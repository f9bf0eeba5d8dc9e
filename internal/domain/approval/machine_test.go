package approval

import (
	"errors"
	"testing"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		trigger Trigger
		want    Status
		wantErr bool
	}{
		{name: "draft submit", from: StatusDraft, trigger: TriggerSubmit, want: StatusSubmitted},
		{name: "reviewer reject", from: StatusSubmitted, trigger: TriggerReviewerReject, want: StatusRejected},
		{name: "final approve", from: StatusSubmitted, trigger: TriggerFinalApprove, want: StatusApproved},
		{name: "final reject", from: StatusSubmitted, trigger: TriggerFinalReject, want: StatusRejected},
		{name: "resubmit", from: StatusRejected, trigger: TriggerResubmit, want: StatusDraft},
		{name: "submit twice", from: StatusSubmitted, trigger: TriggerSubmit, wantErr: true},
		{name: "approved is terminal", from: StatusApproved, trigger: TriggerResubmit, wantErr: true},
		{name: "cannot resubmit a draft", from: StatusDraft, trigger: TriggerResubmit, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.trigger)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Next() error = %v, want ErrInvalidTransition", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Next() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanFire(t *testing.T) {
	if !CanFire(StatusDraft, TriggerSubmit) {
		t.Error("CanFire(DRAFT, submit) = false")
	}
	if CanFire(StatusApproved, TriggerSubmit) {
		t.Error("CanFire(APPROVED, submit) = true")
	}
}

func TestPermittedTriggers(t *testing.T) {
	if got := PermittedTriggers(StatusSubmitted); len(got) != 3 {
		t.Errorf("PermittedTriggers(SUBMITTED) = %v, want 3 triggers", got)
	}
	if got := PermittedTriggers(StatusApproved); len(got) != 0 {
		t.Errorf("PermittedTriggers(APPROVED) = %v, want none", got)
	}
}
