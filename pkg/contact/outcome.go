package contact

// Outcome is the result of a single HandleSubmit call.
type Outcome string

const (
	// OutcomeAborted means the form reference was missing. Nothing was shown.
	OutcomeAborted Outcome = "aborted"
	// OutcomeMisconfigured means delivery credentials are missing.
	OutcomeMisconfigured Outcome = "misconfigured"
	// OutcomeBusy means the same form is still being submitted.
	OutcomeBusy Outcome = "busy"
	// OutcomeSent means the delivery call succeeded and the form was reset.
	OutcomeSent Outcome = "sent"
	// OutcomeFailed means the delivery call was rejected.
	OutcomeFailed Outcome = "failed"
)

func (o Outcome) String() string {
	return string(o)
}
