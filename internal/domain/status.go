package domain

// AttemptStatus is the internal lifecycle state of a payment attempt.
type AttemptStatus string

const (
	// AttemptStatusAuthenticationPending - the cardholder has been sent into
	// the 3-D Secure challenge and has not returned yet.
	AttemptStatusAuthenticationPending AttemptStatus = "authentication_pending"
	// AttemptStatusAuthenticationSuccessful - the challenge validated; the
	// authorization has not completed yet.
	AttemptStatusAuthenticationSuccessful AttemptStatus = "authentication_successful"
	// AttemptStatusAuthorized - funds are held and await capture.
	AttemptStatusAuthorized AttemptStatus = "authorized"
	// AttemptStatusCharged - funds were captured.
	AttemptStatusCharged AttemptStatus = "charged"
	// AttemptStatusAutoRefunded - the provider refunded the attempt on its
	// own, without a refund request from us.
	AttemptStatusAutoRefunded AttemptStatus = "auto_refunded"
	// AttemptStatusVoided - the authorization was released.
	AttemptStatusVoided AttemptStatus = "voided"
	// AttemptStatusPending - a capture or void was submitted and its final
	// state has to be fetched via sync.
	AttemptStatusPending AttemptStatus = "pending"
	// AttemptStatusFailure - the attempt failed terminally.
	AttemptStatusFailure AttemptStatus = "failure"
)

// IsTerminal reports whether the attempt can still change state.
func (s AttemptStatus) IsTerminal() bool {
	switch s {
	case AttemptStatusCharged, AttemptStatusAutoRefunded, AttemptStatusVoided, AttemptStatusFailure:
		return true
	default:
		return false
	}
}

// RefundStatus is the internal lifecycle state of a refund.
type RefundStatus string

const (
	RefundStatusSuccess RefundStatus = "success"
	RefundStatusPending RefundStatus = "pending"
	RefundStatusFailure RefundStatus = "failure"
)
