package nexixpay

import "github.com/stratuspay/nexixpay-connector/internal/domain"

// attemptStatusOf maps a provider payment status to the internal attempt
// status. This table is the single source of truth for the flow's
// terminal/transient semantics; reconcilers never construct attempt statuses
// any other way, except for the capture/cancel/refund-execute calls whose
// responses carry no status at all.
func attemptStatusOf(status PaymentStatus) domain.AttemptStatus {
	switch status {
	case PaymentStatusDeclined, PaymentStatusDeniedByRisk, PaymentStatusThreedsFailed, PaymentStatusFailed:
		return domain.AttemptStatusFailure
	case PaymentStatusAuthorized:
		return domain.AttemptStatusAuthorized
	case PaymentStatusThreedsValidated:
		return domain.AttemptStatusAuthenticationSuccessful
	case PaymentStatusExecuted:
		return domain.AttemptStatusCharged
	case PaymentStatusPending:
		// Reported by authorization calls only.
		return domain.AttemptStatusAuthenticationPending
	case PaymentStatusCanceled, PaymentStatusVoided:
		return domain.AttemptStatusVoided
	case PaymentStatusRefunded:
		return domain.AttemptStatusAutoRefunded
	default:
		return domain.AttemptStatusFailure
	}
}

// refundStatusOf maps the provider's refund result enum to the internal
// refund status.
func refundStatusOf(status RefundResultStatus) domain.RefundStatus {
	switch status {
	case RefundResultVoided, RefundResultRefunded, RefundResultExecuted:
		return domain.RefundStatusSuccess
	case RefundResultPending:
		return domain.RefundStatusPending
	case RefundResultFailed:
		return domain.RefundStatusFailure
	default:
		return domain.RefundStatusFailure
	}
}

// declineErrorResponse builds the passthrough error outcome for a mapped
// failure: the provider supplies only a status text, which serves as both
// message and reason.
func declineErrorResponse(result PaymentStatus, httpStatus int) *domain.GatewayErrorResponse {
	return &domain.GatewayErrorResponse{
		StatusCode: httpStatus,
		Code:       domain.NoErrorCode,
		Message:    string(result),
		Reason:     string(result),
	}
}
