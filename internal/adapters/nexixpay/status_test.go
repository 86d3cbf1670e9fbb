package nexixpay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stratuspay/nexixpay-connector/internal/domain"
)

func TestAttemptStatusOf(t *testing.T) {
	tests := []struct {
		status PaymentStatus
		want   domain.AttemptStatus
	}{
		{PaymentStatusDeclined, domain.AttemptStatusFailure},
		{PaymentStatusDeniedByRisk, domain.AttemptStatusFailure},
		{PaymentStatusThreedsFailed, domain.AttemptStatusFailure},
		{PaymentStatusFailed, domain.AttemptStatusFailure},
		{PaymentStatusAuthorized, domain.AttemptStatusAuthorized},
		{PaymentStatusThreedsValidated, domain.AttemptStatusAuthenticationSuccessful},
		{PaymentStatusExecuted, domain.AttemptStatusCharged},
		{PaymentStatusPending, domain.AttemptStatusAuthenticationPending},
		{PaymentStatusCanceled, domain.AttemptStatusVoided},
		{PaymentStatusVoided, domain.AttemptStatusVoided},
		{PaymentStatusRefunded, domain.AttemptStatusAutoRefunded},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, attemptStatusOf(tt.status))
		})
	}
}

func TestAttemptStatusOf_UnknownStatusFails(t *testing.T) {
	assert.Equal(t, domain.AttemptStatusFailure, attemptStatusOf("SOMETHING_NEW"))
}

func TestRefundStatusOf(t *testing.T) {
	tests := []struct {
		status RefundResultStatus
		want   domain.RefundStatus
	}{
		{RefundResultVoided, domain.RefundStatusSuccess},
		{RefundResultRefunded, domain.RefundStatusSuccess},
		{RefundResultExecuted, domain.RefundStatusSuccess},
		{RefundResultPending, domain.RefundStatusPending},
		{RefundResultFailed, domain.RefundStatusFailure},
		{"SOMETHING_NEW", domain.RefundStatusFailure},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, refundStatusOf(tt.status))
		})
	}
}

func TestDeclineErrorResponse(t *testing.T) {
	resp := declineErrorResponse(PaymentStatusDeclined, 200)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, domain.NoErrorCode, resp.Code)
	assert.Equal(t, "DECLINED", resp.Message)
	assert.Equal(t, "DECLINED", resp.Reason)
}
