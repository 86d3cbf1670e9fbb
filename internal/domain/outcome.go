package domain

import "encoding/json"

// NoErrorCode is the sentinel code for provider declines: the gateway reports
// a status text but no numeric error code.
const NoErrorCode = "No error code"

// RedirectInstruction tells the orchestrator how to send the cardholder into
// a 3-D Secure challenge: an HTML form POST against the issuer's endpoint.
type RedirectInstruction struct {
	Endpoint   string
	Method     string
	FormFields map[string]string
}

// MandateReference echoes the mandate linkage back to the orchestrator after
// reconciliation.
type MandateReference struct {
	ConnectorMandateID string
}

// TransactionResponse is the successful half of a payment outcome.
type TransactionResponse struct {
	// ResourceID is the provider-side transaction identifier.
	ResourceID string
	// Redirect is set only when a 3-D Secure challenge is required.
	Redirect *RedirectInstruction
	// MandateReference echoes the contract linkage when one is bound.
	MandateReference *MandateReference
	// Metadata is the replacement connector metadata blob to persist; nil
	// leaves the persisted blob untouched.
	Metadata json.RawMessage
	// ReferenceID is the provider reference used for reconciliation reports.
	ReferenceID string
}

// GatewayErrorResponse is a structured provider decline or error, passed
// through to the orchestrator instead of a transaction response.
type GatewayErrorResponse struct {
	// StatusCode is the HTTP status of the wire response, verbatim.
	StatusCode int
	Code       string
	Message    string
	Reason     string
}

// PaymentOutcome is the reconciled result of one payment lifecycle call.
// Exactly one of Response and Error is set; when Error is set the attempt
// status is left unchanged and Status is empty.
type PaymentOutcome struct {
	Status   AttemptStatus
	Response *TransactionResponse
	Error    *GatewayErrorResponse
}

// RefundOutcome is the reconciled result of a refund execute or sync call.
type RefundOutcome struct {
	// RefundID is the provider-side refund operation identifier.
	RefundID string
	Status   RefundStatus
}
