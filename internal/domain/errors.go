package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable connector error code
type ErrorCode string

const (
	// Validation errors (VALIDATION_*)
	ErrorCodeMaxFieldLength ErrorCode = "VALIDATION_MAX_FIELD_LENGTH"
	ErrorCodeMissingField   ErrorCode = "VALIDATION_MISSING_FIELD"

	// Unsupported operations (UNSUPPORTED_*)
	ErrorCodeNotImplemented   ErrorCode = "UNSUPPORTED_NOT_IMPLEMENTED"
	ErrorCodeNotSupported     ErrorCode = "UNSUPPORTED_NOT_SUPPORTED"
	ErrorCodeFlowNotSupported ErrorCode = "UNSUPPORTED_FLOW"
	ErrorCodeMissingMandateID ErrorCode = "UNSUPPORTED_MISSING_MANDATE_ID"
	ErrorCodeAuthTypeInvalid  ErrorCode = "UNSUPPORTED_AUTH_TYPE"

	// Parsing errors (PARSING_*)
	ErrorCodeParsingFailed          ErrorCode = "PARSING_FAILED"
	ErrorCodeMissingRedirectPayload ErrorCode = "PARSING_MISSING_REDIRECT_PAYLOAD"
	ErrorCodeResponseDecodeFailed   ErrorCode = "PARSING_RESPONSE_DECODE_FAILED"

	// Gateway errors (GATEWAY_*)
	ErrorCodeGatewayError    ErrorCode = "GATEWAY_ERROR"
	ErrorCodeGatewayDeclined ErrorCode = "GATEWAY_DECLINED"
)

// ConnectorError is a structured connector error with error code and context
type ConnectorError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *ConnectorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ConnectorError) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail field to the error
func (e *ConnectorError) WithDetail(key string, value interface{}) *ConnectorError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewConnectorError creates a new connector error
func NewConnectorError(code ErrorCode, message string) *ConnectorError {
	return &ConnectorError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapConnectorError wraps an existing error with a connector error code
func WrapConnectorError(code ErrorCode, message string, err error) *ConnectorError {
	return &ConnectorError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// NewMaxFieldLengthError reports a provider length-limit violation. The field
// name is the composite internal field the wire value was mapped from, so the
// caller can surface which input exceeded the limit.
func NewMaxFieldLengthError(field string, maxLength, receivedLength int) *ConnectorError {
	return NewConnectorError(ErrorCodeMaxFieldLength,
		fmt.Sprintf("%s exceeds the maximum of %d characters (got %d)", field, maxLength, receivedLength)).
		WithDetail("field_name", field).
		WithDetail("max_length", maxLength).
		WithDetail("received_length", receivedLength)
}

// NewMissingFieldError reports an absent required field.
func NewMissingFieldError(field string) *ConnectorError {
	return NewConnectorError(ErrorCodeMissingField,
		fmt.Sprintf("required field %s is missing", field)).
		WithDetail("field_name", field)
}

// NewNotImplementedError reports a payment method or mandate reference the
// provider integration does not implement.
func NewNotImplementedError(what string) *ConnectorError {
	return NewConnectorError(ErrorCodeNotImplemented,
		fmt.Sprintf("%s is not implemented for nexixpay", what))
}

// NewNotSupportedError reports a feature the provider explicitly rejects.
func NewNotSupportedError(message string) *ConnectorError {
	return NewConnectorError(ErrorCodeNotSupported, message)
}

// NewFlowNotSupportedError reports a capture method the provider cannot serve.
func NewFlowNotSupportedError(flow string) *ConnectorError {
	return NewConnectorError(ErrorCodeFlowNotSupported,
		fmt.Sprintf("flow %s is not supported by nexixpay", flow)).
		WithDetail("flow", flow)
}

// NewParsingError reports a malformed persisted metadata blob or wire body.
func NewParsingError(what string, err error) *ConnectorError {
	return WrapConnectorError(ErrorCodeParsingFailed,
		fmt.Sprintf("failed to parse %s", what), err)
}

// NewMissingRedirectPayloadError reports an absent or unusable redirect
// callback payload. Distinct from NewMissingFieldError so callers can tell a
// missing container apart from a payload that failed to parse.
func NewMissingRedirectPayloadError(field string) *ConnectorError {
	return NewConnectorError(ErrorCodeMissingRedirectPayload,
		fmt.Sprintf("redirect payload %s is missing or malformed", field)).
		WithDetail("field_name", field)
}

// IsConnectorError checks if an error is a ConnectorError with the given code
func IsConnectorError(err error, code ErrorCode) bool {
	var connErr *ConnectorError
	if errors.As(err, &connErr) {
		return connErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error, returns empty string if
// not a ConnectorError
func GetErrorCode(err error) ErrorCode {
	var connErr *ConnectorError
	if errors.As(err, &connErr) {
		return connErr.Code
	}
	return ""
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeMaxFieldLength || code == ErrorCodeMissingField
}

// IsUnsupportedError checks if an error reports an unimplemented or
// unsupported operation; these are never retried
func IsUnsupportedError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeNotImplemented ||
		code == ErrorCodeNotSupported ||
		code == ErrorCodeFlowNotSupported ||
		code == ErrorCodeMissingMandateID ||
		code == ErrorCodeAuthTypeInvalid
}

// IsParsingError checks if an error is a parsing error
func IsParsingError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeParsingFailed ||
		code == ErrorCodeMissingRedirectPayload ||
		code == ErrorCodeResponseDecodeFailed
}
