// Package nexixpay translates the internal payment model into the NexixPay
// gateway wire format and reconciles gateway responses back into internal
// transaction outcomes. The builders and reconcilers are pure; Client wraps
// them with the HTTP plumbing.
package nexixpay

import (
	"encoding/json"

	"github.com/stratuspay/nexixpay-connector/internal/domain"
)

// PaymentStatus is the provider's operation result enum.
type PaymentStatus string

const (
	PaymentStatusAuthorized       PaymentStatus = "AUTHORIZED"
	PaymentStatusExecuted         PaymentStatus = "EXECUTED"
	PaymentStatusDeclined         PaymentStatus = "DECLINED"
	PaymentStatusDeniedByRisk     PaymentStatus = "DENIED_BY_RISK"
	PaymentStatusThreedsValidated PaymentStatus = "THREEDS_VALIDATED"
	PaymentStatusThreedsFailed    PaymentStatus = "THREEDS_FAILED"
	PaymentStatusPending          PaymentStatus = "PENDING"
	PaymentStatusCanceled         PaymentStatus = "CANCELED"
	PaymentStatusVoided           PaymentStatus = "VOIDED"
	PaymentStatusRefunded         PaymentStatus = "REFUNDED"
	PaymentStatusFailed           PaymentStatus = "FAILED"
)

// OperationType is the provider's operation classification.
type OperationType string

const (
	OperationTypeAuthorization    OperationType = "AUTHORIZATION"
	OperationTypeCapture          OperationType = "CAPTURE"
	OperationTypeVoid             OperationType = "VOID"
	OperationTypeRefund           OperationType = "REFUND"
	OperationTypeCardVerification OperationType = "CARD_VERIFICATION"
	OperationTypeNoshow           OperationType = "NOSHOW"
	OperationTypeIncremental      OperationType = "INCREMENTAL"
	OperationTypeDelayCharge      OperationType = "DELAY_CHARGE"
)

// RefundOperationType is the narrower operation set refund syncs report.
type RefundOperationType string

const RefundOperationTypeRefund RefundOperationType = "REFUND"

// RefundResultStatus is the provider's refund result enum, narrower than
// PaymentStatus.
type RefundResultStatus string

const (
	RefundResultPending  RefundResultStatus = "PENDING"
	RefundResultVoided   RefundResultStatus = "VOIDED"
	RefundResultRefunded RefundResultStatus = "REFUNDED"
	RefundResultFailed   RefundResultStatus = "FAILED"
	RefundResultExecuted RefundResultStatus = "EXECUTED"
)

// RecurringAction is the provider recurrence directive.
type RecurringAction string

const (
	RecurringActionNoRecurring       RecurringAction = "NO_RECURRING"
	RecurringActionSubsequentPayment RecurringAction = "SUBSEQUENT_PAYMENT"
	RecurringActionContractCreation  RecurringAction = "CONTRACT_CREATION"
)

// ContractType classifies who initiates charges under a contract.
type ContractType string

const (
	ContractTypeMITUnscheduled ContractType = "MIT_UNSCHEDULED"
	ContractTypeMITScheduled   ContractType = "MIT_SCHEDULED"
	ContractTypeCIT            ContractType = "CIT"
)

// CaptureType tells the provider whether capture rides along with
// authorization or arrives as a separate call.
type CaptureType string

const (
	CaptureTypeImplicit CaptureType = "IMPLICIT"
	CaptureTypeExplicit CaptureType = "EXPLICIT"
)

// PaymentIntent is the psync-flow hint persisted in connector metadata,
// naming the lifecycle stage a later status sync should interpret.
type PaymentIntent string

const (
	PaymentIntentCapture   PaymentIntent = "Capture"
	PaymentIntentCancel    PaymentIntent = "Cancel"
	PaymentIntentAuthorize PaymentIntent = "Authorize"
)

// CustomerAddress is the provider-facing postal address shape, shared by the
// billing and shipping slots.
type CustomerAddress struct {
	Name     string `json:"name,omitempty"`
	Street   string `json:"street,omitempty"`
	City     string `json:"city,omitempty"`
	PostCode string `json:"postCode,omitempty"`
	Country  string `json:"country,omitempty"`
}

// CustomerInfo carries cardholder identity on an order.
type CustomerInfo struct {
	CardHolderName  string           `json:"cardHolderName"`
	BillingAddress  *CustomerAddress `json:"billingAddress,omitempty"`
	ShippingAddress *CustomerAddress `json:"shippingAddress,omitempty"`
}

// Order is the per-request order object.
type Order struct {
	OrderID      string             `json:"orderId"`
	Amount       domain.MinorAmount `json:"amount"`
	Currency     domain.Currency    `json:"currency"`
	Description  string             `json:"description,omitempty"`
	CustomerInfo CustomerInfo       `json:"customerInfo"`
}

// CardDetails is the provider card shape; expiry is MM/YY.
type CardDetails struct {
	Pan        string `json:"pan"`
	ExpiryDate string `json:"expiryDate"`
}

// RecurrenceRequest asks the provider to create or charge a contract.
type RecurrenceRequest struct {
	Action       RecurringAction `json:"action"`
	ContractID   string          `json:"contractId"`
	ContractType ContractType    `json:"contractType"`
}

// PaymentsRequestData is the payload variant of a payments request, selected
// by whether the transaction references an existing mandate.
type PaymentsRequestData interface {
	isPaymentsRequestData()
}

// NonMandatePaymentRequest is the card flow payload.
type NonMandatePaymentRequest struct {
	Card       CardDetails        `json:"card"`
	Recurrence *RecurrenceRequest `json:"recurrence,omitempty"`
}

func (*NonMandatePaymentRequest) isPaymentsRequestData() {}

// MandatePaymentRequest is the reduced payload charging an existing contract.
type MandatePaymentRequest struct {
	ContractID  string      `json:"contractId"`
	CaptureType CaptureType `json:"captureType,omitempty"`
}

func (*MandatePaymentRequest) isPaymentsRequestData() {}

/// PaymentsRequest is the authorize wire request: an order plus the
// flow-selected payload flattened beside it.
type PaymentsRequest struct {
	Order Order
	Data  PaymentsRequestData
}

// MarshalJSON flattens the payload variant next to the order, matching the
// provider's untagged schema.
func (r PaymentsRequest) MarshalJSON() ([]byte, error) {
	switch data := r.Data.(type) {
	case *NonMandatePaymentRequest:
		return json.Marshal(struct {
			Order Order `json:"order"`
			*NonMandatePaymentRequest
		}{r.Order, data})
	case *MandatePaymentRequest:
		return json.Marshal(struct {
			Order Order `json:"order"`
			*MandatePaymentRequest
		}{r.Order, data})
	default:
		return json.Marshal(struct {
			Order Order `json:"order"`
		}{r.Order})
	}
}

// ThreeDSAuthData is the authentication payload completing a challenge.
type ThreeDSAuthData struct {
	ThreeDSAuthResponse string `json:"threeDSAuthResponse,omitempty"`
	AuthenticationValue string `json:"authenticationValue,omitempty"`
}

// ThreeDSAuthResult is the issuer's authentication artifact.
type ThreeDSAuthResult struct {
	AuthenticationValue string `json:"authenticationValue,omitempty"`
}

// CompleteAuthorizeRequest resumes an authorization after the challenge.
type CompleteAuthorizeRequest struct {
	Order           Order              `json:"order"`
	Card            CardDetails        `json:"card"`
	OperationID     string             `json:"operationId"`
	CaptureType     CaptureType        `json:"captureType,omitempty"`
	ThreeDSAuthData ThreeDSAuthData    `json:"threeDSAuthData"`
	Recurrence      *RecurrenceRequest `json:"recurrence,omitempty"`
}

// PreProcessingRequest validates the 3-D Secure callback with the provider.
type PreProcessingRequest struct {
	OperationID         string `json:"operationId,omitempty"`
	ThreeDSAuthResponse string `json:"threeDSAuthResponse,omitempty"`
}

// CaptureRequest settles previously authorized funds.
type CaptureRequest struct {
	Amount   domain.MinorAmount `json:"amount"`
	Currency domain.Currency    `json:"currency"`
}

// CancelRequest voids an authorization.
type CancelRequest struct {
	Description string             `json:"description,omitempty"`
	Amount      domain.MinorAmount `json:"amount"`
	Currency    domain.Currency    `json:"currency"`
}

// RefundRequest returns captured funds.
type RefundRequest struct {
	Amount   domain.MinorAmount `json:"amount"`
	Currency domain.Currency    `json:"currency"`
}

// AdditionalData is card metadata echoed on operations.
type AdditionalData struct {
	MaskedPan      string `json:"maskedPan"`
	CardID         string `json:"cardId"`
	CardID4        string `json:"cardId4,omitempty"`
	CardExpiryDate string `json:"cardExpiryDate,omitempty"`
}

// Operation is the provider's full operation record.
type Operation struct {
	AdditionalData    AdditionalData  `json:"additionalData"`
	CustomerInfo      CustomerInfo    `json:"customerInfo"`
	OperationAmount   string          `json:"operationAmount"`
	OperationCurrency domain.Currency `json:"operationCurrency"`
	OperationID       string          `json:"operationId"`
	OperationResult   PaymentStatus   `json:"operationResult"`
	OperationTime     string          `json:"operationTime"`
	OperationType     OperationType   `json:"operationType"`
	OrderID           string          `json:"orderId"`
	PaymentMethod     string          `json:"paymentMethod"`
	Warnings          []string        `json:"warnings,omitempty"`
}

// PaymentResponse is the card-flow authorize response; it always carries the
// 3-D Secure redirect artifacts.
type PaymentResponse struct {
	Operation          Operation `json:"operation"`
	ThreeDSAuthRequest string    `json:"threeDSAuthRequest"`
	ThreeDSAuthURL     string    `json:"threeDSAuthUrl"`
}

// MandateResponse is the contract-id flow authorize response; never a
// redirect.
type MandateResponse struct {
	Operation Operation `json:"operation"`
}

// PaymentsResponse is the untagged union of the two authorize response
// shapes. Exactly one of Payment and Mandate is set after decoding.
type PaymentsResponse struct {
	Payment *PaymentResponse
	Mandate *MandateResponse
}

// UnmarshalJSON discriminates the union by the presence of the 3-D Secure
// artifacts, which the payment shape always carries.
func (r *PaymentsResponse) UnmarshalJSON(data []byte) error {
	var probe struct {
		Operation          Operation `json:"operation"`
		ThreeDSAuthRequest string    `json:"threeDSAuthRequest"`
		ThreeDSAuthURL     string    `json:"threeDSAuthUrl"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.ThreeDSAuthURL != "" && probe.ThreeDSAuthRequest != "" {
		r.Payment = &PaymentResponse{
			Operation:          probe.Operation,
			ThreeDSAuthRequest: probe.ThreeDSAuthRequest,
			ThreeDSAuthURL:     probe.ThreeDSAuthURL,
		}
		return nil
	}
	r.Mandate = &MandateResponse{Operation: probe.Operation}
	return nil
}

// OperationData is the reduced operation record on complete-authorize
// responses.
type OperationData struct {
	OperationID       string          `json:"operationId"`
	OperationCurrency domain.Currency `json:"operationCurrency"`
	OperationResult   PaymentStatus   `json:"operationResult"`
	OperationType     OperationType   `json:"operationType"`
	OrderID           string          `json:"orderId"`
}

// CompleteAuthorizeResponse finishes the 3-D Secure authorization.
type CompleteAuthorizeResponse struct {
	Operation OperationData `json:"operation"`
}

// PreProcessingResponse is the 3-D Secure validation response.
type PreProcessingResponse struct {
	Operation         Operation         `json:"operation"`
	ThreeDSAuthResult ThreeDSAuthResult `json:"threeDSAuthResult"`
}

// TransactionStatusResponse is the payment status sync response.
type TransactionStatusResponse struct {
	OrderID         string        `json:"orderId"`
	OperationID     string        `json:"operationId"`
	OperationResult PaymentStatus `json:"operationResult"`
	OperationType   OperationType `json:"operationType"`
}

// RefundSyncResponse is the refund status sync response.
type RefundSyncResponse struct {
	OrderID         string              `json:"orderId"`
	OperationID     string              `json:"operationId"`
	OperationResult RefundResultStatus  `json:"operationResult"`
	OperationType   RefundOperationType `json:"operationType"`
}

/// OperationResponse is the minimal capture/cancel response: an operation id
// and nothing else. Settlement state arrives via a later sync.
type OperationResponse struct {
	OperationID string `json:"operationId"`
}

// RefundResponse is the refund execute response.
type RefundResponse struct {
	OperationID string `json:"operationId"`
}

// RedirectPayload is the body the issuer posts back to the return URL after
// a challenge.
type RedirectPayload struct {
	PaRes     *string `json:"PaRes"`
	PaymentID *string `json:"paymentId"`
}

// ErrorBody is one entry of a provider error response.
type ErrorBody struct {
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

// ErrorResponse is the provider's non-2xx body shape.
type ErrorResponse struct {
	Errors []ErrorBody `json:"errors"`
}
