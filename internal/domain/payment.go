package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CaptureMethod describes when authorized funds are captured.
type CaptureMethod string

const (
	// CaptureMethodUnspecified is treated as automatic.
	CaptureMethodUnspecified         CaptureMethod = ""
	CaptureMethodAutomatic           CaptureMethod = "automatic"
	CaptureMethodManual              CaptureMethod = "manual"
	CaptureMethodManualMultiple      CaptureMethod = "manual_multiple"
	CaptureMethodScheduled           CaptureMethod = "scheduled"
	CaptureMethodSequentialAutomatic CaptureMethod = "sequential_automatic"
)

// IsAutomatic reports whether capture happens together with authorization.
// Capture methods beyond manual/automatic are not served by this provider.
func (c CaptureMethod) IsAutomatic() (bool, error) {
	switch c {
	case CaptureMethodAutomatic, CaptureMethodSequentialAutomatic, CaptureMethodUnspecified:
		return true, nil
	case CaptureMethodManual:
		return false, nil
	default:
		return false, NewFlowNotSupportedError(string(c))
	}
}

// PaymentMethodData is the payment-method variant attached to a transaction.
// Only cards are implemented for this provider; the other variants exist so a
// builder can reject them with a precise error instead of a type assertion
// failure.
type PaymentMethodData interface {
	paymentMethodKind() string
}

// Card is raw card data supplied by the cardholder.
type Card struct {
	Number      string
	ExpiryMonth string
	ExpiryYear  string
	CVC         string
}

func (Card) paymentMethodKind() string { return "card" }

// ExpiryDateMMYY formats the card expiry as the provider's MM/YY contract.
func (c Card) ExpiryDateMMYY() (string, error) {
	month := strings.TrimSpace(c.ExpiryMonth)
	year := strings.TrimSpace(c.ExpiryYear)
	if month == "" || year == "" {
		return "", NewMissingFieldError("card_exp_month & card_exp_year")
	}
	if len(month) == 1 {
		month = "0" + month
	}
	if len(month) != 2 {
		return "", NewParsingError("card expiry month", fmt.Errorf("invalid month %q", c.ExpiryMonth))
	}
	if len(year) == 4 {
		year = year[2:]
	}
	if len(year) != 2 {
		return "", NewParsingError("card expiry year", fmt.Errorf("invalid year %q", c.ExpiryYear))
	}
	return month + "/" + year, nil
}

// Wallet is a wallet-based payment method (unsupported by this provider).
type Wallet struct{ Provider string }

func (Wallet) paymentMethodKind() string { return "wallet" }

// BankRedirect is a bank-redirect payment method (unsupported by this provider).
type BankRedirect struct{ Bank string }

func (BankRedirect) paymentMethodKind() string { return "bank_redirect" }

// BankTransfer is a bank-transfer payment method (unsupported by this provider).
type BankTransfer struct{}

func (BankTransfer) paymentMethodKind() string { return "bank_transfer" }

// MandateReferenceID identifies a previously stored mandate a payment wants
// to charge against.
type MandateReferenceID interface {
	mandateReferenceKind() string
}

// ConnectorMandateReference references a mandate by the provider's contract
// id, carried in the request reference id recorded at setup time.
type ConnectorMandateReference struct {
	ConnectorMandateID string
	RequestReferenceID string
}

func (ConnectorMandateReference) mandateReferenceKind() string { return "connector_mandate_id" }

// NetworkMandateReference references a mandate by a card-network transaction
// id. Not implemented for this provider.
type NetworkMandateReference struct {
	NetworkTransactionID string
}

func (NetworkMandateReference) mandateReferenceKind() string { return "network_mandate_id" }

// NetworkTokenMandateReference references a network-token bound mandate. Not
// implemented for this provider.
type NetworkTokenMandateReference struct{}

func (NetworkTokenMandateReference) mandateReferenceKind() string { return "network_token_with_nti" }

// Address is a postal address as the orchestrator holds it. Empty strings
// mean the field was not supplied; a nil *Address means the transaction
// carries no address container at all.
type Address struct {
	FirstName string
	LastName  string
	Line1     string
	Line2     string
	City      string
	Zip       string
	Country   string
}

// FullName joins first and last name; empty when neither is present.
func (a *Address) FullName() string {
	if a == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}

// RedirectResponse carries the raw payload the cardholder's browser posted
// back after a 3-D Secure challenge.
type RedirectResponse struct {
	// Payload is the provider-specific callback body; nil when the gateway
	// redirected without one.
	Payload json.RawMessage
}

// AuthorizeContext is the transaction state an authorize call builds from.
type AuthorizeContext struct {
	PaymentID   string
	Currency    Currency
	Description string
	// CompleteAuthorizeURL is where the 3-D Secure challenge returns to.
	CompleteAuthorizeURL string
	CaptureMethod        CaptureMethod
	// ThreeDSRequested is true when the attempt enrolled for 3-D Secure.
	ThreeDSRequested bool
	// SetupMandate requests contract creation for future merchant-initiated
	// charges on this payment.
	SetupMandate bool
	// MandateRequestReferenceID is the contract id proposed for a new mandate
	// and echoed back on reconciliation.
	MandateRequestReferenceID string
	// MandateReference is set when the payment charges an existing mandate.
	MandateReference MandateReferenceID
	PaymentMethod    PaymentMethodData
	Billing          *Address
	Shipping         *Address
}

// CompleteAuthorizeContext resumes an authorization after the 3-D Secure
// challenge completed.
type CompleteAuthorizeContext struct {
	PaymentID                 string
	Currency                  Currency
	Description               string
	CaptureMethod             CaptureMethod
	SetupMandate              bool
	MandateRequestReferenceID string
	PaymentMethod             PaymentMethodData
	Billing                   *Address
	Shipping                  *Address
	// AmountMinor is the attempt amount in minor units; zero-value mandate
	// verification charges reconcile differently.
	AmountMinor int64
	// Metadata is the persisted connector metadata blob.
	Metadata json.RawMessage
}

// PreProcessingContext carries the redirect callback into the 3-D Secure
// validation call.
type PreProcessingContext struct {
	RedirectResponse *RedirectResponse
	CaptureMethod    CaptureMethod
	Metadata         json.RawMessage
}

// CaptureContext is the state a capture call builds from.
type CaptureContext struct {
	Currency               Currency
	ConnectorTransactionID string
	Metadata               json.RawMessage
}

// CancelContext is the state a cancel (void) call builds from. Currency is a
// pointer because cancellation requests may arrive without one; the builder
// treats absence as a required-field failure.
type CancelContext struct {
	Currency               *Currency
	CancellationReason     string
	ConnectorTransactionID string
	Metadata               json.RawMessage
}

// SyncContext is the state a payment status sync reads.
type SyncContext struct {
	MandateRequestReferenceID string
	Metadata                  json.RawMessage
}

// RefundContext is the state a refund call builds from.
type RefundContext struct {
	Currency               Currency
	RefundID               string
	ConnectorTransactionID string
	Metadata               json.RawMessage
}
