// Package fixtures provides fluent builders for test transaction contexts.
package fixtures

import (
	"github.com/stratuspay/nexixpay-connector/internal/domain"
)

// Card returns a valid test card.
func Card() domain.Card {
	return domain.Card{
		Number:      "4111111111111111",
		ExpiryMonth: "9",
		ExpiryYear:  "2027",
		CVC:         "123",
	}
}

// BillingAddress returns a complete Italian billing address.
func BillingAddress() *domain.Address {
	return &domain.Address{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Line1:     "Via Roma 1",
		City:      "Milano",
		Zip:       "20121",
		Country:   "ITA",
	}
}

// AuthorizeBuilder provides fluent API for building authorize contexts.
type AuthorizeBuilder struct {
	ctx *domain.AuthorizeContext
}

// NewAuthorize creates an authorize context builder with sensible defaults:
// a 3-D Secure card payment with automatic capture.
func NewAuthorize() *AuthorizeBuilder {
	return &AuthorizeBuilder{
		ctx: &domain.AuthorizeContext{
			PaymentID:            "pay_123",
			Currency:             "EUR",
			Description:          "order 42",
			CompleteAuthorizeURL: "https://merchant.example/return",
			CaptureMethod:        domain.CaptureMethodAutomatic,
			ThreeDSRequested:     true,
			PaymentMethod:        Card(),
			Billing:              BillingAddress(),
		},
	}
}

func (b *AuthorizeBuilder) WithPaymentID(id string) *AuthorizeBuilder {
	b.ctx.PaymentID = id
	return b
}

func (b *AuthorizeBuilder) WithCaptureMethod(method domain.CaptureMethod) *AuthorizeBuilder {
	b.ctx.CaptureMethod = method
	return b
}

func (b *AuthorizeBuilder) WithThreeDSRequested(requested bool) *AuthorizeBuilder {
	b.ctx.ThreeDSRequested = requested
	return b
}

func (b *AuthorizeBuilder) WithSetupMandate(referenceID string) *AuthorizeBuilder {
	b.ctx.SetupMandate = true
	b.ctx.MandateRequestReferenceID = referenceID
	return b
}

func (b *AuthorizeBuilder) WithMandateReference(ref domain.MandateReferenceID) *AuthorizeBuilder {
	b.ctx.MandateReference = ref
	return b
}

func (b *AuthorizeBuilder) WithPaymentMethod(method domain.PaymentMethodData) *AuthorizeBuilder {
	b.ctx.PaymentMethod = method
	return b
}

func (b *AuthorizeBuilder) WithBilling(billing *domain.Address) *AuthorizeBuilder {
	b.ctx.Billing = billing
	return b
}

func (b *AuthorizeBuilder) WithCompleteAuthorizeURL(url string) *AuthorizeBuilder {
	b.ctx.CompleteAuthorizeURL = url
	return b
}

// Build returns the assembled context.
func (b *AuthorizeBuilder) Build() *domain.AuthorizeContext {
	return b.ctx
}
