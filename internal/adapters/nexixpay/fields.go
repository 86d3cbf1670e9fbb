package nexixpay

import (
	"math/rand"

	"github.com/stratuspay/nexixpay-connector/internal/domain"
)

// internalPaymentIDPrefix marks payment ids minted by the platform itself.
// Only these may be substituted when they exceed the provider's order-id
// limit; caller-supplied ids must surface a validation error instead.
const internalPaymentIDPrefix = "pay_"

// RandomSource produces an n-character random string. It is injected so
// tests can supply a deterministic source.
type RandomSource func(n int) string

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// defaultRandomSource draws from the alphanumeric alphabet.
func defaultRandomSource(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphanumeric[rand.Intn(len(alphanumeric))]
	}
	return string(buf)
}

// resolveOrderID maps the internal payment id onto the provider's 18-char
// order id. Oversized platform-generated ids are replaced with a random
// 18-char alphanumeric id; collisions are accepted since retries regenerate.
// Oversized external ids fail with a length violation on payment_id.
func resolveOrderID(paymentID string, random RandomSource) (string, error) {
	if len(paymentID) <= maxOrderIDLength {
		return paymentID, nil
	}
	if len(paymentID) >= len(internalPaymentIDPrefix) && paymentID[:len(internalPaymentIDPrefix)] == internalPaymentIDPrefix {
		return random(maxOrderIDLength), nil
	}
	return "", domain.NewMaxFieldLengthError("payment_id", maxOrderIDLength, len(paymentID))
}

// resolveCardHolderName resolves the cardholder name from the billing
// address and enforces the provider's length limit.
func resolveCardHolderName(billing *domain.Address) (string, error) {
	name := billing.FullName()
	if name == "" {
		return "", domain.NewMissingFieldError("billing.address.first_name & billing.address.last_name")
	}
	if len(name) > maxCardHolderLength {
		return "", domain.NewMaxFieldLengthError(
			"billing.address.first_name & billing.address.last_name",
			maxCardHolderLength, len(name))
	}
	return name, nil
}

// captureTypeOf derives the provider capture type from the requested capture
// method: manual capture is explicit, automatic variants are implicit, and
// anything else is unsupported for this provider.
func captureTypeOf(method domain.CaptureMethod) (CaptureType, error) {
	switch method {
	case domain.CaptureMethodManual:
		return CaptureTypeExplicit, nil
	case domain.CaptureMethodAutomatic, domain.CaptureMethodSequentialAutomatic, domain.CaptureMethodUnspecified:
		return CaptureTypeImplicit, nil
	default:
		return "", domain.NewFlowNotSupportedError(string(method))
	}
}
