package nexixpay

import (
	"encoding/json"

	"github.com/stratuspay/nexixpay-connector/internal/domain"
)

// Transformer builds NexixPay wire requests from internal transaction
// contexts and reconciles wire responses back into internal outcomes. It is
// stateless apart from the injected random source and safe for concurrent
// use; every method is a pure transformation over its inputs.
type Transformer struct {
	random RandomSource
}

// NewTransformer creates a transformer with an injected random source.
func NewTransformer(random RandomSource) *Transformer {
	return &Transformer{random: random}
}

// NewTransformerWithDefaults creates a transformer using the default
// alphanumeric random source.
func NewTransformerWithDefaults() *Transformer {
	return NewTransformer(defaultRandomSource)
}

// buildOrder assembles the per-request order object shared by authorize and
// complete-authorize, enforcing the order-id and address policies.
func (t *Transformer) buildOrder(paymentID, description string, amount domain.MinorAmount, currency domain.Currency, billing, shipping *domain.Address, checkHolderLength bool) (Order, error) {
	orderID, err := resolveOrderID(paymentID, t.random)
	if err != nil {
		return Order{}, err
	}

	billingAddress, err := validatedAddress(billing, addressKindBilling)
	if err != nil {
		return Order{}, err
	}
	shippingAddress, err := validatedAddress(shipping, addressKindShipping)
	if err != nil {
		return Order{}, err
	}

	var holderName string
	if checkHolderLength {
		holderName, err = resolveCardHolderName(billing)
		if err != nil {
			return Order{}, err
		}
	} else {
		holderName = billing.FullName()
		if holderName == "" {
			return Order{}, domain.NewMissingFieldError("billing.address.first_name & billing.address.last_name")
		}
	}

	return Order{
		OrderID:     orderID,
		Amount:      amount,
		Currency:    currency,
		Description: description,
		CustomerInfo: CustomerInfo{
			CardHolderName:  holderName,
			BillingAddress:  billingAddress,
			ShippingAddress: shippingAddress,
		},
	}, nil
}

// recurrenceFor returns the contract-creation directive for mandate-setup
// transactions, nil otherwise. New contracts are always merchant-initiated
// unscheduled.
func recurrenceFor(setupMandate bool, requestReferenceID string) (*RecurrenceRequest, error) {
	if !setupMandate {
		return nil, nil
	}
	if requestReferenceID == "" {
		return nil, domain.NewMissingFieldError("connector_mandate_request_reference_id")
	}
	return &RecurrenceRequest{
		Action:       RecurringActionContractCreation,
		ContractID:   requestReferenceID,
		ContractType: ContractTypeMITUnscheduled,
	}, nil
}

// cardDetailsFrom extracts the wire card shape, rejecting every other
// payment-method variant as unimplemented for this provider.
func cardDetailsFrom(method domain.PaymentMethodData) (CardDetails, error) {
	card, ok := method.(domain.Card)
	if !ok {
		return CardDetails{}, domain.NewNotImplementedError("payment method")
	}
	expiry, err := card.ExpiryDateMMYY()
	if err != nil {
		return CardDetails{}, err
	}
	return CardDetails{Pan: card.Number, ExpiryDate: expiry}, nil
}

// BuildAuthorizeRequest produces the authorize wire request. Card payments
// must participate in 3-D Secure; transactions referencing an existing
// contract switch to the reduced mandate shape.
func (t *Transformer) BuildAuthorizeRequest(ctx *domain.AuthorizeContext, amount domain.MinorAmount) (*PaymentsRequest, error) {
	order, err := t.buildOrder(ctx.PaymentID, ctx.Description, amount, ctx.Currency, ctx.Billing, ctx.Shipping, true)
	if err != nil {
		return nil, err
	}

	data, err := t.buildAuthorizePaymentData(ctx)
	if err != nil {
		return nil, err
	}

	return &PaymentsRequest{Order: order, Data: data}, nil
}

// buildAuthorizePaymentData selects the payload variant by inspecting the
// bound mandate reference.
func (t *Transformer) buildAuthorizePaymentData(ctx *domain.AuthorizeContext) (PaymentsRequestData, error) {
	switch ref := ctx.MandateReference.(type) {
	case nil:
		recurrence, err := recurrenceFor(ctx.SetupMandate, ctx.MandateRequestReferenceID)
		if err != nil {
			return nil, err
		}
		if _, ok := ctx.PaymentMethod.(domain.Card); !ok {
			return nil, domain.NewNotImplementedError("payment method")
		}
		if !ctx.ThreeDSRequested {
			return nil, domain.NewNotSupportedError("no threeds is not supported")
		}
		card, err := cardDetailsFrom(ctx.PaymentMethod)
		if err != nil {
			return nil, err
		}
		return &NonMandatePaymentRequest{Card: card, Recurrence: recurrence}, nil

	case domain.ConnectorMandateReference:
		if ref.RequestReferenceID == "" {
			return nil, domain.NewConnectorError(domain.ErrorCodeMissingMandateID, "connector mandate id is missing")
		}
		captureType, err := captureTypeOf(ctx.CaptureMethod)
		if err != nil {
			return nil, err
		}
		return &MandatePaymentRequest{ContractID: ref.RequestReferenceID, CaptureType: captureType}, nil

	default:
		return nil, domain.NewNotImplementedError("payment method")
	}
}

// BuildCompleteAuthorizeRequest produces the post-challenge authorization
// request. The authorization operation id and 3-D Secure artifacts come from
// the persisted connector metadata.
func (t *Transformer) BuildCompleteAuthorizeRequest(ctx *domain.CompleteAuthorizeContext, amount domain.MinorAmount) (*CompleteAuthorizeRequest, error) {
	if ctx.PaymentMethod == nil {
		return nil, domain.NewMissingFieldError("payment_method_data")
	}
	captureType, err := captureTypeOf(ctx.CaptureMethod)
	if err != nil {
		return nil, err
	}

	order, err := t.buildOrder(ctx.PaymentID, ctx.Description, amount, ctx.Currency, ctx.Billing, ctx.Shipping, false)
	if err != nil {
		return nil, err
	}

	meta, err := DecodeMetadata(ctx.Metadata)
	if err != nil {
		return nil, err
	}
	if meta.AuthorizationOperationID == nil {
		return nil, domain.NewMissingFieldError("authorization_operation_id")
	}

	var authenticationValue string
	if meta.ThreeDSAuthResult != nil {
		authenticationValue = meta.ThreeDSAuthResult.AuthenticationValue
	}
	var authResponse string
	if meta.ThreeDSAuthResponse != nil {
		authResponse = *meta.ThreeDSAuthResponse
	}

	card, err := cardDetailsFrom(ctx.PaymentMethod)
	if err != nil {
		return nil, err
	}

	recurrence, err := recurrenceFor(ctx.SetupMandate, ctx.MandateRequestReferenceID)
	if err != nil {
		return nil, err
	}

	return &CompleteAuthorizeRequest{
		Order:       order,
		Card:        card,
		OperationID: *meta.AuthorizationOperationID,
		CaptureType: captureType,
		ThreeDSAuthData: ThreeDSAuthData{
			ThreeDSAuthResponse: authResponse,
			AuthenticationValue: authenticationValue,
		},
		Recurrence: recurrence,
	}, nil
}

// BuildPreProcessingRequest extracts the issuer callback into the 3-D Secure
// validation request. An absent redirect container and an unparsable payload
// fail distinctly.
func (t *Transformer) BuildPreProcessingRequest(ctx *domain.PreProcessingContext) (*PreProcessingRequest, error) {
	payload, err := redirectPayloadFrom(ctx.RedirectResponse)
	if err != nil {
		return nil, err
	}

	req := &PreProcessingRequest{}
	if payload.PaymentID != nil {
		req.OperationID = *payload.PaymentID
	}
	if payload.PaRes != nil {
		req.ThreeDSAuthResponse = *payload.PaRes
	}
	return req, nil
}

// redirectPayloadFrom parses the redirect callback body shared by the
// pre-processing builder and reconciler.
func redirectPayloadFrom(redirect *domain.RedirectResponse) (RedirectPayload, error) {
	if redirect == nil {
		return RedirectPayload{}, domain.NewMissingFieldError("redirect_response")
	}
	if len(redirect.Payload) == 0 {
		return RedirectPayload{}, domain.NewMissingRedirectPayloadError("request.redirect_response.payload")
	}
	var payload RedirectPayload
	if err := json.Unmarshal(redirect.Payload, &payload); err != nil {
		return RedirectPayload{}, domain.NewMissingRedirectPayloadError("redirection_payload")
	}
	return payload, nil
}

// BuildCaptureRequest produces the capture wire request.
func (t *Transformer) BuildCaptureRequest(ctx *domain.CaptureContext, amount domain.MinorAmount) (*CaptureRequest, error) {
	return &CaptureRequest{Amount: amount, Currency: ctx.Currency}, nil
}

// BuildCancelRequest produces the void wire request. Unlike the other flows
// the currency is not always known from context, so its absence is a
// required-field failure.
func (t *Transformer) BuildCancelRequest(ctx *domain.CancelContext, amount domain.MinorAmount) (*CancelRequest, error) {
	if ctx.Currency == nil {
		return nil, domain.NewMissingFieldError("currency")
	}
	return &CancelRequest{
		Description: ctx.CancellationReason,
		Amount:      amount,
		Currency:    *ctx.Currency,
	}, nil
}

// BuildRefundRequest produces the refund wire request.
func (t *Transformer) BuildRefundRequest(ctx *domain.RefundContext, amount domain.MinorAmount) (*RefundRequest, error) {
	return &RefundRequest{Amount: amount, Currency: ctx.Currency}, nil
}
