package nexixpay

import (
	"github.com/stratuspay/nexixpay-connector/internal/domain"
)

// Redirect form field names the issuer challenge page expects.
const (
	redirectFieldThreeDsRequest = "ThreeDsRequest"
	redirectFieldReturnURL      = "ReturnUrl"
	redirectFieldTransactionID  = "transactionId"
)

// threeDSRedirect builds the form-POST instruction that sends the cardholder
// into the 3-D Secure challenge.
func threeDSRedirect(authURL, authRequest, returnURL, transactionID string) *domain.RedirectInstruction {
	return &domain.RedirectInstruction{
		Endpoint: authURL,
		Method:   "POST",
		FormFields: map[string]string{
			redirectFieldThreeDsRequest: authRequest,
			redirectFieldReturnURL:      returnURL,
			redirectFieldTransactionID:  transactionID,
		},
	}
}

// ReconcileAuthorizeResponse maps the authorize response onto an internal
// outcome. The payment shape always carries the challenge artifacts, so the
// redirect instruction is built unconditionally and the authorization
// operation id is recorded into fresh connector metadata; under auto-capture
// the capture operation id is pre-populated with the same id. The mandate
// shape carries neither redirect nor metadata.
func (t *Transformer) ReconcileAuthorizeResponse(resp *PaymentsResponse, ctx *domain.AuthorizeContext, httpStatus int) (*domain.PaymentOutcome, error) {
	switch {
	case resp.Payment != nil:
		return t.reconcilePaymentShape(resp.Payment, ctx, httpStatus)
	case resp.Mandate != nil:
		return t.reconcileMandateShape(resp.Mandate, httpStatus)
	default:
		return nil, domain.NewParsingError("payments response", nil)
	}
}

func (t *Transformer) reconcilePaymentShape(resp *PaymentResponse, ctx *domain.AuthorizeContext, httpStatus int) (*domain.PaymentOutcome, error) {
	if ctx.CompleteAuthorizeURL == "" {
		return nil, domain.NewMissingFieldError("complete_authorize_url")
	}
	operationID := resp.Operation.OperationID
	redirect := threeDSRedirect(resp.ThreeDSAuthURL, resp.ThreeDSAuthRequest, ctx.CompleteAuthorizeURL, operationID)

	isAutoCapture, err := ctx.CaptureMethod.IsAutomatic()
	if err != nil {
		return nil, err
	}
	meta := Metadata{
		AuthorizationOperationID: stringPtr(operationID),
		PsyncFlow:                PaymentIntentAuthorize,
	}
	if isAutoCapture {
		meta.CaptureOperationID = stringPtr(operationID)
	}
	blob, err := meta.Encode()
	if err != nil {
		return nil, err
	}

	status := attemptStatusOf(resp.Operation.OperationResult)
	if status == domain.AttemptStatusFailure {
		return &domain.PaymentOutcome{
			Error: declineErrorResponse(resp.Operation.OperationResult, httpStatus),
		}, nil
	}

	return &domain.PaymentOutcome{
		Status: status,
		Response: &domain.TransactionResponse{
			ResourceID:       resp.Operation.OrderID,
			Redirect:         redirect,
			MandateReference: &domain.MandateReference{ConnectorMandateID: ctx.MandateRequestReferenceID},
			Metadata:         blob,
			ReferenceID:      resp.Operation.OrderID,
		},
	}, nil
}

func (t *Transformer) reconcileMandateShape(resp *MandateResponse, httpStatus int) (*domain.PaymentOutcome, error) {
	status := attemptStatusOf(resp.Operation.OperationResult)
	if status == domain.AttemptStatusFailure {
		return &domain.PaymentOutcome{
			Error: declineErrorResponse(resp.Operation.OperationResult, httpStatus),
		}, nil
	}
	return &domain.PaymentOutcome{
		Status: status,
		Response: &domain.TransactionResponse{
			ResourceID:  resp.Operation.OrderID,
			ReferenceID: resp.Operation.OrderID,
		},
	}, nil
}

// ReconcilePreProcessingResponse merges the issuer's authentication result
// and the callback auth response into the persisted metadata. Validation
// never produces a redirect.
func (t *Transformer) ReconcilePreProcessingResponse(resp *PreProcessingResponse, ctx *domain.PreProcessingContext, httpStatus int) (*domain.PaymentOutcome, error) {
	payload, err := redirectPayloadFrom(ctx.RedirectResponse)
	if err != nil {
		return nil, err
	}

	isAutoCapture, err := ctx.CaptureMethod.IsAutomatic()
	if err != nil {
		return nil, err
	}

	result := resp.ThreeDSAuthResult
	merged, err := MergeMetadata(ctx.Metadata, MetadataUpdate{
		ThreeDSAuthResult:   &result,
		ThreeDSAuthResponse: payload.PaRes,
		IsAutoCapture:       isAutoCapture,
	})
	if err != nil {
		return nil, err
	}
	blob, err := merged.Encode()
	if err != nil {
		return nil, err
	}

	status := attemptStatusOf(resp.Operation.OperationResult)
	if status == domain.AttemptStatusFailure {
		return &domain.PaymentOutcome{
			Error: declineErrorResponse(resp.Operation.OperationResult, httpStatus),
		}, nil
	}
	return &domain.PaymentOutcome{
		Status: status,
		Response: &domain.TransactionResponse{
			ResourceID:  resp.Operation.OrderID,
			Metadata:    blob,
			ReferenceID: resp.Operation.OrderID,
		},
	}, nil
}

// ReconcileCompleteAuthorizeResponse records the authorization operation id
// and maps the final authorization status. A zero-amount attempt reported as
// Authorized is treated as fully Charged: zero-value mandate verification
// charges never see a capture.
func (t *Transformer) ReconcileCompleteAuthorizeResponse(resp *CompleteAuthorizeResponse, ctx *domain.CompleteAuthorizeContext, httpStatus int) (*domain.PaymentOutcome, error) {
	isAutoCapture, err := ctx.CaptureMethod.IsAutomatic()
	if err != nil {
		return nil, err
	}
	merged, err := MergeMetadata(ctx.Metadata, MetadataUpdate{
		AuthorizationOperationID: stringPtr(resp.Operation.OperationID),
		PsyncFlow:                intentPtr(PaymentIntentAuthorize),
		IsAutoCapture:            isAutoCapture,
	})
	if err != nil {
		return nil, err
	}
	blob, err := merged.Encode()
	if err != nil {
		return nil, err
	}

	var status domain.AttemptStatus
	if ctx.AmountMinor == 0 && resp.Operation.OperationResult == PaymentStatusAuthorized {
		status = domain.AttemptStatusCharged
	} else {
		status = attemptStatusOf(resp.Operation.OperationResult)
	}
	if status == domain.AttemptStatusFailure {
		return &domain.PaymentOutcome{
			Error: declineErrorResponse(resp.Operation.OperationResult, httpStatus),
		}, nil
	}
	return &domain.PaymentOutcome{
		Status: status,
		Response: &domain.TransactionResponse{
			ResourceID:       resp.Operation.OrderID,
			MandateReference: &domain.MandateReference{ConnectorMandateID: ctx.MandateRequestReferenceID},
			Metadata:         blob,
			ReferenceID:      resp.Operation.OrderID,
		},
	}, nil
}

// ReconcileCaptureResponse records the capture operation id and tags the
// sync-flow hint. The capture response carries no settlement state, so the
// outcome is always pending; the final state arrives via sync.
func (t *Transformer) ReconcileCaptureResponse(resp *OperationResponse, ctx *domain.CaptureContext, httpStatus int) (*domain.PaymentOutcome, error) {
	merged, err := MergeMetadata(ctx.Metadata, MetadataUpdate{
		CaptureOperationID: stringPtr(resp.OperationID),
		PsyncFlow:          intentPtr(PaymentIntentCapture),
	})
	if err != nil {
		return nil, err
	}
	blob, err := merged.Encode()
	if err != nil {
		return nil, err
	}
	return &domain.PaymentOutcome{
		Status: domain.AttemptStatusPending,
		Response: &domain.TransactionResponse{
			ResourceID:  ctx.ConnectorTransactionID,
			Metadata:    blob,
			ReferenceID: ctx.ConnectorTransactionID,
		},
	}, nil
}

// ReconcileCancelResponse records the cancel operation id and tags the
// sync-flow hint. Like capture, the response reports no state.
func (t *Transformer) ReconcileCancelResponse(resp *OperationResponse, ctx *domain.CancelContext, httpStatus int) (*domain.PaymentOutcome, error) {
	merged, err := MergeMetadata(ctx.Metadata, MetadataUpdate{
		CancelOperationID: stringPtr(resp.OperationID),
		PsyncFlow:         intentPtr(PaymentIntentCancel),
	})
	if err != nil {
		return nil, err
	}
	blob, err := merged.Encode()
	if err != nil {
		return nil, err
	}
	return &domain.PaymentOutcome{
		Status: domain.AttemptStatusPending,
		Response: &domain.TransactionResponse{
			ResourceID:  ctx.ConnectorTransactionID,
			Metadata:    blob,
			ReferenceID: ctx.ConnectorTransactionID,
		},
	}, nil
}

// ReconcileSyncResponse maps the synced status. Sync never writes new
// metadata; the persisted blob is carried forward unchanged.
func (t *Transformer) ReconcileSyncResponse(resp *TransactionStatusResponse, ctx *domain.SyncContext, httpStatus int) (*domain.PaymentOutcome, error) {
	status := attemptStatusOf(resp.OperationResult)
	if status == domain.AttemptStatusFailure {
		return &domain.PaymentOutcome{
			Error: declineErrorResponse(resp.OperationResult, httpStatus),
		}, nil
	}
	return &domain.PaymentOutcome{
		Status: status,
		Response: &domain.TransactionResponse{
			ResourceID:       resp.OrderID,
			MandateReference: &domain.MandateReference{ConnectorMandateID: ctx.MandateRequestReferenceID},
			Metadata:         ctx.Metadata,
			ReferenceID:      resp.OrderID,
		},
	}, nil
}

// ReconcileRefundResponse captures the provider refund id. The execute call
// reports no status, so the outcome is always pending.
func (t *Transformer) ReconcileRefundResponse(resp *RefundResponse) *domain.RefundOutcome {
	return &domain.RefundOutcome{
		RefundID: resp.OperationID,
		Status:   domain.RefundStatusPending,
	}
}

// ReconcileRefundSyncResponse maps the refund-specific status enum.
func (t *Transformer) ReconcileRefundSyncResponse(resp *RefundSyncResponse) *domain.RefundOutcome {
	return &domain.RefundOutcome{
		RefundID: resp.OperationID,
		Status:   refundStatusOf(resp.OperationResult),
	}
}
