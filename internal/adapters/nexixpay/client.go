package nexixpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stratuspay/nexixpay-connector/internal/adapters/ports"
	"github.com/stratuspay/nexixpay-connector/internal/config"
	"github.com/stratuspay/nexixpay-connector/internal/domain"
	"github.com/stratuspay/nexixpay-connector/pkg/observability"
	"github.com/stratuspay/nexixpay-connector/pkg/resilience"
)

// Gateway endpoints, relative to the configured base URL.
const (
	endpointPaymentInit       = "/orders/3steps/init"
	endpointMITPayment        = "/orders/mit"
	endpointThreeDSValidation = "/orders/3steps/validation"
	endpointThreeDSPayment    = "/orders/3steps/payment"
)

// Client drives the Nexi XPay gateway: it builds wire requests with the
// transformer, performs the HTTP exchange with retries and a circuit
// breaker, and reconciles the responses into payment outcomes.
type Client struct {
	config      config.GatewayConfig
	transformer *Transformer
	httpClient  ports.HTTPClient
	breaker     *CircuitBreaker
	backoff     resilience.BackoffStrategy
	logger      *zap.Logger
}

// NewClient creates a new gateway client with dependency injection
func NewClient(cfg config.GatewayConfig, transformer *Transformer, httpClient ports.HTTPClient, breaker *CircuitBreaker, backoff resilience.BackoffStrategy, logger *zap.Logger) *Client {
	return &Client{
		config:      cfg,
		transformer: transformer,
		httpClient:  httpClient,
		breaker:     breaker,
		backoff:     backoff,
		logger:      logger,
	}
}

// NewClientWithDefaults creates a new gateway client with a default HTTP
// client, circuit breaker, and backoff strategy
func NewClientWithDefaults(cfg config.GatewayConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		config:      cfg,
		transformer: NewTransformerWithDefaults(),
		httpClient:  &http.Client{Timeout: timeout},
		breaker:     NewCircuitBreaker(DefaultCircuitBreakerConfig()),
		backoff:     resilience.DefaultExponentialBackoff(),
		logger:      logger,
	}
}

// Authorize initiates a payment. Card payments enter the 3-D Secure flow;
// mandate payments charge the stored contract directly.
func (c *Client) Authorize(ctx context.Context, authCtx *domain.AuthorizeContext, amount domain.MinorAmount) (*domain.PaymentOutcome, error) {
	req, err := c.transformer.BuildAuthorizeRequest(authCtx, amount)
	if err != nil {
		return nil, err
	}

	endpoint := endpointPaymentInit
	if _, ok := req.Data.(*MandatePaymentRequest); ok {
		endpoint = endpointMITPayment
	}

	var resp PaymentsResponse
	status, err := c.doJSON(ctx, http.MethodPost, endpoint, "authorize", req, &resp)
	if err != nil {
		return nil, err
	}
	return c.transformer.ReconcileAuthorizeResponse(&resp, authCtx, status)
}

// PreProcess validates the 3-D Secure challenge result posted back by the
// issuer.
func (c *Client) PreProcess(ctx context.Context, preCtx *domain.PreProcessingContext) (*domain.PaymentOutcome, error) {
	req, err := c.transformer.BuildPreProcessingRequest(preCtx)
	if err != nil {
		return nil, err
	}

	var resp PreProcessingResponse
	status, err := c.doJSON(ctx, http.MethodPost, endpointThreeDSValidation, "preprocess", req, &resp)
	if err != nil {
		return nil, err
	}
	return c.transformer.ReconcilePreProcessingResponse(&resp, preCtx, status)
}

// CompleteAuthorize finishes the authorization after a validated challenge.
func (c *Client) CompleteAuthorize(ctx context.Context, completeCtx *domain.CompleteAuthorizeContext, amount domain.MinorAmount) (*domain.PaymentOutcome, error) {
	req, err := c.transformer.BuildCompleteAuthorizeRequest(completeCtx, amount)
	if err != nil {
		return nil, err
	}

	var resp CompleteAuthorizeResponse
	status, err := c.doJSON(ctx, http.MethodPost, endpointThreeDSPayment, "complete_authorize", req, &resp)
	if err != nil {
		return nil, err
	}
	return c.transformer.ReconcileCompleteAuthorizeResponse(&resp, completeCtx, status)
}

// Capture settles an authorized payment. The targeted operation is the
// recorded authorization, not the merchant order.
func (c *Client) Capture(ctx context.Context, captureCtx *domain.CaptureContext, amount domain.MinorAmount) (*domain.PaymentOutcome, error) {
	req, err := c.transformer.BuildCaptureRequest(captureCtx, amount)
	if err != nil {
		return nil, err
	}
	meta, err := DecodeMetadata(captureCtx.Metadata)
	if err != nil {
		return nil, err
	}
	if meta.AuthorizationOperationID == nil {
		return nil, domain.NewMissingFieldError("authorization_operation_id")
	}

	endpoint := fmt.Sprintf("/operations/%s/captures", *meta.AuthorizationOperationID)
	var resp OperationResponse
	_, err = c.doJSON(ctx, http.MethodPost, endpoint, "capture", req, &resp)
	if err != nil {
		return nil, err
	}
	return c.transformer.ReconcileCaptureResponse(&resp, captureCtx, http.StatusOK)
}

// Cancel voids an authorized payment.
func (c *Client) Cancel(ctx context.Context, cancelCtx *domain.CancelContext, amount domain.MinorAmount) (*domain.PaymentOutcome, error) {
	req, err := c.transformer.BuildCancelRequest(cancelCtx, amount)
	if err != nil {
		return nil, err
	}
	meta, err := DecodeMetadata(cancelCtx.Metadata)
	if err != nil {
		return nil, err
	}
	if meta.AuthorizationOperationID == nil {
		return nil, domain.NewMissingFieldError("authorization_operation_id")
	}

	endpoint := fmt.Sprintf("/operations/%s/cancels", *meta.AuthorizationOperationID)
	var resp OperationResponse
	_, err = c.doJSON(ctx, http.MethodPost, endpoint, "cancel", req, &resp)
	if err != nil {
		return nil, err
	}
	return c.transformer.ReconcileCancelResponse(&resp, cancelCtx, http.StatusOK)
}

// Sync fetches the current state of the operation the metadata flow hint
// points at: the capture after a capture, the cancel after a cancel, and the
// authorization otherwise.
func (c *Client) Sync(ctx context.Context, syncCtx *domain.SyncContext) (*domain.PaymentOutcome, error) {
	meta, err := DecodeMetadata(syncCtx.Metadata)
	if err != nil {
		return nil, err
	}

	var operationID *string
	switch meta.PsyncFlow {
	case PaymentIntentCapture:
		operationID = meta.CaptureOperationID
	case PaymentIntentCancel:
		operationID = meta.CancelOperationID
	default:
		operationID = meta.AuthorizationOperationID
	}
	if operationID == nil {
		return nil, domain.NewMissingFieldError("operation_id")
	}

	endpoint := fmt.Sprintf("/operations/%s", *operationID)
	var resp TransactionStatusResponse
	status, err := c.doJSON(ctx, http.MethodGet, endpoint, "sync", nil, &resp)
	if err != nil {
		return nil, err
	}
	return c.transformer.ReconcileSyncResponse(&resp, syncCtx, status)
}

// Refund returns captured funds. The targeted operation is the recorded
// capture.
func (c *Client) Refund(ctx context.Context, refundCtx *domain.RefundContext, amount domain.MinorAmount) (*domain.RefundOutcome, error) {
	req, err := c.transformer.BuildRefundRequest(refundCtx, amount)
	if err != nil {
		return nil, err
	}
	meta, err := DecodeMetadata(refundCtx.Metadata)
	if err != nil {
		return nil, err
	}
	if meta.CaptureOperationID == nil {
		return nil, domain.NewMissingFieldError("capture_operation_id")
	}

	endpoint := fmt.Sprintf("/operations/%s/refunds", *meta.CaptureOperationID)
	var resp RefundResponse
	_, err = c.doJSON(ctx, http.MethodPost, endpoint, "refund", req, &resp)
	if err != nil {
		return nil, err
	}
	return c.transformer.ReconcileRefundResponse(&resp), nil
}

// RefundSync fetches the current state of a previously executed refund.
func (c *Client) RefundSync(ctx context.Context, refundCtx *domain.RefundContext) (*domain.RefundOutcome, error) {
	if refundCtx.RefundID == "" {
		return nil, domain.NewMissingFieldError("connector_refund_id")
	}

	endpoint := fmt.Sprintf("/operations/%s", refundCtx.RefundID)
	var resp RefundSyncResponse
	_, err := c.doJSON(ctx, http.MethodGet, endpoint, "refund_sync", nil, &resp)
	if err != nil {
		return nil, err
	}
	return c.transformer.ReconcileRefundSyncResponse(&resp), nil
}

// doJSON performs one gateway exchange: request encode, retries with
// backoff behind the circuit breaker, response decode. It returns the HTTP
// status code alongside any error so callers can reconcile decline bodies.
func (c *Client) doJSON(ctx context.Context, method, endpoint, operation string, request, response interface{}) (int, error) {
	var payload []byte
	if request != nil {
		var err error
		payload, err = json.Marshal(request)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	done := observability.TrackInFlight()
	defer done()
	start := time.Now()

	var statusCode int
	var body []byte

	attempts := c.config.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			observability.ObserveGatewayRetry(operation)
			select {
			case <-ctx.Done():
				observability.ObserveGatewayRequest(operation, "canceled", time.Since(start))
				return 0, ctx.Err()
			case <-time.After(c.backoff.NextDelay(attempt - 1)):
			}
		}

		statusCode, body, lastErr = c.exchange(ctx, method, endpoint, payload)
		if lastErr != nil {
			c.logger.Warn("gateway request failed",
				zap.String("operation", operation),
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
			continue
		}
		if statusCode >= 500 {
			c.logger.Warn("gateway returned server error",
				zap.String("operation", operation),
				zap.String("endpoint", endpoint),
				zap.Int("status", statusCode),
				zap.Int("attempt", attempt))
			lastErr = fmt.Errorf("gateway returned status %d", statusCode)
			continue
		}
		break
	}
	if lastErr != nil {
		observability.ObserveGatewayRequest(operation, "error", time.Since(start))
		return statusCode, domain.WrapConnectorError(domain.ErrorCodeGatewayError, "gateway request failed", lastErr)
	}

	if statusCode < 200 || statusCode >= 300 {
		observability.ObserveGatewayRequest(operation, "rejected", time.Since(start))
		return statusCode, c.gatewayError(statusCode, body)
	}

	if err := json.Unmarshal(body, response); err != nil {
		observability.ObserveGatewayRequest(operation, "decode_error", time.Since(start))
		return statusCode, domain.WrapConnectorError(domain.ErrorCodeResponseDecodeFailed, "failed to decode gateway response", err)
	}

	observability.ObserveGatewayRequest(operation, "ok", time.Since(start))
	c.logger.Debug("gateway request completed",
		zap.String("operation", operation),
		zap.String("endpoint", endpoint),
		zap.Int("status", statusCode),
		zap.Duration("duration", time.Since(start)))
	return statusCode, nil
}

// exchange performs a single HTTP round trip through the circuit breaker.
func (c *Client) exchange(ctx context.Context, method, endpoint string, payload []byte) (int, []byte, error) {
	var statusCode int
	var body []byte

	err := c.breaker.Call(func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+endpoint, reader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Api-Key", c.config.APIKey)
		req.Header.Set("Correlation-Id", uuid.New().String())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		statusCode = resp.StatusCode
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		return nil
	})
	return statusCode, body, err
}

// gatewayError maps a non-2xx body onto a connector error, keeping the
// provider's first error code and description when the body parses.
func (c *Client) gatewayError(statusCode int, body []byte) error {
	var errResp ErrorResponse
	code := domain.NoErrorCode
	message := http.StatusText(statusCode)
	if err := json.Unmarshal(body, &errResp); err == nil && len(errResp.Errors) > 0 {
		if errResp.Errors[0].Code != "" {
			code = errResp.Errors[0].Code
		}
		if errResp.Errors[0].Description != "" {
			message = errResp.Errors[0].Description
		}
	}
	return domain.NewConnectorError(domain.ErrorCodeGatewayError, message).
		WithDetail("status_code", statusCode).
		WithDetail("provider_code", code)
}
