package nexixpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stratuspay/nexixpay-connector/internal/config"
	"github.com/stratuspay/nexixpay-connector/internal/domain"
	"github.com/stratuspay/nexixpay-connector/pkg/resilience"
)

func setupClientTest(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)

	cfg := config.GatewayConfig{
		BaseURL:    server.URL,
		APIKey:     "test-api-key",
		Timeout:    5,
		MaxRetries: 0,
	}
	client := NewClient(
		cfg,
		NewTransformerWithDefaults(),
		&http.Client{},
		NewCircuitBreaker(DefaultCircuitBreakerConfig()),
		&resilience.FixedBackoff{Delay: time.Millisecond},
		zap.NewNop(),
	)
	return client, server
}

func TestClient_Authorize_CardFlow(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/orders/3steps/init", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("X-Api-Key"))
		assert.NotEmpty(t, r.Header.Get("Correlation-Id"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req, "order")
		assert.Contains(t, req, "card")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"operation": map[string]interface{}{
				"operationId":     "op-1",
				"operationResult": "PENDING",
				"orderId":         "pay_123",
			},
			"threeDSAuthRequest": "req-blob",
			"threeDSAuthUrl":     "https://issuer.example/3ds",
		})
	}

	client, server := setupClientTest(t, handler)
	defer server.Close()

	outcome, err := client.Authorize(context.Background(), testAuthorizeContext(), "1000")
	require.NoError(t, err)

	assert.Equal(t, domain.AttemptStatusAuthenticationPending, outcome.Status)
	require.NotNil(t, outcome.Response)
	require.NotNil(t, outcome.Response.Redirect)
	assert.Equal(t, "https://issuer.example/3ds", outcome.Response.Redirect.Endpoint)
	assert.Equal(t, "op-1", outcome.Response.Redirect.FormFields["transactionId"])
}

func TestClient_Authorize_MandateFlowUsesMITEndpoint(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/mit", r.URL.Path)

		var req map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req, "contractId")
		assert.NotContains(t, req, "card")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"operation": map[string]interface{}{
				"operationId":     "op-2",
				"operationResult": "AUTHORIZED",
				"orderId":         "pay_123",
			},
		})
	}

	client, server := setupClientTest(t, handler)
	defer server.Close()

	ctx := testAuthorizeContext()
	ctx.MandateReference = domain.ConnectorMandateReference{
		ConnectorMandateID: "mandate-1",
		RequestReferenceID: "contract-1",
	}

	outcome, err := client.Authorize(context.Background(), ctx, "1000")
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptStatusAuthorized, outcome.Status)
	assert.Nil(t, outcome.Response.Redirect)
}

func TestClient_Capture_TargetsAuthorizationOperation(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/operations/op-auth/captures", r.URL.Path)

		var req CaptureRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, domain.MinorAmount("1000"), req.Amount)
		assert.Equal(t, domain.Currency("EUR"), req.Currency)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(OperationResponse{OperationID: "op-cap"})
	}

	client, server := setupClientTest(t, handler)
	defer server.Close()

	blob, err := Metadata{
		AuthorizationOperationID: stringPtr("op-auth"),
		PsyncFlow:                PaymentIntentAuthorize,
	}.Encode()
	require.NoError(t, err)

	outcome, err := client.Capture(context.Background(), &domain.CaptureContext{
		Currency:               "EUR",
		ConnectorTransactionID: "pay_123",
		Metadata:               blob,
	}, "1000")
	require.NoError(t, err)

	assert.Equal(t, domain.AttemptStatusPending, outcome.Status)
	meta := decodeMetadataT(t, outcome.Response.Metadata)
	assert.Equal(t, "op-cap", *meta.CaptureOperationID)
	assert.Equal(t, PaymentIntentCapture, meta.PsyncFlow)
}

func TestClient_Capture_RequiresAuthorizationOperationID(t *testing.T) {
	client, server := setupClientTest(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	defer server.Close()

	blob, err := Metadata{PsyncFlow: PaymentIntentAuthorize}.Encode()
	require.NoError(t, err)

	_, err = client.Capture(context.Background(), &domain.CaptureContext{
		Currency: "EUR",
		Metadata: blob,
	}, "1000")
	require.Error(t, err)
	assert.True(t, domain.IsConnectorError(err, domain.ErrorCodeMissingField))
}

func TestClient_Sync_FollowsFlowHint(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/operations/op-cap", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TransactionStatusResponse{
			OrderID:         "pay_123",
			OperationID:     "op-cap",
			OperationResult: PaymentStatusExecuted,
			OperationType:   OperationTypeCapture,
		})
	}

	client, server := setupClientTest(t, handler)
	defer server.Close()

	blob, err := Metadata{
		AuthorizationOperationID: stringPtr("op-auth"),
		CaptureOperationID:       stringPtr("op-cap"),
		PsyncFlow:                PaymentIntentCapture,
	}.Encode()
	require.NoError(t, err)

	outcome, err := client.Sync(context.Background(), &domain.SyncContext{Metadata: blob})
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptStatusCharged, outcome.Status)
}

func TestClient_Refund_TargetsCaptureOperation(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/operations/op-cap/refunds", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(RefundResponse{OperationID: "op-ref"})
	}

	client, server := setupClientTest(t, handler)
	defer server.Close()

	blob, err := Metadata{
		AuthorizationOperationID: stringPtr("op-auth"),
		CaptureOperationID:       stringPtr("op-cap"),
		PsyncFlow:                PaymentIntentCapture,
	}.Encode()
	require.NoError(t, err)

	outcome, err := client.Refund(context.Background(), &domain.RefundContext{
		Currency: "EUR",
		Metadata: blob,
	}, "500")
	require.NoError(t, err)
	assert.Equal(t, "op-ref", outcome.RefundID)
	assert.Equal(t, domain.RefundStatusPending, outcome.Status)
}

func TestClient_RefundSync(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/operations/op-ref", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(RefundSyncResponse{
			OperationID:     "op-ref",
			OperationResult: RefundResultRefunded,
			OperationType:   RefundOperationTypeRefund,
		})
	}

	client, server := setupClientTest(t, handler)
	defer server.Close()

	outcome, err := client.RefundSync(context.Background(), &domain.RefundContext{RefundID: "op-ref"})
	require.NoError(t, err)
	assert.Equal(t, domain.RefundStatusSuccess, outcome.Status)
}

func TestClient_GatewayErrorBodyIsSurfaced(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(ErrorResponse{
			Errors: []ErrorBody{{Code: "GW0001", Description: "Invalid card number"}},
		})
	}

	client, server := setupClientTest(t, handler)
	defer server.Close()

	_, err := client.Authorize(context.Background(), testAuthorizeContext(), "1000")
	require.Error(t, err)

	var connErr *domain.ConnectorError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, domain.ErrorCodeGatewayError, connErr.Code)
	assert.Equal(t, "Invalid card number", connErr.Message)
	assert.Equal(t, "GW0001", connErr.Details["provider_code"])
	assert.Equal(t, http.StatusBadRequest, connErr.Details["status_code"])
}

func TestClient_RetriesServerErrors(t *testing.T) {
	calls := 0
	handler := func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"operation": map[string]interface{}{
				"operationId":     "op-1",
				"operationResult": "PENDING",
				"orderId":         "pay_123",
			},
			"threeDSAuthRequest": "req-blob",
			"threeDSAuthUrl":     "https://issuer.example/3ds",
		})
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	cfg := config.GatewayConfig{
		BaseURL:    server.URL,
		APIKey:     "test-api-key",
		Timeout:    5,
		MaxRetries: 2,
	}
	client := NewClient(
		cfg,
		NewTransformerWithDefaults(),
		&http.Client{},
		NewCircuitBreaker(DefaultCircuitBreakerConfig()),
		&resilience.FixedBackoff{Delay: time.Millisecond},
		zap.NewNop(),
	)

	outcome, err := client.Authorize(context.Background(), testAuthorizeContext(), "1000")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, domain.AttemptStatusAuthenticationPending, outcome.Status)
}

func TestClient_ExhaustedRetriesFail(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	cfg := config.GatewayConfig{
		BaseURL:    server.URL,
		APIKey:     "test-api-key",
		Timeout:    5,
		MaxRetries: 1,
	}
	client := NewClient(
		cfg,
		NewTransformerWithDefaults(),
		&http.Client{},
		NewCircuitBreaker(DefaultCircuitBreakerConfig()),
		&resilience.FixedBackoff{Delay: time.Millisecond},
		zap.NewNop(),
	)

	_, err := client.Authorize(context.Background(), testAuthorizeContext(), "1000")
	require.Error(t, err)
	assert.True(t, domain.IsConnectorError(err, domain.ErrorCodeGatewayError))
}
