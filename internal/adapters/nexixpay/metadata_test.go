package nexixpay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratuspay/nexixpay-connector/internal/domain"
)

func TestDecodeMetadata_RoundTrip(t *testing.T) {
	meta := Metadata{
		AuthorizationOperationID: stringPtr("op-1"),
		PsyncFlow:                PaymentIntentAuthorize,
	}
	blob, err := meta.Encode()
	require.NoError(t, err)

	decoded, err := DecodeMetadata(blob)
	require.NoError(t, err)
	assert.Equal(t, meta, decoded)
}

func TestDecodeMetadata_EmptyBlobFails(t *testing.T) {
	_, err := DecodeMetadata(nil)
	require.Error(t, err)
	assert.True(t, domain.IsParsingError(err))
}

func TestDecodeMetadata_MalformedBlobFails(t *testing.T) {
	_, err := DecodeMetadata(json.RawMessage(`{"psyncFlow":`))
	require.Error(t, err)
	assert.True(t, domain.IsParsingError(err))
}

func TestMetadata_EncodeAlwaysCarriesPsyncFlow(t *testing.T) {
	blob, err := Metadata{PsyncFlow: PaymentIntentCancel}.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"psyncFlow":"Cancel"}`, string(blob))
}

func TestMergeMetadata_FillsOnlyAbsentFields(t *testing.T) {
	existing := Metadata{
		AuthorizationOperationID: stringPtr("op-1"),
		PsyncFlow:                PaymentIntentAuthorize,
	}
	blob, err := existing.Encode()
	require.NoError(t, err)

	merged, err := MergeMetadata(blob, MetadataUpdate{
		AuthorizationOperationID: stringPtr("op-other"),
		CancelOperationID:        stringPtr("op-3"),
	})
	require.NoError(t, err)

	// The persisted authorization id wins; the cancel id was absent and fills.
	assert.Equal(t, "op-1", *merged.AuthorizationOperationID)
	assert.Equal(t, "op-3", *merged.CancelOperationID)
}

func TestMergeMetadata_IsIdempotent(t *testing.T) {
	blob, err := Metadata{PsyncFlow: PaymentIntentAuthorize}.Encode()
	require.NoError(t, err)

	update := MetadataUpdate{
		AuthorizationOperationID: stringPtr("op-1"),
		ThreeDSAuthResponse:      stringPtr("pares"),
	}
	once, err := MergeMetadata(blob, update)
	require.NoError(t, err)

	onceBlob, err := once.Encode()
	require.NoError(t, err)
	twice, err := MergeMetadata(onceBlob, update)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestMergeMetadata_AutoCaptureFallsBackToMergedAuthorizationID(t *testing.T) {
	// The authorization id arrives in the same update; under auto-capture the
	// capture id must fall back to it after the merge, not before.
	blob, err := Metadata{PsyncFlow: PaymentIntentAuthorize}.Encode()
	require.NoError(t, err)

	merged, err := MergeMetadata(blob, MetadataUpdate{
		AuthorizationOperationID: stringPtr("op-1"),
		IsAutoCapture:            true,
	})
	require.NoError(t, err)

	require.NotNil(t, merged.CaptureOperationID)
	assert.Equal(t, "op-1", *merged.CaptureOperationID)
}

func TestMergeMetadata_AutoCapturePrefersPersistedAuthorizationID(t *testing.T) {
	blob, err := Metadata{
		AuthorizationOperationID: stringPtr("op-persisted"),
		PsyncFlow:                PaymentIntentAuthorize,
	}.Encode()
	require.NoError(t, err)

	merged, err := MergeMetadata(blob, MetadataUpdate{
		AuthorizationOperationID: stringPtr("op-update"),
		IsAutoCapture:            true,
	})
	require.NoError(t, err)

	require.NotNil(t, merged.CaptureOperationID)
	assert.Equal(t, "op-persisted", *merged.CaptureOperationID)
}

func TestMergeMetadata_ManualCaptureDoesNotFallBack(t *testing.T) {
	blob, err := Metadata{PsyncFlow: PaymentIntentAuthorize}.Encode()
	require.NoError(t, err)

	merged, err := MergeMetadata(blob, MetadataUpdate{
		AuthorizationOperationID: stringPtr("op-1"),
		IsAutoCapture:            false,
	})
	require.NoError(t, err)
	assert.Nil(t, merged.CaptureOperationID)
}

func TestMergeMetadata_PsyncFlowPrefersUpdate(t *testing.T) {
	blob, err := Metadata{
		AuthorizationOperationID: stringPtr("op-1"),
		PsyncFlow:                PaymentIntentAuthorize,
	}.Encode()
	require.NoError(t, err)

	merged, err := MergeMetadata(blob, MetadataUpdate{
		CaptureOperationID: stringPtr("op-2"),
		PsyncFlow:          intentPtr(PaymentIntentCapture),
	})
	require.NoError(t, err)
	assert.Equal(t, PaymentIntentCapture, merged.PsyncFlow)

	// Absent hint leaves the persisted one in place.
	again, err := MergeMetadata(blob, MetadataUpdate{})
	require.NoError(t, err)
	assert.Equal(t, PaymentIntentAuthorize, again.PsyncFlow)
}
