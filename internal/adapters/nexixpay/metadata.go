package nexixpay

import (
	"encoding/json"

	"github.com/stratuspay/nexixpay-connector/internal/domain"
)

// Metadata is the connector metadata blob persisted per transaction. It is
// the only channel carrying cross-call state for a 3-D Secure flow: created
// empty at authorize time, merged at pre-processing/complete-authorize time,
// merged again at capture/cancel time, never deleted here.
type Metadata struct {
	ThreeDSAuthResult        *ThreeDSAuthResult `json:"threeDSAuthResult,omitempty"`
	ThreeDSAuthResponse      *string            `json:"threeDSAuthResponse,omitempty"`
	AuthorizationOperationID *string            `json:"authorizationOperationId,omitempty"`
	CaptureOperationID       *string            `json:"captureOperationId,omitempty"`
	CancelOperationID        *string            `json:"cancelOperationId,omitempty"`
	PsyncFlow                PaymentIntent      `json:"psyncFlow"`
}

// MetadataUpdate is a partial update merged over persisted metadata.
type MetadataUpdate struct {
	ThreeDSAuthResult        *ThreeDSAuthResult
	ThreeDSAuthResponse      *string
	AuthorizationOperationID *string
	CaptureOperationID       *string
	CancelOperationID        *string
	PsyncFlow                *PaymentIntent
	IsAutoCapture            bool
}

// DecodeMetadata parses a persisted metadata blob. A malformed blob is fatal
// to the current operation.
func DecodeMetadata(raw json.RawMessage) (Metadata, error) {
	var meta Metadata
	if len(raw) == 0 {
		return meta, domain.NewParsingError("connector metadata", nil)
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Metadata{}, domain.NewParsingError("connector metadata", err)
	}
	return meta, nil
}

// Encode serializes the metadata into the persisted blob layout.
func (m Metadata) Encode() (json.RawMessage, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, domain.NewParsingError("connector metadata", err)
	}
	return raw, nil
}

// MergeMetadata decodes the persisted blob and applies a fill-forward merge:
// an update only supplants a field whose persisted value is absent. Under
// auto-capture, an absent capture operation id falls back to the
// authorization id — preferring the persisted authorization id over the one
// in the update, since capture and authorization are the same operation
// there. The psync flow hint instead always prefers the update when present.
func MergeMetadata(raw json.RawMessage, update MetadataUpdate) (Metadata, error) {
	existing, err := DecodeMetadata(raw)
	if err != nil {
		return Metadata{}, err
	}
	return mergeMetadata(existing, update), nil
}

func mergeMetadata(existing Metadata, update MetadataUpdate) Metadata {
	merged := Metadata{
		ThreeDSAuthResult:        existing.ThreeDSAuthResult,
		ThreeDSAuthResponse:      existing.ThreeDSAuthResponse,
		AuthorizationOperationID: existing.AuthorizationOperationID,
		CaptureOperationID:       existing.CaptureOperationID,
		CancelOperationID:        existing.CancelOperationID,
		PsyncFlow:                existing.PsyncFlow,
	}
	if merged.ThreeDSAuthResult == nil {
		merged.ThreeDSAuthResult = update.ThreeDSAuthResult
	}
	if merged.ThreeDSAuthResponse == nil {
		merged.ThreeDSAuthResponse = update.ThreeDSAuthResponse
	}
	if merged.AuthorizationOperationID == nil {
		merged.AuthorizationOperationID = update.AuthorizationOperationID
	}
	if merged.CaptureOperationID == nil {
		if update.IsAutoCapture {
			merged.CaptureOperationID = merged.AuthorizationOperationID
		} else {
			merged.CaptureOperationID = update.CaptureOperationID
		}
	}
	if merged.CancelOperationID == nil {
		merged.CancelOperationID = update.CancelOperationID
	}
	if update.PsyncFlow != nil {
		merged.PsyncFlow = *update.PsyncFlow
	}
	return merged
}

func stringPtr(s string) *string { return &s }

func intentPtr(p PaymentIntent) *PaymentIntent { return &p }
