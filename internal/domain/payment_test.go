package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCard_ExpiryDateMMYY(t *testing.T) {
	tests := []struct {
		name  string
		month string
		year  string
		want  string
	}{
		{name: "two digit month and year", month: "09", year: "27", want: "09/27"},
		{name: "single digit month is padded", month: "9", year: "27", want: "09/27"},
		{name: "four digit year is truncated", month: "11", year: "2031", want: "11/31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := Card{ExpiryMonth: tt.month, ExpiryYear: tt.year}
			got, err := card.ExpiryDateMMYY()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCard_ExpiryDateMMYY_MissingParts(t *testing.T) {
	card := Card{ExpiryMonth: "", ExpiryYear: "27"}
	_, err := card.ExpiryDateMMYY()
	require.Error(t, err)
	assert.True(t, IsConnectorError(err, ErrorCodeMissingField))
}

func TestCard_ExpiryDateMMYY_InvalidYear(t *testing.T) {
	card := Card{ExpiryMonth: "09", ExpiryYear: "127"}
	_, err := card.ExpiryDateMMYY()
	require.Error(t, err)
	assert.True(t, IsParsingError(err))
}

func TestCaptureMethod_IsAutomatic(t *testing.T) {
	for _, method := range []CaptureMethod{CaptureMethodAutomatic, CaptureMethodSequentialAutomatic, CaptureMethodUnspecified} {
		auto, err := method.IsAutomatic()
		require.NoError(t, err)
		assert.True(t, auto, string(method))
	}

	auto, err := CaptureMethodManual.IsAutomatic()
	require.NoError(t, err)
	assert.False(t, auto)

	_, err = CaptureMethodScheduled.IsAutomatic()
	require.Error(t, err)
	assert.True(t, IsConnectorError(err, ErrorCodeFlowNotSupported))
}

func TestAddress_FullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&Address{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	assert.Equal(t, "Ada", (&Address{FirstName: " Ada "}).FullName())
	assert.Equal(t, "", (&Address{}).FullName())

	var nilAddress *Address
	assert.Equal(t, "", nilAddress.FullName())
}

func TestAttemptStatus_IsTerminal(t *testing.T) {
	for _, s := range []AttemptStatus{AttemptStatusCharged, AttemptStatusAutoRefunded, AttemptStatusVoided, AttemptStatusFailure} {
		assert.True(t, s.IsTerminal(), string(s))
	}
	for _, s := range []AttemptStatus{AttemptStatusAuthenticationPending, AttemptStatusAuthenticationSuccessful, AttemptStatusAuthorized, AttemptStatusPending} {
		assert.False(t, s.IsTerminal(), string(s))
	}
}
