package nexixpay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratuspay/nexixpay-connector/internal/domain"
)

func TestValidatedAddress_NilAddressIsAllowed(t *testing.T) {
	addr, err := validatedAddress(nil, addressKindShipping)
	require.NoError(t, err)
	assert.Nil(t, addr)
}

func TestValidatedAddress_MapsAllFields(t *testing.T) {
	addr, err := validatedAddress(&domain.Address{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Line1:     "Via Roma 1",
		Line2:     "Interno 4",
		City:      "Milano",
		Zip:       "20121",
		Country:   "ITA",
	}, addressKindBilling)
	require.NoError(t, err)
	assert.Equal(t, &CustomerAddress{
		Name:     "Ada Lovelace",
		Street:   "Via Roma 1, Interno 4",
		City:     "Milano",
		PostCode: "20121",
		Country:  "ITA",
	}, addr)
}

func TestSynthesizeStreet(t *testing.T) {
	assert.Equal(t, "Via Roma 1, Interno 4", synthesizeStreet("Via Roma 1", "Interno 4"))
	assert.Equal(t, "Via Roma 1", synthesizeStreet("Via Roma 1", ""))
	assert.Equal(t, "Interno 4", synthesizeStreet("", "Interno 4"))
	assert.Equal(t, "", synthesizeStreet("", ""))
}

func TestValidatedAddress_LengthViolations(t *testing.T) {
	tests := []struct {
		name      string
		addr      domain.Address
		wantField string
	}{
		{
			name:      "name",
			addr:      domain.Address{FirstName: strings.Repeat("a", 51)},
			wantField: "billing.address.first_name & billing.address.last_name",
		},
		{
			name:      "street",
			addr:      domain.Address{Line1: strings.Repeat("a", 30), Line2: strings.Repeat("b", 30)},
			wantField: "billing.address.line1 & billing.address.line2",
		},
		{
			name:      "city",
			addr:      domain.Address{City: strings.Repeat("a", 41)},
			wantField: "billing.address.city",
		},
		{
			name:      "zip",
			addr:      domain.Address{Zip: strings.Repeat("1", 17)},
			wantField: "billing.address.zip",
		},
		{
			name:      "country",
			addr:      domain.Address{Country: "ITALY"},
			wantField: "billing.address.country",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validatedAddress(&tt.addr, addressKindBilling)
			require.Error(t, err)
			assert.True(t, domain.IsConnectorError(err, domain.ErrorCodeMaxFieldLength))
			var connErr *domain.ConnectorError
			require.ErrorAs(t, err, &connErr)
			assert.Equal(t, tt.wantField, connErr.Details["field_name"])
		})
	}
}

func TestValidatedAddress_FirstViolationWins(t *testing.T) {
	// Both the name and the city are oversized; the name is reported.
	_, err := validatedAddress(&domain.Address{
		FirstName: strings.Repeat("a", 51),
		City:      strings.Repeat("b", 41),
	}, addressKindShipping)
	require.Error(t, err)
	var connErr *domain.ConnectorError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "shipping.address.first_name & shipping.address.last_name", connErr.Details["field_name"])
}

func TestValidatedAddress_ShippingKindNamesShippingFields(t *testing.T) {
	_, err := validatedAddress(&domain.Address{Zip: strings.Repeat("1", 17)}, addressKindShipping)
	require.Error(t, err)
	var connErr *domain.ConnectorError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "shipping.address.zip", connErr.Details["field_name"])
}
