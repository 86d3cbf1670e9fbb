package nexixpay

import (
	"fmt"

	"github.com/stratuspay/nexixpay-connector/internal/domain"
)

// Provider field-length limits for order and address fields.
const (
	maxOrderIDLength         = 18
	maxCardHolderLength      = 255
	maxAddressNameLength     = 50
	maxAddressStreetLength   = 50
	maxAddressCityLength     = 40
	maxAddressPostCodeLength = 16
	maxAddressCountryLength  = 3
)

// addressKind tags which address slot is being validated, so length
// violations name the composite source field they mapped from.
type addressKind string

const (
	addressKindBilling  addressKind = "billing"
	addressKindShipping addressKind = "shipping"
)

// validatedAddress validates and normalizes one address slot. A nil source
// address is not an error; a present-but-oversized field is. Fields are
// checked in a fixed order (name, street, city, post code, country) and the
// first violation wins, keeping error messages reproducible.
func validatedAddress(addr *domain.Address, kind addressKind) (*CustomerAddress, error) {
	if addr == nil {
		return nil, nil
	}

	street := synthesizeStreet(addr.Line1, addr.Line2)

	name := addr.FullName()
	if len(name) > maxAddressNameLength {
		return nil, domain.NewMaxFieldLengthError(
			fmt.Sprintf("%s.address.first_name & %s.address.last_name", kind, kind),
			maxAddressNameLength, len(name))
	}
	if len(street) > maxAddressStreetLength {
		return nil, domain.NewMaxFieldLengthError(
			fmt.Sprintf("%s.address.line1 & %s.address.line2", kind, kind),
			maxAddressStreetLength, len(street))
	}
	if len(addr.City) > maxAddressCityLength {
		return nil, domain.NewMaxFieldLengthError(
			fmt.Sprintf("%s.address.city", kind),
			maxAddressCityLength, len(addr.City))
	}
	if len(addr.Zip) > maxAddressPostCodeLength {
		return nil, domain.NewMaxFieldLengthError(
			fmt.Sprintf("%s.address.zip", kind),
			maxAddressPostCodeLength, len(addr.Zip))
	}
	if len(addr.Country) > maxAddressCountryLength {
		return nil, domain.NewMaxFieldLengthError(
			fmt.Sprintf("%s.address.country", kind),
			maxAddressCountryLength, len(addr.Country))
	}

	return &CustomerAddress{
		Name:     name,
		Street:   street,
		City:     addr.City,
		PostCode: addr.Zip,
		Country:  addr.Country,
	}, nil
}

// synthesizeStreet joins the address lines as "line1, line2", falling back
// to whichever line is present.
func synthesizeStreet(line1, line2 string) string {
	switch {
	case line1 != "" && line2 != "":
		return line1 + ", " + line2
	case line1 != "":
		return line1
	default:
		return line2
	}
}
