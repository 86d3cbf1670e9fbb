package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 alphabetic currency code.
type Currency string

// zeroDecimalCurrencies have no minor unit: the minor amount equals the
// major amount.
var zeroDecimalCurrencies = map[Currency]struct{}{
	"BIF": {}, "CLP": {}, "DJF": {}, "GNF": {}, "JPY": {}, "KMF": {},
	"KRW": {}, "MGA": {}, "PYG": {}, "RWF": {}, "UGX": {}, "VND": {},
	"VUV": {}, "XAF": {}, "XOF": {}, "XPF": {},
}

// threeDecimalCurrencies carry a thousandths minor unit.
var threeDecimalCurrencies = map[Currency]struct{}{
	"BHD": {}, "IQD": {}, "JOD": {}, "KWD": {}, "LYD": {}, "OMR": {}, "TND": {},
}

// MinorUnitExponent returns how many decimal places the currency's minor
// unit shifts from the major unit.
func (c Currency) MinorUnitExponent() int32 {
	if _, ok := zeroDecimalCurrencies[c]; ok {
		return 0
	}
	if _, ok := threeDecimalCurrencies[c]; ok {
		return 3
	}
	return 2
}

// MinorAmount is a transaction amount in the currency's minor unit, carried
// as a decimal string since the gateway schema is string-typed.
type MinorAmount string

// NewMinorAmount converts a major-unit decimal amount into the currency's
// minor unit. Amounts with sub-minor-unit precision are rejected rather
// than rounded.
func NewMinorAmount(amount decimal.Decimal, currency Currency) (MinorAmount, error) {
	shifted := amount.Shift(currency.MinorUnitExponent())
	if !shifted.IsInteger() {
		return "", NewParsingError("amount", nil)
	}
	return MinorAmount(shifted.String()), nil
}

// MinorAmountFromInt64 wraps an amount already expressed in minor units.
func MinorAmountFromInt64(amount int64) MinorAmount {
	return MinorAmount(strconv.FormatInt(amount, 10))
}
