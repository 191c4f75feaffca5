// Package pricing turns a marketplace price in any currency into the
// customer-facing price in the base currency: conversion, regional VAT and
// the platform commission, in that order.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RateTable maps a currency code to the number of units of that currency
// one unit of the base currency buys.
type RateTable map[string]decimal.Decimal

// Clone returns a copy that can be mutated without touching r.
func (r RateTable) Clone() RateTable {
	out := make(RateTable, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// VatTable maps an upper-case region code to a VAT fraction.
type VatTable map[string]decimal.Decimal

// DefaultVAT is the process-wide VAT table.
var DefaultVAT = VatTable{
	"TR": decimal.RequireFromString("0.00"),
	"DE": decimal.RequireFromString("0.19"),
	"FR": decimal.RequireFromString("0.20"),
	"ES": decimal.RequireFromString("0.21"),
	"GB": decimal.RequireFromString("0.20"),
	"US": decimal.RequireFromString("0.00"),
	"RU": decimal.RequireFromString("0.20"),
	"JP": decimal.RequireFromString("0.10"),
	"AE": decimal.RequireFromString("0.05"),
	"EU": decimal.RequireFromString("0.20"),
}

// Rate returns the VAT fraction for region, zero when the region is unknown.
func (v VatTable) Rate(region string) decimal.Decimal {
	if r, ok := v[strings.ToUpper(strings.TrimSpace(region))]; ok {
		return r
	}
	return decimal.Zero
}

var one = decimal.NewFromInt(1)

// ToBase converts price from currency into base using rates. The price is
// returned unchanged when the currency already is the base, when either code
// is missing from rates, or when the currency's rate is zero.
func ToBase(price decimal.Decimal, currency, base string, rates RateTable) decimal.Decimal {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	base = strings.ToUpper(strings.TrimSpace(base))
	if currency == "" || currency == base {
		return price
	}
	rate, ok := rates[currency]
	if !ok {
		return price
	}
	if _, ok := rates[base]; !ok {
		return price
	}
	if rate.IsZero() {
		return price
	}
	return price.Div(rate)
}

// ApplyVAT adds the region's VAT and rounds to cents.
func ApplyVAT(price decimal.Decimal, region string, vat VatTable) decimal.Decimal {
	return price.Mul(one.Add(vat.Rate(region))).Round(2)
}

// ApplyCommission takes the commission off price and rounds to cents.
func ApplyCommission(price, commission decimal.Decimal) decimal.Decimal {
	return price.Mul(one.Sub(commission)).Round(2)
}

// Prices holds the three stages of a normalized price.
type Prices struct {
	// Base is the converted price, not rounded.
	Base        decimal.Decimal
	BaseWithVAT decimal.Decimal
	Final       decimal.Decimal
}

// Normalizer carries the request-independent inputs of normalization.
type Normalizer struct {
	Base       string
	Commission decimal.Decimal
	VAT        VatTable
}

// NewNormalizer builds a Normalizer over DefaultVAT.
func NewNormalizer(base string, commission decimal.Decimal) Normalizer {
	return Normalizer{Base: strings.ToUpper(base), Commission: commission, VAT: DefaultVAT}
}

// Normalize runs conversion, VAT and commission. It never fails: missing
// data degrades to passing the price through the stage unchanged.
func (n Normalizer) Normalize(price decimal.Decimal, currency, region string, rates RateTable) Prices {
	vat := n.VAT
	if vat == nil {
		vat = DefaultVAT
	}
	base := ToBase(price, currency, n.Base, rates)
	withVAT := ApplyVAT(base, region, vat)
	return Prices{
		Base:        base,
		BaseWithVAT: withVAT,
		Final:       ApplyCommission(withVAT, n.Commission),
	}
}
