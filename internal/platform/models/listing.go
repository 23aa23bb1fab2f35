package models

import (
	"github.com/shopspring/decimal"
)

// Currency is the only currency of the dataset.
const Currency = "AZN"

// StockState is availability of a listing.
type StockState string

// Stock states. StockUnknown is written as an empty field.
const (
	StockUnknown StockState = ""
	StockYes     StockState = "Yes"
	StockNo      StockState = "No"
)

// Listing is one normalized smartphone listing.
type Listing struct {
	Source         string
	ProductID      string
	Name           string
	Brand          *string
	PriceCurrent   decimal.Decimal
	PriceOriginal  decimal.NullDecimal
	DiscountAmt    decimal.NullDecimal
	DiscountPct    decimal.NullDecimal
	Currency       string
	Installment6M  decimal.NullDecimal
	Installment12M decimal.NullDecimal
	Installment18M decimal.NullDecimal
	InStock        StockState
	URL            string
	Image          string
}

// HasDiscount reports whether listing carries non-zero discount.
func (l Listing) HasDiscount() bool {
	return (l.DiscountAmt.Valid && l.DiscountAmt.Decimal.IsPositive()) ||
		(l.DiscountPct.Valid && l.DiscountPct.Decimal.IsPositive())
}

// BrandName returns brand or empty string when brand is unresolved.
func (l Listing) BrandName() string {
	if l.Brand == nil {
		return ""
	}
	return *l.Brand
}

// Installment returns monthly payment for the term in months.
func (l Listing) Installment(months int) decimal.NullDecimal {
	switch months {
	case 6:
		return l.Installment6M
	case 12:
		return l.Installment12M
	case 18:
		return l.Installment18M
	default:
		return decimal.NullDecimal{}
	}
}

// Dataset is ordered sequence of listings: source order, then row order.
type Dataset []Listing
