// Package domain holds the invoice entities produced by aggregation.
// All monetary fields are integer minor currency units (cents); the
// *Formatted companions are filled by the localization formatter and are
// never used for arithmetic.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Address is a postal address attached to a party. ProvinceDisplay carries
// the locale-correct regional name ("Québec" for "Quebec"); Province keeps
// the source spelling.
type Address struct {
	Line1      string
	Line2      string
	City       string
	Province   string
	Country    string
	PostalCode string

	ProvinceDisplay string
}

// Party is either the issuing business or the billed customer.
type Party struct {
	Name      string
	FirstName string
	LastName  string
	Email     string
	Website   string
	Phone     string
	Address   Address

	PhoneFormatted string
}

// LineItem is one billed item on an invoice.
type LineItem struct {
	Description string
	Product     string

	UnitAmountRaw int64
	Quantity      decimal.Decimal
	TotalRaw      int64

	UnitAmountFormatted string
	QuantityFormatted   string
	TotalFormatted      string
}

// TaxLine is an aggregated, named tax charge. For itemized sources the
// amount is the exact sum of already-rounded per-item components; for
// rate-based taxes the calculator fills it from Rate and the subtotal.
type TaxLine struct {
	Name               string
	Rate               float64
	RegistrationNumber string
	Itemized           bool

	AmountRaw int64

	AmountFormatted  string
	PercentFormatted string
}

// Invoice is one discrete invoice document. The first line record seen for
// an invoice number establishes the header; later records only append lines.
type Invoice struct {
	Number   string
	Business Party
	Customer Party

	Lines []LineItem

	// Taxes is ordered lexicographically by name, independent of the
	// order taxes were encountered in the source.
	Taxes []TaxLine

	Currency string
	Date     time.Time
	Due      time.Time

	SubtotalRaw int64
	TotalRaw    int64

	SubtotalFormatted string
	TotalFormatted    string
	DateFormatted     string
	DueFormatted      string
}
