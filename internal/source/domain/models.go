// Package domain defines the normalized records every source adapter
// produces, regardless of whether they came from CSV exports or the
// Wave GraphQL API.
package domain

import (
	"context"
	"time"

	taxdomain "github.com/invoicepress/invoicepress/internal/tax/domain"
	"github.com/shopspring/decimal"
)

// Address is a postal address as exported by the source.
type Address struct {
	Line1      string
	Line2      string
	City       string
	Province   string
	Country    string
	PostalCode string
}

// CustomerRecord is keyed by customer name in the source data.
type CustomerRecord struct {
	Name      string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Mobile    string
	Website   string
	Address   Address
}

// ItemTax is a per-item tax breakdown carried by itemized sources (Wave).
// Amount is already rounded to integer cents by the source.
type ItemTax struct {
	Name               string
	Rate               float64
	RegistrationNumber string
	AmountRaw          int64
}

// LineRecord is one flat, immutable billed item. Multiple records sharing
// an invoice number form one invoice; the first record for a number
// establishes the invoice header.
type LineRecord struct {
	InvoiceNumber string
	CustomerKey   string
	Description   string
	ProductName   string

	// UnitAmountRaw is the unit price in minor currency units (cents).
	UnitAmountRaw int64
	Quantity      decimal.Decimal

	Currency    string
	InvoiceDate time.Time
	DueDate     time.Time

	// TaxNames references flat per-invoice taxes resolved against the
	// tax definition table (CSV path).
	TaxNames []string

	// ItemTaxes carries self-contained per-item breakdowns (Wave path).
	ItemTaxes []ItemTax
}

// Provider is the narrow contract between a source adapter and the core.
// All three loads are fired concurrently by the pipeline; any failure
// aborts the batch before aggregation starts.
type Provider interface {
	LoadLineRecords(ctx context.Context) ([]LineRecord, error)
	LoadCustomers(ctx context.Context) (map[string]CustomerRecord, error)
	LoadTaxDefinitions(ctx context.Context) (taxdomain.Table, error)
}
