package aggregate

import (
	"testing"
	"time"

	"github.com/invoicepress/invoicepress/internal/config"
	invoicedomain "github.com/invoicepress/invoicepress/internal/invoice/domain"
	sourcedomain "github.com/invoicepress/invoicepress/internal/source/domain"
	taxdomain "github.com/invoicepress/invoicepress/internal/tax/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	testDue  = time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
)

func newTestAggregator(failFast bool) *Aggregator {
	cfg := config.Config{
		FailFast: failFast,
		Business: config.BusinessConfig{Name: "North Co", Province: "Quebec"},
	}
	return New(cfg, zap.NewNop())
}

func lineRecord(number, customer string, unit int64, taxNames ...string) sourcedomain.LineRecord {
	return sourcedomain.LineRecord{
		InvoiceNumber: number,
		CustomerKey:   customer,
		Description:   "consulting",
		ProductName:   "Consulting",
		UnitAmountRaw: unit,
		Quantity:      decimal.NewFromInt(1),
		Currency:      "CAD",
		InvoiceDate:   testDate,
		DueDate:       testDue,
		TaxNames:      taxNames,
	}
}

func testCustomers() map[string]sourcedomain.CustomerRecord {
	return map[string]sourcedomain.CustomerRecord{
		"Acme": {Name: "Acme", Email: "billing@acme.test"},
	}
}

func testTaxes() taxdomain.Table {
	return taxdomain.Table{
		"TPS": {Name: "TPS", Rate: 0.05, RegistrationNumber: "123456789"},
		"TVQ": {Name: "TVQ", Rate: 0.09975, RegistrationNumber: "987654321"},
	}
}

func TestAggregateGroupsByInvoiceNumber(t *testing.T) {
	agg := newTestAggregator(true)

	invoices, err := agg.Aggregate([]sourcedomain.LineRecord{
		lineRecord("INV-002", "Acme", 2000),
		lineRecord("INV-001", "Acme", 10000),
		lineRecord("INV-001", "Acme", 5000),
	}, testCustomers(), testTaxes())
	require.NoError(t, err)
	require.Len(t, invoices, 2)

	// First-seen order of invoice numbers is preserved.
	assert.Equal(t, "INV-002", invoices[0].Number)
	assert.Equal(t, "INV-001", invoices[1].Number)

	// Lines stay in encounter order within an invoice.
	require.Len(t, invoices[1].Lines, 2)
	assert.Equal(t, int64(10000), invoices[1].Lines[0].UnitAmountRaw)
	assert.Equal(t, int64(5000), invoices[1].Lines[1].UnitAmountRaw)
}

func TestAggregateHeaderFromFirstRecord(t *testing.T) {
	agg := newTestAggregator(true)

	second := lineRecord("INV-001", "Acme", 5000)
	second.Currency = "USD"
	second.TaxNames = []string{"TVQ"}

	invoices, err := agg.Aggregate([]sourcedomain.LineRecord{
		lineRecord("INV-001", "Acme", 10000, "TPS"),
		second,
	}, testCustomers(), testTaxes())
	require.NoError(t, err)
	require.Len(t, invoices, 1)

	inv := invoices[0]
	assert.Equal(t, "CAD", inv.Currency)
	assert.Equal(t, "Acme", inv.Customer.Name)
	assert.Equal(t, "North Co", inv.Business.Name)
	require.Len(t, inv.Taxes, 1)
	assert.Equal(t, "TPS", inv.Taxes[0].Name)
	assert.Equal(t, 0.05, inv.Taxes[0].Rate)
}

func TestAggregateMissingCustomer(t *testing.T) {
	agg := newTestAggregator(true)

	_, err := agg.Aggregate([]sourcedomain.LineRecord{
		lineRecord("INV-001", "Nope", 10000),
	}, testCustomers(), testTaxes())
	assert.ErrorIs(t, err, invoicedomain.ErrMissingCustomer)
}

func TestAggregateUnknownTax(t *testing.T) {
	agg := newTestAggregator(true)

	_, err := agg.Aggregate([]sourcedomain.LineRecord{
		lineRecord("INV-001", "Acme", 10000, "HST"),
	}, testCustomers(), testTaxes())
	assert.ErrorIs(t, err, taxdomain.ErrUnknownTax)
}

func TestAggregateBestEffortSkipsInvoice(t *testing.T) {
	agg := newTestAggregator(false)

	invoices, err := agg.Aggregate([]sourcedomain.LineRecord{
		lineRecord("INV-001", "Nope", 10000),
		lineRecord("INV-001", "Nope", 5000),
		lineRecord("INV-002", "Acme", 2000),
	}, testCustomers(), testTaxes())
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-002", invoices[0].Number)
}

func TestAggregateMergesItemizedTaxes(t *testing.T) {
	agg := newTestAggregator(true)

	first := lineRecord("INV-001", "Acme", 10000)
	first.ItemTaxes = []sourcedomain.ItemTax{
		{Name: "TVQ", Rate: 0.09975, AmountRaw: 998},
		{Name: "TPS", Rate: 0.05, AmountRaw: 500},
	}
	second := lineRecord("INV-001", "Acme", 5000)
	second.ItemTaxes = []sourcedomain.ItemTax{
		{Name: "TPS", Rate: 0.05, AmountRaw: 250},
	}

	invoices, err := agg.Aggregate(
		[]sourcedomain.LineRecord{first, second}, testCustomers(), testTaxes())
	require.NoError(t, err)
	require.Len(t, invoices, 1)

	taxes := invoices[0].Taxes
	require.Len(t, taxes, 2)

	// Lexicographic by name regardless of encounter order.
	assert.Equal(t, "TPS", taxes[0].Name)
	assert.Equal(t, "TVQ", taxes[1].Name)

	// Amounts accumulate across lines sharing a tax name.
	assert.Equal(t, int64(750), taxes[0].AmountRaw)
	assert.Equal(t, int64(998), taxes[1].AmountRaw)
	assert.True(t, taxes[0].Itemized)
}

func TestAggregateDuplicateRateKeepsFirst(t *testing.T) {
	agg := newTestAggregator(true)

	first := lineRecord("INV-001", "Acme", 10000)
	first.ItemTaxes = []sourcedomain.ItemTax{{Name: "TPS", Rate: 0.05, AmountRaw: 500}}
	second := lineRecord("INV-001", "Acme", 5000)
	second.ItemTaxes = []sourcedomain.ItemTax{{Name: "TPS", Rate: 0.07, AmountRaw: 350}}

	invoices, err := agg.Aggregate(
		[]sourcedomain.LineRecord{first, second}, testCustomers(), testTaxes())
	require.NoError(t, err)

	taxes := invoices[0].Taxes
	require.Len(t, taxes, 1)
	assert.Equal(t, 0.05, taxes[0].Rate)
	assert.Equal(t, int64(850), taxes[0].AmountRaw)
}
