package format

import (
	"testing"
	"time"

	"github.com/invoicepress/invoicepress/internal/config"
	invoicedomain "github.com/invoicepress/invoicepress/internal/invoice/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFormatter(t *testing.T) *Formatter {
	t.Helper()
	f, err := New(config.Config{
		Locale:         "en",
		CurrencyFormat: "$0,0.00",
		DateFormat:     "MMMM D, YYYY",
	})
	require.NoError(t, err)
	return f
}

func TestCurrencyFormatting(t *testing.T) {
	f := newTestFormatter(t)

	assert.Equal(t, "$1,234.56", f.Currency(123456))
	assert.Equal(t, "$0.00", f.Currency(0))
	assert.Equal(t, "$157.50", f.Currency(15750))
}

func TestCurrencyPatternWithoutGrouping(t *testing.T) {
	f, err := New(config.Config{Locale: "en", CurrencyFormat: "$0.00"})
	require.NoError(t, err)
	assert.Equal(t, "$1234.56", f.Currency(123456))
}

func TestCurrencyPatternSuffixSymbol(t *testing.T) {
	f, err := New(config.Config{Locale: "en", CurrencyFormat: "0,0.00 $"})
	require.NoError(t, err)
	assert.Equal(t, "1,234.56 $", f.Currency(123456))
}

func TestCurrencyZeroDecimalRoundsHalfAway(t *testing.T) {
	f, err := New(config.Config{Locale: "en", CurrencyFormat: "0,0 $"})
	require.NoError(t, err)

	assert.Equal(t, "3 $", f.Currency(250))
	assert.Equal(t, "2 $", f.Currency(249))
	assert.Equal(t, "1,235 $", f.Currency(123456))
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "514 555 1234", FormatPhone("5145551234"))
	assert.Equal(t, "514 555 1234", FormatPhone("(514) 555-1234"))

	// Lenient: anything not reducing to ten digits passes through unchanged.
	assert.Equal(t, "123", FormatPhone("123"))
	assert.Equal(t, "+1 514 555 12345", FormatPhone("+1 514 555 12345"))
	assert.Equal(t, "", FormatPhone(""))
}

func TestFormatPercentTrimsTrailingZeros(t *testing.T) {
	assert.Equal(t, "5", formatPercent(0.05))
	assert.Equal(t, "9.975", formatPercent(0.09975))
	assert.Equal(t, "0", formatPercent(0))
}

func TestRegionalOverride(t *testing.T) {
	f := newTestFormatter(t)

	inv := &invoicedomain.Invoice{
		Business: invoicedomain.Party{Address: invoicedomain.Address{Province: "Quebec"}},
		Customer: invoicedomain.Party{Address: invoicedomain.Address{Province: "Ontario"}},
	}
	f.Format(inv)

	assert.Equal(t, "Québec", inv.Business.Address.ProvinceDisplay)
	assert.Equal(t, "Ontario", inv.Customer.Address.ProvinceDisplay)

	// Raw field is untouched.
	assert.Equal(t, "Quebec", inv.Business.Address.Province)
}

func TestFormatFillsDisplayFieldsOnly(t *testing.T) {
	f := newTestFormatter(t)

	inv := &invoicedomain.Invoice{
		Number: "INV-001",
		Date:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Due:    time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Lines: []invoicedomain.LineItem{{
			UnitAmountRaw: 10000,
			Quantity:      decimal.NewFromInt(2),
			TotalRaw:      20000,
		}},
		Taxes:       []invoicedomain.TaxLine{{Name: "TPS", Rate: 0.05, AmountRaw: 1000}},
		SubtotalRaw: 20000,
		TotalRaw:    21000,
	}
	f.Format(inv)

	assert.Equal(t, "$100.00", inv.Lines[0].UnitAmountFormatted)
	assert.Equal(t, "$200.00", inv.Lines[0].TotalFormatted)
	assert.Equal(t, "2", inv.Lines[0].QuantityFormatted)
	assert.Equal(t, "$10.00", inv.Taxes[0].AmountFormatted)
	assert.Equal(t, "5", inv.Taxes[0].PercentFormatted)
	assert.Equal(t, "$200.00", inv.SubtotalFormatted)
	assert.Equal(t, "$210.00", inv.TotalFormatted)
	assert.Equal(t, "March 1, 2024", inv.DateFormatted)
	assert.Equal(t, "March 31, 2024", inv.DueFormatted)

	// Raw values remain available for further arithmetic.
	assert.Equal(t, int64(20000), inv.SubtotalRaw)
	assert.Equal(t, int64(21000), inv.TotalRaw)
}

func TestDateLayoutFromPattern(t *testing.T) {
	assert.Equal(t, "2006-01-02", dateLayoutFromPattern("YYYY-MM-DD"))
	assert.Equal(t, "January 2, 2006", dateLayoutFromPattern("MMMM D, YYYY"))
	assert.Equal(t, "02/01/06", dateLayoutFromPattern("DD/MM/YY"))
	assert.Equal(t, "Monday, January 2, 2006", dateLayoutFromPattern("dddd, MMMM D, YYYY"))
	assert.Equal(t, "Mon Jan 2", dateLayoutFromPattern("ddd MMM D"))
}

func TestWeekdayDatePattern(t *testing.T) {
	f, err := New(config.Config{
		Locale:         "en",
		CurrencyFormat: "$0,0.00",
		DateFormat:     "dddd, MMMM D, YYYY",
	})
	require.NoError(t, err)

	inv := &invoicedomain.Invoice{
		Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Due:  time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	f.Format(inv)

	assert.Equal(t, "Friday, March 1, 2024", inv.DateFormatted)
	assert.Equal(t, "Sunday, March 31, 2024", inv.DueFormatted)
}

func TestParseCurrencyPattern(t *testing.T) {
	p, err := parseCurrencyPattern("$0,0.00")
	require.NoError(t, err)
	assert.Equal(t, "$", p.prefix)
	assert.Equal(t, "", p.suffix)
	assert.True(t, p.grouped)
	assert.Equal(t, 2, p.decimals)

	_, err = parseCurrencyPattern("no digits here")
	assert.Error(t, err)
}
