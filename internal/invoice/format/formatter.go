// Package format maps raw invoice values to locale-correct display strings.
// A Formatter is built once from configuration and holds no mutable state,
// so concurrent runs with different locales cannot interfere.
package format

import (
	"regexp"

	"github.com/invoicepress/invoicepress/internal/config"
	invoicedomain "github.com/invoicepress/invoicepress/internal/invoice/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var nonDigits = regexp.MustCompile(`\D+`)

// regionalOverrides maps canonical source spellings of regional names to
// their locale-correct accented forms.
var regionalOverrides = map[string]string{
	"Quebec": "Québec",
}

type Formatter struct {
	printer    *message.Printer
	pattern    currencyPattern
	dateLayout string
}

func New(cfg config.Config) (*Formatter, error) {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		tag = language.English
	}

	pattern, err := parseCurrencyPattern(cfg.CurrencyFormat)
	if err != nil {
		return nil, err
	}

	return &Formatter{
		printer:    message.NewPrinter(tag),
		pattern:    pattern,
		dateLayout: dateLayoutFromPattern(cfg.DateFormat),
	}, nil
}

// Format fills every *Formatted display field of the invoice. Raw fields
// are left intact for further arithmetic.
func (f *Formatter) Format(inv *invoicedomain.Invoice) {
	for i := range inv.Lines {
		line := &inv.Lines[i]
		line.UnitAmountFormatted = f.Currency(line.UnitAmountRaw)
		line.TotalFormatted = f.Currency(line.TotalRaw)
		line.QuantityFormatted = formatQuantity(line.Quantity)
	}

	for i := range inv.Taxes {
		t := &inv.Taxes[i]
		t.AmountFormatted = f.Currency(t.AmountRaw)
		t.PercentFormatted = formatPercent(t.Rate)
	}

	inv.SubtotalFormatted = f.Currency(inv.SubtotalRaw)
	inv.TotalFormatted = f.Currency(inv.TotalRaw)
	inv.DateFormatted = inv.Date.Format(f.dateLayout)
	inv.DueFormatted = inv.Due.Format(f.dateLayout)

	formatParty(&inv.Business)
	formatParty(&inv.Customer)
}

// Currency renders a raw cent amount as a major-unit display string using
// the configured pattern and the locale's digit conventions. The amount is
// rounded to the pattern's fraction digits half away from zero before
// printing; the printer's own nearest-even rounding never kicks in.
func (f *Formatter) Currency(raw int64) string {
	major, _ := decimal.NewFromInt(raw).
		Shift(-2).
		Round(int32(f.pattern.decimals)).
		Float64()

	opts := []number.Option{number.Scale(f.pattern.decimals)}
	if !f.pattern.grouped {
		opts = append(opts, number.NoSeparator())
	}

	return f.pattern.prefix + f.printer.Sprint(number.Decimal(major, opts...)) + f.pattern.suffix
}

func formatParty(p *invoicedomain.Party) {
	p.PhoneFormatted = FormatPhone(p.Phone)
	p.Address.ProvinceDisplay = regionalName(p.Address.Province)
}

// FormatPhone strips all non-digit characters and regroups ten-digit
// numbers as "AAA BBB CCCC". Anything else passes through unformatted.
func FormatPhone(value string) string {
	digits := nonDigits.ReplaceAllString(value, "")
	if len(digits) != 10 {
		return value
	}
	return digits[0:3] + " " + digits[3:6] + " " + digits[6:10]
}

func regionalName(province string) string {
	if accented, ok := regionalOverrides[province]; ok {
		return accented
	}
	return province
}

// formatPercent renders a fractional rate as a percentage with up to three
// fractional digits, trailing zeros trimmed (0.05 -> "5", 0.09975 -> "9.975").
func formatPercent(rate float64) string {
	return decimal.NewFromFloat(rate).
		Mul(decimal.NewFromInt(100)).
		Round(3).
		String()
}

func formatQuantity(qty decimal.Decimal) string {
	return qty.String()
}
