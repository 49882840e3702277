// Package compute derives all raw monetary fields of an invoice in integer
// minor currency units. Rounding is half away from zero throughout, applied
// exactly once per derived amount, so totals reconcile to the cent.
package compute

import (
	"fmt"

	invoicedomain "github.com/invoicepress/invoicepress/internal/invoice/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Calculator struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Calculator {
	return &Calculator{log: log.Named("invoice.compute")}
}

// Compute fills line totals, the subtotal, per-tax amounts and the grand
// total. Itemized tax lines already carry exact sums of rounded components
// and are left untouched; rate-based lines are computed from the subtotal.
func (c *Calculator) Compute(inv *invoicedomain.Invoice) error {
	var subtotal int64
	for i := range inv.Lines {
		line := &inv.Lines[i]
		if line.UnitAmountRaw < 0 {
			return fmt.Errorf("invoice %s: negative unit amount %d: %w",
				inv.Number, line.UnitAmountRaw, invoicedomain.ErrInvalidFinancialInput)
		}
		if line.Quantity.IsNegative() {
			return fmt.Errorf("invoice %s: negative quantity %s: %w",
				inv.Number, line.Quantity, invoicedomain.ErrInvalidFinancialInput)
		}
		line.TotalRaw = lineTotal(line.UnitAmountRaw, line.Quantity)
		subtotal += line.TotalRaw
	}
	inv.SubtotalRaw = subtotal

	var taxTotal int64
	for i := range inv.Taxes {
		t := &inv.Taxes[i]
		if t.Rate < 0 || t.Rate > 1 {
			return fmt.Errorf("invoice %s: tax %s rate %v outside [0, 1]: %w",
				inv.Number, t.Name, t.Rate, invoicedomain.ErrInvalidFinancialInput)
		}
		if !t.Itemized {
			t.AmountRaw = rateAmount(t.Rate, subtotal)
		}
		taxTotal += t.AmountRaw
	}
	inv.TotalRaw = subtotal + taxTotal

	c.log.Debug("computed invoice",
		zap.String("invoice", inv.Number),
		zap.Int64("subtotal", inv.SubtotalRaw),
		zap.Int64("total", inv.TotalRaw))
	return nil
}

// lineTotal multiplies a cent amount by a possibly fractional quantity,
// rounding the product once to the nearest cent. Integral quantities keep
// the product exact.
func lineTotal(unitRaw int64, qty decimal.Decimal) int64 {
	return decimal.NewFromInt(unitRaw).Mul(qty).Round(0).IntPart()
}

// rateAmount applies a fractional rate to a cent subtotal, rounding half
// away from zero.
func rateAmount(rate float64, subtotalRaw int64) int64 {
	return decimal.NewFromFloat(rate).
		Mul(decimal.NewFromInt(subtotalRaw)).
		Round(0).
		IntPart()
}
