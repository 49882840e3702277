// Package aggregate folds flat line records into invoice entities.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/invoicepress/invoicepress/internal/config"
	invoicedomain "github.com/invoicepress/invoicepress/internal/invoice/domain"
	sourcedomain "github.com/invoicepress/invoicepress/internal/source/domain"
	taxdomain "github.com/invoicepress/invoicepress/internal/tax/domain"
	"go.uber.org/zap"
)

type Aggregator struct {
	log      *zap.Logger
	business invoicedomain.Party
	failFast bool
}

func New(cfg config.Config, log *zap.Logger) *Aggregator {
	return &Aggregator{
		log:      log.Named("invoice.aggregate"),
		business: businessParty(cfg.Business),
		failFast: cfg.FailFast,
	}
}

// Aggregate groups line records by invoice number, preserving first-seen
// order of numbers and of lines within each invoice. The first record for a
// number establishes the header (customer, currency, dates, flat tax list);
// later records only append lines.
//
// With failFast enabled (the default), a record referencing an unknown
// customer or tax aborts the whole batch. Otherwise the offending invoice is
// dropped and the rest of the batch continues.
func (a *Aggregator) Aggregate(
	lines []sourcedomain.LineRecord,
	customers map[string]sourcedomain.CustomerRecord,
	taxes taxdomain.Table,
) ([]*invoicedomain.Invoice, error) {

	var ordered []*invoicedomain.Invoice
	index := make(map[string]*invoicedomain.Invoice)
	skipped := make(map[string]bool)
	itemized := make(map[string]*taxMerge)

	for _, rec := range lines {
		if skipped[rec.InvoiceNumber] {
			continue
		}

		inv, seen := index[rec.InvoiceNumber]
		if !seen {
			created, err := a.newInvoice(rec, customers, taxes)
			if err != nil {
				if a.failFast {
					return nil, err
				}
				a.log.Warn("skipping invoice",
					zap.String("invoice", rec.InvoiceNumber),
					zap.Error(err))
				skipped[rec.InvoiceNumber] = true
				continue
			}
			inv = created
			index[rec.InvoiceNumber] = inv
			itemized[rec.InvoiceNumber] = newTaxMerge()
			ordered = append(ordered, inv)
		}

		inv.Lines = append(inv.Lines, invoicedomain.LineItem{
			Description:   rec.Description,
			Product:       rec.ProductName,
			UnitAmountRaw: rec.UnitAmountRaw,
			Quantity:      rec.Quantity,
		})
		itemized[rec.InvoiceNumber].add(a.log, rec.InvoiceNumber, rec.ItemTaxes)
	}

	for _, inv := range ordered {
		if merged := itemized[inv.Number].lines(); len(merged) > 0 {
			inv.Taxes = merged
		}
		sort.Slice(inv.Taxes, func(i, j int) bool {
			return inv.Taxes[i].Name < inv.Taxes[j].Name
		})
	}
	return ordered, nil
}

func (a *Aggregator) newInvoice(
	rec sourcedomain.LineRecord,
	customers map[string]sourcedomain.CustomerRecord,
	taxes taxdomain.Table,
) (*invoicedomain.Invoice, error) {

	cust, ok := customers[rec.CustomerKey]
	if !ok {
		return nil, fmt.Errorf("invoice %s: customer %q: %w",
			rec.InvoiceNumber, rec.CustomerKey, invoicedomain.ErrMissingCustomer)
	}

	inv := &invoicedomain.Invoice{
		Number:   rec.InvoiceNumber,
		Business: a.business,
		Customer: customerParty(cust),
		Currency: rec.Currency,
		Date:     rec.InvoiceDate,
		Due:      rec.DueDate,
	}

	for _, name := range rec.TaxNames {
		def, err := taxes.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("invoice %s: tax %q: %w", rec.InvoiceNumber, name, err)
		}
		inv.Taxes = append(inv.Taxes, invoicedomain.TaxLine{
			Name:               def.Name,
			Rate:               def.Rate,
			RegistrationNumber: def.RegistrationNumber,
		})
	}
	return inv, nil
}

// taxMerge accumulates itemized per-item tax entries by name. The first
// occurrence of a name fixes the rate and registration number; later
// occurrences only add their amounts.
type taxMerge struct {
	order  []string
	byName map[string]*invoicedomain.TaxLine
}

func newTaxMerge() *taxMerge {
	return &taxMerge{byName: make(map[string]*invoicedomain.TaxLine)}
}

func (m *taxMerge) add(log *zap.Logger, invoiceNumber string, entries []sourcedomain.ItemTax) {
	for _, t := range entries {
		existing, ok := m.byName[t.Name]
		if !ok {
			m.order = append(m.order, t.Name)
			m.byName[t.Name] = &invoicedomain.TaxLine{
				Name:               t.Name,
				Rate:               t.Rate,
				RegistrationNumber: t.RegistrationNumber,
				Itemized:           true,
				AmountRaw:          t.AmountRaw,
			}
			continue
		}
		if existing.Rate != t.Rate {
			log.Warn("duplicate tax entries with differing rates, keeping first",
				zap.String("invoice", invoiceNumber),
				zap.String("tax", t.Name),
				zap.Float64("kept", existing.Rate),
				zap.Float64("ignored", t.Rate))
		}
		existing.AmountRaw += t.AmountRaw
	}
}

func (m *taxMerge) lines() []invoicedomain.TaxLine {
	out := make([]invoicedomain.TaxLine, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, *m.byName[name])
	}
	return out
}

func businessParty(b config.BusinessConfig) invoicedomain.Party {
	return invoicedomain.Party{
		Name:    b.Name,
		Phone:   b.Phone,
		Website: b.Website,
		Address: invoicedomain.Address{
			Line1:      b.Line1,
			Line2:      b.Line2,
			City:       b.City,
			Province:   b.Province,
			Country:    b.Country,
			PostalCode: b.PostalCode,
		},
	}
}

func customerParty(c sourcedomain.CustomerRecord) invoicedomain.Party {
	phone := c.Phone
	if phone == "" {
		phone = c.Mobile
	}
	return invoicedomain.Party{
		Name:      c.Name,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Website:   c.Website,
		Phone:     phone,
		Address: invoicedomain.Address{
			Line1:      c.Address.Line1,
			Line2:      c.Address.Line2,
			City:       c.Address.City,
			Province:   c.Address.Province,
			Country:    c.Address.Country,
			PostalCode: c.Address.PostalCode,
		},
	}
}
