package render

import invoicedomain "github.com/invoicepress/invoicepress/internal/invoice/domain"

// View is the fully formatted invoice flattened for template field access.
// Every value arrives pre-computed and pre-formatted; templates perform no
// arithmetic or locale logic.
type View struct {
	Number        string
	DateFormatted string
	DueFormatted  string
	Currency      string

	Business PartyView
	Customer PartyView

	Lines []LineView
	Taxes []TaxView

	SubtotalFormatted string
	TotalFormatted    string
}

type PartyView struct {
	Name           string
	FirstName      string
	LastName       string
	Email          string
	Website        string
	PhoneFormatted string

	AddressLine1 string
	AddressLine2 string
	City         string
	Province     string
	Country      string
	PostalCode   string
}

type LineView struct {
	Description         string
	Product             string
	QuantityFormatted   string
	UnitAmountFormatted string
	TotalFormatted      string
}

type TaxView struct {
	Name               string
	RegistrationNumber string
	PercentFormatted   string
	AmountFormatted    string
}

// BuildView flattens a computed, formatted invoice.
func BuildView(inv *invoicedomain.Invoice) View {
	v := View{
		Number:            inv.Number,
		DateFormatted:     inv.DateFormatted,
		DueFormatted:      inv.DueFormatted,
		Currency:          inv.Currency,
		Business:          buildPartyView(inv.Business),
		Customer:          buildPartyView(inv.Customer),
		SubtotalFormatted: inv.SubtotalFormatted,
		TotalFormatted:    inv.TotalFormatted,
	}
	for _, line := range inv.Lines {
		v.Lines = append(v.Lines, LineView{
			Description:         line.Description,
			Product:             line.Product,
			QuantityFormatted:   line.QuantityFormatted,
			UnitAmountFormatted: line.UnitAmountFormatted,
			TotalFormatted:      line.TotalFormatted,
		})
	}
	for _, t := range inv.Taxes {
		v.Taxes = append(v.Taxes, TaxView{
			Name:               t.Name,
			RegistrationNumber: t.RegistrationNumber,
			PercentFormatted:   t.PercentFormatted,
			AmountFormatted:    t.AmountFormatted,
		})
	}
	return v
}

func buildPartyView(p invoicedomain.Party) PartyView {
	return PartyView{
		Name:           p.Name,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		Website:        p.Website,
		PhoneFormatted: p.PhoneFormatted,
		AddressLine1:   p.Address.Line1,
		AddressLine2:   p.Address.Line2,
		City:           p.Address.City,
		Province:       p.Address.ProvinceDisplay,
		Country:        p.Address.Country,
		PostalCode:     p.Address.PostalCode,
	}
}
