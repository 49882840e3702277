package domain

// TaxDefinition is an externally supplied tax policy, keyed by name.
// NOTE:
// - name is the stable identifier line records reference (immutable per batch)
// - rate is a fraction (e.g. 0.05 for 5%)
type TaxDefinition struct {
	Name               string
	Rate               float64
	RegistrationNumber string
}

func (t TaxDefinition) Validate() error {
	if t.Name == "" {
		return ErrInvalidTaxName
	}
	if t.Rate < 0 || t.Rate > 1 {
		return ErrInvalidTaxRate
	}
	return nil
}

// Table is the read-only tax lookup shared by the whole batch.
type Table map[string]TaxDefinition

// Lookup resolves a tax name referenced by a line record.
func (t Table) Lookup(name string) (TaxDefinition, error) {
	def, ok := t[name]
	if !ok {
		return TaxDefinition{}, ErrUnknownTax
	}
	return def, nil
}
