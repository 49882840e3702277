package domain

import "errors"

var (
	ErrInvalidTaxName = errors.New("invalid_tax_name")
	ErrInvalidTaxRate = errors.New("invalid_tax_rate")
	ErrUnknownTax     = errors.New("unknown_tax")
)
