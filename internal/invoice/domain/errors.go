package domain

import "errors"

var (
	ErrMissingCustomer       = errors.New("missing_customer")
	ErrInvalidFinancialInput = errors.New("invalid_financial_input")
)
