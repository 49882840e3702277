package domain

import "errors"

var (
	// ErrSourceUnavailable covers unreadable files and unreachable endpoints.
	ErrSourceUnavailable = errors.New("source_unavailable")

	// ErrSourceMalformed covers missing columns or fields in otherwise
	// readable source data.
	ErrSourceMalformed = errors.New("source_malformed")
)
