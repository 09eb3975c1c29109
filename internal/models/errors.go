package models

import "errors"

// Custom errors
var (
	ErrInsufficientData   = errors.New("insufficient data to derive scoring rate")
	ErrInvalidOdds        = errors.New("odds must be greater than 1.0")
	ErrNumericInstability = errors.New("score distribution failed to converge within window bound")
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateKey       = errors.New("duplicate key violation")
)
