package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for lookups.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrNoMatch         = errors.New("no matching product found")
)

// Request validation errors.
var (
	ErrMissingID    = errors.New("product id is required")
	ErrMissingQuery = errors.New("query is required")
	ErrInvalidTopN  = errors.New("top_n must be an integer")
)

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}
