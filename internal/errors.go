package internal

import (
	"errors"
	"fmt"
)

var (
	ErrIncompleteOrderData  = errors.New("incomplete order data")
	ErrConfigurationMissing = errors.New("configuration missing")
	ErrUnknownCountry       = errors.New("unknown country")
	ErrOrderNotFound        = errors.New("order not found")
	ErrSweepInProgress      = errors.New("sweep already in progress")
)

// ItemFailure is a single order that could not be cancelled during a sweep.
type ItemFailure struct {
	Order string
	Err   error
}

func (e *ItemFailure) Error() string {
	return fmt.Sprintf("order %s: %v", e.Order, e.Err)
}

func (e *ItemFailure) Unwrap() error {
	return e.Err
}

func incomplete(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrIncompleteOrderData, fmt.Sprintf(format, args...))
}
