package domain

import (
	"errors"
	"fmt"
)

var (
	ErrItemUnavailable   = errors.New("menu item is not available")
	ErrSizeRequired      = errors.New("a size must be selected")
	ErrPastaRequired     = errors.New("a pasta must be selected")
	ErrOptionNotAllowed  = errors.New("option is not offered for this item")
	ErrOptionUnavailable = errors.New("option is not available")
	ErrDuplicateOption   = errors.New("option selected more than once")

	ErrInvalidDelivery      = errors.New("invalid delivery data")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidTransition    = errors.New("order status transition not allowed")
)

// OptionError names the option that failed validation.
type OptionError struct {
	Kind string
	ID   string
	Err  error
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.ID, e.Err)
}

func (e *OptionError) Unwrap() error {
	return e.Err
}

func optionErr(kind, id string, err error) error {
	return &OptionError{Kind: kind, ID: id, Err: err}
}
