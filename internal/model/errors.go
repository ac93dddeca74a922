package model

import "errors"

var (
	// ErrUnknownCategory is returned when a category is outside the closed set.
	ErrUnknownCategory = errors.New("unknown product category")
	// ErrInvalidItem is returned when an item record violates basic invariants.
	ErrInvalidItem = errors.New("invalid item")
)
