package packing

import "errors"

var (
	// ErrUnknownStrategy is returned when a strategy id is not registered.
	ErrUnknownStrategy = errors.New("unknown packing strategy")
	// ErrUnknownBoxType is returned when the catalog has no spec for a box type.
	ErrUnknownBoxType = errors.New("unknown box type")
)
