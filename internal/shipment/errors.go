package shipment

import "errors"

// ErrNoItems is returned when a request carries nothing to pack.
var ErrNoItems = errors.New("request has no items")
