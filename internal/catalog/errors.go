package catalog

import "errors"

// ErrInvalidCatalog indicates a catalog document violates validation rules.
var ErrInvalidCatalog = errors.New("invalid catalog")
