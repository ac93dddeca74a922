package palletize

import "errors"

// ErrUnknownContainerType is returned when the catalog lacks a container spec
// the consolidation needs.
var ErrUnknownContainerType = errors.New("unknown container type")
