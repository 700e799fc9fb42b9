package board

import "errors"

// ErrValidation marks a caller error: bad arguments, not a store failure.
var ErrValidation = errors.New("invalid argument")

// ErrNotFound marks a lookup against an id that does not exist.
var ErrNotFound = errors.New("not found")
