package htable

import "errors"

var (
	ErrEmptyKey    = errors.New("empty key")
	ErrInvalidKey  = errors.New("key contains a character outside the allowed alphabet")
	ErrBadCapacity = errors.New("initial capacity must be positive")
	ErrTableFull   = errors.New("probe sequence found no empty slot")
	ErrPrimeSearch = errors.New("prime search exhausted")
)
