package registry

import "errors"

// Sentinel kinds for facility directory errors.
var (
	ErrNotFound        = errors.New("facility not found")
	ErrInvalidFacility = errors.New("invalid facility")
)
