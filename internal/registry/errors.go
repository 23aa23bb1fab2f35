package registry

import "errors"

var (
	// ErrUnknownSource is returned when source slug is not registered.
	ErrUnknownSource = errors.New("unknown source")
	// ErrInvalidRegistry is returned when registry file fails validation.
	ErrInvalidRegistry = errors.New("invalid registry")
)
