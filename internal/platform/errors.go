package platform

import (
	"errors"
)

// ErrMissingRequiredField is returned when record lacks a field required by the unified schema.
var ErrMissingRequiredField = errors.New("missing required field")

// ErrSourceUnavailable is returned when source could not be collected.
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrAlreadyRunning is returned when previous run is not finished yet.
var ErrAlreadyRunning = errors.New("previous run is not finished yet")
