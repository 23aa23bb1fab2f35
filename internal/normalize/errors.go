package normalize

import "errors"

var (
	// ErrMalformedNumber is returned when numeric string can't be parsed after cleanup.
	ErrMalformedNumber = errors.New("malformed numeric string")
	// ErrUnknownTransformer is returned when registry names transformer which does not exist.
	ErrUnknownTransformer = errors.New("unknown transformer")
)
