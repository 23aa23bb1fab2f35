package dataset

import "errors"

// ErrHeaderMismatch is returned when CSV header differs from the expected one.
var ErrHeaderMismatch = errors.New("unexpected csv header")

// ErrExportMissing is returned when raw export of a source doesn't exist.
var ErrExportMissing = errors.New("raw export missing")
