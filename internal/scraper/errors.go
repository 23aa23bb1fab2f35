package scraper

import "errors"

var (
	// ErrUnexpectedPayload is returned when retailer response has unknown structure.
	ErrUnexpectedPayload = errors.New("unexpected payload")
	// ErrTokenNotFound is returned when session token can't be found on listing page.
	ErrTokenNotFound = errors.New("token not found")
)
