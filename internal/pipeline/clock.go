package pipeline

import "time"

type systemClock struct{}

// Now return current time.
func (c systemClock) Now() *time.Time {
	t := time.Now().UTC()
	return &t
}
