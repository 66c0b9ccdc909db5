package testutil

import "time"

var timeNow = func() time.Time { return time.Now().UTC() }

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
