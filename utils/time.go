// Package utils provides utility functions for the application.
package utils

import (
	"time"
)

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// DateOnly formats a time as YYYY-MM-DD, the format used on printed invoices
func DateOnly(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
