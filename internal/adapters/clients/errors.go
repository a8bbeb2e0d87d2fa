// Package clients is the outbound HTTP layer used to fetch the dataset.
package clients

import "errors"

// Infrastructure failures. The acl package maps them to domain errors.
var (
	// ErrCircuitOpen means the breaker rejected the call without contacting
	// the origin.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last attempt's error once every attempt
	// has failed.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
