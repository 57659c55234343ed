// Package service provides the business logic services for Openlatch.
package service

import "errors"

// Common service errors.
var (
	// ErrInternalError wraps unexpected infrastructure failures.
	ErrInternalError = errors.New("internal error")
)
