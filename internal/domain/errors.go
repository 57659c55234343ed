// Package domain contains the core business entities for Openlatch.
package domain

import "errors"

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (storage, network, etc.).

var (
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrScheduleNotFound indicates the referenced schedule does not exist.
	ErrScheduleNotFound = errors.New("schedule not found")
)
