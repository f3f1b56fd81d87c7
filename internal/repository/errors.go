// Package repository persists bookings, slots, customers and notifications.
// Sentinel errors declared here let services and handlers distinguish failure
// modes without inspecting driver errors.
package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested booking does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when a status update is attempted
	// from a state that does not permit it. The row is left unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrCompletedImmutable guards completed bookings against edit and
	// delete.
	ErrCompletedImmutable = errors.New("completed booking cannot be modified")
)

// SlotConflictError reports which requested hours are already claimed by
// another live booking, so the caller can re-prompt with fresh availability.
type SlotConflictError struct {
	Hours []int
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slots already booked: %v", e.Hours)
}
