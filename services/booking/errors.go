package booking

import (
	"errors"
	"fmt"
)

// SlotConflictError is the business error surfaced when the requested
// interval overlaps an existing active booking for the same staff and date.
type SlotConflictError struct {
	StaffID string
	Date    string
	Start   int
	End     int
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot %s-%s on %s is already booked for staff %s",
		ClockFromMinutes(e.Start), ClockFromMinutes(e.End), e.Date, e.StaffID)
}

// ErrSystemBusy is returned when the reservation kept losing write races
// after the bounded retry budget.
var ErrSystemBusy = errors.New("booking system busy, please try again")

// ErrIncompleteSelection is returned when confirm is invoked before every
// wizard step has been collected.
var ErrIncompleteSelection = errors.New("booking selection is incomplete")

// ErrInvalidStatusChange is returned for a lifecycle move the current status
// does not allow.
var ErrInvalidStatusChange = errors.New("invalid booking status transition")
