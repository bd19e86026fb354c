package bookingRepo

import (
	"context"
	"errors"

	"reserva/models"
)

// ErrSlotTaken is returned by CreateIfNoOverlap when an active booking for the
// same staff and date overlaps the candidate interval.
var ErrSlotTaken = errors.New("slot already booked")

// BookingRepository defines the interface for booking data access.
type BookingRepository interface {
	// Create inserts the booking without any overlap check.
	Create(ctx context.Context, booking *models.Booking) error
	// CreateIfNoOverlap atomically verifies no active booking for
	// (tenantID, staffID, date) overlaps [Start, End) and inserts.
	// Returns ErrSlotTaken on overlap.
	CreateIfNoOverlap(ctx context.Context, booking *models.Booking) error
	GetByID(tenantID, id string) (*models.Booking, error)
	// ListActiveByStaffDate returns bookings for the staff member on the date
	// whose status still occupies the slot (not CANCELLED/NO_SHOW).
	ListActiveByStaffDate(tenantID, staffID, date string) ([]models.Booking, error)
	ListByTenantDate(tenantID, date string) ([]models.Booking, error)
	UpdateStatus(tenantID, id, status string) error
}
