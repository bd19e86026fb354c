package booking

import (
	"context"

	bookingRepo "reserva/database/repository/booking"
	"reserva/models"
)

// BookingService creates and manages appointment reservations.
type BookingService interface {
	// ConfirmFromContext reserves the slot described by a fully collected
	// conversation context. chatUserID is the chat identity used for
	// reminder delivery. Returns *SlotConflictError when the slot is taken.
	ConfirmFromContext(ctx context.Context, conv *models.ConversationContext, chatUserID string) (*models.Booking, error)
	GetBooking(tenantID, id string) (*models.Booking, error)
	ListByDate(tenantID, date string) ([]models.Booking, error)
	UpdateStatus(tenantID, id, status string) error
}

// ReminderScheduler enqueues a delayed reminder for a created booking.
type ReminderScheduler interface {
	ScheduleBookingReminder(booking *models.Booking, chatUserID string) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo      bookingRepo.BookingRepository
	Reminders ReminderScheduler // optional; nil disables reminders
}
