package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "reserva/database/repository/booking"
	"reserva/models"
	"reserva/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxConfirmAttempts bounds retries when the reservation transaction loses a
// write race against a concurrent confirmation.
const maxConfirmAttempts = 3

// ConfirmFromContext validates the collected selection, checks the slot and
// persists the booking. The conflict predicate is half-open: an existing
// booking ending at 10:30 does not conflict with a new one starting at 10:30.
func (s *DefaultBookingService) ConfirmFromContext(ctx context.Context, conv *models.ConversationContext, chatUserID string) (*models.Booking, error) {
	logger := utils.GetLogger()

	if !conv.HasFullSelection() {
		return nil, ErrIncompleteSelection
	}

	start, err := MinutesFromClock(conv.Time)
	if err != nil {
		return nil, fmt.Errorf("invalid selected time: %w", err)
	}
	end := start + conv.ServiceDuration

	booking := &models.Booking{
		ID:         uuid.New().String(),
		TenantID:   conv.TenantID,
		CustomerID: conv.CustomerID,
		ServiceID:  conv.ServiceID,
		StaffID:    conv.StaffID,
		Date:       conv.Date,
		Start:      start,
		End:        end,
		Note:       conv.CustomerNote,
		Status:     models.BookingStatusPending,
		TotalPrice: conv.ServicePrice,
		SessionKey: conv.TenantID + ":" + conv.UserID,
	}

	if conv.StaffID == models.StaffUnspecified {
		// No staff selected: the tenant assigns someone later and no overlap
		// check runs. Unassigned capacity is effectively unlimited.
		if err := s.Repo.Create(ctx, booking); err != nil {
			return nil, fmt.Errorf("failed to create booking: %w", err)
		}
	} else {
		if err := s.reserveWithRetry(ctx, booking); err != nil {
			return nil, err
		}
	}

	logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("tenantId", booking.TenantID),
		zap.String("staffId", booking.StaffID),
		zap.String("date", booking.Date),
		zap.Int("start", booking.Start),
		zap.Int("end", booking.End),
	)

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleBookingReminder(booking, chatUserID); err != nil {
			// Reminders are best effort; the reservation stands either way.
			logger.Warn("failed to schedule booking reminder",
				zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}

	return booking, nil
}

// reserveWithRetry runs the transactional conflict-check+insert, retrying
// transient transaction failures up to maxConfirmAttempts before giving up
// with ErrSystemBusy.
func (s *DefaultBookingService) reserveWithRetry(ctx context.Context, booking *models.Booking) error {
	logger := utils.GetLogger()

	var err error
	for attempt := 1; attempt <= maxConfirmAttempts; attempt++ {
		err = s.Repo.CreateIfNoOverlap(ctx, booking)
		if err == nil {
			return nil
		}
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return &SlotConflictError{
				StaffID: booking.StaffID,
				Date:    booking.Date,
				Start:   booking.Start,
				End:     booking.End,
			}
		}
		if !bookingRepo.IsTransientError(err) {
			return fmt.Errorf("failed to reserve slot: %w", err)
		}
		logger.Warn("reservation transaction conflicted, retrying",
			zap.String("bookingId", booking.ID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return ErrSystemBusy
}

// GetBooking fetches one booking.
func (s *DefaultBookingService) GetBooking(tenantID, id string) (*models.Booking, error) {
	return s.Repo.GetByID(tenantID, id)
}

// ListByDate returns a tenant's bookings for one date.
func (s *DefaultBookingService) ListByDate(tenantID, date string) ([]models.Booking, error) {
	return s.Repo.ListByTenantDate(tenantID, date)
}

// UpdateStatus applies a lifecycle move after validating it.
func (s *DefaultBookingService) UpdateStatus(tenantID, id, status string) error {
	booking, err := s.Repo.GetByID(tenantID, id)
	if err != nil {
		return err
	}
	if !booking.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusChange, booking.Status, status)
	}
	return s.Repo.UpdateStatus(tenantID, id, status)
}
