package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"reserva/config"
	"reserva/models"

	"github.com/hibiken/asynq"
)

const TypeBookingReminder = "booking:reminder"

// BookingReminderPayload is the task body for a scheduled booking reminder.
type BookingReminderPayload struct {
	BookingID  string `json:"bookingId"`
	TenantID   string `json:"tenantId"`
	ChatUserID string `json:"chatUserId"`
	Date       string `json:"date"`
	Start      int    `json:"start"`
}

// NewBookingReminderTask builds the asynq task scheduled at fireAt.
func NewBookingReminderTask(payload BookingReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// Scheduler enqueues booking reminders on the shared Redis-backed queue.
// It implements booking.ReminderScheduler.
type Scheduler struct {
	client *asynq.Client
	lead   time.Duration
}

// NewScheduler builds a Scheduler from the loaded configuration.
func NewScheduler() *Scheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})
	return &Scheduler{
		client: client,
		lead:   time.Duration(config.AppConfig.ReminderLeadMinutes) * time.Minute,
	}
}

// ScheduleBookingReminder enqueues a reminder to fire before the booking
// starts. Bookings too close to their start time get no reminder.
func (s *Scheduler) ScheduleBookingReminder(booking *models.Booking, chatUserID string) error {
	day, err := time.ParseInLocation("2006-01-02", booking.Date, time.Local)
	if err != nil {
		return fmt.Errorf("invalid booking date %q: %w", booking.Date, err)
	}
	startAt := day.Add(time.Duration(booking.Start) * time.Minute)
	fireAt := startAt.Add(-s.lead)
	if fireAt.Before(time.Now()) {
		return nil
	}

	payload := BookingReminderPayload{
		BookingID:  booking.ID,
		TenantID:   booking.TenantID,
		ChatUserID: chatUserID,
		Date:       booking.Date,
		Start:      booking.Start,
	}
	task, opts, err := NewBookingReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder task: %w", err)
	}
	return nil
}
