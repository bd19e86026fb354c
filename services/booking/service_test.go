package booking

import (
	"context"
	"errors"
	"testing"

	bookingRepo "reserva/database/repository/booking"
	"reserva/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// fakeBookingRepo is an in-memory BookingRepository applying the same
// half-open overlap predicate as the Mongo transaction. transientFailures
// makes the next N CreateIfNoOverlap calls fail with a retryable error.
type fakeBookingRepo struct {
	bookings          []models.Booking
	creates           int
	guardedCreates    int
	transientFailures int
}

func transientErr() error {
	return mongo.CommandError{
		Code:    112,
		Name:    "WriteConflict",
		Message: "write conflict",
		Labels:  []string{"TransientTransactionError"},
	}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.creates++
	r.bookings = append(r.bookings, *booking)
	return nil
}

func (r *fakeBookingRepo) CreateIfNoOverlap(_ context.Context, booking *models.Booking) error {
	r.guardedCreates++
	if r.transientFailures > 0 {
		r.transientFailures--
		return transientErr()
	}
	for _, b := range r.bookings {
		if b.TenantID != booking.TenantID || b.StaffID != booking.StaffID || b.Date != booking.Date {
			continue
		}
		if !b.Active() {
			continue
		}
		if b.Start < booking.End && b.End > booking.Start {
			return bookingRepo.ErrSlotTaken
		}
	}
	r.bookings = append(r.bookings, *booking)
	return nil
}

func (r *fakeBookingRepo) GetByID(tenantID, id string) (*models.Booking, error) {
	for i := range r.bookings {
		if r.bookings[i].TenantID == tenantID && r.bookings[i].ID == id {
			return &r.bookings[i], nil
		}
	}
	return nil, errors.New("booking not found")
}

func (r *fakeBookingRepo) ListActiveByStaffDate(tenantID, staffID, date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.TenantID == tenantID && b.StaffID == staffID && b.Date == date && b.Active() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByTenantDate(tenantID, date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.TenantID == tenantID && b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatus(tenantID, id, status string) error {
	for i := range r.bookings {
		if r.bookings[i].TenantID == tenantID && r.bookings[i].ID == id {
			r.bookings[i].Status = status
			return nil
		}
	}
	return errors.New("booking not found")
}

// fakeReminderScheduler records scheduling calls.
type fakeReminderScheduler struct {
	calls    int
	lastUser string
	err      error
}

func (s *fakeReminderScheduler) ScheduleBookingReminder(_ *models.Booking, chatUserID string) error {
	s.calls++
	s.lastUser = chatUserID
	return s.err
}

func fullContext(timeOfDay string) *models.ConversationContext {
	return &models.ConversationContext{
		TenantID:        "t1",
		UserID:          "u1",
		State:           models.StateConfirming,
		ServiceID:       "svc-cut",
		ServiceName:     "Haircut",
		ServiceDuration: 30,
		ServicePrice:    2500,
		StaffID:         "stf-1",
		Date:            "2026-09-01",
		Time:            timeOfDay,
		CustomerID:      "cust-1",
	}
}

func TestConfirmOverlapBoundaries(t *testing.T) {
	// Existing booking occupies 10:00-10:30. The interval is half-open, so
	// candidates touching either boundary must go through.
	cases := []struct {
		name         string
		time         string
		wantConflict bool
	}{
		{"starts exactly at existing end", "10:30", false},
		{"starts inside the existing slot", "10:15", true},
		{"ends exactly at existing start", "09:30", false},
		{"ends inside the existing slot", "09:45", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeBookingRepo{bookings: []models.Booking{{
				ID: "bk-existing", TenantID: "t1", StaffID: "stf-1", Date: "2026-09-01",
				Start: 600, End: 630, Status: models.BookingStatusConfirmed,
			}}}
			svc := &DefaultBookingService{Repo: repo}

			created, err := svc.ConfirmFromContext(context.Background(), fullContext(tc.time), "u1")

			if tc.wantConflict {
				var conflict *SlotConflictError
				if !errors.As(err, &conflict) {
					t.Fatalf("err = %v, want *SlotConflictError", err)
				}
				if created != nil {
					t.Errorf("booking created despite conflict: %+v", created)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if created.Status != models.BookingStatusPending {
				t.Errorf("status = %s, want PENDING", created.Status)
			}
			if created.End != created.Start+30 {
				t.Errorf("end = %d, want start+duration = %d", created.End, created.Start+30)
			}
		})
	}
}

func TestConfirmCancelledBookingFreesSlot(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []models.Booking{{
		ID: "bk-cancelled", TenantID: "t1", StaffID: "stf-1", Date: "2026-09-01",
		Start: 600, End: 630, Status: models.BookingStatusCancelled,
	}}}
	svc := &DefaultBookingService{Repo: repo}

	if _, err := svc.ConfirmFromContext(context.Background(), fullContext("10:00"), "u1"); err != nil {
		t.Fatalf("a cancelled booking must not block its slot, got: %v", err)
	}
}

func TestConfirmUnspecifiedStaffSkipsOverlapCheck(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := &DefaultBookingService{Repo: repo}

	for i := 0; i < 2; i++ {
		conv := fullContext("10:00")
		conv.StaffID = models.StaffUnspecified
		if _, err := svc.ConfirmFromContext(context.Background(), conv, "u1"); err != nil {
			t.Fatalf("unexpected error on attempt %d: %v", i+1, err)
		}
	}

	// Identical slots both land: unassigned capacity is unbounded.
	if repo.creates != 2 {
		t.Errorf("plain creates = %d, want 2", repo.creates)
	}
	if repo.guardedCreates != 0 {
		t.Errorf("guarded creates = %d, want 0 for unspecified staff", repo.guardedCreates)
	}
}

func TestConfirmRetriesTransientFailures(t *testing.T) {
	repo := &fakeBookingRepo{transientFailures: 2}
	svc := &DefaultBookingService{Repo: repo}

	created, err := svc.ConfirmFromContext(context.Background(), fullContext("10:00"), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected a booking after retries")
	}
	if repo.guardedCreates != 3 {
		t.Errorf("guarded creates = %d, want 3 (two retries)", repo.guardedCreates)
	}
}

func TestConfirmGivesUpAfterRetryBudget(t *testing.T) {
	repo := &fakeBookingRepo{transientFailures: 10}
	svc := &DefaultBookingService{Repo: repo}

	_, err := svc.ConfirmFromContext(context.Background(), fullContext("10:00"), "u1")
	if !errors.Is(err, ErrSystemBusy) {
		t.Fatalf("err = %v, want ErrSystemBusy", err)
	}
	if repo.guardedCreates != maxConfirmAttempts {
		t.Errorf("guarded creates = %d, want %d", repo.guardedCreates, maxConfirmAttempts)
	}
}

func TestConfirmRejectsIncompleteSelection(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := &DefaultBookingService{Repo: repo}

	conv := fullContext("10:00")
	conv.StaffID = ""

	_, err := svc.ConfirmFromContext(context.Background(), conv, "u1")
	if !errors.Is(err, ErrIncompleteSelection) {
		t.Fatalf("err = %v, want ErrIncompleteSelection", err)
	}
	if repo.creates != 0 || repo.guardedCreates != 0 {
		t.Error("nothing should be written for an incomplete selection")
	}
}

func TestConfirmSchedulesReminder(t *testing.T) {
	repo := &fakeBookingRepo{}
	reminders := &fakeReminderScheduler{}
	svc := &DefaultBookingService{Repo: repo, Reminders: reminders}

	if _, err := svc.ConfirmFromContext(context.Background(), fullContext("10:00"), "chat-u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reminders.calls != 1 {
		t.Fatalf("reminder calls = %d, want 1", reminders.calls)
	}
	if reminders.lastUser != "chat-u1" {
		t.Errorf("reminder chat user = %q, want chat-u1", reminders.lastUser)
	}
}

func TestConfirmSurvivesReminderFailure(t *testing.T) {
	repo := &fakeBookingRepo{}
	reminders := &fakeReminderScheduler{err: errors.New("queue down")}
	svc := &DefaultBookingService{Repo: repo, Reminders: reminders}

	created, err := svc.ConfirmFromContext(context.Background(), fullContext("10:00"), "u1")
	if err != nil {
		t.Fatalf("reminder failure must not fail the booking, got: %v", err)
	}
	if created == nil {
		t.Fatal("expected a booking")
	}
}

func TestUpdateStatusValidatesLifecycle(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []models.Booking{{
		ID: "bk-1", TenantID: "t1", Status: models.BookingStatusPending,
	}}}
	svc := &DefaultBookingService{Repo: repo}

	if err := svc.UpdateStatus("t1", "bk-1", models.BookingStatusConfirmed); err != nil {
		t.Fatalf("PENDING -> CONFIRMED should be allowed, got: %v", err)
	}
	if err := svc.UpdateStatus("t1", "bk-1", models.BookingStatusCompleted); err != nil {
		t.Fatalf("CONFIRMED -> COMPLETED should be allowed, got: %v", err)
	}
	if err := svc.UpdateStatus("t1", "bk-1", models.BookingStatusCancelled); !errors.Is(err, ErrInvalidStatusChange) {
		t.Fatalf("COMPLETED -> CANCELLED err = %v, want ErrInvalidStatusChange", err)
	}
}

func TestIsTransientErrorDetection(t *testing.T) {
	if !bookingRepo.IsTransientError(transientErr()) {
		t.Error("labeled command error should be transient")
	}
	if bookingRepo.IsTransientError(errors.New("plain failure")) {
		t.Error("plain error should not be transient")
	}
}
