package conversation

import (
	"context"
	"errors"
	"testing"

	"reserva/models"
	"reserva/services/booking"
)

// fakeSessionStore keeps contexts in memory and counts calls.
type fakeSessionStore struct {
	records map[string]*models.ConversationContext
	gets    int
	sets    int
	deletes int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{records: make(map[string]*models.ConversationContext)}
}

func (s *fakeSessionStore) Get(_ context.Context, tenantID, userID string) (*models.ConversationContext, error) {
	s.gets++
	if conv, ok := s.records[SessionKey(tenantID, userID)]; ok {
		copied := *conv
		return &copied, nil
	}
	return models.NewConversationContext(tenantID, userID), nil
}

func (s *fakeSessionStore) Set(_ context.Context, conv *models.ConversationContext) error {
	s.sets++
	copied := *conv
	s.records[SessionKey(conv.TenantID, conv.UserID)] = &copied
	return nil
}

func (s *fakeSessionStore) Delete(_ context.Context, tenantID, userID string) error {
	s.deletes++
	delete(s.records, SessionKey(tenantID, userID))
	return nil
}

// fakeResponder records every outbound prompt.
type fakeResponder struct {
	replies []Prompt
	pushes  []Prompt
}

func (r *fakeResponder) Reply(_ context.Context, _ string, prompt Prompt) error {
	r.replies = append(r.replies, prompt)
	return nil
}

func (r *fakeResponder) Push(_ context.Context, _, _ string, prompt Prompt) error {
	r.pushes = append(r.pushes, prompt)
	return nil
}

func (r *fakeResponder) total() int { return len(r.replies) + len(r.pushes) }

// fakeBookingSvc returns a canned result from ConfirmFromContext.
type fakeBookingSvc struct {
	booking *models.Booking
	err     error
	calls   int
}

func (b *fakeBookingSvc) ConfirmFromContext(_ context.Context, _ *models.ConversationContext, _ string) (*models.Booking, error) {
	b.calls++
	return b.booking, b.err
}
func (b *fakeBookingSvc) GetBooking(_, _ string) (*models.Booking, error)  { return nil, nil }
func (b *fakeBookingSvc) ListByDate(_, _ string) ([]models.Booking, error) { return nil, nil }
func (b *fakeBookingSvc) UpdateStatus(_, _, _ string) error                { return nil }

type fakeServiceRepo struct {
	services []models.Service
}

func (r *fakeServiceRepo) Create(*models.Service) error       { return nil }
func (r *fakeServiceRepo) Update(*models.Service) error       { return nil }
func (r *fakeServiceRepo) Delete(_, _ string) error           { return nil }
func (r *fakeServiceRepo) GetByID(_, id string) (*models.Service, error) {
	for i := range r.services {
		if r.services[i].ID == id {
			return &r.services[i], nil
		}
	}
	return nil, errors.New("service not found")
}
func (r *fakeServiceRepo) ListByTenant(string) ([]models.Service, error) { return r.services, nil }

type fakeStaffRepo struct {
	staff []models.Staff
}

func (r *fakeStaffRepo) Create(*models.Staff) error { return nil }
func (r *fakeStaffRepo) Update(*models.Staff) error { return nil }
func (r *fakeStaffRepo) Delete(_, _ string) error   { return nil }
func (r *fakeStaffRepo) GetByID(_, id string) (*models.Staff, error) {
	for i := range r.staff {
		if r.staff[i].ID == id {
			return &r.staff[i], nil
		}
	}
	return nil, errors.New("staff not found")
}
func (r *fakeStaffRepo) ListByTenant(string) ([]models.Staff, error) { return r.staff, nil }

type fakeCustomerRepo struct {
	created int
}

func (r *fakeCustomerRepo) Create(*models.Customer) error { return nil }
func (r *fakeCustomerRepo) Update(*models.Customer) error { return nil }
func (r *fakeCustomerRepo) Delete(_, _ string) error      { return nil }
func (r *fakeCustomerRepo) GetByID(_, _ string) (*models.Customer, error) {
	return nil, errors.New("not found")
}
func (r *fakeCustomerRepo) ListByTenant(string) ([]models.Customer, error) { return nil, nil }
func (r *fakeCustomerRepo) GetOrCreateByChatUser(tenantID, chatUserID string) (*models.Customer, error) {
	r.created++
	return &models.Customer{ID: "cust-1", TenantID: tenantID, ChatUserID: chatUserID}, nil
}

type conversationFixture struct {
	svc       *DefaultConversationService
	store     *fakeSessionStore
	responder *fakeResponder
	bookings  *fakeBookingSvc
	customers *fakeCustomerRepo
}

func newConversationFixture() *conversationFixture {
	store := newFakeSessionStore()
	responder := &fakeResponder{}
	bookings := &fakeBookingSvc{}
	customers := &fakeCustomerRepo{}

	svc := &DefaultConversationService{
		Store:      store,
		BookingSvc: bookings,
		ServiceRepo: &fakeServiceRepo{services: []models.Service{
			{ID: "svc-cut", TenantID: "t1", Name: "Haircut", DurationMin: 30, Price: 2500, Active: true},
			{ID: "svc-old", TenantID: "t1", Name: "Retired", DurationMin: 30, Price: 1000, Active: false},
		}},
		StaffRepo: &fakeStaffRepo{staff: []models.Staff{
			{ID: "stf-1", TenantID: "t1", Name: "Aoi", Active: true},
		}},
		CustomerRepo: customers,
		Responder:    responder,
	}
	return &conversationFixture{svc: svc, store: store, responder: responder, bookings: bookings, customers: customers}
}

func textEvent(userID, replyToken, text string) models.WebhookEvent {
	return models.WebhookEvent{
		Type:       models.EventTypeMessage,
		ReplyToken: replyToken,
		Source:     models.EventSource{UserID: userID},
		Message:    &models.MessageEvent{Type: "text", Text: text},
	}
}

func postbackEvent(userID, replyToken, data string) models.WebhookEvent {
	return models.WebhookEvent{
		Type:       models.EventTypePostback,
		ReplyToken: replyToken,
		Source:     models.EventSource{UserID: userID},
		Postback:   &models.PostbackEvent{Data: data},
	}
}

func confirmingContext() *models.ConversationContext {
	return &models.ConversationContext{
		TenantID:        "t1",
		UserID:          "u1",
		State:           models.StateConfirming,
		ServiceID:       "svc-cut",
		ServiceName:     "Haircut",
		ServiceDuration: 30,
		ServicePrice:    2500,
		StaffID:         "stf-1",
		StaffName:       "Aoi",
		Date:            "2026-09-01",
		Time:            "10:00",
		CustomerID:      "cust-1",
	}
}

func TestHandleEventBookKeywordStartsWizard(t *testing.T) {
	f := newConversationFixture()

	if err := f.svc.HandleEvent(context.Background(), "t1", textEvent("u1", "rt-1", "book")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.customers.created != 1 {
		t.Errorf("customer resolutions = %d, want 1", f.customers.created)
	}
	if f.store.sets != 1 {
		t.Fatalf("store writes = %d, want 1", f.store.sets)
	}
	stored := f.store.records[SessionKey("t1", "u1")]
	if stored == nil || stored.State != models.StateSelectingService {
		t.Fatalf("stored context = %+v, want SELECTING_SERVICE", stored)
	}
	if stored.CustomerID != "cust-1" {
		t.Errorf("customer id = %q, want cust-1", stored.CustomerID)
	}

	if len(f.responder.replies) != 1 || f.responder.total() != 1 {
		t.Fatalf("responses = %d replies / %d pushes, want exactly 1 reply", len(f.responder.replies), len(f.responder.pushes))
	}
	prompt := f.responder.replies[0]
	if prompt.Kind != PromptServiceMenu {
		t.Fatalf("prompt kind = %s, want service_menu", prompt.Kind)
	}
	if len(prompt.Items) != 1 || prompt.Items[0].ID != "svc-cut" {
		t.Errorf("menu items = %+v, want only the active service", prompt.Items)
	}
}

func TestHandleEventSecondBookKeywordReusesCustomer(t *testing.T) {
	f := newConversationFixture()

	ctx := context.Background()
	if err := f.svc.HandleEvent(ctx, "t1", textEvent("u1", "rt-1", "book")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.svc.HandleEvent(ctx, "t1", textEvent("u1", "rt-2", "book")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.customers.created != 1 {
		t.Errorf("customer resolutions = %d, want 1 (cached on the context)", f.customers.created)
	}
}

func TestHandleEventConflictKeepsConfirmingState(t *testing.T) {
	f := newConversationFixture()
	conv := confirmingContext()
	f.store.records[SessionKey("t1", "u1")] = conv
	f.bookings.err = &booking.SlotConflictError{StaffID: "stf-1", Date: "2026-09-01", Start: 600, End: 630}

	if err := f.svc.HandleEvent(context.Background(), "t1", postbackEvent("u1", "rt-1", "action=confirm_booking")); err != nil {
		t.Fatalf("a slot conflict is not a handler error, got: %v", err)
	}

	stored := f.store.records[SessionKey("t1", "u1")]
	if stored == nil || stored.State != models.StateConfirming {
		t.Fatalf("stored context = %+v, want it kept at CONFIRMING_BOOKING", stored)
	}
	if f.store.deletes != 0 {
		t.Errorf("deletes = %d, want 0", f.store.deletes)
	}
	if len(f.responder.replies) != 1 || f.responder.replies[0].Kind != PromptSlotConflict {
		t.Fatalf("responses = %+v, want one slot_conflict reply", f.responder.replies)
	}
}

func TestHandleEventBookingFailureResetsSession(t *testing.T) {
	f := newConversationFixture()
	f.store.records[SessionKey("t1", "u1")] = confirmingContext()
	f.bookings.err = errors.New("mongo unavailable")

	err := f.svc.HandleEvent(context.Background(), "t1", postbackEvent("u1", "rt-1", "action=confirm_booking"))
	if err == nil {
		t.Fatal("expected the underlying failure to surface")
	}

	if f.store.deletes != 1 {
		t.Errorf("deletes = %d, want 1", f.store.deletes)
	}
	if _, ok := f.store.records[SessionKey("t1", "u1")]; ok {
		t.Error("session should be gone after a booking failure")
	}
	if len(f.responder.replies) != 1 || f.responder.replies[0].Kind != PromptBookingFailed {
		t.Fatalf("responses = %+v, want one booking_failed reply", f.responder.replies)
	}
}

func TestHandleEventBookingSuccessEndsSession(t *testing.T) {
	f := newConversationFixture()
	f.store.records[SessionKey("t1", "u1")] = confirmingContext()
	f.bookings.booking = &models.Booking{
		ID: "bk-1", TenantID: "t1", Date: "2026-09-01", Start: 600, End: 630,
		Status: models.BookingStatusPending,
	}

	if err := f.svc.HandleEvent(context.Background(), "t1", postbackEvent("u1", "rt-1", "action=confirm_booking")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.bookings.calls != 1 {
		t.Errorf("confirm calls = %d, want 1", f.bookings.calls)
	}
	if _, ok := f.store.records[SessionKey("t1", "u1")]; ok {
		t.Error("session should be deleted after a successful booking")
	}
	if len(f.responder.replies) != 1 || f.responder.replies[0].Kind != PromptBookingCreated {
		t.Fatalf("responses = %+v, want one booking_created reply", f.responder.replies)
	}
	if f.responder.replies[0].Booking == nil || f.responder.replies[0].Booking.ID != "bk-1" {
		t.Errorf("created booking missing from prompt: %+v", f.responder.replies[0])
	}
}

func TestHandleEventUnknownPostbackIsSilent(t *testing.T) {
	f := newConversationFixture()

	if err := f.svc.HandleEvent(context.Background(), "t1", postbackEvent("u1", "rt-1", "action=rate_visit&stars=5")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.responder.total() != 0 {
		t.Errorf("responses = %d, want none for an unknown action", f.responder.total())
	}
	if f.store.sets != 0 || f.store.deletes != 0 {
		t.Errorf("store writes = %d sets / %d deletes, want none", f.store.sets, f.store.deletes)
	}
}

func TestHandleEventFreeTextOutsideNoteHints(t *testing.T) {
	f := newConversationFixture()

	if err := f.svc.HandleEvent(context.Background(), "t1", textEvent("u1", "rt-1", "hello there")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.responder.replies) != 1 || f.responder.replies[0].Kind != PromptHint {
		t.Fatalf("responses = %+v, want one hint reply", f.responder.replies)
	}
	if f.store.sets != 0 {
		t.Errorf("store writes = %d, want 0 for a hint", f.store.sets)
	}
}

func TestHandleEventWithoutReplyTokenPushes(t *testing.T) {
	f := newConversationFixture()

	if err := f.svc.HandleEvent(context.Background(), "t1", textEvent("u1", "", "help")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.responder.pushes) != 1 || len(f.responder.replies) != 0 {
		t.Fatalf("responses = %d replies / %d pushes, want exactly 1 push", len(f.responder.replies), len(f.responder.pushes))
	}
	if f.responder.pushes[0].Kind != PromptHelp {
		t.Errorf("prompt kind = %s, want help", f.responder.pushes[0].Kind)
	}
}

func TestHandleEventWithoutUserIsDropped(t *testing.T) {
	f := newConversationFixture()

	if err := f.svc.HandleEvent(context.Background(), "t1", textEvent("", "rt-1", "book")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.store.gets != 0 || f.responder.total() != 0 {
		t.Error("an event without a source user should be a pure no-op")
	}
}

func TestStaffMenuOffersNoPreference(t *testing.T) {
	f := newConversationFixture()
	conv := confirmingContext()
	conv.State = models.StateSelectingStaff
	conv.StaffID = ""
	conv.StaffName = ""
	conv.Time = ""
	f.store.records[SessionKey("t1", "u1")] = conv

	if err := f.svc.HandleEvent(context.Background(), "t1", postbackEvent("u1", "rt-1", "action=select_staff&staffId=unspecified")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := f.store.records[SessionKey("t1", "u1")]
	if stored == nil || stored.State != models.StateSelectingTime {
		t.Fatalf("stored context = %+v, want SELECTING_TIME", stored)
	}
	if stored.StaffID != models.StaffUnspecified {
		t.Errorf("staff id = %q, want %q", stored.StaffID, models.StaffUnspecified)
	}
}
