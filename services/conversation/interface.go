package conversation

import (
	"context"
	"sync"

	customerRepo "reserva/database/repository/customer"
	serviceRepo "reserva/database/repository/service"
	staffRepo "reserva/database/repository/staff"
	"reserva/models"
	"reserva/services/booking"
)

// ConversationService drives the chat booking wizard: one inbound event in,
// at most one context write and one outbound response out.
type ConversationService interface {
	HandleEvent(ctx context.Context, tenantID string, event models.WebhookEvent) error
}

// DefaultConversationService implements ConversationService.
type DefaultConversationService struct {
	Store        SessionStore
	BookingSvc   booking.BookingService
	ServiceRepo  serviceRepo.ServiceRepository
	StaffRepo    staffRepo.StaffRepository
	CustomerRepo customerRepo.CustomerRepository
	Responder    Responder

	locks sessionLocks
}

// sessionLocks serializes event processing per (tenantId, userId) so two
// near-simultaneous events cannot interleave their read-then-write of the
// same session record.
type sessionLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (l *sessionLocks) get(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	lock, exists := l.m[key]
	if !exists {
		lock = &sync.Mutex{}
		l.m[key] = lock
	}
	return lock
}
