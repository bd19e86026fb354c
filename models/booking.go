package models

import "time"

// Booking status lifecycle: PENDING -> CONFIRMED -> COMPLETED, or
// CANCELLED / NO_SHOW at any point before COMPLETED.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCompleted = "COMPLETED"
	BookingStatusCancelled = "CANCELLED"
	BookingStatusNoShow    = "NO_SHOW"
)

// Booking represents a reserved appointment slot.
type Booking struct {
	ID         string    `bson:"id" json:"id"`                             // Unique booking identifier (UUID)
	TenantID   string    `bson:"tenant_id" json:"tenantId"`                // Owning tenant
	CustomerID string    `bson:"customer_id" json:"customerId"`            // Customer who booked
	ServiceID  string    `bson:"service_id" json:"serviceId"`              // Service being booked
	StaffID    string    `bson:"staff_id" json:"staffId"`                  // Assigned staff, or "unspecified"
	Date       string    `bson:"date" json:"date"`                         // Booking date in "YYYY-MM-DD" format
	Start      int       `bson:"start" json:"start"`                       // Start time (minutes from midnight)
	End        int       `bson:"end" json:"end"`                           // End time = start + service duration
	Note       string    `bson:"note,omitempty" json:"note,omitempty"`     // Free-text note from the customer
	Status     string    `bson:"status" json:"status"`                     // Lifecycle status
	TotalPrice int64     `bson:"total_price" json:"totalPrice"`            // Service price at booking time
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`              // Timestamp when booking was created
	UpdatedAt  time.Time `bson:"updated_at,omitempty" json:"updatedAt"`    // Last status change
	SessionKey string    `bson:"session_key,omitempty" json:"sessionKey,omitempty"` // Conversation that produced it
}

// Active reports whether the booking still occupies its slot.
func (b *Booking) Active() bool {
	return b.Status != BookingStatusCancelled && b.Status != BookingStatusNoShow
}

// validStatusTransitions enumerates the allowed lifecycle moves.
var validStatusTransitions = map[string][]string{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled, BookingStatusNoShow},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow},
}

// CanTransitionTo reports whether the booking may move to the given status.
func (b *Booking) CanTransitionTo(status string) bool {
	for _, next := range validStatusTransitions[b.Status] {
		if next == status {
			return true
		}
	}
	return false
}
