package models

// ConversationState is the wizard step a chat user is currently on.
type ConversationState string

const (
	StateIdle             ConversationState = "IDLE"
	StateSelectingService ConversationState = "SELECTING_SERVICE"
	StateSelectingDate    ConversationState = "SELECTING_DATE"
	StateSelectingStaff   ConversationState = "SELECTING_STAFF"
	StateSelectingTime    ConversationState = "SELECTING_TIME"
	StateInputtingNote    ConversationState = "INPUTTING_NOTE"
	StateConfirming       ConversationState = "CONFIRMING_BOOKING"
)

// StaffUnspecified marks a booking where the tenant assigns staff later.
const StaffUnspecified = "unspecified"

// ConversationContext is the per-user session record tracking wizard progress
// and the selections accumulated so far. It is stored whole as JSON in Redis,
// keyed by (tenantId, userId), and expires after a sliding inactivity window.
type ConversationContext struct {
	TenantID string `json:"tenantId"`
	UserID   string `json:"userId"`

	State   ConversationState   `json:"state"`
	History []ConversationState `json:"history,omitempty"`

	ServiceID       string `json:"serviceId,omitempty"`
	ServiceName     string `json:"serviceName,omitempty"`
	ServiceDuration int    `json:"serviceDuration,omitempty"` // minutes
	ServicePrice    int64  `json:"servicePrice,omitempty"`

	StaffID   string `json:"staffId,omitempty"` // StaffUnspecified is a valid value
	StaffName string `json:"staffName,omitempty"`

	Date string `json:"date,omitempty"` // "YYYY-MM-DD"
	Time string `json:"time,omitempty"` // "HH:MM"

	CustomerNote string `json:"customerNote,omitempty"`
	CustomerID   string `json:"customerId,omitempty"`
}

// NewConversationContext returns a fresh IDLE context for the given user.
// A cache miss and a never-seen user are indistinguishable; both yield this.
func NewConversationContext(tenantID, userID string) *ConversationContext {
	return &ConversationContext{
		TenantID: tenantID,
		UserID:   userID,
		State:    StateIdle,
	}
}

// HasFullSelection reports whether every field required to confirm a booking
// has been collected. Staff counts as selected when explicitly unspecified.
func (c *ConversationContext) HasFullSelection() bool {
	return c.ServiceID != "" && c.ServiceDuration > 0 &&
		c.Date != "" && c.Time != "" && c.StaffID != ""
}
