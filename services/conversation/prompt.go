package conversation

import (
	"context"

	"reserva/models"
)

// PromptKind classifies an outbound prompt so the responder can render the
// matching menu or message template.
type PromptKind string

const (
	PromptServiceMenu    PromptKind = "service_menu"
	PromptDateMenu       PromptKind = "date_menu"
	PromptStaffMenu      PromptKind = "staff_menu"
	PromptTimeMenu       PromptKind = "time_menu"
	PromptNoteRequest    PromptKind = "note_request"
	PromptConfirmSummary PromptKind = "confirm_summary"
	PromptBookingCreated PromptKind = "booking_created"
	PromptBookingFailed  PromptKind = "booking_failed"
	PromptSlotConflict   PromptKind = "slot_conflict"
	PromptCancelled      PromptKind = "cancelled"
	PromptHelp           PromptKind = "help"
	PromptHint           PromptKind = "hint"
	PromptReminder       PromptKind = "reminder"
)

// MenuItem is one selectable option in a menu prompt.
type MenuItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Prompt is the semantic outbound response handed to the responder. Visual
// rendering (carousels, quick replies) happens on the other side of that
// interface.
type Prompt struct {
	Kind    PromptKind                  `json:"kind"`
	Text    string                      `json:"text"`
	Items   []MenuItem                  `json:"items,omitempty"`
	Context *models.ConversationContext `json:"context,omitempty"`
	Booking *models.Booking             `json:"booking,omitempty"`
}

// Responder delivers prompts back to the chat user. Replies ride the inbound
// event's single-use token; pushes are unprompted and count against the
// tenant's monthly quota.
type Responder interface {
	Reply(ctx context.Context, replyToken string, prompt Prompt) error
	Push(ctx context.Context, tenantID, chatUserID string, prompt Prompt) error
}
