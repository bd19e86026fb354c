package models

// Inbound webhook event types.
const (
	EventTypeMessage  = "message"
	EventTypePostback = "postback"
)

// WebhookPayload is the envelope delivered by the chat platform: an ordered
// list of events for one channel.
type WebhookPayload struct {
	Destination string         `json:"destination,omitempty"`
	Events      []WebhookEvent `json:"events"`
}

// WebhookEvent is a single inbound chat event. Exactly one of Message or
// Postback is set, discriminated by Type.
type WebhookEvent struct {
	Type       string         `json:"type"`
	ReplyToken string         `json:"replyToken,omitempty"` // short-lived, single use
	Source     EventSource    `json:"source"`
	Timestamp  int64          `json:"timestamp,omitempty"`
	Message    *MessageEvent  `json:"message,omitempty"`
	Postback   *PostbackEvent `json:"postback,omitempty"`
}

// EventSource identifies the chat user the event originated from.
type EventSource struct {
	UserID string `json:"userId"`
}

// MessageEvent carries a free-text message body.
type MessageEvent struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"` // only "text" is meaningful here
	Text string `json:"text"`
}

// PostbackEvent carries a structured callback payload: ASCII key=value pairs
// joined by "&", with the reserved key "action" selecting the handler.
type PostbackEvent struct {
	Data string `json:"data"`
}
