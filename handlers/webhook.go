package handlers

import (
	"context"
	"net/http"
	"time"

	"reserva/models"
	"reserva/services/conversation"
	"reserva/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// eventTimeout bounds processing of a single inbound event. The platform's
// reply-token window is short; anything slower fails the reply anyway.
const eventTimeout = 30 * time.Second

// WebhookHandler receives chat platform deliveries.
type WebhookHandler struct {
	Conversation conversation.ConversationService
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(svc conversation.ConversationService) *WebhookHandler {
	return &WebhookHandler{Conversation: svc}
}

// HandleWebhook handles POST /api/webhook/:tenantID. The platform expects a
// fast 200; each event is processed in its own goroutine and ordering across
// events is best effort only.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")

	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Warn("malformed webhook payload", zap.String("tenantId", tenantID), zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid webhook payload", err.Error())
		return
	}

	for _, event := range payload.Events {
		event := event
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
			defer cancel()

			if err := h.Conversation.HandleEvent(ctx, tenantID, event); err != nil {
				logger.Error("failed to process webhook event",
					zap.String("tenantId", tenantID),
					zap.String("type", event.Type),
					zap.Error(err),
				)
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"received": len(payload.Events)})
}
