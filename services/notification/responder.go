package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"reserva/config"
	"reserva/services/conversation"
	"reserva/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// quotaKeyTTL comfortably outlives the calendar month the counter is for.
const quotaKeyTTL = 45 * 24 * time.Hour

// ChatResponder implements conversation.Responder against the chat
// platform's messaging API. Replies ride the event's single-use token and
// are free; pushes are metered against the tenant's monthly quota.
type ChatResponder struct {
	Client       *http.Client
	APIBase      string
	ChannelToken string
	Quota        *redis.Client
	MonthlyLimit int64
}

// NewChatResponder builds a responder from the loaded configuration.
func NewChatResponder(quota *redis.Client) *ChatResponder {
	return &ChatResponder{
		Client:       &http.Client{Timeout: 10 * time.Second},
		APIBase:      config.AppConfig.ChatAPIBase,
		ChannelToken: config.AppConfig.ChatChannelToken,
		Quota:        quota,
		MonthlyLimit: config.AppConfig.PushMonthlyQuota,
	}
}

// Reply answers an inbound event using its reply token. The token's validity
// window is enforced by the platform; an expired token surfaces as an API
// error, which callers log and swallow.
func (r *ChatResponder) Reply(ctx context.Context, replyToken string, prompt conversation.Prompt) error {
	body := map[string]any{
		"replyToken": replyToken,
		"messages":   renderMessages(prompt),
	}
	return r.post(ctx, "/message/reply", body)
}

// Push sends an unprompted message, charging the tenant's monthly quota
// first. The quota check happens before any network call.
func (r *ChatResponder) Push(ctx context.Context, tenantID, chatUserID string, prompt conversation.Prompt) error {
	used, err := r.chargeQuota(ctx, tenantID)
	if err != nil {
		return err
	}
	if used > r.MonthlyLimit {
		return &QuotaExceededError{TenantID: tenantID, Used: used, Limit: r.MonthlyLimit}
	}

	body := map[string]any{
		"to":       chatUserID,
		"messages": renderMessages(prompt),
	}
	return r.post(ctx, "/message/push", body)
}

// chargeQuota increments the tenant's monthly counter and returns the new
// total.
func (r *ChatResponder) chargeQuota(ctx context.Context, tenantID string) (int64, error) {
	key := fmt.Sprintf("quota:%s:%s", tenantID, time.Now().Format("2006-01"))
	used, err := r.Quota.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to charge push quota for tenant %s: %w", tenantID, err)
	}
	if used == 1 {
		if err := r.Quota.Expire(ctx, key, quotaKeyTTL).Err(); err != nil {
			utils.GetLogger().Warn("failed to set quota key TTL",
				zap.String("key", key), zap.Error(err))
		}
	}
	return used, nil
}

func (r *ChatResponder) post(ctx context.Context, path string, body map[string]any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal outbound message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.APIBase+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build outbound request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.ChannelToken)

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("outbound request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("chat API returned %d for %s", resp.StatusCode, path)
	}
	return nil
}

// renderMessages flattens a prompt into the platform's text message shape.
// Menu items become numbered lines; richer rendering lives behind the
// platform's own templates and is not this service's concern.
func renderMessages(prompt conversation.Prompt) []map[string]any {
	text := prompt.Text
	if len(prompt.Items) > 0 {
		var b strings.Builder
		b.WriteString(text)
		for i, item := range prompt.Items {
			b.WriteString(fmt.Sprintf("\n%d) %s", i+1, item.Label))
		}
		text = b.String()
	}
	return []map[string]any{{"type": "text", "text": text}}
}
