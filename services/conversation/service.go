package conversation

import (
	"context"
	"errors"
	"fmt"

	"reserva/models"
	"reserva/services/booking"
	"reserva/utils"

	"go.uber.org/zap"
)

const (
	hintText      = "Sorry, I didn't catch that. Please use the menu, or type \"book\" to start a booking."
	helpText      = "Type \"book\" to start a booking, \"cancel\" to abort the current one, or use the menu buttons."
	cancelledText = "Your booking session was cancelled. Type \"book\" whenever you want to start again."
)

// HandleEvent processes one inbound chat event end to end: load the session,
// normalize the event into a command, run the transition, persist the session
// and send the resulting prompt. Events for the same user are serialized.
func (s *DefaultConversationService) HandleEvent(ctx context.Context, tenantID string, event models.WebhookEvent) error {
	logger := utils.GetLogger()

	userID := event.Source.UserID
	if userID == "" {
		logger.Debug("event without source user, skipping", zap.String("tenantId", tenantID))
		return nil
	}

	lock := s.locks.get(SessionKey(tenantID, userID))
	lock.Lock()
	defer lock.Unlock()

	conv, err := s.Store.Get(ctx, tenantID, userID)
	if err != nil {
		return fmt.Errorf("failed to load conversation context: %w", err)
	}

	d, ok := s.normalize(tenantID, event, conv)
	if !ok {
		// Forward-compatible no-op: nothing to say, nothing to mutate.
		return nil
	}

	switch d.kind {
	case dispatchHelp:
		s.respond(ctx, tenantID, userID, event.ReplyToken, Prompt{Kind: PromptHelp, Text: helpText})
		return nil
	case dispatchHint:
		s.respond(ctx, tenantID, userID, event.ReplyToken, Prompt{Kind: PromptHint, Text: hintText})
		return nil
	}

	return s.applyCommand(ctx, tenantID, userID, event.ReplyToken, conv, d.cmd, d.params)
}

// normalize turns the raw event into a dispatch. The bool result is false
// when the event should be dropped silently.
func (s *DefaultConversationService) normalize(tenantID string, event models.WebhookEvent, conv *models.ConversationContext) (dispatch, bool) {
	logger := utils.GetLogger()

	switch event.Type {
	case models.EventTypeMessage:
		if event.Message == nil || event.Message.Type != "text" {
			logger.Debug("ignoring non-text message event", zap.String("tenantId", tenantID))
			return dispatch{}, false
		}
		return normalizeText(event.Message.Text, conv.State), true

	case models.EventTypePostback:
		if event.Postback == nil {
			logger.Debug("postback event without payload", zap.String("tenantId", tenantID))
			return dispatch{}, false
		}
		d, err := normalizePostback(event.Postback.Data)
		if err != nil {
			logger.Warn("ignoring unrecognized postback",
				zap.String("tenantId", tenantID),
				zap.String("data", event.Postback.Data),
				zap.Error(err),
			)
			return dispatch{}, false
		}
		return d, true
	}

	logger.Debug("ignoring event of unhandled type",
		zap.String("tenantId", tenantID), zap.String("type", event.Type))
	return dispatch{}, false
}

// applyCommand enriches the params, runs the state machine and handles the
// write-back and response for every outcome.
func (s *DefaultConversationService) applyCommand(ctx context.Context, tenantID, userID, replyToken string, conv *models.ConversationContext, cmd Command, params Params) error {
	logger := utils.GetLogger()

	params, ok := s.enrich(tenantID, cmd, params)
	if !ok {
		s.respond(ctx, tenantID, userID, replyToken, Prompt{Kind: PromptHint, Text: hintText})
		return nil
	}

	if cmd == CmdStartBooking && conv.CustomerID == "" {
		customer, err := s.CustomerRepo.GetOrCreateByChatUser(tenantID, userID)
		if err != nil {
			logger.Error("failed to resolve customer",
				zap.String("tenantId", tenantID), zap.String("userId", userID), zap.Error(err))
			s.respond(ctx, tenantID, userID, replyToken, Prompt{
				Kind: PromptBookingFailed,
				Text: "Something went wrong on our side. Please try again in a moment.",
			})
			return err
		}
		conv.CustomerID = customer.ID
	}

	outcome := Apply(conv, cmd, params)

	switch outcome {
	case OutcomeIgnored:
		s.respond(ctx, tenantID, userID, replyToken, Prompt{Kind: PromptHint, Text: hintText})
		return nil

	case OutcomeCancelled:
		if err := s.Store.Delete(ctx, tenantID, userID); err != nil {
			logger.Warn("failed to delete cancelled session", zap.Error(err))
		}
		s.respond(ctx, tenantID, userID, replyToken, Prompt{Kind: PromptCancelled, Text: cancelledText})
		return nil

	case OutcomeConfirm:
		return s.finalize(ctx, tenantID, userID, replyToken, conv)
	}

	if err := s.Store.Set(ctx, conv); err != nil {
		return fmt.Errorf("failed to persist conversation context: %w", err)
	}
	s.respond(ctx, tenantID, userID, replyToken, s.promptFor(conv))
	return nil
}

// enrich resolves entity lookups a command needs before it can be applied.
// Returns false when a referenced entity cannot be resolved.
func (s *DefaultConversationService) enrich(tenantID string, cmd Command, params Params) (Params, bool) {
	logger := utils.GetLogger()

	switch cmd {
	case CmdSelectService:
		svc, err := s.ServiceRepo.GetByID(tenantID, params.ServiceID)
		if err != nil {
			logger.Warn("selected service not found",
				zap.String("tenantId", tenantID), zap.String("serviceId", params.ServiceID), zap.Error(err))
			return params, false
		}
		params.ServiceName = svc.Name
		params.ServiceDuration = svc.DurationMin
		params.ServicePrice = svc.Price

	case CmdSelectStaff:
		if params.StaffID == models.StaffUnspecified {
			params.StaffName = ""
			break
		}
		staff, err := s.StaffRepo.GetByID(tenantID, params.StaffID)
		if err != nil {
			logger.Warn("selected staff not found",
				zap.String("tenantId", tenantID), zap.String("staffId", params.StaffID), zap.Error(err))
			return params, false
		}
		params.StaffName = staff.Name
	}

	return params, true
}

// finalize attempts the reservation at the terminal step. A slot conflict
// leaves the context at CONFIRMING_BOOKING so the user can step back and pick
// another time; any other failure resets it to IDLE so the user is never
// stranded in an unrecoverable step.
func (s *DefaultConversationService) finalize(ctx context.Context, tenantID, userID, replyToken string, conv *models.ConversationContext) error {
	logger := utils.GetLogger()

	created, err := s.BookingSvc.ConfirmFromContext(ctx, conv, userID)
	if err != nil {
		var conflict *booking.SlotConflictError
		if errors.As(err, &conflict) {
			if setErr := s.Store.Set(ctx, conv); setErr != nil {
				logger.Warn("failed to persist context after slot conflict", zap.Error(setErr))
			}
			s.respond(ctx, tenantID, userID, replyToken, Prompt{
				Kind:    PromptSlotConflict,
				Text:    "That time was just taken. Please go back and pick another time.",
				Context: conv,
			})
			return nil
		}

		Reset(conv)
		if delErr := s.Store.Delete(ctx, tenantID, userID); delErr != nil {
			logger.Warn("failed to clear context after booking failure", zap.Error(delErr))
		}
		logger.Error("booking creation failed",
			zap.String("tenantId", tenantID), zap.String("userId", userID), zap.Error(err))
		s.respond(ctx, tenantID, userID, replyToken, Prompt{
			Kind: PromptBookingFailed,
			Text: "We couldn't complete your booking. Please try again later.",
		})
		return err
	}

	if err := s.Store.Delete(ctx, tenantID, userID); err != nil {
		logger.Warn("failed to delete session after booking", zap.Error(err))
	}
	s.respond(ctx, tenantID, userID, replyToken, Prompt{
		Kind:    PromptBookingCreated,
		Text:    fmt.Sprintf("Your booking for %s on %s at %s is in. See you then!", conv.ServiceName, created.Date, booking.ClockFromMinutes(created.Start)),
		Booking: created,
	})
	return nil
}

// promptFor builds the next prompt for the state the context just entered.
func (s *DefaultConversationService) promptFor(conv *models.ConversationContext) Prompt {
	logger := utils.GetLogger()

	switch conv.State {
	case models.StateSelectingService:
		prompt := Prompt{Kind: PromptServiceMenu, Text: "Which service would you like to book?"}
		services, err := s.ServiceRepo.ListByTenant(conv.TenantID)
		if err != nil {
			logger.Warn("failed to list services for menu",
				zap.String("tenantId", conv.TenantID), zap.Error(err))
			return prompt
		}
		for _, svc := range services {
			if !svc.Active {
				continue
			}
			prompt.Items = append(prompt.Items, MenuItem{ID: svc.ID, Label: svc.Name})
		}
		return prompt

	case models.StateSelectingDate:
		return Prompt{Kind: PromptDateMenu, Text: "Which date works for you?", Context: conv}

	case models.StateSelectingStaff:
		prompt := Prompt{Kind: PromptStaffMenu, Text: "Who would you like to see?", Context: conv}
		staff, err := s.StaffRepo.ListByTenant(conv.TenantID)
		if err != nil {
			logger.Warn("failed to list staff for menu",
				zap.String("tenantId", conv.TenantID), zap.Error(err))
		} else {
			for _, st := range staff {
				if !st.Active {
					continue
				}
				prompt.Items = append(prompt.Items, MenuItem{ID: st.ID, Label: st.Name})
			}
		}
		prompt.Items = append(prompt.Items, MenuItem{ID: models.StaffUnspecified, Label: "No preference"})
		return prompt

	case models.StateSelectingTime:
		return Prompt{Kind: PromptTimeMenu, Text: "What time would you like?", Context: conv}

	case models.StateInputtingNote:
		return Prompt{Kind: PromptNoteRequest, Text: "Anything we should know? Send a note, or a single dash for none.", Context: conv}

	case models.StateConfirming:
		return Prompt{Kind: PromptConfirmSummary, Text: "Please review your booking and confirm.", Context: conv}
	}

	return Prompt{Kind: PromptHint, Text: hintText}
}

// respond sends exactly one outbound response for the event: a reply when a
// token is present, a quota-metered push otherwise. Delivery failures are
// logged and swallowed; they never roll back the transition they report on.
func (s *DefaultConversationService) respond(ctx context.Context, tenantID, userID, replyToken string, prompt Prompt) {
	logger := utils.GetLogger()

	var err error
	if replyToken != "" {
		err = s.Responder.Reply(ctx, replyToken, prompt)
	} else {
		err = s.Responder.Push(ctx, tenantID, userID, prompt)
	}
	if err != nil {
		logger.Warn("outbound delivery failed",
			zap.String("tenantId", tenantID),
			zap.String("userId", userID),
			zap.String("kind", string(prompt.Kind)),
			zap.Error(err),
		)
	}
}
