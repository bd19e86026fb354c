package conversation

import (
	"fmt"
	"net/url"
	"strings"

	"reserva/models"
)

// Action is the callback vocabulary carried in postback payloads. Keeping it
// a typed closed set means a new action is a compile-time addition, not a
// silently ignored typo.
type Action string

const (
	ActionStartBooking  Action = "start_booking"
	ActionSelectService Action = "select_service"
	ActionSelectDate    Action = "select_date"
	ActionSelectStaff   Action = "select_staff"
	ActionSelectTime    Action = "select_time"
	ActionConfirm       Action = "confirm_booking"
	ActionCancel        Action = "cancel"
	ActionGoBack        Action = "go_back"
)

// actionCommands maps every known callback action to its wizard command.
var actionCommands = map[Action]Command{
	ActionStartBooking:  CmdStartBooking,
	ActionSelectService: CmdSelectService,
	ActionSelectDate:    CmdSelectDate,
	ActionSelectStaff:   CmdSelectStaff,
	ActionSelectTime:    CmdSelectTime,
	ActionConfirm:       CmdConfirm,
	ActionCancel:        CmdCancel,
	ActionGoBack:        CmdGoBack,
}

// Global keyword classes, matched against lower-cased free text in priority
// order. They override state-contextual handling so a user can always escape
// a stuck flow.
var (
	bookingKeywords = []string{"book", "booking", "reserve", "appointment"}
	cancelKeywords  = []string{"cancel", "stop", "quit"}
	helpKeywords    = []string{"help", "menu"}
)

func matchesKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if text == kw {
			return true
		}
	}
	return false
}

// dispatchKind classifies a normalized event.
type dispatchKind int

const (
	dispatchCommand dispatchKind = iota // apply cmd/params to the machine
	dispatchHelp                        // static help text, no state mutation
	dispatchHint                        // unrecognized utterance, hint only
	dispatchIgnore                      // forward-compatible no-op, no response
)

// dispatch is the normalized form of one inbound event.
type dispatch struct {
	kind   dispatchKind
	cmd    Command
	params Params
}

// decodePostback parses the flat key=value&key=value callback payload.
func decodePostback(data string) (Action, url.Values, error) {
	values, err := url.ParseQuery(data)
	if err != nil {
		return "", nil, fmt.Errorf("malformed postback payload %q: %w", data, err)
	}
	action := Action(values.Get("action"))
	if action == "" {
		return "", nil, fmt.Errorf("postback payload %q has no action", data)
	}
	return action, values, nil
}

// normalizeText maps free text to a dispatch, given the current state.
// Priority: booking intent, cancel, help, then state-contextual input.
func normalizeText(text string, state models.ConversationState) dispatch {
	lowered := strings.ToLower(strings.TrimSpace(text))

	switch {
	case matchesKeyword(lowered, bookingKeywords):
		return dispatch{kind: dispatchCommand, cmd: CmdStartBooking}
	case matchesKeyword(lowered, cancelKeywords):
		return dispatch{kind: dispatchCommand, cmd: CmdCancel}
	case matchesKeyword(lowered, helpKeywords):
		return dispatch{kind: dispatchHelp}
	}

	// Free text is meaningful input only while the wizard is asking for a
	// note; anywhere else it is an unrecognized utterance.
	if state == models.StateInputtingNote {
		return dispatch{kind: dispatchCommand, cmd: CmdSubmitNote, params: Params{Note: strings.TrimSpace(text)}}
	}
	return dispatch{kind: dispatchHint}
}

// normalizePostback maps a structured callback to a dispatch. Unknown actions
// are forward-compatible no-ops, never errors.
func normalizePostback(data string) (dispatch, error) {
	action, values, err := decodePostback(data)
	if err != nil {
		return dispatch{kind: dispatchIgnore}, err
	}

	cmd, ok := actionCommands[action]
	if !ok {
		return dispatch{kind: dispatchIgnore}, fmt.Errorf("unknown postback action %q", action)
	}

	return dispatch{
		kind: dispatchCommand,
		cmd:  cmd,
		params: Params{
			ServiceID: values.Get("serviceId"),
			StaffID:   values.Get("staffId"),
			StaffName: values.Get("staffName"),
			Date:      values.Get("date"), // ISO calendar date
			Time:      values.Get("time"), // ISO local time, minutes precision
		},
	}, nil
}
