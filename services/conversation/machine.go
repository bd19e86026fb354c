package conversation

import (
	"reserva/models"
)

// Command is the closed set of wizard commands the dispatcher can produce.
// Every inbound event is normalized to one of these before touching state.
type Command string

const (
	CmdStartBooking  Command = "start_booking"
	CmdSelectService Command = "select_service"
	CmdSelectDate    Command = "select_date"
	CmdSelectStaff   Command = "select_staff"
	CmdSelectTime    Command = "select_time"
	CmdSubmitNote    Command = "submit_note"
	CmdConfirm       Command = "confirm_booking"
	CmdCancel        Command = "cancel"
	CmdGoBack        Command = "go_back"
)

// Params carries the per-command arguments extracted from a callback payload
// or from message text.
type Params struct {
	ServiceID       string
	ServiceName     string
	ServiceDuration int
	ServicePrice    int64
	StaffID         string
	StaffName       string
	Date            string
	Time            string
	Note            string
}

// Outcome tells the caller what a transition requires of it.
type Outcome int

const (
	// OutcomeAdvanced means the state moved; prompt for the new step.
	OutcomeAdvanced Outcome = iota
	// OutcomeIgnored means the command is not valid in the current state;
	// send a generic hint, nothing was mutated.
	OutcomeIgnored
	// OutcomeConfirm means the selection is complete; the caller must attempt
	// the slot reservation and then reset or keep the context accordingly.
	OutcomeConfirm
	// OutcomeCancelled means the context was reset to IDLE.
	OutcomeCancelled
)

// stepOrder lists the wizard steps in flow order. Date is fixed before staff
// so staff menus can be filtered by date availability.
var stepOrder = []models.ConversationState{
	models.StateSelectingService,
	models.StateSelectingDate,
	models.StateSelectingStaff,
	models.StateSelectingTime,
	models.StateInputtingNote,
	models.StateConfirming,
}

func stepIndex(s models.ConversationState) int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// clearOwned unsets the selection collected at the given step.
func clearOwned(c *models.ConversationContext, step models.ConversationState) {
	switch step {
	case models.StateSelectingService:
		c.ServiceID = ""
		c.ServiceName = ""
		c.ServiceDuration = 0
		c.ServicePrice = 0
	case models.StateSelectingDate:
		c.Date = ""
	case models.StateSelectingStaff:
		c.StaffID = ""
		c.StaffName = ""
	case models.StateSelectingTime:
		c.Time = ""
	case models.StateInputtingNote:
		c.CustomerNote = ""
	}
}

// clearFrom unsets every selection belonging to the given step and all later
// steps. Re-picking an earlier step must never leak stale later-step values
// into a finalized booking.
func clearFrom(c *models.ConversationContext, step models.ConversationState) {
	idx := stepIndex(step)
	if idx < 0 {
		// IDLE or unknown: wipe everything.
		idx = 0
	}
	for i := idx; i < len(stepOrder); i++ {
		clearOwned(c, stepOrder[i])
	}
}

// Reset returns the context to a fresh IDLE record, dropping history and all
// selections. CustomerID survives: it identifies the user, not a selection.
func Reset(c *models.ConversationContext) {
	clearFrom(c, models.StateSelectingService)
	c.State = models.StateIdle
	c.History = nil
}

func push(c *models.ConversationContext, s models.ConversationState) {
	c.History = append(c.History, s)
}

func pop(c *models.ConversationContext) (models.ConversationState, bool) {
	if len(c.History) == 0 {
		return "", false
	}
	last := c.History[len(c.History)-1]
	c.History = c.History[:len(c.History)-1]
	return last, true
}

// Apply runs one transition of the wizard. It mutates c in place and returns
// the outcome; it performs no I/O.
func Apply(c *models.ConversationContext, cmd Command, p Params) Outcome {
	switch cmd {
	case CmdStartBooking:
		// Valid from any state; restarts the wizard with a clean slate.
		clearFrom(c, models.StateSelectingService)
		c.History = []models.ConversationState{models.StateIdle}
		c.State = models.StateSelectingService
		return OutcomeAdvanced

	case CmdCancel:
		Reset(c)
		return OutcomeCancelled

	case CmdGoBack:
		if c.State == models.StateIdle {
			return OutcomeIgnored
		}
		prev, ok := pop(c)
		if !ok {
			Reset(c)
			return OutcomeCancelled
		}
		// Re-entering a step invalidates it and everything after it.
		clearFrom(c, prev)
		c.State = prev
		if prev == models.StateIdle {
			c.History = nil
			return OutcomeCancelled
		}
		return OutcomeAdvanced

	case CmdSelectService:
		if c.State != models.StateSelectingService {
			return OutcomeIgnored
		}
		clearFrom(c, models.StateSelectingDate)
		c.ServiceID = p.ServiceID
		c.ServiceName = p.ServiceName
		c.ServiceDuration = p.ServiceDuration
		c.ServicePrice = p.ServicePrice
		push(c, models.StateSelectingService)
		c.State = models.StateSelectingDate
		return OutcomeAdvanced

	case CmdSelectDate:
		if c.State != models.StateSelectingDate {
			return OutcomeIgnored
		}
		clearFrom(c, models.StateSelectingStaff)
		c.Date = p.Date
		push(c, models.StateSelectingDate)
		c.State = models.StateSelectingStaff
		return OutcomeAdvanced

	case CmdSelectStaff:
		if c.State != models.StateSelectingStaff {
			return OutcomeIgnored
		}
		clearFrom(c, models.StateSelectingTime)
		c.StaffID = p.StaffID
		c.StaffName = p.StaffName
		push(c, models.StateSelectingStaff)
		c.State = models.StateSelectingTime
		return OutcomeAdvanced

	case CmdSelectTime:
		if c.State != models.StateSelectingTime {
			return OutcomeIgnored
		}
		clearFrom(c, models.StateInputtingNote)
		c.Time = p.Time
		push(c, models.StateSelectingTime)
		c.State = models.StateInputtingNote
		return OutcomeAdvanced

	case CmdSubmitNote:
		if c.State != models.StateInputtingNote {
			return OutcomeIgnored
		}
		c.CustomerNote = p.Note
		push(c, models.StateInputtingNote)
		c.State = models.StateConfirming
		return OutcomeAdvanced

	case CmdConfirm:
		if c.State != models.StateConfirming {
			return OutcomeIgnored
		}
		return OutcomeConfirm
	}

	return OutcomeIgnored
}
