package conversation

import (
	"testing"

	"reserva/models"
)

func midFlowContext() *models.ConversationContext {
	return &models.ConversationContext{
		TenantID: "t1",
		UserID:   "u1",
		State:    models.StateSelectingTime,
		History: []models.ConversationState{
			models.StateIdle,
			models.StateSelectingService,
			models.StateSelectingDate,
			models.StateSelectingStaff,
		},
		ServiceID:       "svc-cut",
		ServiceName:     "Haircut",
		ServiceDuration: 30,
		ServicePrice:    2500,
		StaffID:         "stf-1",
		StaffName:       "Aoi",
		Date:            "2026-09-01",
		CustomerID:      "cust-1",
	}
}

func TestApplyHappyPath(t *testing.T) {
	c := models.NewConversationContext("t1", "u1")

	steps := []struct {
		cmd       Command
		params    Params
		wantState models.ConversationState
	}{
		{CmdStartBooking, Params{}, models.StateSelectingService},
		{CmdSelectService, Params{ServiceID: "svc-cut", ServiceName: "Haircut", ServiceDuration: 30, ServicePrice: 2500}, models.StateSelectingDate},
		{CmdSelectDate, Params{Date: "2026-09-01"}, models.StateSelectingStaff},
		{CmdSelectStaff, Params{StaffID: "stf-1", StaffName: "Aoi"}, models.StateSelectingTime},
		{CmdSelectTime, Params{Time: "10:00"}, models.StateInputtingNote},
		{CmdSubmitNote, Params{Note: "first visit"}, models.StateConfirming},
	}

	for _, step := range steps {
		if got := Apply(c, step.cmd, step.params); got != OutcomeAdvanced {
			t.Fatalf("Apply(%s) outcome = %v, want OutcomeAdvanced", step.cmd, got)
		}
		if c.State != step.wantState {
			t.Fatalf("after %s state = %s, want %s", step.cmd, c.State, step.wantState)
		}
	}

	if got := Apply(c, CmdConfirm, Params{}); got != OutcomeConfirm {
		t.Fatalf("confirm outcome = %v, want OutcomeConfirm", got)
	}
	if !c.HasFullSelection() {
		t.Fatalf("expected a full selection at confirm, got %+v", c)
	}
	if c.CustomerNote != "first visit" {
		t.Errorf("note = %q, want %q", c.CustomerNote, "first visit")
	}
}

func TestCancelResetsFromEveryState(t *testing.T) {
	states := []models.ConversationState{
		models.StateIdle,
		models.StateSelectingService,
		models.StateSelectingDate,
		models.StateSelectingStaff,
		models.StateSelectingTime,
		models.StateInputtingNote,
		models.StateConfirming,
	}

	for _, state := range states {
		c := midFlowContext()
		c.State = state

		if got := Apply(c, CmdCancel, Params{}); got != OutcomeCancelled {
			t.Errorf("cancel from %s outcome = %v, want OutcomeCancelled", state, got)
		}
		if c.State != models.StateIdle {
			t.Errorf("cancel from %s left state %s, want IDLE", state, c.State)
		}
		if c.ServiceID != "" || c.Date != "" || c.StaffID != "" || c.Time != "" {
			t.Errorf("cancel from %s left selections behind: %+v", state, c)
		}
		if len(c.History) != 0 {
			t.Errorf("cancel from %s left history %v", state, c.History)
		}
		if c.CustomerID != "cust-1" {
			t.Errorf("cancel from %s dropped customer id", state)
		}
	}
}

func TestStartBookingRestartsMidFlow(t *testing.T) {
	c := midFlowContext()

	if got := Apply(c, CmdStartBooking, Params{}); got != OutcomeAdvanced {
		t.Fatalf("outcome = %v, want OutcomeAdvanced", got)
	}
	if c.State != models.StateSelectingService {
		t.Fatalf("state = %s, want SELECTING_SERVICE", c.State)
	}
	if c.ServiceID != "" || c.Date != "" || c.StaffID != "" {
		t.Errorf("restart kept stale selections: %+v", c)
	}
	if len(c.History) != 1 || c.History[0] != models.StateIdle {
		t.Errorf("history = %v, want [IDLE]", c.History)
	}
}

func TestOutOfOrderCommandsAreIgnored(t *testing.T) {
	cases := []struct {
		state models.ConversationState
		cmd   Command
	}{
		{models.StateIdle, CmdSelectService},
		{models.StateIdle, CmdSelectTime},
		{models.StateIdle, CmdConfirm},
		{models.StateSelectingService, CmdSelectDate},
		{models.StateSelectingDate, CmdSelectTime},
		{models.StateSelectingStaff, CmdConfirm},
		{models.StateConfirming, CmdSelectService},
	}

	for _, tc := range cases {
		c := midFlowContext()
		c.State = tc.state
		before := *c

		if got := Apply(c, tc.cmd, Params{ServiceID: "x", Date: "2026-09-02", Time: "12:00"}); got != OutcomeIgnored {
			t.Errorf("%s in %s outcome = %v, want OutcomeIgnored", tc.cmd, tc.state, got)
		}
		if c.State != before.State || c.ServiceID != before.ServiceID || c.Date != before.Date || c.Time != before.Time {
			t.Errorf("%s in %s mutated the context", tc.cmd, tc.state)
		}
	}
}

func TestReselectingServiceClearsLaterSteps(t *testing.T) {
	c := midFlowContext()
	c.State = models.StateSelectingService
	c.Time = "10:00"
	c.CustomerNote = "old note"

	if got := Apply(c, CmdSelectService, Params{ServiceID: "svc-color", ServiceName: "Coloring", ServiceDuration: 60, ServicePrice: 8000}); got != OutcomeAdvanced {
		t.Fatalf("outcome = %v, want OutcomeAdvanced", got)
	}
	if c.ServiceID != "svc-color" || c.ServiceDuration != 60 {
		t.Errorf("service selection not applied: %+v", c)
	}
	if c.Date != "" || c.StaffID != "" || c.Time != "" || c.CustomerNote != "" {
		t.Errorf("later-step selections survived a service re-pick: %+v", c)
	}
}

func TestGoBackRestoresPreviousStepAndClearsIt(t *testing.T) {
	c := midFlowContext()
	c.Time = "10:00"

	// SELECTING_TIME back to SELECTING_STAFF.
	if got := Apply(c, CmdGoBack, Params{}); got != OutcomeAdvanced {
		t.Fatalf("outcome = %v, want OutcomeAdvanced", got)
	}
	if c.State != models.StateSelectingStaff {
		t.Fatalf("state = %s, want SELECTING_STAFF", c.State)
	}
	if c.StaffID != "" || c.Time != "" {
		t.Errorf("restored step kept its old value: staff=%q time=%q", c.StaffID, c.Time)
	}
	if c.ServiceID != "svc-cut" || c.Date != "2026-09-01" {
		t.Errorf("earlier selections were lost: %+v", c)
	}
}

func TestGoBackFromFirstStepCancels(t *testing.T) {
	c := models.NewConversationContext("t1", "u1")
	Apply(c, CmdStartBooking, Params{})

	if got := Apply(c, CmdGoBack, Params{}); got != OutcomeCancelled {
		t.Fatalf("outcome = %v, want OutcomeCancelled", got)
	}
	if c.State != models.StateIdle {
		t.Fatalf("state = %s, want IDLE", c.State)
	}
	if len(c.History) != 0 {
		t.Errorf("history = %v, want empty", c.History)
	}
}

func TestGoBackInIdleIsIgnored(t *testing.T) {
	c := models.NewConversationContext("t1", "u1")
	if got := Apply(c, CmdGoBack, Params{}); got != OutcomeIgnored {
		t.Fatalf("outcome = %v, want OutcomeIgnored", got)
	}
}

func TestHasFullSelectionWithUnspecifiedStaff(t *testing.T) {
	c := midFlowContext()
	c.StaffID = models.StaffUnspecified
	c.StaffName = ""
	c.Time = "10:00"

	if !c.HasFullSelection() {
		t.Fatalf("unspecified staff should count as selected: %+v", c)
	}
}
