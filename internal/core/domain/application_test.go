package domain

import (
	"errors"
	"strings"
	"testing"
)

func validApplication() *Application {
	return &Application{
		UserID:         "U1",
		RobloxUsername: "Bob123",
		Age:            25,
		Experience:     "2 years",
		WhyJoin:        "honor",
		Availability:   "weekends",
	}
}

func TestApplication_Validate_OK(t *testing.T) {
	if err := validApplication().Validate(); err != nil {
		t.Fatalf("expected valid application, got %v", err)
	}
}

func TestApplication_Validate_AgeBounds(t *testing.T) {
	cases := []struct {
		age   int
		valid bool
	}{
		{12, false},
		{13, true},
		{100, true},
		{101, false},
		{0, false},
	}
	for _, tc := range cases {
		app := validApplication()
		app.Age = tc.age
		err := app.Validate()
		if tc.valid && err != nil {
			t.Errorf("age %d: unexpected error %v", tc.age, err)
		}
		if !tc.valid && !errors.Is(err, ErrValidation) {
			t.Errorf("age %d: expected ErrValidation, got %v", tc.age, err)
		}
	}
}

func TestApplication_Validate_RequiredText(t *testing.T) {
	app := validApplication()
	app.Experience = "   "
	app.Availability = ""

	err := app.Validate()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "experience is required") || !strings.Contains(err.Error(), "availability is required") {
		t.Errorf("expected both fields reported, got %q", err.Error())
	}
}

func TestApplicationStatus_Transitions(t *testing.T) {
	if !StatusPending.CanTransitionTo(StatusApproved) || !StatusPending.CanTransitionTo(StatusRejected) {
		t.Error("pending must move to approved or rejected")
	}
	if !StatusApproved.CanTransitionTo(StatusRejected) {
		t.Error("re-review of approved applications must be allowed")
	}
	for _, s := range []ApplicationStatus{StatusPending, StatusApproved, StatusRejected} {
		if s.CanTransitionTo(StatusPending) {
			t.Errorf("%s must not move back to pending", s)
		}
	}
	if ApplicationStatus("archived").Valid() {
		t.Error("unknown status reported as valid")
	}
}

func TestOptionalText(t *testing.T) {
	if OptionalText("  ") != nil {
		t.Error("blank text should be nil")
	}
	if got := OptionalText(" bob#1 "); got == nil || *got != "bob#1" {
		t.Errorf("unexpected value %v", got)
	}
}

func TestActor_RequireAdmin(t *testing.T) {
	if err := (Actor{}).RequireAdmin(); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("anonymous: expected ErrUnauthorized, got %v", err)
	}
	if err := (Actor{UserID: "U1"}).RequireAdmin(); !errors.Is(err, ErrForbidden) {
		t.Errorf("member: expected ErrForbidden, got %v", err)
	}
	if err := (Actor{UserID: "A1", IsAdmin: true}).RequireAdmin(); err != nil {
		t.Errorf("admin: unexpected error %v", err)
	}
}
