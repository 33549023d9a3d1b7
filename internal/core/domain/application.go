package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ApplicationStatus represents the review state of an application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

const (
	MinApplicantAge = 13
	MaxApplicantAge = 100
)

// validTransitions defines the review state machine. Decided applications may
// be reviewed again; nothing moves back to pending.
var validTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusApproved, StatusRejected},
	StatusRejected: {StatusApproved, StatusRejected},
}

var ErrValidation = errors.New("validation failed")
var ErrDuplicatePending = errors.New("you already have a pending application")
var ErrApplicationNotFound = errors.New("application not found")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsReviewOutcome reports whether s can be set by an admin review.
func (s ApplicationStatus) IsReviewOutcome() bool {
	return s == StatusApproved || s == StatusRejected
}

// Valid reports whether s is one of the known statuses.
func (s ApplicationStatus) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// Application is a user's request to join, plus its review state.
type Application struct {
	ID               int64             `json:"id"`
	UserID           string            `json:"user_id"`
	RobloxUsername   string            `json:"roblox_username"`
	DiscordUsername  *string           `json:"discord_username"`
	Age              int               `json:"age"`
	Experience       string            `json:"experience"`
	WhyJoin          string            `json:"why_join"`
	Availability     string            `json:"availability"`
	PreviousMilitary *string           `json:"previous_military"`
	Status           ApplicationStatus `json:"status"`
	AdminNotes       *string           `json:"admin_notes"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Validate checks the submission constraints on the applicant-provided fields.
func (a *Application) Validate() error {
	var problems []string
	if strings.TrimSpace(a.UserID) == "" {
		problems = append(problems, "user_id is required")
	}
	if strings.TrimSpace(a.RobloxUsername) == "" {
		problems = append(problems, "roblox_username is required")
	}
	if a.Age < MinApplicantAge || a.Age > MaxApplicantAge {
		problems = append(problems, fmt.Sprintf("age must be between %d and %d", MinApplicantAge, MaxApplicantAge))
	}
	if strings.TrimSpace(a.Experience) == "" {
		problems = append(problems, "experience is required")
	}
	if strings.TrimSpace(a.WhyJoin) == "" {
		problems = append(problems, "why_join is required")
	}
	if strings.TrimSpace(a.Availability) == "" {
		problems = append(problems, "availability is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// OptionalText trims s and returns nil when nothing is left.
func OptionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
