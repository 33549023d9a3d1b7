package ports

import (
	"context"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
)

// SubmitApplicationInput carries the applicant-provided fields of a submission.
type SubmitApplicationInput struct {
	Actor            domain.Actor
	RobloxUsername   string
	DiscordUsername  string
	Age              int
	Experience       string
	WhyJoin          string
	Availability     string
	PreviousMilitary string
}

// ListApplicationsInput carries the parameters of the admin list.
type ListApplicationsInput struct {
	Actor  domain.Actor
	Status string // optional: pending, approved or rejected
}

// SetStatusInput carries an admin review decision.
type SetStatusInput struct {
	Actor         domain.Actor
	ApplicationID int64
	Status        string
	AdminNotes    *string
}

// ApplicationStats counts applications per status.
type ApplicationStats struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}

// ApplicationService defines the application workflow use cases.
type ApplicationService interface {
	Submit(ctx context.Context, input SubmitApplicationInput) (*domain.Application, error)
	ListAll(ctx context.Context, input ListApplicationsInput) ([]*domain.Application, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]*domain.Application, error)
	SetStatus(ctx context.Context, input SetStatusInput) (*domain.Application, error)
	Stats(ctx context.Context, actor domain.Actor) (*ApplicationStats, error)
}
