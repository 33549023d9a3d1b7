package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
)

type ApplicationService struct {
	repo   ports.ApplicationRepository
	events ports.EventDispatcher
	logger zerolog.Logger
	now    func() time.Time
}

func NewApplicationService(repo ports.ApplicationRepository, events ports.EventDispatcher, logger zerolog.Logger) *ApplicationService {
	return &ApplicationService{
		repo:   repo,
		events: events,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Submit creates a pending application owned by the actor.
func (s *ApplicationService) Submit(ctx context.Context, input ports.SubmitApplicationInput) (*domain.Application, error) {
	if err := input.Actor.RequireUser(); err != nil {
		return nil, err
	}

	now := s.now()
	app := &domain.Application{
		UserID:           input.Actor.UserID,
		RobloxUsername:   input.RobloxUsername,
		DiscordUsername:  domain.OptionalText(input.DiscordUsername),
		Age:              input.Age,
		Experience:       input.Experience,
		WhyJoin:          input.WhyJoin,
		Availability:     input.Availability,
		PreviousMilitary: domain.OptionalText(input.PreviousMilitary),
		Status:           domain.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := app.Validate(); err != nil {
		return nil, err
	}

	pending, err := s.repo.HasPending(ctx, app.UserID)
	if err != nil {
		return nil, fmt.Errorf("submit application: %w", err)
	}
	if pending {
		return nil, domain.ErrDuplicatePending
	}

	// Create re-checks atomically through the pending-per-user unique index.
	if err := s.repo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrDuplicatePending) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("user_id", app.UserID).Msg("failed to create application")
		return nil, fmt.Errorf("submit application: %w", err)
	}

	s.logger.Info().Int64("application_id", app.ID).Str("user_id", app.UserID).Msg("application submitted")
	s.publish(domain.EventApplicationSubmitted, app, app.UserID)

	return app, nil
}

// ListAll returns every application, newest first. Admin only.
func (s *ApplicationService) ListAll(ctx context.Context, input ports.ListApplicationsInput) ([]*domain.Application, error) {
	if err := input.Actor.RequireAdmin(); err != nil {
		return nil, err
	}

	filter := ports.ApplicationFilter{}
	if input.Status != "" {
		status := domain.ApplicationStatus(input.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: status must be one of pending, approved, rejected", domain.ErrValidation)
		}
		filter.Status = status
	}

	apps, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// ListMine returns the actor's own applications, newest first.
func (s *ApplicationService) ListMine(ctx context.Context, actor domain.Actor) ([]*domain.Application, error) {
	if err := actor.RequireUser(); err != nil {
		return nil, err
	}
	apps, err := s.repo.List(ctx, ports.ApplicationFilter{UserID: actor.UserID})
	if err != nil {
		return nil, fmt.Errorf("list own applications: %w", err)
	}
	return apps, nil
}

// SetStatus records an admin review decision. Admin notes are replaced by the
// provided value, which may be nil.
func (s *ApplicationService) SetStatus(ctx context.Context, input ports.SetStatusInput) (*domain.Application, error) {
	if err := input.Actor.RequireAdmin(); err != nil {
		return nil, err
	}

	next := domain.ApplicationStatus(input.Status)
	if !next.IsReviewOutcome() {
		return nil, fmt.Errorf("%w: status must be one of approved, rejected", domain.ErrValidation)
	}

	app, err := s.repo.FindByID(ctx, input.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	if !app.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: cannot move application from %s to %s", domain.ErrValidation, app.Status, next)
	}

	var notes *string
	if input.AdminNotes != nil {
		notes = domain.OptionalText(*input.AdminNotes)
	}
	updatedAt := s.now()
	if err := s.repo.UpdateStatus(ctx, app.ID, next, notes, updatedAt); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	previous := app.Status
	app.Status = next
	app.AdminNotes = notes
	app.UpdatedAt = updatedAt

	s.logger.Info().
		Int64("application_id", app.ID).
		Str("from", string(previous)).
		Str("to", string(next)).
		Str("admin_id", input.Actor.UserID).
		Msg("application reviewed")
	s.publish(domain.EventApplicationReviewed, app, input.Actor.UserID)

	return app, nil
}

// Stats counts applications per status. Admin only.
func (s *ApplicationService) Stats(ctx context.Context, actor domain.Actor) (*ports.ApplicationStats, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("application stats: %w", err)
	}
	stats := &ports.ApplicationStats{
		Pending:  counts[domain.StatusPending],
		Approved: counts[domain.StatusApproved],
		Rejected: counts[domain.StatusRejected],
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected
	return stats, nil
}

func (s *ApplicationService) publish(t domain.EventType, app *domain.Application, actorID string) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(domain.NewApplicationEvent(t, app, actorID))
}
