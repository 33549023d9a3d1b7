package domain

import "time"

// EventType names a workflow event published to downstream consumers.
type EventType string

const (
	EventApplicationSubmitted EventType = "application.submitted"
	EventApplicationReviewed  EventType = "application.reviewed"
)

// ApplicationEvent is emitted after a workflow operation has been persisted.
type ApplicationEvent struct {
	Type           EventType         `json:"type"`
	ApplicationID  int64             `json:"application_id"`
	UserID         string            `json:"user_id"`
	RobloxUsername string            `json:"roblox_username"`
	Status         ApplicationStatus `json:"status"`
	AdminNotes     *string           `json:"admin_notes,omitempty"`
	ActorID        string            `json:"actor_id"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

// NewApplicationEvent snapshots app into an event of the given type.
func NewApplicationEvent(t EventType, app *Application, actorID string) ApplicationEvent {
	return ApplicationEvent{
		Type:           t,
		ApplicationID:  app.ID,
		UserID:         app.UserID,
		RobloxUsername: app.RobloxUsername,
		Status:         app.Status,
		AdminNotes:     app.AdminNotes,
		ActorID:        actorID,
		OccurredAt:     app.UpdatedAt,
	}
}
