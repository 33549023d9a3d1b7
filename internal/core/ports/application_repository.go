package ports

import (
	"context"
	"time"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
)

// ApplicationFilter narrows List results. Zero values mean no filter.
type ApplicationFilter struct {
	Status domain.ApplicationStatus
	UserID string
}

// ApplicationRepository defines persistence operations for applications.
type ApplicationRepository interface {
	// Create inserts app and assigns its ID. It returns domain.ErrDuplicatePending
	// when the storage-level one-pending-per-user constraint rejects the row.
	Create(ctx context.Context, app *domain.Application) error
	HasPending(ctx context.Context, userID string) (bool, error)
	FindByID(ctx context.Context, id int64) (*domain.Application, error)
	// List returns matching applications, most recently submitted first.
	List(ctx context.Context, filter ApplicationFilter) ([]*domain.Application, error)
	// UpdateStatus sets status and admin notes. Returns domain.ErrApplicationNotFound
	// when no row has the given id.
	UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, notes *string, updatedAt time.Time) error
	CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error)
}
