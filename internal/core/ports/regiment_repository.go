package ports

import (
	"context"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
)

// RegimentRepository reads reference data about regiments.
type RegimentRepository interface {
	// List returns all regiments ordered by name.
	List(ctx context.Context) ([]*domain.Regiment, error)
	// Upsert inserts or updates a regiment keyed by name. Used by seeding only.
	Upsert(ctx context.Context, r *domain.Regiment) error
}
