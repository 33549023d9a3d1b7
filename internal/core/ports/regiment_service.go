package ports

import (
	"context"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
)

type RegimentService interface {
	List(ctx context.Context) ([]*domain.Regiment, error)
}
