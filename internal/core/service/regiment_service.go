package service

import (
	"context"
	"fmt"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
)

type RegimentService struct {
	repo ports.RegimentRepository
}

func NewRegimentService(repo ports.RegimentRepository) *RegimentService {
	return &RegimentService{repo: repo}
}

func (s *RegimentService) List(ctx context.Context) ([]*domain.Regiment, error) {
	regiments, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list regiments: %w", err)
	}
	return regiments, nil
}
