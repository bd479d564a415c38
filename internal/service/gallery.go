package service

import (
	"context"
	"fmt"

	"github.com/templui/pixelskins/internal/model"
	"github.com/templui/pixelskins/internal/repository"
)

// GalleryService reads the moderated gallery straight from the repository.
type GalleryService struct {
	repo repository.SkinRepository
}

func NewGalleryService(repo repository.SkinRepository) *GalleryService {
	return &GalleryService{repo: repo}
}

func (s *GalleryService) Gallery(ctx context.Context) (*model.Gallery, error) {
	featured, err := s.repo.ListFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured skins: %w", err)
	}

	regular, err := s.repo.ListRegular(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list card skins: %w", err)
	}

	return &model.Gallery{
		Featured: featured,
		Regular:  regular,
	}, nil
}
