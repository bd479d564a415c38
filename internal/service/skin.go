package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/templui/pixelskins/internal/apperr"
	"github.com/templui/pixelskins/internal/model"
	"github.com/templui/pixelskins/internal/moderation"
	"github.com/templui/pixelskins/internal/repository"
)

type SkinService struct {
	repo   repository.SkinRepository
	filter *moderation.Filter
}

func NewSkinService(repo repository.SkinRepository, filter *moderation.Filter) *SkinService {
	return &SkinService{
		repo:   repo,
		filter: filter,
	}
}

// Submit stores a skin whose image already exists. Flagged prompts are stored
// with is_nsfw set, which hides them from every gallery read.
func (s *SkinService) Submit(ctx context.Context, prompt, imageURL string) (*model.CardSkin, error) {
	isNSFW := s.filter.Flagged(prompt)

	skin, err := s.repo.Create(ctx, prompt, imageURL, isNSFW)
	if err != nil {
		return nil, fmt.Errorf("failed to create card skin: %w", err)
	}

	if isNSFW {
		slog.Info("card skin flagged by moderation", "card_id", skin.ID)
	}

	return skin, nil
}

func (s *SkinService) ToggleFeatured(ctx context.Context, id string) (*model.FeaturedState, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.NewValidation("Card ID is required")
	}

	state, err := s.repo.ToggleFeatured(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle featured: %w", err)
	}

	slog.Info("card skin featured toggled", "card_id", state.CardID, "is_featured", state.IsFeatured)
	return state, nil
}

// Flagged exposes the moderation decision without storing anything.
func (s *SkinService) Flagged(text string) bool {
	return s.filter.Flagged(text)
}
