package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/templui/pixelskins/internal/apperr"
	"github.com/templui/pixelskins/internal/moderation"
	"github.com/templui/pixelskins/internal/repository"
)

// pixelStyleSuffix steers the provider toward a full-bleed pixel-art card background.
var pixelStyleSuffix = strings.Join([]string{
	"pixel art style",
	"8-bit retro",
	"pixelated graphics",
	"low resolution pixel style",
	"blocky pixels",
	"retro gaming aesthetic",
	"pixel perfect",
	"old school video game art",
	"chunky pixels",
	"pixelated texture",
	"16-bit style",
	"abstract pixel background texture",
	"digital pixel wallpaper",
	"pixelated seamless pattern",
	"pixel art background",
	"decorative pixel texture",
	"full coverage pixel design",
	"no empty space",
	"no cards",
	"no rectangular objects",
	"no borders",
	"no frames",
	"no text",
	"no logos",
	"no numbers",
	"pure pixelated artistic background",
	"seamless pixel fill",
	"pixel texture pattern",
	"decorative pixel background",
	"vibrant pixel colors",
	"pixel artistic design",
	"pixel background wallpaper",
	"fills entire space",
	"continuous pixel pattern",
	"abstract pixel art background",
	"suitable for card background",
	"no card shapes",
	"just pixelated background texture",
	"retro pixel aesthetic",
	"family-friendly content",
}, ", ")

const persistTimeout = 10 * time.Second

// AugmentPrompt appends the fixed pixel-art style constraints to a user prompt.
func AugmentPrompt(prompt string) string {
	return prompt + ", " + pixelStyleSuffix
}

// ImageGenerator turns a prompt into an image reference.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratedSkin is what the caller gets back from a successful generation.
type GeneratedSkin struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
}

type GenerateService struct {
	generator ImageGenerator
	repo      repository.SkinRepository
	filter    *moderation.Filter
	mirror    *AssetMirror // nil when no bucket is configured

	pending sync.WaitGroup
}

func NewGenerateService(
	generator ImageGenerator,
	repo repository.SkinRepository,
	filter *moderation.Filter,
	mirror *AssetMirror,
) *GenerateService {
	return &GenerateService{
		generator: generator,
		repo:      repo,
		filter:    filter,
		mirror:    mirror,
	}
}

// Generate validates and moderates prompt, asks the provider for an image and
// records it in the gallery in the background. Persistence failures never reach the caller.
func (s *GenerateService) Generate(ctx context.Context, prompt string) (*GeneratedSkin, error) {
	// Held until persist has registered its own save, so Wait covers the whole request.
	s.pending.Add(1)
	defer s.pending.Done()

	if strings.TrimSpace(prompt) == "" {
		return nil, apperr.NewValidation("Valid prompt is required")
	}

	if s.filter.Flagged(prompt) {
		slog.Info("generation blocked by moderation")
		return nil, apperr.NewContentRejected()
	}

	ref, err := s.generator.Generate(ctx, AugmentPrompt(prompt))
	if err != nil {
		if _, ok := apperr.As(err); !ok {
			err = apperr.NewUpstream(0, "AI service error", err)
		}
		slog.Error("image generation failed", "error", err)
		return nil, err
	}

	imageURL := ref
	if s.mirror != nil {
		mirrored, mirrorErr := s.mirror.Mirror(ctx, ref)
		if mirrorErr != nil {
			slog.Warn("failed to mirror generated image, keeping provider url", "error", mirrorErr)
		} else {
			imageURL = mirrored
		}
	}

	// Moderation ran above and rejected flagged prompts, so is_nsfw stays false here.
	s.persist(ctx, prompt, imageURL)

	return &GeneratedSkin{
		ImageURL: imageURL,
		Prompt:   prompt,
	}, nil
}

func (s *GenerateService) persist(ctx context.Context, prompt, imageURL string) {
	ctx = context.WithoutCancel(ctx)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(ctx, persistTimeout)
		defer cancel()

		skin, err := s.repo.Create(ctx, prompt, imageURL, false)
		if err != nil {
			slog.Error("failed to save generated card skin", "error", err)
			return
		}
		slog.Info("generated card skin saved", "card_id", skin.ID)
	}()
}

// Wait blocks until in-flight generations and their background saves have finished.
func (s *GenerateService) Wait() {
	s.pending.Wait()
}
