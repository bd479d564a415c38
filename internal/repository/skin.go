package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/pixelskins/internal/apperr"
	"github.com/templui/pixelskins/internal/model"
)

const skinColumns = `id, prompt, image_url, likes, is_featured, is_nsfw, created_at`

type SkinRepository interface {
	Create(ctx context.Context, prompt, imageURL string, isNSFW bool) (*model.CardSkin, error)
	ListFeatured(ctx context.Context) ([]*model.CardSkin, error)
	ListRegular(ctx context.Context) ([]*model.CardSkin, error)
	ToggleFeatured(ctx context.Context, id string) (*model.FeaturedState, error)
}

type skinRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSkinRepository(db *sqlx.DB) SkinRepository {
	return &skinRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and inserts one card skin. Nothing is written when validation fails.
func (r *skinRepository) Create(ctx context.Context, prompt, imageURL string, isNSFW bool) (*model.CardSkin, error) {
	if strings.TrimSpace(prompt) == "" || strings.TrimSpace(imageURL) == "" {
		return nil, apperr.NewValidation("Prompt and image_url are required")
	}

	skin := &model.CardSkin{
		ID:        uuid.New().String(),
		Prompt:    prompt,
		ImageURL:  imageURL,
		IsNSFW:    isNSFW,
		CreatedAt: r.now(),
	}

	query := `INSERT INTO card_skins (id, prompt, image_url, likes, is_featured, is_nsfw, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		skin.ID,
		skin.Prompt,
		skin.ImageURL,
		skin.Likes,
		skin.IsFeatured,
		skin.IsNSFW,
		skin.CreatedAt,
	)
	if err != nil {
		return nil, apperr.NewStorage(err)
	}

	return skin, nil
}

func (r *skinRepository) ListFeatured(ctx context.Context) ([]*model.CardSkin, error) {
	query := `SELECT ` + skinColumns + ` FROM card_skins
	          WHERE is_featured = $1 AND is_nsfw = $2
	          ORDER BY likes DESC, created_at DESC`
	return r.list(ctx, query, true, false)
}

func (r *skinRepository) ListRegular(ctx context.Context) ([]*model.CardSkin, error) {
	query := `SELECT ` + skinColumns + ` FROM card_skins
	          WHERE is_featured = $1 AND is_nsfw = $2
	          ORDER BY created_at DESC`
	return r.list(ctx, query, false, false)
}

func (r *skinRepository) list(ctx context.Context, query string, args ...any) ([]*model.CardSkin, error) {
	skins := []*model.CardSkin{}
	err := r.db.SelectContext(ctx, &skins, query, args...)
	if err != nil {
		return nil, apperr.NewStorage(err)
	}
	return skins, nil
}

// ToggleFeatured flips is_featured in a single statement so concurrent toggles never lose an update.
func (r *skinRepository) ToggleFeatured(ctx context.Context, id string) (*model.FeaturedState, error) {
	query := `UPDATE card_skins
	          SET is_featured = NOT is_featured
	          WHERE id = $1
	          RETURNING id, is_featured`

	state := &model.FeaturedState{}
	err := r.db.QueryRowxContext(ctx, query, id).StructScan(state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NewNotFound(id)
	}
	if err != nil {
		return nil, apperr.NewStorage(err)
	}

	return state, nil
}
