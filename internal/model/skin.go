package model

import (
	"time"
)

// CardSkin is a generated or submitted image shown in the gallery.
type CardSkin struct {
	ID         string    `db:"id" json:"id"`
	Prompt     string    `db:"prompt" json:"prompt"`
	ImageURL   string    `db:"image_url" json:"image_url"`
	Likes      int       `db:"likes" json:"likes"`
	IsFeatured bool      `db:"is_featured" json:"is_featured"`
	IsNSFW     bool      `db:"is_nsfw" json:"is_nsfw"` // set once at creation, never updated
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// FeaturedState is the result of toggling a card's featured flag.
type FeaturedState struct {
	CardID     string `db:"id" json:"cardId"`
	IsFeatured bool   `db:"is_featured" json:"isFeatured"`
}

// Gallery holds both moderated gallery sections.
type Gallery struct {
	Featured []*CardSkin `json:"featuredSkins"`
	Regular  []*CardSkin `json:"cardSkins"`
}
