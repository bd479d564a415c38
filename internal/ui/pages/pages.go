package pages

//go:generate go tool templ generate

import (
	"strconv"
	"strings"

	"github.com/templui/pixelskins/internal/model"
)

// SampleCards fill the gallery until the community has created anything.
var SampleCards = []*model.CardSkin{
	{
		ID:       "default-1",
		Prompt:   "pepe take my money meme",
		ImageURL: "https://ucarecdn.com/1344fb8e-92c9-4b65-b8f9-25a04d11d3b4/-/format/auto/",
		Likes:    124,
	},
	{
		ID:       "default-2",
		Prompt:   "american psycho swyper",
		ImageURL: "https://ucarecdn.com/ca6a68c7-4686-4825-9e2e-018de3ad81eb/-/format/auto/",
		Likes:    98,
	},
	{
		ID:       "default-3",
		Prompt:   "come swype habibi",
		ImageURL: "https://ucarecdn.com/795429b1-cb1d-4908-817b-c411a8744bb5/-/format/auto/",
		Likes:    156,
	},
}

const placeholderImage = "data:image/gif;base64,R0lGODlhAQABAAAAACw="

// imageSrc keeps http(s) and inline image URLs. Anything else becomes a blank placeholder.
func imageSrc(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "data:image/") {
		return raw
	}
	return placeholderImage
}

func galleryEmpty(gallery *model.Gallery) bool {
	return len(gallery.Featured) == 0 && len(gallery.Regular) == 0
}

func toggleLabel(skin *model.CardSkin) string {
	if skin.IsFeatured {
		return "UNFEATURE"
	}
	return "FEATURE"
}

func likes(skin *model.CardSkin) string {
	return strconv.Itoa(skin.Likes)
}
