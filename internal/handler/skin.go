package handler

import (
	"encoding/json"
	"net/http"

	"github.com/templui/pixelskins/internal/apperr"
	"github.com/templui/pixelskins/internal/service"
)

const (
	actionToggleFeatured = "toggle-featured"

	manageFailedMessage = "Failed to manage card skin"
	fetchFailedMessage  = "Failed to fetch card skins"
)

// cardID accepts both string and numeric JSON ids. A numeric zero counts as
// missing, like an empty string.
type cardID string

func (c *cardID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = cardID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if f, err := n.Float64(); err == nil && f == 0 {
		*c = ""
		return nil
	}
	*c = cardID(n.String())
	return nil
}

type cardSkinRequest struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"image_url"`
	Action   string `json:"action"`
	CardID   cardID `json:"cardId"`
}

type SkinHandler struct {
	skinService    *service.SkinService
	galleryService *service.GalleryService
}

func NewSkinHandler(skinService *service.SkinService, galleryService *service.GalleryService) *SkinHandler {
	return &SkinHandler{
		skinService:    skinService,
		galleryService: galleryService,
	}
}

// Manage serves POST /api/card-skins. A body with action "toggle-featured"
// toggles cardId, anything else creates a skin.
func (h *SkinHandler) Manage(w http.ResponseWriter, r *http.Request) {
	var req cardSkinRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		renderAppError(w, r, err, manageFailedMessage)
		return
	}

	if req.Action == actionToggleFeatured {
		h.toggle(w, r, string(req.CardID))
		return
	}

	if req.Prompt == "" || req.ImageURL == "" {
		renderAppError(w, r, apperr.NewValidation("Prompt and image_url are required"), manageFailedMessage)
		return
	}

	skin, err := h.skinService.Submit(r.Context(), req.Prompt, req.ImageURL)
	if err != nil {
		renderAppError(w, r, err, manageFailedMessage)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"cardSkin": skin,
	})
}

// ToggleFeatured serves POST /api/card-skins/{id}/featured.
func (h *SkinHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, r.PathValue("id"))
}

func (h *SkinHandler) toggle(w http.ResponseWriter, r *http.Request, id string) {
	state, err := h.skinService.ToggleFeatured(r.Context(), id)
	if err != nil {
		renderAppError(w, r, err, manageFailedMessage)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"cardId":     state.CardID,
		"isFeatured": state.IsFeatured,
	})
}

// List serves GET /api/card-skins.
func (h *SkinHandler) List(w http.ResponseWriter, r *http.Request) {
	gallery, err := h.galleryService.Gallery(r.Context())
	if err != nil {
		renderAppError(w, r, err, fetchFailedMessage)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"featuredSkins": gallery.Featured,
		"cardSkins":     gallery.Regular,
	})
}
