package handler

import (
	"net/http"

	"github.com/templui/pixelskins/internal/apperr"
	"github.com/templui/pixelskins/internal/service"
)

const generateFailedMessage = "Internal server error"

type generateRequest struct {
	// any so that a non-string prompt is a validation failure, not a decode failure.
	Prompt any `json:"prompt"`
}

type GenerateHandler struct {
	generateService *service.GenerateService
}

func NewGenerateHandler(generateService *service.GenerateService) *GenerateHandler {
	return &GenerateHandler{
		generateService: generateService,
	}
}

// Generate serves POST /api/generate-card-skin.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		renderAppError(w, r, err, generateFailedMessage)
		return
	}

	prompt, ok := req.Prompt.(string)
	if !ok {
		renderAppError(w, r, apperr.NewValidation("Valid prompt is required"), generateFailedMessage)
		return
	}

	skin, err := h.generateService.Generate(r.Context(), prompt)
	if err != nil {
		renderAppError(w, r, err, generateFailedMessage)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"imageUrl": skin.ImageURL,
		"prompt":   skin.Prompt,
	})
}
