package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/pixelskins/internal/model"
	"github.com/templui/pixelskins/internal/service"
	"github.com/templui/pixelskins/internal/ui"
	"github.com/templui/pixelskins/internal/ui/pages"
)

type HomeHandler struct {
	galleryService *service.GalleryService
	title          string
}

func NewHomeHandler(galleryService *service.GalleryService, title string) *HomeHandler {
	return &HomeHandler{
		galleryService: galleryService,
		title:          title,
	}
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	gallery, err := h.galleryService.Gallery(r.Context())
	if err != nil {
		// The page still renders, with the sample cards in place of the gallery.
		slog.Error("failed to load gallery for home page", "error", err)
		gallery = &model.Gallery{}
	}

	ui.Render(w, r, pages.Home(h.title, gallery))
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		renderError(w, http.StatusNotFound, "Not found")
		return
	}

	ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
}
