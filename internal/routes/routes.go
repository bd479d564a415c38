package routes

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/templui/pixelskins/internal/app"
	"github.com/templui/pixelskins/internal/handler"
	"github.com/templui/pixelskins/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.GalleryService, app.Cfg.AppName)
	skins := handler.NewSkinHandler(app.SkinService, app.GalleryService)
	generate := handler.NewGenerateHandler(app.GenerateService)
	health := handler.NewHealthHandler(app.DB)

	generateLimit := middleware.RateLimitGenerate(
		app.Cfg.GenerateRateLimit,
		app.Cfg.GenerateRateWindow,
		app.Cfg.TrustProxyHeaders,
	)

	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", home.HomePage)
	mux.HandleFunc("GET /healthz", health.Health)

	// Card skins
	mux.HandleFunc("GET /api/card-skins", skins.List)
	mux.HandleFunc("POST /api/card-skins", skins.Manage)
	mux.HandleFunc("POST /api/card-skins/{id}/featured", skins.ToggleFeatured)

	// Generation hits the paid provider
	mux.Handle("POST /api/generate-card-skin", generateLimit(http.HandlerFunc(generate.Generate)))

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		chimw.RequestID,
		middleware.RequestLogging,
		chimw.Recoverer,
		middleware.NonceMiddleware, // must run before SecurityHeaders
		middleware.SecurityHeaders,
	)
}
