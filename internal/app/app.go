package app

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/templui/pixelskins/internal/config"
	"github.com/templui/pixelskins/internal/db"
	"github.com/templui/pixelskins/internal/imagegen"
	"github.com/templui/pixelskins/internal/moderation"
	"github.com/templui/pixelskins/internal/repository"
	"github.com/templui/pixelskins/internal/service"
	"github.com/templui/pixelskins/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	SkinService     *service.SkinService
	GalleryService  *service.GalleryService
	GenerateService *service.GenerateService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Open(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	skinRepository := repository.NewSkinRepository(database)
	filter := moderation.NewFilter(cfg.BlockedTerms)

	imageClient := imagegen.NewClient(imagegen.Config{
		URL:     cfg.ImageAPIURL,
		APIKey:  cfg.ImageAPIKey,
		Width:   cfg.ImageWidth,
		Height:  cfg.ImageHeight,
		Timeout: cfg.ImageTimeout,
	})

	var mirror *service.AssetMirror
	if cfg.MirrorEnabled() {
		store, err := storage.New(cfg)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		mirror = service.NewAssetMirror(imageClient, store)
	} else {
		slog.Info("asset mirror disabled, provider image urls are stored as is")
	}

	return &App{
		Cfg:             cfg,
		DB:              database,
		SkinService:     service.NewSkinService(skinRepository, filter),
		GalleryService:  service.NewGalleryService(skinRepository),
		GenerateService: service.NewGenerateService(imageClient, skinRepository, filter, mirror),
	}, nil
}

// Close waits for in-flight gallery saves, then closes the database.
func (a *App) Close() error {
	if a.GenerateService != nil {
		a.GenerateService.Wait()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
