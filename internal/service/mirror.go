package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/pixelskins/internal/storage"
	"github.com/templui/pixelskins/internal/validation"
)

// MirrorTimeout bounds the download and upload of one generated image.
const MirrorTimeout = 20 * time.Second

// ImageFetcher downloads the bytes behind a provider image reference.
type ImageFetcher interface {
	Download(ctx context.Context, ref string) ([]byte, string, error)
}

// AssetMirror copies provider images into our own bucket so gallery links
// outlive the provider's temporary URLs.
type AssetMirror struct {
	fetcher ImageFetcher
	store   storage.Storage
	timeout time.Duration
}

func NewAssetMirror(fetcher ImageFetcher, store storage.Storage) *AssetMirror {
	return &AssetMirror{
		fetcher: fetcher,
		store:   store,
		timeout: MirrorTimeout,
	}
}

// Mirror stores the image behind ref and returns its public URL.
func (m *AssetMirror) Mirror(ctx context.Context, ref string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	data, _, err := m.fetcher.Download(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("failed to fetch generated image: %w", err)
	}

	contentType, err := validation.ValidateImage(data, validation.SkinImageConstraints)
	if err != nil {
		return "", fmt.Errorf("refusing to mirror generated image: %w", err)
	}

	key := storage.SkinKey(contentType)
	err = m.store.Save(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store generated image: %w", err)
	}

	url := m.store.URL(key)
	slog.Debug("generated image mirrored", "key", key, "size", len(data))
	return url, nil
}
