package validation

import (
	"errors"
	"fmt"
	"net/http"
)

// ImageConstraints defines what may be mirrored into the bucket.
type ImageConstraints struct {
	AllowedMimeTypes map[string]bool
	MaxSize          int
}

var SkinImageConstraints = ImageConstraints{
	AllowedMimeTypes: map[string]bool{
		"image/png":  true,
		"image/jpeg": true,
		"image/webp": true,
		"image/gif":  true,
	},
	MaxSize: 20 << 20, // 20MB
}

// ValidateImage checks data against constraints and returns the detected MIME type.
// The type comes from the magic numbers, never from a Content-Type header.
func ValidateImage(data []byte, constraints ImageConstraints) (string, error) {
	if len(data) == 0 {
		return "", errors.New("image is empty")
	}

	if len(data) > constraints.MaxSize {
		return "", fmt.Errorf("image too large: maximum size is %d MB", constraints.MaxSize/(1<<20))
	}

	detectedType := http.DetectContentType(data)
	if !constraints.AllowedMimeTypes[detectedType] {
		return "", fmt.Errorf("invalid image type (detected: %s)", detectedType)
	}

	return detectedType, nil
}
