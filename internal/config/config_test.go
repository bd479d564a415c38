package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("IMAGE_API_URL", "http://localhost:9999/generate")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg := Load()

	assert.Equal(t, "Pixel Skins", cfg.AppName)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 1024, cfg.ImageWidth)
	assert.Equal(t, 640, cfg.ImageHeight)
	assert.Equal(t, 60*time.Second, cfg.ImageTimeout)
	assert.Nil(t, cfg.BlockedTerms)
	assert.Equal(t, 10, cfg.GenerateRateLimit)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.MirrorEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("IMAGE_WIDTH", "512")
	t.Setenv("IMAGE_TIMEOUT", "5s")
	t.Setenv("BLOCKED_TERMS", " foo, ,Bar ")
	t.Setenv("S3_BUCKET", "skins")
	t.Setenv("S3_PATH_STYLE", "false")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg := Load()

	assert.Equal(t, 512, cfg.ImageWidth)
	assert.Equal(t, 5*time.Second, cfg.ImageTimeout)
	require.Equal(t, []string{"foo", "Bar"}, cfg.BlockedTerms)
	assert.True(t, cfg.MirrorEnabled())
	assert.False(t, cfg.S3PathStyle)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	setRequired(t)
	t.Setenv("IMAGE_HEIGHT", "tall")
	t.Setenv("GENERATE_RATE_WINDOW", "soon")
	t.Setenv("S3_PATH_STYLE", "maybe")

	cfg := Load()

	assert.Equal(t, 640, cfg.ImageHeight)
	assert.Equal(t, time.Minute, cfg.GenerateRateWindow)
	assert.True(t, cfg.S3PathStyle)
}
