package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Image generation provider
	ImageAPIURL  string
	ImageAPIKey  string
	ImageWidth   int
	ImageHeight  int
	ImageTimeout time.Duration

	// Moderation: empty means the built-in block-list
	BlockedTerms []string

	// Rate limiting for the generate endpoint (per client IP)
	GenerateRateLimit  int
	GenerateRateWindow time.Duration
	TrustProxyHeaders  bool // Key clients by X-Forwarded-For/X-Real-IP; only behind a proxy that sets them

	// Observability (optional)
	SentryDSN string

	// Asset mirror (optional, S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
	S3PublicURL string // Optional: CDN or custom domain in front of the bucket
	S3PathStyle bool   // Required for MinIO and some S3-compatible services
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Pixel Skins"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/skins.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Image generation
		ImageAPIURL:  envRequired("IMAGE_API_URL"),
		ImageAPIKey:  envString("IMAGE_API_KEY", ""),
		ImageWidth:   envInt("IMAGE_WIDTH", 1024),
		ImageHeight:  envInt("IMAGE_HEIGHT", 640),
		ImageTimeout: envDuration("IMAGE_TIMEOUT", 60*time.Second),

		// Moderation
		BlockedTerms: envList("BLOCKED_TERMS"),

		// Rate limiting
		GenerateRateLimit:  envInt("GENERATE_RATE_LIMIT", 10),
		GenerateRateWindow: envDuration("GENERATE_RATE_WINDOW", time.Minute),
		TrustProxyHeaders:  envBool("TRUST_PROXY_HEADERS", false),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Asset mirror
		S3Region:    envString("S3_REGION", "auto"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
		S3PublicURL: envString("S3_PUBLIC_URL", ""),
		S3PathStyle: envBool("S3_PATH_STYLE", true),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures the provider is authenticated for production deployments.
// Development allows an open provider endpoint (e.g. a local mock) for easier testing.
func validateProduction(cfg *Config) {
	if cfg.ImageAPIKey == "" {
		slog.Error("production deployment requires IMAGE_API_KEY",
			"hint", "set APP_ENV=development to use an unauthenticated provider")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envList splits a comma-separated value, dropping blanks. Returns nil when unset.
func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MirrorEnabled reports whether generated images are copied into the bucket.
func (c *Config) MirrorEnabled() bool {
	return c.S3Bucket != ""
}
