package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/templui/pixelskins/internal/apperr"
)

const (
	maxErrorBody = 4 << 10  // 4KB of provider error text is enough to diagnose
	maxImageSize = 20 << 20 // 20MB
)

// Config holds provider settings
type Config struct {
	URL     string // Endpoint accepting GET ?prompt=&width=&height=
	APIKey  string // Optional bearer token
	Width   int
	Height  int
	Timeout time.Duration
}

// Client calls a text-to-image provider that answers {"data": ["<image url>", ...]}.
type Client struct {
	baseURL    string
	apiKey     string
	width      int
	height     int
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSpace(cfg.URL),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		width:      cfg.Width,
		height:     cfg.Height,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

type generationResponse struct {
	Data []json.RawMessage `json:"data"`
}

// Generate requests one image for prompt and returns its reference (URL or data URL).
// Every failure is an apperr UpstreamError.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint, err := c.generationURL(prompt)
	if err != nil {
		return "", apperr.NewUpstream(0, "AI service is misconfigured", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", apperr.NewUpstream(0, "AI service is misconfigured", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperr.NewUpstream(0, "AI service timed out", err)
		}
		return "", apperr.NewUpstream(0, "AI service unavailable", err)
	}
	defer resp.Body.Close()

	slog.Debug("image provider responded", "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := fmt.Sprintf("AI service error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		return "", apperr.NewUpstream(resp.StatusCode, msg, fmt.Errorf("provider body: %s", strings.TrimSpace(string(body))))
	}

	var out generationResponse
	err = json.NewDecoder(resp.Body).Decode(&out)
	if err != nil {
		return "", apperr.NewUpstream(resp.StatusCode, "Invalid response from AI service", err)
	}

	if len(out.Data) == 0 {
		return "", apperr.NewUpstream(resp.StatusCode, "No image data received from AI service", nil)
	}

	ref := imageRef(out.Data[0])
	if ref == "" {
		return "", apperr.NewUpstream(resp.StatusCode, "No image data received from AI service", nil)
	}

	return ref, nil
}

func (c *Client) generationURL(prompt string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid provider url %q", c.baseURL)
	}

	q := u.Query()
	q.Set("prompt", prompt)
	if c.width > 0 {
		q.Set("width", strconv.Itoa(c.width))
	}
	if c.height > 0 {
		q.Set("height", strconv.Itoa(c.height))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// imageRef accepts either a bare string or an object with a url field.
func imageRef(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.URL)
	}
	return ""
}

// Download fetches the bytes behind an image reference returned by Generate.
// data: URLs are decoded in place.
func (c *Client) Download(ctx context.Context, ref string) ([]byte, string, error) {
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURL(ref)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("download image: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, "", fmt.Errorf("download image: larger than %d bytes", maxImageSize)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

func decodeDataURL(ref string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, "", errors.New("malformed data url")
	}

	contentType := strings.TrimSuffix(header, ";base64")
	if !strings.HasSuffix(header, ";base64") {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decode data url: %w", err)
		}
		return []byte(unescaped), contentType, nil
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data url: %w", err)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}
