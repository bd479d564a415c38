package imagegen

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/pixelskins/internal/apperr"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		URL:     srv.URL + "/integrations/stable-diffusion-v-3/",
		APIKey:  "secret",
		Width:   1024,
		Height:  640,
		Timeout: 2 * time.Second,
	})
}

func TestGenerate_Success(t *testing.T) {
	var gotPrompt, gotWidth, gotHeight, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPrompt = r.URL.Query().Get("prompt")
		gotWidth = r.URL.Query().Get("width")
		gotHeight = r.URL.Query().Get("height")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":["https://cdn.example/img.png"]}`))
	})

	ref, err := c.Generate(context.Background(), "sunset & beach, pixel art")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example/img.png", ref)
	assert.Equal(t, "sunset & beach, pixel art", gotPrompt)
	assert.Equal(t, "1024", gotWidth)
	assert.Equal(t, "640", gotHeight)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestGenerate_ObjectEntry(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"url":"https://cdn.example/obj.png"}]}`))
	})

	ref, err := c.Generate(context.Background(), "castle")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/obj.png", ref)
}

func TestGenerate_ProviderErrorCarriesStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	})

	_, err := c.Generate(context.Background(), "castle")
	require.Error(t, err)

	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindUpstream, e.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, e.UpstreamStatus)
	assert.Equal(t, "AI service error: 503 Service Unavailable", e.Message)
	assert.Contains(t, e.Error(), "model overloaded")
}

func TestGenerate_MissingData(t *testing.T) {
	bodies := []string{`{}`, `{"data":[]}`, `{"data":[null]}`, `{"data":[""]}`}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := c.Generate(context.Background(), "castle")
			require.True(t, apperr.Is(err, apperr.KindUpstream))
			e, _ := apperr.As(err)
			assert.Equal(t, "No image data received from AI service", e.Message)
		})
	}
}

func TestGenerate_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.Generate(context.Background(), "castle")
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
}

func TestGenerate_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Config{URL: srv.URL, Timeout: 50 * time.Millisecond})

	_, err := c.Generate(context.Background(), "castle")
	require.True(t, apperr.Is(err, apperr.KindUpstream))
	e, _ := apperr.As(err)
	assert.Equal(t, "AI service timed out", e.Message)
	assert.Equal(t, 0, e.UpstreamStatus)
}

func TestGenerate_BadURL(t *testing.T) {
	c := NewClient(Config{URL: "not a url"})

	_, err := c.Generate(context.Background(), "castle")
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
}

func TestDownload_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("PNGDATA"))
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL})
	data, contentType, err := c.Download(context.Background(), srv.URL+"/img.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("PNGDATA"), data)
	assert.Equal(t, "image/png", contentType)
}

func TestDownload_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL})
	_, _, err := c.Download(context.Background(), srv.URL+"/missing.png")
	assert.Error(t, err)
}

func TestDownload_DataURL(t *testing.T) {
	c := NewClient(Config{URL: "http://unused"})
	payload := base64.StdEncoding.EncodeToString([]byte("hello"))

	data, contentType, err := c.Download(context.Background(), "data:image/png;base64,"+payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, "image/png", contentType)

	_, _, err = c.Download(context.Background(), "data:image/png;base64")
	assert.Error(t, err)

	_, _, err = c.Download(context.Background(), "data:image/png;base64,!!!")
	assert.Error(t, err)
}
