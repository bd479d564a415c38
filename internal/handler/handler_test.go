package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/pixelskins/internal/apperr"
	"github.com/templui/pixelskins/internal/db"
	"github.com/templui/pixelskins/internal/moderation"
	"github.com/templui/pixelskins/internal/repository"
	"github.com/templui/pixelskins/internal/service"
)

type stubGenerator struct {
	ref   string
	err   error
	calls int
}

func (g *stubGenerator) Generate(context.Context, string) (string, error) {
	g.calls++
	return g.ref, g.err
}

type testEnv struct {
	db       *sqlx.DB
	gen      *stubGenerator
	generate *service.GenerateService
	mux      *http.ServeMux
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.Open("sqlite", filepath.Join(t.TempDir(), "skins.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	repo := repository.NewSkinRepository(database)
	filter := moderation.NewFilter(nil)
	gen := &stubGenerator{ref: "https://provider/img.png"}

	skinService := service.NewSkinService(repo, filter)
	galleryService := service.NewGalleryService(repo)
	generateService := service.NewGenerateService(gen, repo, filter, nil)

	skins := NewSkinHandler(skinService, galleryService)
	generate := NewGenerateHandler(generateService)
	health := NewHealthHandler(database)
	home := NewHomeHandler(galleryService, "Pixel Skins")

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/card-skins", skins.Manage)
	mux.HandleFunc("GET /api/card-skins", skins.List)
	mux.HandleFunc("POST /api/card-skins/{id}/featured", skins.ToggleFeatured)
	mux.HandleFunc("POST /api/generate-card-skin", generate.Generate)
	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("GET /{$}", home.HomePage)
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	return &testEnv{db: database, gen: gen, generate: generateService, mux: mux}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func TestManage_Create(t *testing.T) {
	env := setup(t)

	status, body := env.do(t, "POST", "/api/card-skins", `{"prompt":"sunset beach","image_url":"http://img/1.png"}`)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	skin := body["cardSkin"].(map[string]any)
	assert.Equal(t, "sunset beach", skin["prompt"])
	assert.Equal(t, "http://img/1.png", skin["image_url"])
	assert.Equal(t, false, skin["is_nsfw"])
	assert.Equal(t, false, skin["is_featured"])
	assert.EqualValues(t, 0, skin["likes"])
	assert.NotEmpty(t, skin["id"])
	assert.NotEmpty(t, skin["created_at"])
}

func TestManage_CreateMissingFields(t *testing.T) {
	env := setup(t)

	for _, body := range []string{`{"prompt":"castle"}`, `{"image_url":"http://img/1.png"}`, `{}`} {
		status, out := env.do(t, "POST", "/api/card-skins", body)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, "Prompt and image_url are required", out["error"])
	}
}

func TestManage_InvalidJSON(t *testing.T) {
	env := setup(t)

	status, out := env.do(t, "POST", "/api/card-skins", `{not json`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, out["success"])
}

func TestManage_FlaggedSkinHiddenFromList(t *testing.T) {
	env := setup(t)

	status, out := env.do(t, "POST", "/api/card-skins", `{"prompt":"explicit nude art","image_url":"http://img/2.png"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["cardSkin"].(map[string]any)["is_nsfw"])

	status, list := env.do(t, "GET", "/api/card-skins", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, list["featuredSkins"])
	assert.Empty(t, list["cardSkins"])
}

func TestManage_Toggle(t *testing.T) {
	env := setup(t)
	_, created := env.do(t, "POST", "/api/card-skins", `{"prompt":"castle","image_url":"http://img/c.png"}`)
	id := created["cardSkin"].(map[string]any)["id"].(string)

	status, out := env.do(t, "POST", "/api/card-skins", `{"action":"toggle-featured","cardId":"`+id+`"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, id, out["cardId"])
	assert.Equal(t, true, out["isFeatured"])

	_, list := env.do(t, "GET", "/api/card-skins", "")
	assert.Len(t, list["featuredSkins"], 1)
	assert.Empty(t, list["cardSkins"])

	status, out = env.do(t, "POST", "/api/card-skins/"+id+"/featured", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, out["isFeatured"])
}

func TestManage_ToggleErrors(t *testing.T) {
	env := setup(t)

	status, out := env.do(t, "POST", "/api/card-skins", `{"action":"toggle-featured"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Card ID is required", out["error"])

	for _, body := range []string{`{"action":"toggle-featured","cardId":0}`, `{"action":"toggle-featured","cardId":""}`} {
		status, out = env.do(t, "POST", "/api/card-skins", body)
		assert.Equal(t, http.StatusBadRequest, status, body)
		assert.Equal(t, "Card ID is required", out["error"], body)
	}

	status, out = env.do(t, "POST", "/api/card-skins", `{"action":"toggle-featured","cardId":42}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Card not found", out["error"])

	status, _ = env.do(t, "POST", "/api/card-skins/nope/featured", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestList_Empty(t *testing.T) {
	env := setup(t)

	status, out := env.do(t, "GET", "/api/card-skins", "")

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, []any{}, out["featuredSkins"])
	assert.Equal(t, []any{}, out["cardSkins"])
}

func TestList_StorageFailureIsGeneric(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.db.Close())

	status, out := env.do(t, "GET", "/api/card-skins", "")

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Failed to fetch card skins", out["error"])
}

func TestGenerate_Success(t *testing.T) {
	env := setup(t)

	status, out := env.do(t, "POST", "/api/generate-card-skin", `{"prompt":"sunset beach"}`)
	env.generate.Wait()

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "https://provider/img.png", out["imageUrl"])
	assert.Equal(t, "sunset beach", out["prompt"])

	_, list := env.do(t, "GET", "/api/card-skins", "")
	assert.Len(t, list["cardSkins"], 1)
}

func TestGenerate_ContentRejected(t *testing.T) {
	env := setup(t)

	status, out := env.do(t, "POST", "/api/generate-card-skin", `{"prompt":"porn castle"}`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperr.ContentRejectedMessage, out["error"])
	assert.Equal(t, 0, env.gen.calls)
}

func TestGenerate_InvalidPrompt(t *testing.T) {
	env := setup(t)

	for _, body := range []string{`{}`, `{"prompt":""}`, `{"prompt":42}`} {
		status, out := env.do(t, "POST", "/api/generate-card-skin", body)
		assert.Equal(t, http.StatusBadRequest, status, body)
		assert.Equal(t, "Valid prompt is required", out["error"], body)
	}
	assert.Equal(t, 0, env.gen.calls)
}

func TestGenerate_UpstreamError(t *testing.T) {
	env := setup(t)
	env.gen.err = apperr.NewUpstream(503, "AI service error: 503 Service Unavailable", errors.New("busy"))

	status, out := env.do(t, "POST", "/api/generate-card-skin", `{"prompt":"castle"}`)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "AI service error: 503 Service Unavailable", out["error"])
}

func TestHealth(t *testing.T) {
	env := setup(t)

	status, out := env.do(t, "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", out["status"])

	require.NoError(t, env.db.Close())
	status, _ = env.do(t, "GET", "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestCardID_Unmarshal(t *testing.T) {
	var req cardSkinRequest

	require.NoError(t, json.Unmarshal([]byte(`{"cardId":"abc"}`), &req))
	assert.Equal(t, cardID("abc"), req.CardID)

	require.NoError(t, json.Unmarshal([]byte(`{"cardId":17}`), &req))
	assert.Equal(t, cardID("17"), req.CardID)

	require.NoError(t, json.Unmarshal([]byte(`{"cardId":0}`), &req))
	assert.Equal(t, cardID(""), req.CardID)

	assert.Error(t, json.Unmarshal([]byte(`{"cardId":true}`), &req))
}

func TestHomePage(t *testing.T) {
	env := setup(t)
	env.do(t, "POST", "/api/card-skins", `{"prompt":"neon city","image_url":"https://img/n.png"}`)

	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "neon city")
	assert.Contains(t, rec.Body.String(), "<title>Pixel Skins</title>")
}

func TestNotFound(t *testing.T) {
	env := setup(t)

	status, out := env.do(t, "GET", "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, out["success"])

	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "404")
}
