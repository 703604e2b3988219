package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawtunes/drawtunes-api/internal/models"
	"github.com/drawtunes/drawtunes-api/internal/music"
	"github.com/drawtunes/drawtunes-api/internal/prompt"
	"github.com/drawtunes/drawtunes-api/internal/services"
	"github.com/drawtunes/drawtunes-api/internal/store/storetest"
	"github.com/drawtunes/drawtunes-api/internal/vision"
	"github.com/drawtunes/drawtunes-api/internal/worker"
)

type testEnv struct {
	router      *gin.Engine
	drawings    *storetest.DrawingStore
	generations *storetest.GenerationStore
	users       *storetest.UserStore
	pool        *worker.Pool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	drawings := storetest.NewDrawingStore()
	generations := storetest.NewGenerationStore()
	users := storetest.NewUserStore()

	registry := music.NewRegistry(music.Credentials{})
	catalog := music.NewCatalog(registry)

	drawingService := services.NewDrawingService(drawings, t.TempDir())
	analysisService := services.NewAnalysisService(drawings, vision.NewFallbackPolicy(nil))
	generationService := services.NewGenerationService(drawings, generations, registry, prompt.NewComposer())
	analyticsService := services.NewAnalyticsService(drawings, generations, users)

	pool := worker.NewPool(16)
	pool.Start(2)
	t.Cleanup(pool.Stop)

	router := gin.New()
	v1 := router.Group("/api/v1")

	drawingHandler := NewDrawingHandler(drawingService, analysisService, pool, 10<<20)
	v1.POST("/drawings/upload", drawingHandler.Upload)
	v1.GET("/drawings", drawingHandler.List)
	v1.GET("/drawings/:id", drawingHandler.Get)
	v1.POST("/drawings/:id/analyze", drawingHandler.Analyze)

	musicHandler := NewMusicHandler(generationService, catalog, pool)
	v1.POST("/music/generate", musicHandler.Generate)
	v1.GET("/music", musicHandler.List)
	v1.GET("/music/providers/available", musicHandler.Providers)
	v1.GET("/music/:id", musicHandler.Get)
	v1.POST("/music/:id/play", musicHandler.Play)
	v1.POST("/music/:id/rate", musicHandler.Rate)

	analyticsHandler := NewAnalyticsHandler(analyticsService)
	v1.GET("/analytics/stats", analyticsHandler.Stats)
	v1.GET("/analytics/trends", analyticsHandler.Trends)

	userHandler := NewUserHandler(users)
	v1.GET("/users", userHandler.List)
	v1.GET("/users/:id", userHandler.Get)

	return &testEnv{
		router:      router,
		drawings:    drawings,
		generations: generations,
		users:       users,
		pool:        pool,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(payload))
	return e.do(t, method, path, &buf, "application/json")
}

func multipartImage(t *testing.T, fieldName, filename string, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, img))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="` + fieldName + `"; filename="` + filename + `"`}
	header["Content-Type"] = []string{"image/png"}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(imgBuf.Bytes())
	require.NoError(t, err)

	for k, v := range extra {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func waitForStatus(t *testing.T, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestUploadEndpoint(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartImage(t, "file", "sketch.png", map[string]string{"title": "My sketch"})
	w := env.do(t, http.MethodPost, "/api/v1/drawings/upload", body, contentType)

	require.Equal(t, http.StatusCreated, w.Code)

	var drawing models.Drawing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &drawing))
	assert.NotEmpty(t, drawing.ID)
	assert.Equal(t, "My sketch", drawing.Title)

	// background analysis completes with the demo analysis
	waitForStatus(t, func() bool {
		stored, err := env.drawings.Get(context.Background(), drawing.ID)
		return err == nil && stored.Status == models.DrawingStatusCompleted
	})
}

func TestUploadDuplicateReturnsExisting(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartImage(t, "file", "a.png", nil)
	first := env.do(t, http.MethodPost, "/api/v1/drawings/upload", body, contentType)
	require.Equal(t, http.StatusCreated, first.Code)

	body2, contentType2 := multipartImage(t, "file", "a.png", nil)
	second := env.do(t, http.MethodPost, "/api/v1/drawings/upload", body2, contentType2)
	assert.Equal(t, http.StatusOK, second.Code)
}

func TestUploadRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := env.do(t, http.MethodPost, "/api/v1/drawings/upload", &body, writer.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadMissingFile(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/v1/drawings/upload", nil, "multipart/form-data")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDrawingNotFound(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/v1/drawings/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListDrawingsFiltersByStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.drawings.Insert(ctx, &models.Drawing{ID: "d1", ImageURL: "a", ImageHash: "h1", Status: models.DrawingStatusCompleted}))
	require.NoError(t, env.drawings.Insert(ctx, &models.Drawing{ID: "d2", ImageURL: "b", ImageHash: "h2", Status: models.DrawingStatusPending}))

	w := env.do(t, http.MethodGet, "/api/v1/drawings?status=completed", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Drawings []models.Drawing `json:"drawings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Drawings, 1)
	assert.Equal(t, "d1", resp.Drawings[0].ID)
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	w := env.do(t, http.MethodPost, "/api/v1/drawings/missing/analyze", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, env.drawings.Insert(ctx, &models.Drawing{ID: "d1", ImageURL: "a", ImageHash: "h1", Status: models.DrawingStatusProcessing}))
	w = env.do(t, http.MethodPost, "/api/v1/drawings/d1/analyze", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateEndToEndWithoutCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	drawing := &models.Drawing{
		ID:             "d1",
		ImageURL:       "a",
		ImageHash:      "h1",
		Status:         models.DrawingStatusCompleted,
		VisualAnalysis: vision.DemoAnalysis(),
	}
	require.NoError(t, env.drawings.Insert(ctx, drawing))

	w := env.doJSON(t, http.MethodPost, "/api/v1/music/generate", gin.H{"drawing_id": "d1", "provider": "suno"})
	require.Equal(t, http.StatusAccepted, w.Code)

	var gen models.MusicGeneration
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gen))
	assert.Equal(t, "d1", gen.DrawingID)
	assert.Equal(t, "suno", gen.Provider)

	// provider has no credential, so the background job completes with the
	// demo result
	waitForStatus(t, func() bool {
		stored, err := env.generations.Get(ctx, gen.ID)
		return err == nil && stored.Status == models.MusicStatusCompleted
	})

	stored, err := env.generations.Get(ctx, gen.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://demo-audio-suno.mp3", stored.AudioURL)
	assert.Equal(t, 45.0, stored.AudioDuration)
}

func TestGenerateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// missing drawing
	w := env.doJSON(t, http.MethodPost, "/api/v1/music/generate", gin.H{"drawing_id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// analysis not completed
	require.NoError(t, env.drawings.Insert(ctx, &models.Drawing{ID: "d1", ImageURL: "a", ImageHash: "h1", Status: models.DrawingStatusPending}))
	w = env.doJSON(t, http.MethodPost, "/api/v1/music/generate", gin.H{"drawing_id": "d1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown provider
	require.NoError(t, env.drawings.Insert(ctx, &models.Drawing{
		ID: "d2", ImageURL: "b", ImageHash: "h2",
		Status: models.DrawingStatusCompleted, VisualAnalysis: vision.DemoAnalysis(),
	}))
	w = env.doJSON(t, http.MethodPost, "/api/v1/music/generate", gin.H{"drawing_id": "d2", "provider": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing drawing_id
	w = env.doJSON(t, http.MethodPost, "/api/v1/music/generate", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProvidersEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/music/providers/available", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Providers []music.ProviderInfo `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// no credentials configured: only demo mode is listed
	require.Len(t, resp.Providers, 1)
	assert.Equal(t, "demo", resp.Providers[0].ID)
}

func TestPlayAndRateEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.generations.Insert(ctx, &models.MusicGeneration{ID: "g1", DrawingID: "d1", Provider: "demo"}))

	w := env.do(t, http.MethodPost, "/api/v1/music/g1/play", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/music/missing/play", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/v1/music/g1/rate", gin.H{"rating": 4.5})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/v1/music/g1/rate", gin.H{"rating": 9.0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/music/g1/rate", bytes.NewBufferString("{}"), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	stored, err := env.generations.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.PlayCount)
	require.NotNil(t, stored.Rating)
	assert.Equal(t, 4.5, *stored.Rating)
}

func TestAnalyticsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.drawings.Insert(ctx, &models.Drawing{ID: "d1", ImageURL: "a", ImageHash: "h1", Status: models.DrawingStatusCompleted}))
	require.NoError(t, env.generations.Insert(ctx, &models.MusicGeneration{ID: "g1", DrawingID: "d1", Provider: "demo", Status: models.MusicStatusCompleted, PlayCount: 2}))

	w := env.do(t, http.MethodGet, "/api/v1/analytics/stats", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"total_plays":2`))

	w = env.do(t, http.MethodGet, "/api/v1/analytics/trends?days=3", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var trends struct {
		PeriodDays int                        `json:"period_days"`
		DailyStats map[string]json.RawMessage `json:"daily_stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trends))
	assert.Equal(t, 3, trends.PeriodDays)
	assert.Len(t, trends.DailyStats, 3)
}

func TestUserEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.users.Insert(ctx, &models.User{ID: "u1", Email: "a@x", Username: "a"}))

	w := env.do(t, http.MethodGet, "/api/v1/users", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"u1"`)

	w = env.do(t, http.MethodGet, "/api/v1/users/u1", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/users/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", NewHealthHandler(nil).HealthCheck)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	registry := music.NewRegistry(music.Credentials{SunoAPIKey: "key"})
	router.GET("/api/metrics", NewMetricsHandler("test", registry).GetMetrics)

	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp MetricsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "test", resp.Version)
	assert.NotEmpty(t, resp.Uptime)
	assert.Equal(t, runtimeProviders(resp), map[string]bool{
		"suno": true, "beatoven": false, "elevenlabs": false, "demo": true,
	})
}

func runtimeProviders(resp MetricsResponse) map[string]bool {
	out := map[string]bool{}
	if raw, ok := resp.API["providers"].(map[string]interface{}); ok {
		for k, v := range raw {
			if b, ok := v.(bool); ok {
				out[k] = b
			}
		}
	}
	return out
}
