package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackrec/records-backend-go/internal/config"
	"github.com/trackrec/records-backend-go/internal/database"
	"github.com/trackrec/records-backend-go/internal/features"
	"github.com/trackrec/records-backend-go/internal/middleware"
	"github.com/trackrec/records-backend-go/internal/models"
	"github.com/trackrec/records-backend-go/internal/recommend"
	"github.com/trackrec/records-backend-go/internal/repository"
	"github.com/trackrec/records-backend-go/internal/service"
	"github.com/trackrec/records-backend-go/internal/storage"
	"github.com/trackrec/records-backend-go/internal/vectorindex"
	"github.com/trackrec/records-backend-go/internal/vectorize"
)

const testSecret = "router-test-secret-0123456789abcdef"

type failingIndex struct{}

func (failingIndex) Search(context.Context, models.FeatureVector, int, *int64) ([]models.Recommendation, error) {
	return nil, fmt.Errorf("connection refused")
}

type harness struct {
	router *gin.Engine
	db     *sql.DB
	users  *repository.UserRepository
	feats  *repository.FeatureRepository
}

func newHarness(t *testing.T, maxUpload int64, brokenIndex bool) *harness {
	t.Helper()
	dir := t.TempDir()

	conn, err := database.Open(database.Config{Driver: database.DriverSQLite, Path: filepath.Join(dir, "api.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, database.Migrate(conn, database.DriverSQLite))

	store, err := storage.NewLocalStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	users := repository.NewUserRepository(conn, database.DriverSQLite)
	tracks := repository.NewTrackRepository(conn, database.DriverSQLite)
	feats := repository.NewFeatureRepository(conn, database.DriverSQLite)
	index := vectorindex.NewMemory()
	vectorizer := vectorize.NewDefault()

	var search recommend.SimilarityIndex = index
	if brokenIndex {
		search = failingIndex{}
	}

	cfg := &config.Config{
		GinMode:        gin.TestMode,
		JWTSecret:      testSecret,
		MaxUploadBytes: maxUpload,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
	svc := Services{
		DB:        conn,
		Tracks:    service.NewTrackService(users, tracks, feats),
		Ingest:    service.NewIngestService(users, tracks, feats, store, index, features.NewBuilder(features.DefaultConfig()), vectorizer, zerolog.Nop()),
		Users:     service.NewUserService(users),
		Recommend: recommend.NewEngine(users, feats, search, vectorizer, zerolog.Nop()),
	}

	r, _ := SetupRouter(cfg, svc, zerolog.Nop())
	return &harness{router: r, db: conn, users: users, feats: feats}
}

func (h *harness) do(t *testing.T, user string, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	if user != "" {
		token, err := middleware.IssueToken([]byte(testSecret), user, "", time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var body map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func upload(t *testing.T, filename string, blob []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(blob)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tracks", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func sampleGPX(n int) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><gpx version="1.1" creator="t" xmlns="http://www.topografix.com/GPX/1/1"><trk><trkseg>`)
	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<trkpt lat="%.5f" lon="13.4"><ele>40</ele><time>%s</time></trkpt>`,
			52.5+float64(i)*0.0004, start.Add(time.Duration(i)*15*time.Second).Format(time.RFC3339))
	}
	b.WriteString(`</trkseg></trk></gpx>`)
	return []byte(b.String())
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t, 1<<20, false)

	w, body := h.do(t, "", httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	w, _ = h.do(t, "", httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "trackrec_")
}

func TestAPIRequiresToken(t *testing.T) {
	h := newHarness(t, 1<<20, false)

	w, body := h.do(t, "", httptest.NewRequest(http.MethodGet, "/api/v1/tracks", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, float64(http.StatusUnauthorized), body["code"])
}

func TestUploadListFeatures(t *testing.T) {
	h := newHarness(t, 1<<20, false)

	w, body := h.do(t, "alice", upload(t, "evening.gpx", sampleGPX(40)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := body["data"].(map[string]any)
	trackID := data["track"].(map[string]any)["id"].(string)
	assert.NotEmpty(t, trackID)
	assert.Equal(t, float64(18), data["features"].(map[string]any)["start_hour_of_day"])

	w, body = h.do(t, "alice", httptest.NewRequest(http.MethodGet, "/api/v1/tracks?page=1&page_size=10", nil))
	require.Equal(t, http.StatusOK, w.Code)
	list := body["data"].(map[string]any)
	assert.Equal(t, float64(1), list["total"])

	w, body = h.do(t, "alice", httptest.NewRequest(http.MethodGet, "/api/v1/tracks/"+trackID+"/features", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, trackID, body["data"].(map[string]any)["track_id"])

	w, _ = h.do(t, "mallory", httptest.NewRequest(http.MethodGet, "/api/v1/tracks/"+trackID+"/features", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = h.do(t, "alice", httptest.NewRequest(http.MethodGet, "/api/v1/tracks/missing/features", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = h.do(t, "alice", httptest.NewRequest(http.MethodGet, "/api/v1/tracks?page=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadRejections(t *testing.T) {
	h := newHarness(t, 4096, false)

	tests := []struct {
		name     string
		filename string
		blob     []byte
		status   int
	}{
		{"unsupported", "notes.txt", []byte("just text"), http.StatusUnsupportedMediaType},
		{"tcx", "ride.tcx", []byte("<TrainingCenterDatabase/>"), http.StatusUnsupportedMediaType},
		{"malformed", "broken.gpx", []byte("<gpx><trk>"), http.StatusUnprocessableEntity},
		{"empty", "empty.gpx", nil, http.StatusBadRequest},
		{"too large", "big.gpx", sampleGPX(200), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := h.do(t, "alice", upload(t, tt.filename, tt.blob))
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tracks", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w, _ := h.do(t, "alice", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpsertMe(t *testing.T) {
	h := newHarness(t, 1<<20, false)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/me", strings.NewReader(`{"username":"al","language_code":"en"}`))
	req.Header.Set("Content-Type", "application/json")
	w, body := h.do(t, "alice", req)

	require.Equal(t, http.StatusOK, w.Code)
	user := body["data"].(map[string]any)
	assert.Equal(t, "alice", user["external_id"])
	assert.Equal(t, "al", user["username"])

	req = httptest.NewRequest(http.MethodPut, "/api/v1/users/me", strings.NewReader(`not json`))
	req.Header.Set("Content-Type", "application/json")
	w, _ = h.do(t, "alice", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendations(t *testing.T) {
	h := newHarness(t, 1<<20, false)

	for _, user := range []string{"alice", "bob"} {
		w, _ := h.do(t, user, upload(t, user+".gpx", sampleGPX(30)))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, body := h.do(t, "alice", httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?include_other_users=true", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 2)

	w, body = h.do(t, "alice", httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["data"])

	w, body = h.do(t, "nobody", httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?top_k=500", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["data"])

	for _, q := range []string{"top_k=0", "top_k=x", "include_other_users=maybe"} {
		w, _ = h.do(t, "alice", httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestRecommendationsIndexDown(t *testing.T) {
	h := newHarness(t, 1<<20, true)

	w, _ := h.do(t, "alice", upload(t, "a.gpx", sampleGPX(30)))
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := h.do(t, "alice", httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, float64(http.StatusBadGateway), body["code"])
}

func TestRecommendationsStoreDown(t *testing.T) {
	h := newHarness(t, 1<<20, false)
	require.NoError(t, h.db.Close())

	w, body := h.do(t, "alice", httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, float64(http.StatusInternalServerError), body["code"])
}
