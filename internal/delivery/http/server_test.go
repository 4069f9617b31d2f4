package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	_ "github.com/geocoding-microservice/docs/swagger"
	"github.com/geocoding-microservice/internal/config"
	deliveryhttp "github.com/geocoding-microservice/internal/delivery/http"
	"github.com/geocoding-microservice/internal/delivery/http/handler"
	"github.com/geocoding-microservice/internal/infrastructure/mapbox"
	"github.com/geocoding-microservice/internal/usecase"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("..", "..", "infrastructure", "mapbox", "testdata", name+".json"))
	require.NoError(t, err)
	return body
}

// upstream отдает фикстуру в зависимости от количества запросов в пути
func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	single := loadFixture(t, "permanent_forward_single_valid")
	multiple := loadFixture(t, "permanent_forward_multiple_valid")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") != "test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Not Authorized - Invalid Token"}`))
			return
		}

		w.Header().Set("Content-Type", "application/vnd.geo+json")
		switch strings.Count(r.URL.EscapedPath(), ";") {
		case 0:
			w.Write(single)
		case 2:
			w.Write(multiple)
		default:
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"unexpected batch"}`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

type failingCheck struct{}

func (failingCheck) Health(context.Context) error { return fmt.Errorf("connection refused") }

func newTestServer(t *testing.T, token string, checks map[string]deliveryhttp.HealthChecker) *deliveryhttp.Server {
	t.Helper()
	logger := zap.NewNop()

	cfg := &config.Config{
		Mapbox: config.MapboxConfig{
			AccessToken:     token,
			BaseURL:         upstream(t).URL,
			APIVersion:      "v5",
			Permanent:       true,
			RequestTimeout:  5,
			MaxBatchQueries: 50,
		},
	}

	geocodeUC := usecase.NewGeocodeUseCase(mapbox.NewMapboxGeocoder(&cfg.Mapbox, logger), nil, logger)

	scheduler := usecase.NewGeocodeBatchScheduler(geocodeUC, logger, 10, 10*time.Millisecond)
	scheduler.Start(context.Background())
	t.Cleanup(scheduler.Stop)

	return deliveryhttp.NewServer(
		cfg,
		logger,
		handler.NewGeocodeHandler(geocodeUC, scheduler, logger),
		handler.NewStatsHandler(geocodeUC, logger),
		checks,
	)
}

func doRequest(t *testing.T, s *deliveryhttp.Server, req *http.Request) (int, map[string]any) {
	t.Helper()

	resp, err := s.App().Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestServer_BatchGeocode(t *testing.T) {
	t.Run("results follow query order", func(t *testing.T) {
		s := newTestServer(t, "test-token", nil)

		status, body := doRequest(t, s, postJSON("/api/v1/batch/geocode",
			`{"queries":["20001","20001","20001"],"countries":["US"]}`))
		require.Equal(t, http.StatusOK, status, body)

		data := body["data"].(map[string]any)
		results := data["results"].([]any)
		require.Len(t, results, 3)
		for i, r := range results {
			res := r.(map[string]any)
			assert.Equal(t, float64(i), res["index"])
			assert.Equal(t, "20001", res["query"])
			assert.Len(t, res["placemarks"], 5)
			assert.Contains(t, res["attribution"], "Mapbox")
		}

		meta := body["meta"].(map[string]any)
		assert.Equal(t, float64(15), meta["total"])
		assert.Equal(t, float64(3), meta["queries"])
		assert.Equal(t, float64(1), meta["batches"])
	})

	t.Run("invalid json", func(t *testing.T) {
		s := newTestServer(t, "test-token", nil)

		status, body := doRequest(t, s, postJSON("/api/v1/batch/geocode", `{"queries":`))
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_REQUEST", errorCode(body))
	})

	t.Run("blank query rejected", func(t *testing.T) {
		s := newTestServer(t, "test-token", nil)

		status, body := doRequest(t, s, postJSON("/api/v1/batch/geocode", `{"queries":["ok","   "]}`))
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_REQUEST", errorCode(body))
	})

	t.Run("empty batch rejected", func(t *testing.T) {
		s := newTestServer(t, "test-token", nil)

		status, _ := doRequest(t, s, postJSON("/api/v1/batch/geocode", `{"queries":[]}`))
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("upstream rejects token", func(t *testing.T) {
		s := newTestServer(t, "wrong-token", nil)

		status, body := doRequest(t, s, postJSON("/api/v1/batch/geocode", `{"queries":["20001"]}`))
		assert.Equal(t, http.StatusBadGateway, status)
		assert.Equal(t, "GEOCODER_BAD_RESPONSE", errorCode(body))

		details := body["error"].(map[string]any)["details"].(map[string]any)
		assert.Equal(t, float64(http.StatusUnauthorized), details["upstream_status"])
	})

	t.Run("missing token", func(t *testing.T) {
		s := newTestServer(t, "", nil)

		status, body := doRequest(t, s, postJSON("/api/v1/batch/geocode", `{"queries":["20001"]}`))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "GEOCODER_MISCONFIGURED", errorCode(body))
	})
}

func TestServer_Geocode(t *testing.T) {
	s := newTestServer(t, "test-token", nil)

	t.Run("scheduled single query", func(t *testing.T) {
		status, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/geocode?q=Toronto&country=ca", nil))
		require.Equal(t, http.StatusOK, status, body)

		data := body["data"].(map[string]any)
		assert.Equal(t, "Toronto", data["query"])
		assert.Len(t, data["placemarks"], 5)
	})

	t.Run("missing query", func(t *testing.T) {
		status, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/geocode", nil))
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_REQUEST", errorCode(body))
	})
}

func TestServer_StatsAndHealth(t *testing.T) {
	t.Run("stats without journal", func(t *testing.T) {
		s := newTestServer(t, "test-token", nil)

		status, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(0), body["data"].(map[string]any)["total_requests"])
	})

	t.Run("healthy", func(t *testing.T) {
		s := newTestServer(t, "test-token", nil)

		status, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy dependency", func(t *testing.T) {
		s := newTestServer(t, "test-token", map[string]deliveryhttp.HealthChecker{"redis": failingCheck{}})

		status, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "unhealthy", body["status"])
		assert.Equal(t, "connection refused", body["dependencies"].(map[string]any)["redis"])
	})
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t, "test-token", nil)

	// хотя бы один пакет, чтобы счетчики появились в выдаче
	status, _ := doRequest(t, s, postJSON("/api/v1/batch/geocode", `{"queries":["20001"]}`))
	require.Equal(t, http.StatusOK, status)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "geocoder_batch_requests_total")
}

func TestServer_SwaggerDoc(t *testing.T) {
	s := newTestServer(t, "test-token", nil)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil), 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc), string(raw))
	assert.Equal(t, "Geocoding Microservice API", doc.Info.Title)
	for _, path := range []string{"/api/v1/batch/geocode", "/api/v1/geocode", "/api/v1/stats", "/api/v1/health", "/metrics"} {
		assert.Contains(t, doc.Paths, path)
	}
}
